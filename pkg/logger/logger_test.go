/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "nil config uses defaults",
			config: nil,
		},
		{
			name:   "debug overrides level",
			config: &Config{Level: "error", Debug: true},
		},
		{
			name:   "stderr output",
			config: &Config{Level: "warn", Output: "stderr"},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "loud"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewLogger(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestWithComponent(t *testing.T) {
	log := NewTestLogger()

	child := log.WithComponent("poller")
	assert.NotNil(t, child)

	// Child must still satisfy the interface and emit without panicking.
	child.Info().Str("device", "sw1").Msg("test")
}
