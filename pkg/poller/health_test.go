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

package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollHealthCisco(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysNameOID:   "core-sw-01",
			sysUpTimeOID: int64(8640000), // centiseconds: one day
			// Primary CPU instance absent; first fallback answers.
			"1.3.6.1.4.1.9.9.109.1.1.1.1.5": int64(45),
			"1.3.6.1.4.1.9.9.48.1.1.1.5.1":  int64(750),
			"1.3.6.1.4.1.9.9.48.1.1.1.6.1":  int64(250),
			"1.3.6.1.4.1.9.9.13.1.3.1.3.1":  int64(42),
		},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "cisco")
	require.NoError(t, err)

	assert.Equal(t, "core-sw-01", metric.DeviceName)
	assert.Equal(t, int64(86400), metric.UptimeSeconds)

	require.NotNil(t, metric.CPUUsage)
	assert.InEpsilon(t, 45.0, *metric.CPUUsage, 1e-9)

	require.NotNil(t, metric.MemoryUsage)
	assert.InEpsilon(t, 75.0, *metric.MemoryUsage, 1e-9)

	require.NotNil(t, metric.Temperature)
	assert.InEpsilon(t, 42.0, *metric.Temperature, 1e-9)
}

func TestPollHealthMissingUptimeFails(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{sysNameOID: "core-sw-01"},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "cisco")
	assert.Nil(t, metric)
	assert.ErrorIs(t, err, ErrHealthUnavailable)
}

func TestPollHealthMissingSysNameDefaults(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{sysUpTimeOID: int64(100)},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "fortinet")
	require.NoError(t, err)
	assert.Equal(t, "Device1", metric.DeviceName)
	assert.Equal(t, int64(1), metric.UptimeSeconds)
	assert.Nil(t, metric.CPUUsage)
	assert.Nil(t, metric.MemoryUsage)
	assert.Nil(t, metric.Temperature)
}

func TestPollHealthFortinet(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysNameOID:      "fw-01",
			sysUpTimeOID:    int64(500),
			fortinetCPUOID:  int64(12),
			fortinetMemOID:  int64(61),
			fortinetTempOID: int64(38),
		},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "fortinet")
	require.NoError(t, err)

	require.NotNil(t, metric.CPUUsage)
	assert.InEpsilon(t, 12.0, *metric.CPUUsage, 1e-9)
	require.NotNil(t, metric.MemoryUsage)
	assert.InEpsilon(t, 61.0, *metric.MemoryUsage, 1e-9)
	require.NotNil(t, metric.Temperature)
	assert.InEpsilon(t, 38.0, *metric.Temperature, 1e-9)
}

func TestPollHealthMikrotikMemory(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysNameOID:          "mk-01",
			sysUpTimeOID:        int64(1000),
			mikrotikCPUOID:      int64(7),
			mikrotikMemTotalOID: int64(1024),
			mikrotikMemFreeOID:  int64(256),
		},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "mikrotik")
	require.NoError(t, err)

	require.NotNil(t, metric.MemoryUsage)
	assert.InEpsilon(t, 75.0, *metric.MemoryUsage, 1e-9)

	// Mikrotik exposes no temperature.
	assert.Nil(t, metric.Temperature)
}

func TestPollHealthGenericHostResources(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysNameOID:   "linux-01",
			sysUpTimeOID: int64(100),
			hrStorageUsedBase + "7": int64(300),
			hrStorageSizeBase + "7": int64(400),
		},
		walks: map[string]map[string]interface{}{
			hrProcessorLoadTable: {
				hrProcessorLoadTable + ".1": int64(10),
				hrProcessorLoadTable + ".2": int64(30),
			},
			hrStorageTypeTable: {
				hrStorageTypeTable + ".1": "1.3.6.1.2.1.25.2.1.4", // disk
				hrStorageTypeTable + ".7": hrStorageRamType,
			},
		},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "unknown-vendor")
	require.NoError(t, err)

	require.NotNil(t, metric.CPUUsage)
	assert.InEpsilon(t, 20.0, *metric.CPUUsage, 1e-9)

	require.NotNil(t, metric.MemoryUsage)
	assert.InEpsilon(t, 75.0, *metric.MemoryUsage, 1e-9)
}

func TestCiscoTemperatureSensorTableFallback(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysNameOID:                 "core-sw-01",
			sysUpTimeOID:               int64(100),
			ciscoSensorValueBase + "5": int64(24500),
		},
		walks: map[string]map[string]interface{}{
			ciscoSensorTypeTable: {
				ciscoSensorTypeTable + ".4": int64(4), // volts
				ciscoSensorTypeTable + ".5": int64(ciscoSensorCelsius),
			},
		},
	}

	p := newTestPoller(client)

	metric, err := p.PollHealth(1, "cisco")
	require.NoError(t, err)

	require.NotNil(t, metric.Temperature)
	assert.InEpsilon(t, 24.5, *metric.Temperature, 1e-9)
}

func TestScaleCiscoTemp(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{"millidegrees", 24500, 24.5},
		{"tenths", 245, 24.5},
		{"plain degrees", 24, 24},
		{"boundary 150", 150, 150},
		{"boundary 1000", 1000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InEpsilon(t, tt.expected, scaleCiscoTemp(tt.raw), 1e-9)
		})
	}
}
