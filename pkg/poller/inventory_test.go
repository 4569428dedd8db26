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

func TestPollInventoryCisco(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysDescrOID: "Cisco IOS Software, C2960 Software, Version 15.2(2)E8, RELEASE SOFTWARE",
		},
		walks: map[string]map[string]interface{}{
			entPhysicalSerialTable: {
				entPhysicalSerialTable + ".1": "",
				entPhysicalSerialTable + ".2": "FOC1234X56Y",
			},
			entPhysicalModelTable: {
				entPhysicalModelTable + ".1": "WS-C2960-24TT-L",
			},
		},
	}

	p := newTestPoller(client)

	inv, err := p.PollInventory(1)
	require.NoError(t, err)

	assert.Equal(t, "cisco", inv.Vendor)
	assert.Equal(t, "FOC1234X56Y", inv.SerialNumber)
	assert.Equal(t, "WS-C2960-24TT-L", inv.Model)
	assert.Equal(t, "15.2(2)E8", inv.FirmwareVersion)
}

func TestPollInventoryFortinet(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysDescrOID:       "FortiGate-60E v6.4.5,build1828",
			fortinetSerialOID: "FGT60E1234567890",
		},
	}

	p := newTestPoller(client)

	inv, err := p.PollInventory(1)
	require.NoError(t, err)

	assert.Equal(t, "fortinet", inv.Vendor)
	assert.Equal(t, "FGT60E1234567890", inv.SerialNumber)
	assert.Empty(t, inv.Model)
}

func TestPollInventoryMikrotik(t *testing.T) {
	client := &fakeClient{
		values: map[string]interface{}{
			sysDescrOID:         "RouterOS RB750Gr3 MikroTik",
			mikrotikFirmwareOID: "6.48.6",
		},
	}

	p := newTestPoller(client)

	inv, err := p.PollInventory(1)
	require.NoError(t, err)

	assert.Equal(t, "mikrotik", inv.Vendor)
	assert.Equal(t, "6.48.6", inv.FirmwareVersion)
}

func TestPollInventoryMissingSysDescrAborts(t *testing.T) {
	client := &fakeClient{}
	p := newTestPoller(client)

	inv, err := p.PollInventory(1)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, ErrInventoryUnavailable)
}

func TestClassifyVendor(t *testing.T) {
	tests := []struct {
		name     string
		sysDescr string
		expected string
	}{
		{"cisco ios", "Cisco IOS Software", "cisco"},
		{"fortigate", "FortiGate-100F", "fortinet"},
		{"fortinet", "Fortinet appliance", "fortinet"},
		{"mikrotik", "RouterOS MikroTik", "mikrotik"},
		{"unknown", "Linux ubuntu 5.15.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyVendor(tt.sysDescr))
		})
	}
}
