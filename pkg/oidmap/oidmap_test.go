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

package oidmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBijection(t *testing.T) {
	m := New()

	// name→OID and OID→name must be inverse over the whole catalog.
	for oid, mapping := range m.byOID {
		assert.Equal(t, oid, m.OIDByName(mapping.Name), "name %s should map back to %s", mapping.Name, oid)

		back, ok := m.MappingByName(mapping.Name)
		require.True(t, ok)
		assert.Equal(t, mapping, back)
	}
}

func TestWellKnownEntries(t *testing.T) {
	m := New()

	tests := []struct {
		name string
		oid  string
	}{
		{"sysDescr", "1.3.6.1.2.1.1.1.0"},
		{"sysUpTime", "1.3.6.1.2.1.1.3.0"},
		{"sysName", "1.3.6.1.2.1.1.5.0"},
		{"ifOperStatus", "1.3.6.1.2.1.2.2.1.8"},
		{"ifInErrors", "1.3.6.1.2.1.2.2.1.14"},
		{"cpmCPUTotal1min", "1.3.6.1.4.1.9.9.109.1.1.1.1.5"},
		{"fgSysCpuUsage", "1.3.6.1.4.1.12356.101.13.2.1.1.2"},
		{"mtxrHlCpuLoad", "1.3.6.1.4.1.14988.1.1.3.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.oid, m.OIDByName(tt.name))
		})
	}
}

func TestSysUpTimeConversionFactor(t *testing.T) {
	m := New()

	mapping, ok := m.MappingByName("sysUpTime")
	require.True(t, ok)
	assert.InEpsilon(t, 0.01, mapping.ConversionFactor, 1e-9)
}

func TestInterfaceOIDs(t *testing.T) {
	m := New()

	ifOIDs := m.InterfaceOIDs()
	assert.Len(t, ifOIDs, 11)

	for _, mapping := range ifOIDs {
		assert.Equal(t, "generic", mapping.Vendor)
	}
}

func TestHealthOIDsForVendor(t *testing.T) {
	m := New()

	cisco := m.HealthOIDsForVendor("Cisco")
	assert.NotEmpty(t, cisco)

	for _, mapping := range cisco {
		assert.Equal(t, "cisco", mapping.Vendor)
	}

	// Mikrotik does not expose temperature.
	_, hasTemp := m.MappingByName("mtxrTemperature")
	assert.False(t, hasTemp)
}

func TestOIDsForVendorIncludesGeneric(t *testing.T) {
	m := New()

	all := m.OIDsForVendor("fortinet")

	_, hasSysDescr := all["1.3.6.1.2.1.1.1.0"]
	assert.True(t, hasSysDescr)

	_, hasFgCPU := all["1.3.6.1.4.1.12356.101.13.2.1.1.2"]
	assert.True(t, hasFgCPU)

	_, hasCisco := all["1.3.6.1.4.1.9.9.48.1.1.1.5"]
	assert.False(t, hasCisco)
}

func TestJSONRoundTrip(t *testing.T) {
	m := New()

	data, err := m.ExportJSON()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "oids.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, m.byOID, loaded.byOID)
	assert.Equal(t, m.byName, loaded.byName)
}

func TestOverrideReplacesBuiltins(t *testing.T) {
	override := `{
		"1.2.3.4": {"oid": "1.2.3.4", "name": "customMetric", "description": "test", "metric_type": "gauge"}
	}`

	path := filepath.Join(t.TempDir(), "override.json")
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	m, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "1.2.3.4", m.OIDByName("customMetric"))
	assert.Empty(t, m.OIDByName("sysDescr"))

	mapping, ok := m.MappingByOID("1.2.3.4")
	require.True(t, ok)
	assert.InEpsilon(t, 1.0, mapping.ConversionFactor, 1e-9) // default applied
}

func TestMissingOverrideFileFallsBack(t *testing.T) {
	m, err := NewFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, New().Len(), m.Len())
}
