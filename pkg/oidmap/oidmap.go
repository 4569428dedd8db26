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

// Package oidmap is the static catalog mapping numeric OIDs to semantic
// metric names across the supported vendors. The catalog is immutable after
// process start and safe for concurrent reads.
package oidmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Metric types recognized by the catalog.
const (
	TypeGauge   = "gauge"
	TypeCounter = "counter"
	TypeString  = "string"
	TypeBits    = "bits"
)

// Mapping is one catalog entry.
type Mapping struct {
	OID              string  `json:"oid"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	MetricType       string  `json:"metric_type"`
	Unit             string  `json:"unit,omitempty"`
	Vendor           string  `json:"vendor,omitempty"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// Manager holds the OID catalog and provides bidirectional lookup.
type Manager struct {
	byOID  map[string]Mapping
	byName map[string]string
}

// New builds a Manager from the builtin vendor tables.
func New() *Manager {
	m := &Manager{
		byOID:  make(map[string]Mapping),
		byName: make(map[string]string),
	}

	m.register(genericOIDs())
	m.register(ciscoOIDs())
	m.register(fortinetOIDs())
	m.register(mikrotikOIDs())

	return m
}

// NewFromFile builds a Manager from a JSON override file. The file replaces
// the builtin catalog entirely. A missing file falls back to the builtins.
func NewFromFile(path string) (*Manager, error) {
	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}

		return nil, fmt.Errorf("oidmap: read %s: %w", path, err)
	}

	var entries map[string]Mapping
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("oidmap: parse %s: %w", path, err)
	}

	m := &Manager{
		byOID:  make(map[string]Mapping, len(entries)),
		byName: make(map[string]string, len(entries)),
	}

	for oid, mapping := range entries {
		if mapping.OID == "" {
			mapping.OID = oid
		}

		if mapping.ConversionFactor == 0 {
			mapping.ConversionFactor = 1.0
		}

		m.byOID[mapping.OID] = mapping
		m.byName[mapping.Name] = mapping.OID
	}

	return m, nil
}

func (m *Manager) register(mappings []Mapping) {
	for _, mapping := range mappings {
		m.byOID[mapping.OID] = mapping
		m.byName[mapping.Name] = mapping.OID
	}
}

// OIDByName returns the numeric OID for a metric name, or "" when unknown.
func (m *Manager) OIDByName(name string) string {
	return m.byName[name]
}

// MappingByOID returns the catalog entry for a numeric OID.
func (m *Manager) MappingByOID(oid string) (Mapping, bool) {
	mapping, ok := m.byOID[oid]
	return mapping, ok
}

// MappingByName returns the catalog entry for a metric name.
func (m *Manager) MappingByName(name string) (Mapping, bool) {
	oid, ok := m.byName[name]
	if !ok {
		return Mapping{}, false
	}

	return m.MappingByOID(oid)
}

// InterfaceOIDs returns the generic IF-MIB entries.
func (m *Manager) InterfaceOIDs() map[string]Mapping {
	out := make(map[string]Mapping)

	for oid, mapping := range m.byOID {
		if mapping.Vendor == "generic" && strings.HasPrefix(mapping.Name, "if") {
			out[oid] = mapping
		}
	}

	return out
}

// HealthOIDsForVendor returns the CPU/memory/temperature entries for one
// vendor.
func (m *Manager) HealthOIDsForVendor(vendor string) map[string]Mapping {
	vendor = strings.ToLower(vendor)
	out := make(map[string]Mapping)

	for oid, mapping := range m.byOID {
		if mapping.Vendor != vendor {
			continue
		}

		lower := strings.ToLower(mapping.Name)
		if strings.Contains(lower, "cpu") || strings.Contains(lower, "mem") ||
			strings.Contains(lower, "temp") || strings.Contains(lower, "sensor") ||
			strings.Contains(lower, "busy") {
			out[oid] = mapping
		}
	}

	return out
}

// OIDsForVendor returns everything a vendor can answer: its own entries plus
// the generic ones.
func (m *Manager) OIDsForVendor(vendor string) map[string]Mapping {
	vendor = strings.ToLower(vendor)
	out := make(map[string]Mapping)

	for oid, mapping := range m.byOID {
		if mapping.Vendor == vendor || mapping.Vendor == "generic" {
			out[oid] = mapping
		}
	}

	return out
}

// Len reports the number of catalog entries.
func (m *Manager) Len() int {
	return len(m.byOID)
}

// ExportJSON serializes the catalog in the override-file format.
func (m *Manager) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(m.byOID, "", "  ")
}
