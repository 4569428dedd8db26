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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carverauto/netmon/pkg/models"
	"github.com/carverauto/netmon/pkg/snmp"
)

// Vendor-specific OID chains, tried in order until one parses.
var (
	ciscoCPUOIDs = []string{
		"1.3.6.1.4.1.9.9.109.1.1.1.1.5.1",
		"1.3.6.1.4.1.9.9.109.1.1.1.1.5",
		"1.3.6.1.4.1.9.2.1.58.0",
	}
	ciscoMemUsedOIDs = []string{"1.3.6.1.4.1.9.9.48.1.1.1.5.1", "1.3.6.1.4.1.9.9.48.1.1.1.5"}
	ciscoMemFreeOIDs = []string{"1.3.6.1.4.1.9.9.48.1.1.1.6.1", "1.3.6.1.4.1.9.9.48.1.1.1.6"}
	ciscoTempOIDs    = []string{
		"1.3.6.1.4.1.9.9.13.1.3.1.3.1",
		"1.3.6.1.4.1.9.9.13.1.3.1.3.1004",
		"1.3.6.1.4.1.9.9.13.1.3.1.3.1001",
	}
)

const (
	ciscoEnvmonTempTable = "1.3.6.1.4.1.9.9.13.1.3.1.3"
	ciscoSensorTypeTable = "1.3.6.1.4.1.9.9.91.1.1.1.1.1"
	ciscoSensorValueBase = "1.3.6.1.4.1.9.9.91.1.1.1.1.4."
	ciscoSensorCelsius   = 8

	fortinetCPUOID  = "1.3.6.1.4.1.12356.101.13.2.1.1.2"
	fortinetMemOID  = "1.3.6.1.4.1.12356.101.13.2.1.2.1"
	fortinetTempOID = "1.3.6.1.4.1.12356.101.13.2.1.3.1"

	mikrotikCPUOID      = "1.3.6.1.4.1.14988.1.1.3.2"
	mikrotikMemTotalOID = "1.3.6.1.4.1.14988.1.1.3.3"
	mikrotikMemFreeOID  = "1.3.6.1.4.1.14988.1.1.3.4"

	hrProcessorLoadTable = "1.3.6.1.2.1.25.3.3.1.2"
	hrStorageTypeTable   = "1.3.6.1.2.1.25.2.3.1.2"
	hrStorageSizeBase    = "1.3.6.1.2.1.25.2.3.1.5."
	hrStorageUsedBase    = "1.3.6.1.2.1.25.2.3.1.6."
	hrStorageRamType     = "1.3.6.1.2.1.25.2.1.2"
)

// PollHealth fetches uptime plus the vendor-appropriate CPU, memory and
// temperature readings. Missing metrics come back nil; a missing sysUpTime
// fails the whole poll.
func (p *Poller) PollHealth(deviceID int, vendor string) (*models.DeviceHealthMetric, error) {
	session, dc, err := p.session(deviceID)
	if err != nil {
		return nil, err
	}

	sysName, err := session.Get(sysNameOID)
	if err != nil {
		return nil, fmt.Errorf("health poll: %w", err)
	}

	ticks, err := session.Get(sysUpTimeOID)
	if err != nil {
		return nil, fmt.Errorf("health poll: %w", err)
	}

	if ticks == nil {
		p.log.Warn().Str("device", dc.Name).Msg("device did not answer sysUpTime")
		return nil, fmt.Errorf("%w: no sysUpTime from %s", ErrHealthUnavailable, dc.Name)
	}

	upTimeFactor := 0.01
	if mapping, ok := p.oids.MappingByName("sysUpTime"); ok && mapping.ConversionFactor > 0 {
		upTimeFactor = mapping.ConversionFactor
	}

	deviceName := snmp.SafeString(sysName)
	if deviceName == "" {
		deviceName = fmt.Sprintf("Device%d", deviceID)
	}

	metric := &models.DeviceHealthMetric{
		DeviceID:      deviceID,
		DeviceName:    deviceName,
		UptimeSeconds: int64(float64(snmp.SafeInt64(ticks, 0)) * upTimeFactor),
		Timestamp:     time.Now().UTC(),
	}

	switch strings.ToLower(vendor) {
	case models.VendorCisco:
		metric.CPUUsage = firstFloat(session, ciscoCPUOIDs...)
		metric.MemoryUsage = ciscoMemoryUsage(session)
		metric.Temperature = ciscoTemperature(session)
	case models.VendorFortinet:
		metric.CPUUsage = firstFloat(session, fortinetCPUOID)
		metric.MemoryUsage = firstFloat(session, fortinetMemOID)
		metric.Temperature = firstFloat(session, fortinetTempOID)
	case models.VendorMikrotik:
		metric.CPUUsage = firstFloat(session, mikrotikCPUOID)
		metric.MemoryUsage = mikrotikMemoryUsage(session)
	default:
		metric.CPUUsage = hostResourcesCPU(session)
		metric.MemoryUsage = hostResourcesMemory(session)
	}

	p.log.Debug().
		Str("device", dc.Name).
		Int64("uptime_seconds", metric.UptimeSeconds).
		Msg("health poll complete")

	return metric, nil
}

// firstFloat tries OIDs in order and returns the first value the safe-float
// helper accepts. Transport errors on one OID fall through to the next.
func firstFloat(session snmp.Client, oids ...string) *float64 {
	for _, oid := range oids {
		value, err := session.Get(oid)
		if err != nil {
			continue
		}

		if f := snmp.SafeFloat(value); f != nil {
			return f
		}
	}

	return nil
}

func ciscoMemoryUsage(session snmp.Client) *float64 {
	used := firstFloat(session, ciscoMemUsedOIDs...)
	free := firstFloat(session, ciscoMemFreeOIDs...)

	if used == nil || free == nil {
		return nil
	}

	total := *used + *free
	if total <= 0 {
		return nil
	}

	return models.Float64Ptr(*used / total * 100)
}

// ciscoTemperature tries the fixed envmon instances, then the entity-sensor
// table filtered to Celsius sensors, then a plain envmon walk.
func ciscoTemperature(session snmp.Client) *float64 {
	if t := firstFloat(session, ciscoTempOIDs...); t != nil {
		return models.Float64Ptr(scaleCiscoTemp(*t))
	}

	types, err := session.Walk(ciscoSensorTypeTable)
	if err == nil {
		for _, oid := range sortedKeys(types) {
			if snmp.SafeInt(types[oid], 0) != ciscoSensorCelsius {
				continue
			}

			idx := oid[strings.LastIndex(oid, ".")+1:]

			if t := firstFloat(session, ciscoSensorValueBase+idx); t != nil {
				return models.Float64Ptr(scaleCiscoTemp(*t))
			}
		}
	}

	rows, err := session.Walk(ciscoEnvmonTempTable)
	if err != nil {
		return nil
	}

	for _, oid := range sortedKeys(rows) {
		if t := snmp.SafeFloat(rows[oid]); t != nil {
			return models.Float64Ptr(scaleCiscoTemp(*t))
		}
	}

	return nil
}

// scaleCiscoTemp normalizes mixed sensor units: millidegrees and
// tenths-of-degree readings both appear in the wild.
func scaleCiscoTemp(raw float64) float64 {
	switch {
	case raw > 1000:
		return raw / 1000
	case raw > 150:
		return raw / 10
	default:
		return raw
	}
}

func mikrotikMemoryUsage(session snmp.Client) *float64 {
	total := firstFloat(session, mikrotikMemTotalOID)
	free := firstFloat(session, mikrotikMemFreeOID)

	if total == nil || free == nil || *total <= 0 {
		return nil
	}

	return models.Float64Ptr((*total - *free) / *total * 100)
}

// hostResourcesCPU averages the per-processor load column.
func hostResourcesCPU(session snmp.Client) *float64 {
	rows, err := session.Walk(hrProcessorLoadTable)
	if err != nil || len(rows) == 0 {
		return nil
	}

	var sum float64

	var count int

	for _, v := range rows {
		if f := snmp.SafeFloat(v); f != nil {
			sum += *f
			count++
		}
	}

	if count == 0 {
		return nil
	}

	return models.Float64Ptr(sum / float64(count))
}

// hostResourcesMemory finds the hrStorageRam row and computes used/size.
func hostResourcesMemory(session snmp.Client) *float64 {
	types, err := session.Walk(hrStorageTypeTable)
	if err != nil {
		return nil
	}

	for _, oid := range sortedKeys(types) {
		typeOID := strings.TrimPrefix(snmp.SafeString(types[oid]), ".")
		if typeOID != hrStorageRamType {
			continue
		}

		idx := oid[strings.LastIndex(oid, ".")+1:]

		used := firstFloat(session, hrStorageUsedBase+idx)
		size := firstFloat(session, hrStorageSizeBase+idx)

		if used == nil || size == nil || *size <= 0 {
			return nil
		}

		return models.Float64Ptr(*used / *size * 100)
	}

	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
