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

// Package models defines the domain records shared across the service.
package models

import (
	"strings"
	"time"
)

// AlarmSeverity classifies alarm urgency.
type AlarmSeverity string

const (
	SeverityInfo     AlarmSeverity = "info"
	SeverityWarning  AlarmSeverity = "warning"
	SeverityCritical AlarmSeverity = "critical"
)

// AlarmType classifies the condition an alarm reports.
type AlarmType string

const (
	AlarmPortDown           AlarmType = "port_down"
	AlarmPortUp             AlarmType = "port_up"
	AlarmDeviceUnreachable  AlarmType = "device_unreachable"
	AlarmDeviceReachable    AlarmType = "device_reachable"
	AlarmCPUHigh            AlarmType = "cpu_high"
	AlarmMemoryHigh         AlarmType = "memory_high"
	AlarmTemperatureHigh    AlarmType = "temperature_high"
	AlarmFanFailure         AlarmType = "fan_failure"
	AlarmPowerSupplyFailure AlarmType = "power_supply_failure"
)

// Connection status values stored on a device row.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusUnknown = "unknown"
)

// Vendor tags recognized by the poller.
const (
	VendorGeneric  = "generic"
	VendorCisco    = "cisco"
	VendorFortinet = "fortinet"
	VendorMikrotik = "mikrotik"
)

// Device is a monitored endpoint.
type Device struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	IPAddress        string     `json:"ip_address"`
	Vendor           string     `json:"vendor"`
	SNMPVersion      string     `json:"snmp_version"`
	SNMPPort         int        `json:"snmp_port"`
	SNMPCommunity    string     `json:"snmp_community"`
	PollingEnabled   bool       `json:"polling_enabled"`
	ConnectionStatus string     `json:"connection_status"`
	LastPolled       *time.Time `json:"last_polled,omitempty"`
	LastOnline       *time.Time `json:"last_online,omitempty"`
}

// InterfaceMetric is one interface sample from a polling cycle.
type InterfaceMetric struct {
	DeviceID       int       `json:"device_id"`
	InterfaceIndex int       `json:"interface_index"`
	InterfaceName  string    `json:"interface_name"`
	Description    string    `json:"description"`
	AdminStatus    string    `json:"admin_status"`
	OperStatus     string    `json:"oper_status"`
	Speed          int64     `json:"speed"`
	MTU            int       `json:"mtu"`
	InOctets       int64     `json:"in_octets"`
	OutOctets      int64     `json:"out_octets"`
	InErrors       int64     `json:"in_errors"`
	OutErrors      int64     `json:"out_errors"`
	Timestamp      time.Time `json:"timestamp"`
}

// IsPortDown reports the alarm condition: administratively up but
// operationally down.
func (m *InterfaceMetric) IsPortDown() bool {
	return strings.EqualFold(m.AdminStatus, "up") && strings.EqualFold(m.OperStatus, "down")
}

// DeviceHealthMetric is one health sample from a polling cycle. CPU, memory
// and temperature are nil when the device does not expose them.
type DeviceHealthMetric struct {
	DeviceID      int       `json:"device_id"`
	DeviceName    string    `json:"device_name"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	CPUUsage      *float64  `json:"cpu_usage,omitempty"`
	MemoryUsage   *float64  `json:"memory_usage,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// DeviceInventory holds the slower-changing hardware attributes.
type DeviceInventory struct {
	DeviceID        int       `json:"device_id"`
	SysDescr        string    `json:"sys_descr"`
	SerialNumber    string    `json:"serial_number,omitempty"`
	FirmwareVersion string    `json:"firmware_version,omitempty"`
	Vendor          string    `json:"vendor,omitempty"`
	Model           string    `json:"model,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Alarm is one event record. ID is zero until the alarm is persisted.
type Alarm struct {
	ID             int64                  `json:"id,omitempty"`
	DeviceID       int                    `json:"device_id"`
	DeviceName     string                 `json:"device_name"`
	Type           AlarmType              `json:"type"`
	Severity       AlarmSeverity          `json:"severity"`
	Message        string                 `json:"message"`
	Acknowledged   bool                   `json:"acknowledged"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string                 `json:"acknowledged_by,omitempty"`
	Resolved       bool                   `json:"resolved"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Float64Ptr is a convenience helper for optional metric values.
func Float64Ptr(v float64) *float64 { return &v }
