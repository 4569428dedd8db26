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

// Builtin catalog tables. Adding a new vendor only requires editing this
// file (or shipping an override via VENDOR_OID_CONFIG_PATH).

func genericOIDs() []Mapping {
	return []Mapping{
		{OID: "1.3.6.1.2.1.1.1.0", Name: "sysDescr", Description: "System description", MetricType: TypeString, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.1.3.0", Name: "sysUpTime", Description: "System uptime in ticks (10ms)", MetricType: TypeCounter, Unit: "ticks", Vendor: "generic", ConversionFactor: 0.01},
		{OID: "1.3.6.1.2.1.1.5.0", Name: "sysName", Description: "System name (hostname)", MetricType: TypeString, Vendor: "generic", ConversionFactor: 1.0},

		{OID: "1.3.6.1.2.1.2.2.1.1", Name: "ifIndex", Description: "Interface index", MetricType: TypeGauge, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.2", Name: "ifDescr", Description: "Interface description", MetricType: TypeString, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.3", Name: "ifType", Description: "Interface type", MetricType: TypeGauge, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.4", Name: "ifMtu", Description: "Interface MTU", MetricType: TypeGauge, Unit: "bytes", Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.5", Name: "ifSpeed", Description: "Interface speed in bits per second", MetricType: TypeGauge, Unit: "bps", Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.7", Name: "ifAdminStatus", Description: "Interface administrative status (1=up, 2=down, 3=testing)", MetricType: TypeGauge, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.8", Name: "ifOperStatus", Description: "Interface operational status (1=up, 2=down, 3=testing)", MetricType: TypeGauge, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.10", Name: "ifInOctets", Description: "Octets received on the interface", MetricType: TypeCounter, Unit: "octets", Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.14", Name: "ifInErrors", Description: "Inbound packets discarded for errors", MetricType: TypeCounter, Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.16", Name: "ifOutOctets", Description: "Octets sent on the interface", MetricType: TypeCounter, Unit: "octets", Vendor: "generic", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.2.2.1.20", Name: "ifOutErrors", Description: "Outbound packets discarded for errors", MetricType: TypeCounter, Vendor: "generic", ConversionFactor: 1.0},
	}
}

func ciscoOIDs() []Mapping {
	return []Mapping{
		{OID: "1.3.6.1.4.1.9.9.109.1.1.1.1.3", Name: "cpmCPUTotal5sec", Description: "Cisco CPU usage 5-second average", MetricType: TypeGauge, Unit: "%", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.109.1.1.1.1.5", Name: "cpmCPUTotal1min", Description: "Cisco CPU usage 1-minute average", MetricType: TypeGauge, Unit: "%", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.2.1.58.0", Name: "avgBusy1", Description: "Cisco legacy CPU 1-minute average", MetricType: TypeGauge, Unit: "%", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.48.1.1.1.5", Name: "ciscoMemoryPoolUsed", Description: "Cisco memory pool used", MetricType: TypeGauge, Unit: "bytes", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.48.1.1.1.6", Name: "ciscoMemoryPoolFree", Description: "Cisco memory pool free", MetricType: TypeGauge, Unit: "bytes", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.13.1.3.1.3", Name: "ciscoEnvMonTemperatureValue", Description: "Temperature reading in Celsius", MetricType: TypeGauge, Unit: "celsius", Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.91.1.1.1.1.1", Name: "entSensorType", Description: "Entity sensor type (8=celsius)", MetricType: TypeGauge, Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.9.9.91.1.1.1.1.4", Name: "entSensorValue", Description: "Entity sensor value", MetricType: TypeGauge, Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.47.1.1.1.1.11", Name: "entPhysicalSerialNum", Description: "Physical entity serial number", MetricType: TypeString, Vendor: "cisco", ConversionFactor: 1.0},
		{OID: "1.3.6.1.2.1.47.1.1.1.1.13", Name: "entPhysicalModelName", Description: "Physical entity model name", MetricType: TypeString, Vendor: "cisco", ConversionFactor: 1.0},
	}
}

func fortinetOIDs() []Mapping {
	return []Mapping{
		{OID: "1.3.6.1.4.1.12356.101.13.2.1.1.2", Name: "fgSysCpuUsage", Description: "FortiGate CPU usage", MetricType: TypeGauge, Unit: "%", Vendor: "fortinet", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.12356.101.13.2.1.2.1", Name: "fgSysMemUsage", Description: "FortiGate memory usage", MetricType: TypeGauge, Unit: "%", Vendor: "fortinet", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.12356.101.13.2.1.3.1", Name: "fgSysTemperature", Description: "FortiGate temperature", MetricType: TypeGauge, Unit: "celsius", Vendor: "fortinet", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.12356.100.1.1.1.0", Name: "fnSysSerial", Description: "Fortinet serial number", MetricType: TypeString, Vendor: "fortinet", ConversionFactor: 1.0},
	}
}

func mikrotikOIDs() []Mapping {
	return []Mapping{
		{OID: "1.3.6.1.4.1.14988.1.1.3.2", Name: "mtxrHlCpuLoad", Description: "MikroTik CPU load percentage", MetricType: TypeGauge, Unit: "%", Vendor: "mikrotik", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.14988.1.1.3.3", Name: "mtxrHlMemSize", Description: "MikroTik total memory", MetricType: TypeGauge, Unit: "bytes", Vendor: "mikrotik", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.14988.1.1.3.4", Name: "mtxrHlMemFree", Description: "MikroTik free memory", MetricType: TypeGauge, Unit: "bytes", Vendor: "mikrotik", ConversionFactor: 1.0},
		{OID: "1.3.6.1.4.1.14988.1.1.4.4.0", Name: "mtxrFirmwareVersion", Description: "MikroTik firmware version", MetricType: TypeString, Vendor: "mikrotik", ConversionFactor: 1.0},
	}
}
