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

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netmon/pkg/models"
)

// SaveInterfaceMetrics appends one row per sample to the time series and
// upserts the interfaces snapshot keyed on (device_id, name).
func (d *DB) SaveInterfaceMetrics(ctx context.Context, metrics []*models.InterfaceMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO interface_metrics (device_id, interface_index, interface_name,
				admin_status, oper_status, speed, in_octets, out_octets,
				in_errors, out_errors, collected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			m.DeviceID, m.InterfaceIndex, m.InterfaceName, m.AdminStatus,
			m.OperStatus, m.Speed, m.InOctets, m.OutOctets, m.InErrors,
			m.OutErrors, m.Timestamp)

		batch.Queue(`
			INSERT INTO interfaces (device_id, name, description, admin_status,
				oper_status, speed, mtu, in_octets, out_octets, in_errors,
				out_errors, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (device_id, name) DO UPDATE SET
				description = EXCLUDED.description,
				admin_status = EXCLUDED.admin_status,
				oper_status = EXCLUDED.oper_status,
				speed = EXCLUDED.speed,
				mtu = EXCLUDED.mtu,
				in_octets = EXCLUDED.in_octets,
				out_octets = EXCLUDED.out_octets,
				in_errors = EXCLUDED.in_errors,
				out_errors = EXCLUDED.out_errors,
				last_updated = EXCLUDED.last_updated`,
			m.DeviceID, m.InterfaceName, m.Description, m.AdminStatus,
			m.OperStatus, m.Speed, m.MTU, m.InOctets, m.OutOctets,
			m.InErrors, m.OutErrors, m.Timestamp)
	}

	if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save interface metrics: %w", err)
	}

	d.log.Debug().
		Int("device_id", metrics[0].DeviceID).
		Int("interfaces", len(metrics)).
		Msg("interface metrics saved")

	return nil
}

// SaveHealthMetrics appends one health sample.
func (d *DB) SaveHealthMetrics(ctx context.Context, m *models.DeviceHealthMetric) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO device_health_metrics (device_id, device_name, uptime_seconds,
			cpu_usage, memory_usage, temperature, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.DeviceID, m.DeviceName, m.UptimeSeconds, m.CPUUsage, m.MemoryUsage,
		m.Temperature, m.Timestamp)
	if err != nil {
		return fmt.Errorf("save health metrics for device %d: %w", m.DeviceID, err)
	}

	return nil
}

// GetLatestHealth returns health samples for a device within the last N
// hours, newest-first.
func (d *DB) GetLatestHealth(ctx context.Context, deviceID, hours int) ([]*models.DeviceHealthMetric, error) {
	if hours <= 0 {
		hours = 24
	}

	rows, err := d.pool.Query(ctx, `
		SELECT device_id, device_name, uptime_seconds, cpu_usage, memory_usage,
			temperature, collected_at
		FROM device_health_metrics
		WHERE device_id = $1 AND collected_at >= now() - make_interval(hours => $2)
		ORDER BY collected_at DESC`, deviceID, hours)
	if err != nil {
		return nil, fmt.Errorf("latest health for device %d: %w", deviceID, err)
	}
	defer rows.Close()

	var metrics []*models.DeviceHealthMetric

	for rows.Next() {
		var m models.DeviceHealthMetric

		err := rows.Scan(&m.DeviceID, &m.DeviceName, &m.UptimeSeconds,
			&m.CPUUsage, &m.MemoryUsage, &m.Temperature, &m.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan health metric: %w", err)
		}

		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest health for device %d: %w", deviceID, err)
	}

	return metrics, nil
}

// SaveInventory upserts the single inventory row per device. vendor_model is
// the "vendor model" concatenation when both are known.
func (d *DB) SaveInventory(ctx context.Context, inv *models.DeviceInventory) error {
	vendorModel := strings.TrimSpace(inv.Vendor + " " + inv.Model)

	_, err := d.pool.Exec(ctx, `
		INSERT INTO device_inventory (device_id, sys_descr, serial_number,
			firmware_version, vendor, model, vendor_model, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (device_id) DO UPDATE SET
			sys_descr = EXCLUDED.sys_descr,
			serial_number = EXCLUDED.serial_number,
			firmware_version = EXCLUDED.firmware_version,
			vendor = EXCLUDED.vendor,
			model = EXCLUDED.model,
			vendor_model = EXCLUDED.vendor_model,
			updated_at = EXCLUDED.updated_at`,
		inv.DeviceID, inv.SysDescr, inv.SerialNumber, inv.FirmwareVersion,
		inv.Vendor, inv.Model, vendorModel, inv.Timestamp)
	if err != nil {
		return fmt.Errorf("save inventory for device %d: %w", inv.DeviceID, err)
	}

	d.log.Debug().Int("device_id", inv.DeviceID).Msg("inventory saved")

	return nil
}
