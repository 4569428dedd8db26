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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netmon/pkg/models"
)

const deviceColumns = `id, name, ip_address, vendor, snmp_version, snmp_port,
	snmp_community, polling_enabled, connection_status, last_polled, last_online`

func scanDevice(row pgx.Row) (*models.Device, error) {
	var d models.Device

	err := row.Scan(&d.ID, &d.Name, &d.IPAddress, &d.Vendor, &d.SNMPVersion,
		&d.SNMPPort, &d.SNMPCommunity, &d.PollingEnabled, &d.ConnectionStatus,
		&d.LastPolled, &d.LastOnline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}

		return nil, fmt.Errorf("scan device: %w", err)
	}

	return &d, nil
}

// CreateDevice inserts a device and assigns its id.
func (d *DB) CreateDevice(ctx context.Context, device *models.Device) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO devices (name, ip_address, vendor, snmp_version, snmp_port,
			snmp_community, polling_enabled, connection_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		device.Name, device.IPAddress, device.Vendor, device.SNMPVersion,
		device.SNMPPort, device.SNMPCommunity, device.PollingEnabled,
		device.ConnectionStatus,
	).Scan(&device.ID)
	if err != nil {
		return fmt.Errorf("create device %s: %w", device.Name, err)
	}

	d.log.Info().Int("device_id", device.ID).Str("device", device.Name).Msg("device created")

	return nil
}

// GetDeviceByID fetches one device, ErrDeviceNotFound when absent.
func (d *DB) GetDeviceByID(ctx context.Context, id int) (*models.Device, error) {
	return scanDevice(d.pool.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id))
}

// GetDeviceByName fetches one device by its unique name.
func (d *DB) GetDeviceByName(ctx context.Context, name string) (*models.Device, error) {
	return scanDevice(d.pool.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE name = $1`, name))
}

// GetEnabledDevices returns every device with polling enabled, ordered by id.
func (d *DB) GetEnabledDevices(ctx context.Context) ([]*models.Device, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE polling_enabled ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list enabled devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device

	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}

		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enabled devices: %w", err)
	}

	return devices, nil
}

// UpdateDeviceStatus sets connection_status, stamping last_polled always and
// last_online only when the device is online.
func (d *DB) UpdateDeviceStatus(ctx context.Context, deviceID int, status string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE devices
		SET connection_status = $2,
			last_polled = now(),
			last_online = CASE WHEN $2 = $3 THEN now() ELSE last_online END
		WHERE id = $1`,
		deviceID, status, models.StatusOnline)
	if err != nil {
		return fmt.Errorf("update device %d status: %w", deviceID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update device %d status: %w", deviceID, ErrDeviceNotFound)
	}

	return nil
}
