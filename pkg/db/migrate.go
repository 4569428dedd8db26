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
)

// Idempotent create-if-missing statements, applied in order at startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		id                SERIAL PRIMARY KEY,
		name              TEXT NOT NULL UNIQUE,
		ip_address        TEXT NOT NULL,
		vendor            TEXT NOT NULL DEFAULT 'generic',
		snmp_version      TEXT NOT NULL DEFAULT '2c',
		snmp_port         INTEGER NOT NULL DEFAULT 161,
		snmp_community    TEXT NOT NULL DEFAULT 'public',
		polling_enabled   BOOLEAN NOT NULL DEFAULT TRUE,
		connection_status TEXT NOT NULL DEFAULT 'unknown',
		last_polled       TIMESTAMPTZ,
		last_online       TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS alarms (
		id              BIGSERIAL PRIMARY KEY,
		device_id       INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		device_name     TEXT NOT NULL,
		type            TEXT NOT NULL,
		severity        TEXT NOT NULL,
		message         TEXT NOT NULL,
		acknowledged    BOOLEAN NOT NULL DEFAULT FALSE,
		acknowledged_at TIMESTAMPTZ,
		acknowledged_by TEXT NOT NULL DEFAULT '',
		resolved        BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_at     TIMESTAMPTZ,
		metadata        JSONB,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_device_id ON alarms (device_id)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_severity ON alarms (severity)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_created_at ON alarms (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_resolved ON alarms (resolved) WHERE NOT resolved`,

	`CREATE TABLE IF NOT EXISTS interfaces (
		id           SERIAL PRIMARY KEY,
		device_id    INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		description  TEXT,
		admin_status TEXT,
		oper_status  TEXT,
		speed        BIGINT NOT NULL DEFAULT 0,
		mtu          INTEGER NOT NULL DEFAULT 1500,
		in_octets    BIGINT NOT NULL DEFAULT 0,
		out_octets   BIGINT NOT NULL DEFAULT 0,
		in_errors    BIGINT NOT NULL DEFAULT 0,
		out_errors   BIGINT NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (device_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS interface_metrics (
		id              BIGSERIAL PRIMARY KEY,
		device_id       INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		interface_index INTEGER NOT NULL,
		interface_name  TEXT NOT NULL,
		admin_status    TEXT,
		oper_status     TEXT,
		speed           BIGINT NOT NULL DEFAULT 0,
		in_octets       BIGINT NOT NULL DEFAULT 0,
		out_octets      BIGINT NOT NULL DEFAULT 0,
		in_errors       BIGINT NOT NULL DEFAULT 0,
		out_errors      BIGINT NOT NULL DEFAULT 0,
		collected_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interface_metrics_lookup
		ON interface_metrics (device_id, interface_index, collected_at DESC)`,

	`CREATE TABLE IF NOT EXISTS device_health_metrics (
		id             BIGSERIAL PRIMARY KEY,
		device_id      INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		device_name    TEXT NOT NULL DEFAULT '',
		uptime_seconds BIGINT NOT NULL DEFAULT 0,
		cpu_usage      DOUBLE PRECISION,
		memory_usage   DOUBLE PRECISION,
		temperature    DOUBLE PRECISION,
		collected_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_health_metrics_lookup
		ON device_health_metrics (device_id, collected_at DESC)`,

	`CREATE TABLE IF NOT EXISTS device_inventory (
		device_id        INTEGER PRIMARY KEY REFERENCES devices(id) ON DELETE CASCADE,
		sys_descr        TEXT NOT NULL,
		serial_number    TEXT,
		firmware_version TEXT,
		vendor           TEXT,
		model            TEXT,
		vendor_model     TEXT,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate hydrates the schema. Every statement is idempotent, so running at
// each startup is safe.
func (d *DB) Migrate(ctx context.Context) error {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("migrate: acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	d.log.Info().Int("statements", len(schemaStatements)).Msg("database schema ready")

	return nil
}
