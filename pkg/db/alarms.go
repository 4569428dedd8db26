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
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netmon/pkg/models"
)

const (
	defaultActiveAlarmLimit = 100
	defaultRecentAlarmLimit = 500
	defaultRecentAlarmDays  = 7
)

const alarmColumns = `id, device_id, device_name, type, severity, message,
	acknowledged, acknowledged_at, acknowledged_by, resolved, resolved_at,
	metadata, created_at`

func scanAlarm(row pgx.Row) (*models.Alarm, error) {
	var a models.Alarm

	err := row.Scan(&a.ID, &a.DeviceID, &a.DeviceName, &a.Type, &a.Severity,
		&a.Message, &a.Acknowledged, &a.AcknowledgedAt, &a.AcknowledgedBy,
		&a.Resolved, &a.ResolvedAt, &a.Metadata, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlarmNotFound
		}

		return nil, fmt.Errorf("scan alarm: %w", err)
	}

	return &a, nil
}

func scanAlarms(rows pgx.Rows) ([]*models.Alarm, error) {
	defer rows.Close()

	var alarms []*models.Alarm

	for rows.Next() {
		alarm, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}

		alarms = append(alarms, alarm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alarms: %w", err)
	}

	return alarms, nil
}

// CreateAlarm persists an alarm and assigns its id. This write is the
// authoritative record; the upstream API mirror happens after it succeeds.
func (d *DB) CreateAlarm(ctx context.Context, alarm *models.Alarm) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO alarms (device_id, device_name, type, severity, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		alarm.DeviceID, alarm.DeviceName, alarm.Type, alarm.Severity,
		alarm.Message, alarm.Metadata, alarm.CreatedAt,
	).Scan(&alarm.ID)
	if err != nil {
		return fmt.Errorf("create alarm for device %d: %w", alarm.DeviceID, err)
	}

	d.log.Info().
		Int64("alarm_id", alarm.ID).
		Int("device_id", alarm.DeviceID).
		Str("type", string(alarm.Type)).
		Str("severity", string(alarm.Severity)).
		Msg("alarm created")

	return nil
}

// GetAlarmByID fetches one alarm, ErrAlarmNotFound when absent.
func (d *DB) GetAlarmByID(ctx context.Context, id int64) (*models.Alarm, error) {
	return scanAlarm(d.pool.QueryRow(ctx,
		`SELECT `+alarmColumns+` FROM alarms WHERE id = $1`, id))
}

// ActiveAlarmFilter narrows GetActiveAlarms. Zero values mean "any".
type ActiveAlarmFilter struct {
	DeviceID int
	Severity models.AlarmSeverity
	Limit    int
}

// GetActiveAlarms returns unresolved alarms newest-first.
func (d *DB) GetActiveAlarms(ctx context.Context, filter ActiveAlarmFilter) ([]*models.Alarm, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActiveAlarmLimit
	}

	query := `SELECT ` + alarmColumns + ` FROM alarms WHERE NOT resolved`
	args := []interface{}{}

	if filter.DeviceID > 0 {
		args = append(args, filter.DeviceID)
		query += fmt.Sprintf(" AND device_id = $%d", len(args))
	}

	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active alarms: %w", err)
	}

	return scanAlarms(rows)
}

// GetRecentAlarms returns alarms created within the last N days, resolved or
// not, newest-first.
func (d *DB) GetRecentAlarms(ctx context.Context, days, deviceID, limit int) ([]*models.Alarm, error) {
	if days <= 0 {
		days = defaultRecentAlarmDays
	}

	if limit <= 0 {
		limit = defaultRecentAlarmLimit
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	query := `SELECT ` + alarmColumns + ` FROM alarms WHERE created_at >= $1`
	args := []interface{}{since}

	if deviceID > 0 {
		args = append(args, deviceID)
		query += fmt.Sprintf(" AND device_id = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent alarms: %w", err)
	}

	return scanAlarms(rows)
}

// GetActiveAlarmsByType returns unresolved alarms of one type newest-first.
func (d *DB) GetActiveAlarmsByType(ctx context.Context, alarmType models.AlarmType) ([]*models.Alarm, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT `+alarmColumns+` FROM alarms
		WHERE NOT resolved AND type = $1
		ORDER BY created_at DESC`, alarmType)
	if err != nil {
		return nil, fmt.Errorf("list active alarms by type: %w", err)
	}

	return scanAlarms(rows)
}

// AcknowledgeAlarm marks an alarm acknowledged by an actor.
func (d *DB) AcknowledgeAlarm(ctx context.Context, id int64, actor string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE alarms
		SET acknowledged = TRUE, acknowledged_at = now(), acknowledged_by = $2
		WHERE id = $1`, id, actor)
	if err != nil {
		return fmt.Errorf("acknowledge alarm %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("acknowledge alarm %d: %w", id, ErrAlarmNotFound)
	}

	return nil
}

// ResolveAlarm marks an alarm resolved.
func (d *DB) ResolveAlarm(ctx context.Context, id int64) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE alarms
		SET resolved = TRUE, resolved_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("resolve alarm %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resolve alarm %d: %w", id, ErrAlarmNotFound)
	}

	return nil
}
