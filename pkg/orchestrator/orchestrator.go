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

// Package orchestrator drives the polling loop: it fans registered devices
// out to a bounded worker pool, drains observations into the alarm engine,
// persists to the database and mirrors to the upstream API. Per-device work
// runs behind a fault barrier so one bad device cannot stall the fleet.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/carverauto/netmon/pkg/alarm"
	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/models"
	"github.com/carverauto/netmon/pkg/poller"
)

const cycleRetryPause = 5 * time.Second

// Store is the persistence surface the orchestrator needs; *db.DB
// satisfies it.
type Store interface {
	GetEnabledDevices(ctx context.Context) ([]*models.Device, error)
	UpdateDeviceStatus(ctx context.Context, deviceID int, status string) error
	CreateAlarm(ctx context.Context, alarm *models.Alarm) error
	SaveInterfaceMetrics(ctx context.Context, metrics []*models.InterfaceMetric) error
	SaveHealthMetrics(ctx context.Context, metric *models.DeviceHealthMetric) error
	SaveInventory(ctx context.Context, inv *models.DeviceInventory) error
}

// Upstream is the mirror-only API surface; *api.Client satisfies it.
type Upstream interface {
	CreateAlarm(ctx context.Context, alarm *models.Alarm) map[string]interface{}
	UpdateDeviceStatus(ctx context.Context, deviceID int, status string) bool
	SendMetrics(ctx context.Context, deviceID int, metricType string, data interface{}) bool
	Close()
}

// DevicePoller is the observation source; *poller.Poller satisfies it.
type DevicePoller interface {
	Register(dc poller.DeviceConfig)
	Unregister(deviceID int)
	Devices() []poller.DeviceConfig
	PollInterfaces(deviceID int) ([]*models.InterfaceMetric, error)
	PollHealth(deviceID int, vendor string) (*models.DeviceHealthMetric, error)
	PollInventory(deviceID int) (*models.DeviceInventory, error)
	CloseAll()
}

// Orchestrator owns the poller, alarm engine and API client for the life of
// the process.
type Orchestrator struct {
	cfg      *config.Config
	store    Store
	engine   *alarm.Engine
	poller   DevicePoller
	upstream Upstream
	log      logger.Logger

	mu            sync.Mutex
	lastInventory map[int]time.Time
}

// New wires the orchestrator. Callers run RegisterDevices before Run.
func New(cfg *config.Config, store Store, engine *alarm.Engine, devicePoller DevicePoller,
	upstream Upstream, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:           cfg,
		store:         store,
		engine:        engine,
		poller:        devicePoller,
		upstream:      upstream,
		log:           log,
		lastInventory: make(map[int]time.Time),
	}
}

// RegisterDevices loads every polling-enabled device from the database into
// the poller and returns the count.
func (o *Orchestrator) RegisterDevices(ctx context.Context) (int, error) {
	devices, err := o.store.GetEnabledDevices(ctx)
	if err != nil {
		return 0, err
	}

	for _, device := range devices {
		o.poller.Register(poller.DeviceConfig{
			ID:        device.ID,
			Name:      device.Name,
			IPAddress: device.IPAddress,
			Vendor:    device.Vendor,
			Community: device.SNMPCommunity,
			Version:   device.SNMPVersion,
			Port:      device.SNMPPort,
			Enabled:   device.PollingEnabled,
		})
	}

	o.log.Info().Int("devices", len(devices)).Msg("devices registered from database")

	return len(devices), nil
}

// UnregisterDevice drops a device's session and its alarm state.
func (o *Orchestrator) UnregisterDevice(deviceID int) {
	o.poller.Unregister(deviceID)
	o.engine.ClearDevice(deviceID)

	o.mu.Lock()
	delete(o.lastInventory, deviceID)
	o.mu.Unlock()
}

// Run executes polling cycles until the context is canceled. The current
// cycle completes before shutdown; a cycle failure pauses briefly and
// continues.
func (o *Orchestrator) Run(ctx context.Context) {
	o.log.Info().
		Dur("interval", o.cfg.Polling.InterfaceInterval).
		Msg("polling loop started")

	for {
		pause := o.cfg.Polling.InterfaceInterval

		if err := o.RunCycle(ctx); err != nil {
			o.log.Error().Err(err).Msg("polling cycle failed")

			pause = cycleRetryPause
		}

		select {
		case <-ctx.Done():
			o.log.Info().Msg("polling loop stopped")
			return
		case <-time.After(pause):
		}
	}
}

// RunCycle polls every registered device once through the worker pool.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	start := time.Now()
	devices := o.poller.Devices()

	workers := o.cfg.SNMP.MaxConcurrentPollers
	if workers < 1 {
		workers = 1
	}

	if workers > len(devices) {
		workers = len(devices)
	}

	jobs := make(chan poller.DeviceConfig)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for dc := range jobs {
				o.pollDevice(ctx, dc)
			}
		}()
	}

	for _, dc := range devices {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()

			return ctx.Err()
		case jobs <- dc:
		}
	}

	close(jobs)
	wg.Wait()

	o.log.Debug().
		Int("devices", len(devices)).
		Dur("elapsed", time.Since(start)).
		Msg("polling cycle complete")

	return nil
}

// pollDevice is the per-device fault barrier.
func (o *Orchestrator) pollDevice(ctx context.Context, dc poller.DeviceConfig) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().
				Str("device", dc.Name).
				Interface("panic", r).
				Msg("device poll panicked")
		}
	}()

	online := false
	markedOnline := false

	markOnline := func() {
		online = true

		if markedOnline {
			return
		}

		markedOnline = true

		if err := o.store.UpdateDeviceStatus(ctx, dc.ID, models.StatusOnline); err != nil {
			o.log.Error().Str("device", dc.Name).Err(err).Msg("failed to mark device online")
		}

		o.upstream.UpdateDeviceStatus(ctx, dc.ID, models.StatusOnline)
	}

	metrics, err := o.poller.PollInterfaces(dc.ID)
	if err != nil {
		o.log.Warn().Str("device", dc.Name).Err(err).Msg("interface poll failed")
	}

	if len(metrics) > 0 {
		markOnline()
		o.maybePollInventory(ctx, dc)

		for _, metric := range metrics {
			for _, a := range o.engine.EvaluateInterface(dc.Name, metric) {
				o.persistAlarm(ctx, a)
			}
		}

		if err := o.store.SaveInterfaceMetrics(ctx, metrics); err != nil {
			o.log.Error().Str("device", dc.Name).Err(err).Msg("failed to save interface metrics")
		}
	}

	health, err := o.poller.PollHealth(dc.ID, dc.Vendor)
	if err != nil {
		o.log.Warn().Str("device", dc.Name).Err(err).Msg("health poll failed")
	}

	if health != nil {
		markOnline()

		for _, a := range o.engine.EvaluateHealth(health) {
			o.persistAlarm(ctx, a)
		}

		if err := o.store.SaveHealthMetrics(ctx, health); err != nil {
			o.log.Error().Str("device", dc.Name).Err(err).Msg("failed to save health metrics")
		}

		o.upstream.SendMetrics(ctx, dc.ID, "health", map[string]interface{}{
			"cpu_usage":      health.CPUUsage,
			"memory_usage":   health.MemoryUsage,
			"temperature":    health.Temperature,
			"uptime_seconds": health.UptimeSeconds,
		})
	}

	if !online {
		if err := o.store.UpdateDeviceStatus(ctx, dc.ID, models.StatusOffline); err != nil {
			o.log.Error().Str("device", dc.Name).Err(err).Msg("failed to mark device offline")
		}

		o.upstream.UpdateDeviceStatus(ctx, dc.ID, models.StatusOffline)

		if a := o.engine.DeviceUnreachable(dc.ID, dc.Name); a != nil {
			o.persistAlarm(ctx, a)
		}

		return
	}

	if a := o.engine.DeviceReachable(dc.ID, dc.Name); a != nil {
		o.persistAlarm(ctx, a)
	}
}

// maybePollInventory runs the slow inventory poll when the per-device
// interval has elapsed.
func (o *Orchestrator) maybePollInventory(ctx context.Context, dc poller.DeviceConfig) {
	now := time.Now()

	o.mu.Lock()
	last, polled := o.lastInventory[dc.ID]
	o.mu.Unlock()

	if polled && now.Sub(last) <= o.cfg.Polling.InventoryInterval {
		return
	}

	inv, err := o.poller.PollInventory(dc.ID)
	if err != nil {
		o.log.Warn().Str("device", dc.Name).Err(err).Msg("inventory poll failed")
		return
	}

	if err := o.store.SaveInventory(ctx, inv); err != nil {
		o.log.Error().Str("device", dc.Name).Err(err).Msg("failed to save inventory")
		return
	}

	o.mu.Lock()
	o.lastInventory[dc.ID] = now
	o.mu.Unlock()

	o.log.Info().Str("device", dc.Name).Msg("inventory updated")
}

// persistAlarm writes the authoritative database record, then mirrors to
// the API only when the write succeeded.
func (o *Orchestrator) persistAlarm(ctx context.Context, a *models.Alarm) {
	if err := o.store.CreateAlarm(ctx, a); err != nil {
		o.log.Error().
			Int("device_id", a.DeviceID).
			Str("type", string(a.Type)).
			Err(err).
			Msg("failed to persist alarm, skipping API mirror")

		return
	}

	o.upstream.CreateAlarm(ctx, a)
}

// Shutdown closes sessions and the API client. The database pool is closed
// by the caller that opened it.
func (o *Orchestrator) Shutdown() {
	o.log.Info().Msg("shutting down")
	o.poller.CloseAll()
	o.upstream.Close()
}
