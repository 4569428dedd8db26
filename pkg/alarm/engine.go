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

// Package alarm implements the edge-triggered alarm engine. Evaluation is a
// pure function of (current observation, previous state); the engine does no
// I/O and emits an event only when a condition transitions.
package alarm

import (
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/models"
)

// KeyDeviceHealth and KeyDeviceReachability are the fixed metric keys;
// interface keys are derived per ifIndex.
const (
	KeyDeviceHealth       = "device_health"
	KeyDeviceReachability = "device_reachability"
)

// InterfaceKey derives the metric key for one interface.
func InterfaceKey(ifIndex int) string {
	return fmt.Sprintf("iface_%d", ifIndex)
}

type stateKey struct {
	DeviceID int
	Key      string
}

// PreviousState is the last evaluated condition for one (device, key) slot.
// A missing slot is treated as all-false, so a device first observed in a
// bad state immediately emits its alarm.
type PreviousState struct {
	IsPortDown      bool
	CPUHigh         bool
	MemoryHigh      bool
	TemperatureHigh bool
	Unreachable     bool
	CPUUsage        *float64
	MemoryUsage     *float64
	Temperature     *float64
	UpdatedAt       time.Time
}

// Thresholds are the resource limits evaluated with >=.
type Thresholds struct {
	CPU         float64
	Memory      float64
	Temperature float64
}

// Engine owns the per-(device, key) state map. Safe for concurrent use;
// the orchestrator guarantees a device is only evaluated by one worker at a
// time, but distinct devices evaluate in parallel.
type Engine struct {
	mu         sync.Mutex
	thresholds Thresholds
	prev       map[stateKey]PreviousState
	log        logger.Logger
}

// NewEngine builds an engine with thresholds from configuration.
func NewEngine(cfg *config.AlarmConfig, log logger.Logger) *Engine {
	return &Engine{
		thresholds: Thresholds{
			CPU:         cfg.CPUThreshold,
			Memory:      cfg.MemoryThreshold,
			Temperature: cfg.TemperatureThreshold,
		},
		prev: make(map[stateKey]PreviousState),
		log:  log,
	}
}

// EvaluateInterface compares one interface sample against the stored state
// and returns port_down / port_up events on transitions.
func (e *Engine) EvaluateInterface(deviceName string, metric *models.InterfaceMetric) []*models.Alarm {
	key := stateKey{DeviceID: metric.DeviceID, Key: InterfaceKey(metric.InterfaceIndex)}
	isDown := metric.IsPortDown()

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.prev[key]

	var alarms []*models.Alarm

	switch {
	case isDown && !prev.IsPortDown:
		alarms = append(alarms, &models.Alarm{
			DeviceID:   metric.DeviceID,
			DeviceName: deviceName,
			Type:       models.AlarmPortDown,
			Severity:   models.SeverityCritical,
			Message:    fmt.Sprintf("Port %s (%s) is down", metric.InterfaceName, metric.Description),
			Metadata: map[string]interface{}{
				"interface_index": metric.InterfaceIndex,
				"interface_name":  metric.InterfaceName,
				"admin_status":    metric.AdminStatus,
				"oper_status":     metric.OperStatus,
			},
			CreatedAt: time.Now().UTC(),
		})
	case !isDown && prev.IsPortDown:
		alarms = append(alarms, &models.Alarm{
			DeviceID:   metric.DeviceID,
			DeviceName: deviceName,
			Type:       models.AlarmPortUp,
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("Port %s (%s) is up", metric.InterfaceName, metric.Description),
			Metadata: map[string]interface{}{
				"interface_index": metric.InterfaceIndex,
				"interface_name":  metric.InterfaceName,
				"admin_status":    metric.AdminStatus,
				"oper_status":     metric.OperStatus,
			},
			CreatedAt: time.Now().UTC(),
		})
	}

	prev.IsPortDown = isDown
	prev.UpdatedAt = time.Now().UTC()
	e.prev[key] = prev

	return alarms
}

// EvaluateHealth compares one health sample against the stored state and
// returns resource alarms on rising edges. A nil measurement leaves its flag
// untouched and emits nothing; a falling edge clears the flag silently.
func (e *Engine) EvaluateHealth(metric *models.DeviceHealthMetric) []*models.Alarm {
	key := stateKey{DeviceID: metric.DeviceID, Key: KeyDeviceHealth}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.prev[key]

	var alarms []*models.Alarm

	if metric.CPUUsage != nil {
		high := *metric.CPUUsage >= e.thresholds.CPU
		if high && !prev.CPUHigh {
			alarms = append(alarms, e.resourceAlarm(metric, models.AlarmCPUHigh, models.SeverityWarning,
				fmt.Sprintf("CPU usage %.1f%% exceeded threshold %.1f%%", *metric.CPUUsage, e.thresholds.CPU),
				*metric.CPUUsage, e.thresholds.CPU))
		}

		prev.CPUHigh = high
		prev.CPUUsage = metric.CPUUsage
	}

	if metric.MemoryUsage != nil {
		high := *metric.MemoryUsage >= e.thresholds.Memory
		if high && !prev.MemoryHigh {
			alarms = append(alarms, e.resourceAlarm(metric, models.AlarmMemoryHigh, models.SeverityWarning,
				fmt.Sprintf("Memory usage %.1f%% exceeded threshold %.1f%%", *metric.MemoryUsage, e.thresholds.Memory),
				*metric.MemoryUsage, e.thresholds.Memory))
		}

		prev.MemoryHigh = high
		prev.MemoryUsage = metric.MemoryUsage
	}

	if metric.Temperature != nil {
		high := *metric.Temperature >= e.thresholds.Temperature
		if high && !prev.TemperatureHigh {
			alarms = append(alarms, e.resourceAlarm(metric, models.AlarmTemperatureHigh, models.SeverityCritical,
				fmt.Sprintf("Temperature %.1fC exceeded threshold %.1fC", *metric.Temperature, e.thresholds.Temperature),
				*metric.Temperature, e.thresholds.Temperature))
		}

		prev.TemperatureHigh = high
		prev.Temperature = metric.Temperature
	}

	prev.UpdatedAt = time.Now().UTC()
	e.prev[key] = prev

	return alarms
}

func (e *Engine) resourceAlarm(metric *models.DeviceHealthMetric, alarmType models.AlarmType,
	severity models.AlarmSeverity, message string, value, threshold float64) *models.Alarm {
	return &models.Alarm{
		DeviceID:   metric.DeviceID,
		DeviceName: metric.DeviceName,
		Type:       alarmType,
		Severity:   severity,
		Message:    message,
		Metadata: map[string]interface{}{
			"value":     value,
			"threshold": threshold,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// DeviceUnreachable records a failed reachability probe, emitting one
// critical alarm on the transition into the unreachable state.
func (e *Engine) DeviceUnreachable(deviceID int, deviceName string) *models.Alarm {
	key := stateKey{DeviceID: deviceID, Key: KeyDeviceReachability}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.prev[key]
	wasUnreachable := prev.Unreachable

	prev.Unreachable = true
	prev.UpdatedAt = time.Now().UTC()
	e.prev[key] = prev

	if wasUnreachable {
		return nil
	}

	return &models.Alarm{
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Type:       models.AlarmDeviceUnreachable,
		Severity:   models.SeverityCritical,
		Message:    fmt.Sprintf("Device %s is unreachable", deviceName),
		CreatedAt:  time.Now().UTC(),
	}
}

// DeviceReachable records a successful cycle, emitting one info alarm on the
// transition out of the unreachable state.
func (e *Engine) DeviceReachable(deviceID int, deviceName string) *models.Alarm {
	key := stateKey{DeviceID: deviceID, Key: KeyDeviceReachability}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.prev[key]
	wasUnreachable := prev.Unreachable

	prev.Unreachable = false
	prev.UpdatedAt = time.Now().UTC()
	e.prev[key] = prev

	if !wasUnreachable {
		return nil
	}

	return &models.Alarm{
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Type:       models.AlarmDeviceReachable,
		Severity:   models.SeverityInfo,
		Message:    fmt.Sprintf("Device %s is reachable", deviceName),
		CreatedAt:  time.Now().UTC(),
	}
}

// ClearDevice drops all state slots for a device, used when a device is
// unregistered so re-adding it starts from a clean slate.
func (e *Engine) ClearDevice(deviceID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key := range e.prev {
		if key.DeviceID == deviceID {
			delete(e.prev, key)
		}
	}

	e.log.Debug().Int("device_id", deviceID).Msg("alarm state cleared")
}

// State returns a copy of the stored slot for inspection.
func (e *Engine) State(deviceID int, key string) (PreviousState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.prev[stateKey{DeviceID: deviceID, Key: key}]

	return prev, ok
}
