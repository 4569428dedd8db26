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

package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/models"
)

func newTestEngine() *Engine {
	return NewEngine(&config.AlarmConfig{
		CPUThreshold:         80.0,
		MemoryThreshold:      80.0,
		TemperatureThreshold: 80.0,
	}, logger.NewTestLogger())
}

func ifaceSample(deviceID, ifIndex int, admin, oper string) *models.InterfaceMetric {
	return &models.InterfaceMetric{
		DeviceID:       deviceID,
		InterfaceIndex: ifIndex,
		InterfaceName:  "eth0",
		Description:    "GigabitEthernet0/1",
		AdminStatus:    admin,
		OperStatus:     oper,
	}
}

func healthSample(deviceID int, cpu, mem, temp *float64) *models.DeviceHealthMetric {
	return &models.DeviceHealthMetric{
		DeviceID:    deviceID,
		DeviceName:  "router-01",
		CPUUsage:    cpu,
		MemoryUsage: mem,
		Temperature: temp,
	}
}

func TestPortFlap(t *testing.T) {
	e := newTestEngine()

	alarms := e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down"))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmPortDown, alarms[0].Type)
	assert.Equal(t, models.SeverityCritical, alarms[0].Severity)
	assert.Equal(t, "Port eth0 (GigabitEthernet0/1) is down", alarms[0].Message)
	assert.Equal(t, 3, alarms[0].Metadata["interface_index"])

	alarms = e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "up"))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmPortUp, alarms[0].Type)
	assert.Equal(t, models.SeverityInfo, alarms[0].Severity)
}

func TestPortDownPlateauEmitsOnce(t *testing.T) {
	e := newTestEngine()

	require.Len(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down")), 1)

	for i := 0; i < 5; i++ {
		assert.Empty(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down")))
	}
}

func TestAdminDownIsNotAnAlarm(t *testing.T) {
	e := newTestEngine()

	assert.Empty(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "down", "down")))

	state, ok := e.State(1, InterfaceKey(3))
	require.True(t, ok)
	assert.False(t, state.IsPortDown)

	// Bringing admin up while oper stays down is the transition.
	alarms := e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down"))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmPortDown, alarms[0].Type)
}

func TestInterfacesTrackedIndependently(t *testing.T) {
	e := newTestEngine()

	require.Len(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down")), 1)
	require.Len(t, e.EvaluateInterface("router-01", ifaceSample(1, 4, "up", "down")), 1)

	// Same index on a different device is its own slot.
	require.Len(t, e.EvaluateInterface("router-02", ifaceSample(2, 3, "up", "down")), 1)
}

func TestCPUCrossesThreshold(t *testing.T) {
	e := newTestEngine()

	assert.Empty(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(70), nil, nil)))

	alarms := e.EvaluateHealth(healthSample(1, models.Float64Ptr(85), nil, nil))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmCPUHigh, alarms[0].Type)
	assert.Equal(t, models.SeverityWarning, alarms[0].Severity)
	assert.Equal(t, "CPU usage 85.0% exceeded threshold 80.0%", alarms[0].Message)

	// Still high: plateau, no second alarm.
	assert.Empty(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(90), nil, nil)))
}

func TestThresholdEqualEmits(t *testing.T) {
	e := newTestEngine()

	alarms := e.EvaluateHealth(healthSample(1, models.Float64Ptr(80), nil, nil))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmCPUHigh, alarms[0].Type)
}

func TestResourceRecoveryClearsStateSilently(t *testing.T) {
	e := newTestEngine()

	require.Len(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(90), nil, nil)), 1)

	// Falling edge clears the flag but mints no recovery event.
	assert.Empty(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(50), nil, nil)))

	// Re-crossing emits again.
	require.Len(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(95), nil, nil)), 1)
}

func TestNilMeasurementLeavesFlagIntact(t *testing.T) {
	e := newTestEngine()

	require.Len(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(90), nil, nil)), 1)

	// CPU missing this cycle: flag survives, nothing emitted.
	assert.Empty(t, e.EvaluateHealth(healthSample(1, nil, nil, nil)))

	state, ok := e.State(1, KeyDeviceHealth)
	require.True(t, ok)
	assert.True(t, state.CPUHigh)

	// The next high reading is still the same plateau.
	assert.Empty(t, e.EvaluateHealth(healthSample(1, models.Float64Ptr(91), nil, nil)))
}

func TestMemoryAndTemperatureAlarms(t *testing.T) {
	e := newTestEngine()

	alarms := e.EvaluateHealth(healthSample(1, nil, models.Float64Ptr(92.5), models.Float64Ptr(85)))
	require.Len(t, alarms, 2)

	assert.Equal(t, models.AlarmMemoryHigh, alarms[0].Type)
	assert.Equal(t, models.SeverityWarning, alarms[0].Severity)
	assert.Equal(t, "Memory usage 92.5% exceeded threshold 80.0%", alarms[0].Message)

	assert.Equal(t, models.AlarmTemperatureHigh, alarms[1].Type)
	assert.Equal(t, models.SeverityCritical, alarms[1].Severity)
	assert.InEpsilon(t, 85.0, alarms[1].Metadata["value"], 1e-9)
}

func TestFirstObservationInAlarmedState(t *testing.T) {
	e := newTestEngine()

	alarms := e.EvaluateInterface("router-01", ifaceSample(1, 1, "up", "down"))
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmPortDown, alarms[0].Type)
}

func TestReachabilityFlap(t *testing.T) {
	e := newTestEngine()

	a := e.DeviceUnreachable(1, "router-01")
	require.NotNil(t, a)
	assert.Equal(t, models.AlarmDeviceUnreachable, a.Type)
	assert.Equal(t, models.SeverityCritical, a.Severity)
	assert.Equal(t, "Device router-01 is unreachable", a.Message)

	// Still down next cycle: no duplicate.
	assert.Nil(t, e.DeviceUnreachable(1, "router-01"))

	a = e.DeviceReachable(1, "router-01")
	require.NotNil(t, a)
	assert.Equal(t, models.AlarmDeviceReachable, a.Type)
	assert.Equal(t, models.SeverityInfo, a.Severity)

	// Reachable while already reachable is silent.
	assert.Nil(t, e.DeviceReachable(1, "router-01"))
}

func TestClearDevice(t *testing.T) {
	e := newTestEngine()

	require.Len(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down")), 1)
	require.NotNil(t, e.DeviceUnreachable(1, "router-01"))

	e.ClearDevice(1)

	_, ok := e.State(1, InterfaceKey(3))
	assert.False(t, ok)

	// After clearing, the bad state re-emits like a first observation.
	require.Len(t, e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down")), 1)
}

func TestStateIsACopy(t *testing.T) {
	e := newTestEngine()

	e.EvaluateInterface("router-01", ifaceSample(1, 3, "up", "down"))

	state, ok := e.State(1, InterfaceKey(3))
	require.True(t, ok)

	state.IsPortDown = false

	again, _ := e.State(1, InterfaceKey(3))
	assert.True(t, again.IsPortDown)
}
