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
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/oidmap"
	"github.com/carverauto/netmon/pkg/snmp"
)

// fakeClient scripts SNMP responses for the poller without a device.
type fakeClient struct {
	values     map[string]interface{}
	walks      map[string]map[string]interface{}
	failMulti  map[int]bool // ifIndex values whose multi-get fails
	getErr     error
	closed     bool
	getCalls   []string
	multiCalls int
}

func (f *fakeClient) Probe() bool { return f.getErr == nil }

func (f *fakeClient) Get(oid string) (interface{}, error) {
	f.getCalls = append(f.getCalls, oid)

	if f.getErr != nil {
		return nil, f.getErr
	}

	return f.values[oid], nil
}

func (f *fakeClient) GetMultiple(oids []string) (map[string]interface{}, error) {
	f.multiCalls++

	results := make(map[string]interface{}, len(oids))
	for _, oid := range oids {
		results[oid] = nil
	}

	for idx := range f.failMulti {
		if strings.HasSuffix(oids[0], "."+itoa(idx)) {
			return results, errors.New("request timeout")
		}
	}

	for _, oid := range oids {
		results[oid] = f.values[oid]
	}

	return results, nil
}

func (f *fakeClient) Walk(rootOID string) (map[string]interface{}, error) {
	if f.getErr != nil {
		return map[string]interface{}{}, f.getErr
	}

	out := make(map[string]interface{}, len(f.walks[rootOID]))
	for k, v := range f.walks[rootOID] {
		out[k] = v
	}

	return out, nil
}

func (f *fakeClient) Close() { f.closed = true }

func itoa(i int) string { return strconv.Itoa(i) }

func newTestPoller(client snmp.Client) *Poller {
	p := New(&config.SNMPConfig{
		Timeout:              time.Second,
		Retries:              1,
		MaxConcurrentPollers: 4,
		BulkWalkEnabled:      true,
	}, oidmap.New(), logger.NewTestLogger())

	p.newSession = func(_ snmp.SessionConfig, _ logger.Logger) snmp.Client {
		return client
	}

	p.Register(DeviceConfig{
		ID:        1,
		Name:      "router-01",
		IPAddress: "10.0.0.1",
		Vendor:    "cisco",
		Community: "public",
		Enabled:   true,
	})

	return p
}

func ifOID(col, idx int) string {
	return ifTableBase + "." + itoa(col) + "." + itoa(idx)
}

func TestRegisterSkipsDisabled(t *testing.T) {
	p := New(&config.SNMPConfig{Timeout: time.Second}, oidmap.New(), logger.NewTestLogger())

	p.Register(DeviceConfig{ID: 9, Name: "off", Enabled: false})

	_, err := p.PollInterfaces(9)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestUnregisterClosesSession(t *testing.T) {
	client := &fakeClient{}
	p := newTestPoller(client)

	p.Unregister(1)

	assert.True(t, client.closed)
	assert.Empty(t, p.Devices())
}

func TestPollInterfaces(t *testing.T) {
	client := &fakeClient{
		walks: map[string]map[string]interface{}{
			ifIndexOID: {
				ifIndexOID + ".1": int64(1),
				ifIndexOID + ".2": int64(2),
			},
		},
		values: map[string]interface{}{
			ifOID(2, 1):  "GigabitEthernet0/1",
			ifOID(4, 1):  int64(9000),
			ifOID(5, 1):  int64(1000000000),
			ifOID(7, 1):  int64(1),
			ifOID(8, 1):  int64(2),
			ifOID(10, 1): int64(12345),
			ifOID(14, 1): int64(3),
			ifOID(16, 1): int64(67890),
			ifOID(20, 1): int64(0),

			ifOID(2, 2): "GigabitEthernet0/2",
			ifOID(7, 2): int64(1),
			ifOID(8, 2): int64(1),
		},
	}

	p := newTestPoller(client)

	metrics, err := p.PollInterfaces(1)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	first := metrics[0]
	assert.Equal(t, 1, first.InterfaceIndex)
	assert.Equal(t, "if1", first.InterfaceName)
	assert.Equal(t, "GigabitEthernet0/1", first.Description)
	assert.Equal(t, "up", first.AdminStatus)
	assert.Equal(t, "down", first.OperStatus)
	assert.True(t, first.IsPortDown())
	assert.Equal(t, int64(1000000000), first.Speed)
	assert.Equal(t, 9000, first.MTU)
	assert.Equal(t, int64(12345), first.InOctets)
	assert.Equal(t, int64(3), first.InErrors)

	second := metrics[1]
	assert.Equal(t, "up", second.OperStatus)
	assert.False(t, second.IsPortDown())
	// Absent leaves coerce to defaults.
	assert.Equal(t, int64(0), second.Speed)
	assert.Equal(t, defaultMTU, second.MTU)
}

func TestPollInterfacesStatusCodeThreeIsDown(t *testing.T) {
	client := &fakeClient{
		walks: map[string]map[string]interface{}{
			ifIndexOID: {ifIndexOID + ".1": int64(1)},
		},
		values: map[string]interface{}{
			ifOID(7, 1): int64(3),
			ifOID(8, 1): int64(3),
		},
	}

	p := newTestPoller(client)

	metrics, err := p.PollInterfaces(1)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "down", metrics[0].AdminStatus)
	assert.Equal(t, "down", metrics[0].OperStatus)
}

func TestPollInterfacesSkipsFailedIndex(t *testing.T) {
	client := &fakeClient{
		walks: map[string]map[string]interface{}{
			ifIndexOID: {
				ifIndexOID + ".1": int64(1),
				ifIndexOID + ".2": int64(2),
			},
		},
		values: map[string]interface{}{
			ifOID(2, 1): "eth0",
			ifOID(7, 1): int64(1),
			ifOID(8, 1): int64(1),
		},
		failMulti: map[int]bool{2: true},
	}

	p := newTestPoller(client)

	metrics, err := p.PollInterfaces(1)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, 1, metrics[0].InterfaceIndex)
}

func TestPollInterfacesNullValuesUseSafeDefaults(t *testing.T) {
	client := &fakeClient{
		walks: map[string]map[string]interface{}{
			ifIndexOID: {ifIndexOID + ".3": int64(3)},
		},
		// No leaf values at all: every leaf comes back null.
	}

	p := newTestPoller(client)

	metrics, err := p.PollInterfaces(1)
	require.NoError(t, err)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, "Interface 3", m.Description)
	assert.Equal(t, "down", m.AdminStatus)
	assert.Equal(t, "down", m.OperStatus)
	assert.False(t, m.IsPortDown())
	assert.Equal(t, int64(0), m.Speed)
	assert.Equal(t, int64(0), m.InOctets)
	assert.Equal(t, defaultMTU, m.MTU)
}

func TestPollInterfacesUnreachable(t *testing.T) {
	client := &fakeClient{getErr: snmp.ErrUnreachable}
	p := newTestPoller(client)

	_, err := p.PollInterfaces(1)
	assert.ErrorIs(t, err, snmp.ErrUnreachable)
}
