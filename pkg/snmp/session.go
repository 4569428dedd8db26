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

// Package snmp wraps gosnmp with one session per device: scalar gets,
// multi-gets, subtree walks and a cheap TCP reachability probe.
package snmp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/netmon/pkg/logger"
)

const (
	defaultPort           = 161
	defaultMaxRepetitions = 25
	defaultMaxOids        = 60
)

// Client is the narrow per-device interface the poller consumes. A get or
// walk blocks for at most timeout×(retries+1) on the UDP socket.
type Client interface {
	Probe() bool
	Get(oid string) (interface{}, error)
	GetMultiple(oids []string) (map[string]interface{}, error)
	Walk(rootOID string) (map[string]interface{}, error)
	Close()
}

// SessionConfig carries the per-device transport settings.
type SessionConfig struct {
	DeviceID   int
	DeviceName string
	IPAddress  string
	Community  string
	Version    string // "2c" or "3"
	Port       int
	Timeout    time.Duration
	Retries    int
	BulkWalk   bool
}

// Session is a lazy-initialized SNMP connection to a single device. Not safe
// for concurrent use; the poller serializes access per device.
type Session struct {
	cfg    SessionConfig
	log    logger.Logger
	client *gosnmp.GoSNMP
}

var _ Client = (*Session)(nil)

// NewSession builds a session without touching the network. The transport
// is dialed on first use.
func NewSession(cfg SessionConfig, log logger.Logger) *Session {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.Version == "" {
		cfg.Version = "2c"
	}

	return &Session{cfg: cfg, log: log}
}

// Probe attempts a TCP connect to the device address to classify
// reachability before spending SNMP timeouts and retries on it.
func (s *Session) Probe() bool {
	addr := net.JoinHostPort(s.cfg.IPAddress, strconv.Itoa(s.cfg.Port))

	conn, err := net.DialTimeout("tcp", addr, s.cfg.Timeout)
	if err != nil {
		s.log.Warn().
			Str("device", s.cfg.DeviceName).
			Str("address", addr).
			Err(err).
			Msg("connectivity check failed")

		return false
	}

	_ = conn.Close()

	return true
}

// ensureClient dials the UDP transport on first use.
func (s *Session) ensureClient() error {
	if s.client != nil {
		return nil
	}

	if s.cfg.Version != "2c" {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, s.cfg.Version)
	}

	client := &gosnmp.GoSNMP{
		Target:         s.cfg.IPAddress,
		Port:           uint16(s.cfg.Port),
		Community:      s.cfg.Community,
		Version:        gosnmp.Version2c,
		Timeout:        s.cfg.Timeout,
		Retries:        s.cfg.Retries,
		MaxOids:        defaultMaxOids,
		MaxRepetitions: defaultMaxRepetitions,
	}

	if err := client.Connect(); err != nil {
		return fmt.Errorf("%w: connect: %w", ErrProtocol, err)
	}

	s.client = client

	s.log.Debug().
		Str("device", s.cfg.DeviceName).
		Str("address", s.cfg.IPAddress).
		Msg("SNMP session initialized")

	return nil
}

// Get fetches a single OID. It returns nil without an error when the agent
// answers with an SNMP error-status or an exception value.
func (s *Session) Get(oid string) (interface{}, error) {
	if !s.Probe() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnreachable, s.cfg.DeviceName, s.cfg.IPAddress)
	}

	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	packet, err := s.client.Get([]string{oid})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrProtocol, oid, err)
	}

	if packet.Error != gosnmp.NoError {
		s.log.Warn().
			Str("device", s.cfg.DeviceName).
			Str("oid", oid).
			Str("error_status", packet.Error.String()).
			Msg("SNMP error status")

		return nil, nil
	}

	for _, pdu := range packet.Variables {
		return parseValue(pdu), nil
	}

	return nil, nil
}

// GetMultiple fetches several OIDs in one PDU. On any failure it returns a
// map with every requested OID present and nil, together with the error, so
// per-interface processing can continue with safe defaults while callers
// can still tell a failed fetch from an absent value.
func (s *Session) GetMultiple(oids []string) (map[string]interface{}, error) {
	results := make(map[string]interface{}, len(oids))
	for _, oid := range oids {
		results[oid] = nil
	}

	if !s.Probe() {
		return results, fmt.Errorf("%w: %s (%s)", ErrUnreachable, s.cfg.DeviceName, s.cfg.IPAddress)
	}

	if err := s.ensureClient(); err != nil {
		return results, err
	}

	packet, err := s.client.Get(oids)
	if err != nil {
		s.log.Error().
			Str("device", s.cfg.DeviceName).
			Err(err).
			Msg("SNMP multi-get failed")

		return results, fmt.Errorf("%w: multi-get: %w", ErrProtocol, err)
	}

	if packet.Error != gosnmp.NoError {
		s.log.Warn().
			Str("device", s.cfg.DeviceName).
			Str("error_status", packet.Error.String()).
			Msg("SNMP error status on multi-get")

		return results, fmt.Errorf("%w: multi-get status %s", ErrProtocol, packet.Error)
	}

	for _, pdu := range packet.Variables {
		results[strings.TrimPrefix(pdu.Name, ".")] = parseValue(pdu)
	}

	return results, nil
}

// Walk iterates a subtree, preferring GETBULK when enabled. It stops on the
// first out-of-subtree OID, empty response or error indication, returning
// whatever was gathered up to that point.
func (s *Session) Walk(rootOID string) (map[string]interface{}, error) {
	results := make(map[string]interface{})

	if !s.Probe() {
		return results, fmt.Errorf("%w: %s (%s)", ErrUnreachable, s.cfg.DeviceName, s.cfg.IPAddress)
	}

	if err := s.ensureClient(); err != nil {
		return results, err
	}

	collect := func(pdu gosnmp.SnmpPDU) error {
		results[strings.TrimPrefix(pdu.Name, ".")] = parseValue(pdu)
		return nil
	}

	var err error
	if s.cfg.BulkWalk {
		err = s.client.BulkWalk(rootOID, collect)
	} else {
		err = s.client.Walk(rootOID, collect)
	}

	if err != nil {
		// Partial results are still usable; the walk just ended early.
		s.log.Warn().
			Str("device", s.cfg.DeviceName).
			Str("oid", rootOID).
			Int("collected", len(results)).
			Err(err).
			Msg("SNMP walk ended with error")

		return results, nil
	}

	s.log.Debug().
		Str("device", s.cfg.DeviceName).
		Str("oid", rootOID).
		Int("collected", len(results)).
		Msg("SNMP walk completed")

	return results, nil
}

// Close releases the UDP socket. The session can be reused; the next
// operation re-dials.
func (s *Session) Close() {
	if s.client == nil {
		return
	}

	if s.client.Conn != nil {
		if err := s.client.Conn.Close(); err != nil {
			s.log.Warn().
				Str("device", s.cfg.DeviceName).
				Err(err).
				Msg("error closing SNMP session")
		}
	}

	s.client = nil

	s.log.Debug().
		Str("device", s.cfg.DeviceName).
		Msg("SNMP session closed")
}
