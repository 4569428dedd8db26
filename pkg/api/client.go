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

// Package api mirrors alarms and health metrics to the collaborating
// backend. Every call is best-effort: the database write is authoritative
// and an API failure never fails the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/models"
)

const healthCheckTimeout = 5 * time.Second

// Client talks to the backend REST API. Safe for concurrent use; the
// underlying transport pools connections.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.APIConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/api" + path
}

// do sends a JSON request and returns the response body when the status is
// one of the accepted codes, nil otherwise. Transport errors log and return
// nil; callers never see them.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, accepted ...int) []byte {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.log.Error().Str("path", path).Err(err).Msg("API payload encode failed")
			return nil
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		c.log.Error().Str("path", path).Err(err).Msg("API request build failed")
		return nil
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Str("path", path).Err(err).Msg("API call failed")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Str("path", path).Err(err).Msg("API response read failed")
		return nil
	}

	for _, code := range accepted {
		if resp.StatusCode == code {
			return data
		}
	}

	c.log.Warn().
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("API call rejected")

	return nil
}

// CreateAlarm mirrors an alarm. Returns the backend's record, nil on any
// failure.
func (c *Client) CreateAlarm(ctx context.Context, alarm *models.Alarm) map[string]interface{} {
	payload := map[string]interface{}{
		"device_id":   alarm.DeviceID,
		"device_name": alarm.DeviceName,
		"type":        alarm.Type,
		"severity":    alarm.Severity,
		"message":     alarm.Message,
		"metadata":    alarm.Metadata,
	}

	data := c.do(ctx, http.MethodPost, "/alarms", payload, http.StatusOK, http.StatusCreated)
	if data == nil {
		return nil
	}

	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		c.log.Warn().Err(err).Msg("API alarm response decode failed")
		return nil
	}

	return record
}

// GetActiveAlarms fetches unresolved alarms, optionally filtered by device.
// deviceID 0 means no filter.
func (c *Client) GetActiveAlarms(ctx context.Context, deviceID int) []map[string]interface{} {
	params := url.Values{"resolved": {"false"}}
	if deviceID > 0 {
		params.Set("device_id", strconv.Itoa(deviceID))
	}

	data := c.do(ctx, http.MethodGet, "/alarms?"+params.Encode(), nil, http.StatusOK)
	if data == nil {
		return nil
	}

	var alarms []map[string]interface{}
	if err := json.Unmarshal(data, &alarms); err != nil {
		c.log.Warn().Err(err).Msg("API alarms response decode failed")
		return nil
	}

	return alarms
}

// AcknowledgeAlarm marks an alarm acknowledged upstream.
func (c *Client) AcknowledgeAlarm(ctx context.Context, alarmID int64, acknowledgedBy string) bool {
	path := fmt.Sprintf("/alarms/%d/acknowledge", alarmID)
	payload := map[string]string{"acknowledged_by": acknowledgedBy}

	return c.do(ctx, http.MethodPatch, path, payload, http.StatusOK, http.StatusNoContent) != nil
}

// UpdateDeviceStatus mirrors a connection status change.
func (c *Client) UpdateDeviceStatus(ctx context.Context, deviceID int, status string) bool {
	path := fmt.Sprintf("/devices/%d", deviceID)
	payload := map[string]string{"connection_status": status}

	return c.do(ctx, http.MethodPatch, path, payload, http.StatusOK, http.StatusNoContent) != nil
}

// SendMetrics pushes one metric document of the given type ("interface",
// "health", "inventory").
func (c *Client) SendMetrics(ctx context.Context, deviceID int, metricType string, data interface{}) bool {
	payload := map[string]interface{}{
		"device_id": deviceID,
		"type":      metricType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	return c.do(ctx, http.MethodPost, "/metrics", payload, http.StatusOK, http.StatusCreated) != nil
}

// HealthCheck probes the backend with a short deadline, independent of the
// client's configured timeout.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK) != nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
