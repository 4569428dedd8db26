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

// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingDBPassword indicates DB_PASSWORD is unset in a production
// environment.
var ErrMissingDBPassword = errors.New("DB_PASSWORD must be set in production")

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	PoolSize int    `json:"pool_size"`
}

// ConnString builds a pgx-compatible connection URL.
func (d *DatabaseConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Database,
	}

	if d.Username != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.Username, d.Password)
		} else {
			u.User = url.User(d.Username)
		}
	}

	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()

	return u.String()
}

// SNMPConfig holds global SNMP transport settings.
type SNMPConfig struct {
	Timeout              time.Duration `json:"timeout"`
	Retries              int           `json:"retries"`
	MaxConcurrentPollers int           `json:"max_concurrent_pollers"`
	BulkWalkEnabled      bool          `json:"bulk_walk_enabled"`
}

// PollingConfig holds per-subsystem poll intervals.
type PollingConfig struct {
	InterfaceInterval time.Duration `json:"interface_poll_interval"`
	CPUMemoryInterval time.Duration `json:"cpu_memory_poll_interval"`
	InventoryInterval time.Duration `json:"inventory_poll_interval"`
}

// AlarmConfig holds alarm engine thresholds, percent or degrees Celsius.
type AlarmConfig struct {
	CPUThreshold         float64 `json:"cpu_threshold"`
	MemoryThreshold      float64 `json:"memory_threshold"`
	TemperatureThreshold float64 `json:"temperature_threshold"`
}

// APIConfig holds the upstream backend API settings.
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Config is the root service configuration.
type Config struct {
	Env      string `json:"env"`
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`

	Database DatabaseConfig `json:"database"`
	SNMP     SNMPConfig     `json:"snmp"`
	Polling  PollingConfig  `json:"polling"`
	Alarm    AlarmConfig    `json:"alarm"`
	API      APIConfig      `json:"api"`

	// Optional JSON file replacing the builtin OID catalog.
	VendorOIDConfigPath string `json:"vendor_oid_config_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("NMS_ENV", "development")
	v.SetDefault("NMS_DEBUG", false)
	v.SetDefault("NMS_LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "nms_user")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "nms_db")
	v.SetDefault("DB_POOL_SIZE", 10)

	v.SetDefault("SNMP_TIMEOUT", 5)
	v.SetDefault("SNMP_RETRIES", 3)
	v.SetDefault("MAX_CONCURRENT_POLLERS", 20)
	v.SetDefault("SNMP_BULK_WALK_ENABLED", true)

	v.SetDefault("INTERFACE_POLL_INTERVAL", 30)
	v.SetDefault("CPU_MEMORY_POLL_INTERVAL", 300)
	v.SetDefault("INVENTORY_POLL_INTERVAL", 3600)

	v.SetDefault("CPU_THRESHOLD", 80.0)
	v.SetDefault("MEMORY_THRESHOLD", 80.0)
	v.SetDefault("TEMPERATURE_THRESHOLD", 80.0)

	v.SetDefault("BACKEND_API_URL", "http://localhost:3000")
	v.SetDefault("API_TIMEOUT", 10)

	v.SetDefault("VENDOR_OID_CONFIG_PATH", "")
}

// Load reads configuration from the environment through the given viper
// instance. Interval and timeout variables are integer seconds.
func Load(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Env:      v.GetString("NMS_ENV"),
		Debug:    v.GetBool("NMS_DEBUG"),
		LogLevel: v.GetString("NMS_LOG_LEVEL"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			Username: v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			PoolSize: v.GetInt("DB_POOL_SIZE"),
		},
		SNMP: SNMPConfig{
			Timeout:              time.Duration(v.GetInt("SNMP_TIMEOUT")) * time.Second,
			Retries:              v.GetInt("SNMP_RETRIES"),
			MaxConcurrentPollers: v.GetInt("MAX_CONCURRENT_POLLERS"),
			BulkWalkEnabled:      v.GetBool("SNMP_BULK_WALK_ENABLED"),
		},
		Polling: PollingConfig{
			InterfaceInterval: time.Duration(v.GetInt("INTERFACE_POLL_INTERVAL")) * time.Second,
			CPUMemoryInterval: time.Duration(v.GetInt("CPU_MEMORY_POLL_INTERVAL")) * time.Second,
			InventoryInterval: time.Duration(v.GetInt("INVENTORY_POLL_INTERVAL")) * time.Second,
		},
		Alarm: AlarmConfig{
			CPUThreshold:         v.GetFloat64("CPU_THRESHOLD"),
			MemoryThreshold:      v.GetFloat64("MEMORY_THRESHOLD"),
			TemperatureThreshold: v.GetFloat64("TEMPERATURE_THRESHOLD"),
		},
		API: APIConfig{
			BaseURL: v.GetString("BACKEND_API_URL"),
			Timeout: time.Duration(v.GetInt("API_TIMEOUT")) * time.Second,
		},
		VendorOIDConfigPath: v.GetString("VENDOR_OID_CONFIG_PATH"),
	}
}

// Validate checks invariants that must hold before startup proceeds.
func (c *Config) Validate() error {
	if c.Env == "production" && c.Database.Password == "" {
		return ErrMissingDBPassword
	}

	return nil
}
