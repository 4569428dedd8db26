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

// netmon polls network devices over SNMP, evaluates alarms on state
// transitions and records observations in Postgres, mirroring to the
// backend API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/netmon/pkg/alarm"
	"github.com/carverauto/netmon/pkg/api"
	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/db"
	"github.com/carverauto/netmon/pkg/logger"
	"github.com/carverauto/netmon/pkg/oidmap"
	"github.com/carverauto/netmon/pkg/orchestrator"
	"github.com/carverauto/netmon/pkg/poller"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "netmon: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load(nil)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger(&logger.Config{
		Level: cfg.LogLevel,
		Debug: cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info().Str("env", cfg.Env).Msg("starting netmon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := oidmap.NewFromFile(cfg.VendorOIDConfigPath)
	if err != nil {
		return fmt.Errorf("load OID catalog: %w", err)
	}

	log.Info().Int("entries", catalog.Len()).Msg("OID catalog loaded")

	database, err := db.New(ctx, &cfg.Database, log.WithComponent("db"))
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	engine := alarm.NewEngine(&cfg.Alarm, log.WithComponent("alarm"))
	devicePoller := poller.New(&cfg.SNMP, catalog, log.WithComponent("poller"))
	upstream := api.NewClient(&cfg.API, log.WithComponent("api"))

	orch := orchestrator.New(cfg, database, engine, devicePoller, upstream,
		log.WithComponent("orchestrator"))
	defer orch.Shutdown()

	count, err := orch.RegisterDevices(ctx)
	if err != nil {
		return fmt.Errorf("register devices: %w", err)
	}

	if count == 0 {
		log.Error().Msg("no devices registered, exiting")
		return nil
	}

	orch.Run(ctx)

	return nil
}
