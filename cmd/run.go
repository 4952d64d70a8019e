// webcheck
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/webcheck/internal/helper"
	"github.com/caas-team/webcheck/internal/httpclient"
	"github.com/caas-team/webcheck/internal/logger"
	"github.com/caas-team/webcheck/pkg/config"
	"github.com/caas-team/webcheck/pkg/probe"
	"github.com/caas-team/webcheck/pkg/report"
	"github.com/caas-team/webcheck/pkg/webcheck"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	flagMapping := config.RunFlagsNameMapping{
		Applications: "applications",
		Overrides:    "overrides",
		DefaultPath:  "defaultPath",
		Timeout:      "timeout",
		Concurrency:  "concurrency",
		Format:       "format",
		Output:       "output",
		MetricsFile:  "metricsFile",
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Probe all applications once",
		Long: "Webcheck reads the applications and health check path overrides, probes every application\n" +
			"concurrently and writes one report row per application.",
		RunE: run(),
	}

	NewFlag(flagMapping.Applications, flagMapping.Applications).StringP("a").Bind(cmd, config.DefaultApplicationsPath,
		"path to the applications file (json or yaml)")
	NewFlag(flagMapping.Overrides, flagMapping.Overrides).StringP("o").Bind(cmd, config.DefaultOverridesPath,
		"path to the health check path overrides file (json or yaml)")
	NewFlag(flagMapping.DefaultPath, flagMapping.DefaultPath).String().Bind(cmd, probe.DefaultHealthCheckPath,
		"health check path of applications without override")
	NewFlag(flagMapping.Timeout, flagMapping.Timeout).Duration().Bind(cmd, httpclient.DefaultTimeout,
		"timeout of a single health check request")
	NewFlag(flagMapping.Concurrency, flagMapping.Concurrency).Int().Bind(cmd, 0,
		"maximum amount of health checks in flight, 0 probes all applications at once")
	NewFlag(flagMapping.Format, flagMapping.Format).StringP("f").Bind(cmd, report.FormatCSV,
		"report format, one of csv, table or json")
	NewFlag(flagMapping.Output, flagMapping.Output).String().Bind(cmd, "",
		"file the report is written to, defaults to stdout")
	NewFlag(flagMapping.MetricsFile, flagMapping.MetricsFile).String().Bind(cmd, "",
		"file the prometheus metrics are written to, e.g. for the node exporter textfile collector")

	return cmd
}

// run is the entry point to start webcheck
func run() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger()
		ctx, stop := signal.NotifyContext(logger.IntoContext(cmd.Context(), log), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		log.Info("Running webcheck", "applications", cfg.Applications, "overrides", cfg.Overrides)
		if err := webcheck.New(cfg).Run(ctx, cmd.OutOrStdout()); err != nil {
			log.Error("Webcheck run failed", "error", err)
			return err
		}
		return nil
	}
}

// loadConfig decodes the flags and environment into a validated config
func loadConfig(ctx context.Context) (*config.Config, error) {
	log := logger.FromContext(ctx)

	cfg, err := helper.Decode[config.Config](viper.AllSettings())
	if err != nil {
		log.Error("Failed to decode config", "error", err)
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(ctx); err != nil {
		log.Error("Error while validating the config", "error", err)
		return nil, err
	}
	return &cfg, nil
}
