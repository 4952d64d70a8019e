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

package webcheck

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/caas-team/webcheck/internal/httpclient"
	"github.com/caas-team/webcheck/internal/logger"
	"github.com/caas-team/webcheck/pkg/config"
	"github.com/caas-team/webcheck/pkg/metrics"
	"github.com/caas-team/webcheck/pkg/probe"
	"github.com/caas-team/webcheck/pkg/report"
)

// loader provides the inventory of a run
type loader interface {
	Load(ctx context.Context) (config.Inventory, error)
}

// Webcheck runs a single health check of all configured applications
type Webcheck struct {
	config      *config.Config
	loader      loader
	metrics     metrics.Metrics
	coordinator *probe.Coordinator
}

// New creates a new Webcheck from the given configuration
func New(cfg *config.Config) *Webcheck {
	return &Webcheck{
		config:  cfg,
		loader:  config.NewFileLoader(cfg),
		metrics: metrics.NewMetrics(),
		coordinator: probe.NewCoordinator(
			probe.NewResolver(cfg.DefaultPath),
			probe.NewHTTPProber(),
			probe.WithConcurrency(cfg.Concurrency),
		),
	}
}

// Run loads the inventory, probes all applications and writes the report to out,
// or to the configured output file. Failing probes do not make Run fail;
// only configuration and output errors do.
func (w *Webcheck) Run(ctx context.Context, out io.Writer) error {
	ctx, cancel := logger.NewContextWithLogger(ctx, "webcheck")
	defer cancel()
	log := logger.FromContext(ctx)

	reporter, err := report.New(w.config.Format)
	if err != nil {
		return err
	}

	inv, err := w.loader.Load(ctx)
	if err != nil {
		log.Error("Failed to load inventory", "error", err)
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	if err = w.metrics.Register(w.coordinator.GetMetricCollectors()...); err != nil {
		return err
	}

	ctx = httpclient.IntoContext(ctx, httpclient.New(w.config.Timeout))
	log.Info("Probing applications", "amount", len(inv.Applications), "timeout", w.config.Timeout.String())
	rows := w.coordinator.RunAll(ctx, inv.Applications, inv.Overrides)

	if err = w.writeReport(ctx, reporter, out, rows); err != nil {
		return err
	}

	if w.config.HasMetricsFile() {
		if err = w.metrics.WriteToFile(w.config.MetricsFile); err != nil {
			log.Error("Failed to write metrics file", "path", w.config.MetricsFile, "error", err)
			return err
		}
		log.Debug("Wrote metrics file", "path", w.config.MetricsFile)
	}

	s := report.Summarize(rows)
	if s.AllHealthy() {
		log.Info("All applications are healthy", "total", s.Total, "versioned", s.Versioned)
	} else {
		log.Warn("Some applications are unhealthy", "total", s.Total, "healthy", s.Healthy, "failed", s.Failed, "versioned", s.Versioned)
	}
	return nil
}

// writeReport renders the rows to the output file if configured, otherwise to out
func (w *Webcheck) writeReport(ctx context.Context, r report.Reporter, out io.Writer, rows []probe.Row) (err error) {
	log := logger.FromContext(ctx)

	if w.config.Output != "" {
		f, cErr := os.Create(w.config.Output)
		if cErr != nil {
			log.Error("Failed to create report file", "path", w.config.Output, "error", cErr)
			return fmt.Errorf("failed to create report file: %w", cErr)
		}
		defer func() {
			if cErr := f.Close(); cErr != nil && err == nil {
				err = fmt.Errorf("failed to close report file: %w", cErr)
			}
		}()
		out = f
	}

	if err = r.Report(out, rows); err != nil {
		log.Error("Failed to write report", "error", err)
		return err
	}
	return nil
}
