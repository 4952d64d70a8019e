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

package probe

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/caas-team/webcheck/internal/logger"
)

// Coordinator probes all applications of a fleet concurrently
type Coordinator struct {
	resolver    Resolver
	prober      Prober
	concurrency int
	metrics     metrics
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithConcurrency limits the number of probes in flight.
// Zero or a negative value means one goroutine per application.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		c.concurrency = n
	}
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(resolver Resolver, prober Prober, opts ...Option) *Coordinator {
	c := &Coordinator{
		resolver: resolver,
		prober:   prober,
		metrics:  newMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll probes every application and returns one row per application
// in the order of apps. A failing probe only affects its own row,
// RunAll itself never fails.
func (c *Coordinator) RunAll(ctx context.Context, apps []Application, overrides []Override) []Row {
	ctx, cancel := logger.NewContextWithLogger(ctx, "coordinator")
	defer cancel()
	log := logger.FromContext(ctx)

	rows := make([]Row, len(apps))
	if len(apps) == 0 {
		log.Debug("No applications defined")
		return rows
	}

	urls := make([]string, len(apps))
	for i, app := range apps {
		urls[i] = c.resolver.Resolve(app, overrides)
	}

	var g errgroup.Group
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	log.Debug("Probing each application in separate routine", "amount", len(apps), "concurrency", c.concurrency)
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			rows[i] = c.probe(ctx, app, urls[i])
			return nil
		})
	}

	log.Debug("Waiting for all routines to finish")
	// units report failures in their row and always return nil, so Wait only joins
	_ = g.Wait()

	log.Debug("Successfully probed all applications")
	return rows
}

// GetMetricCollectors returns all metric collectors of the coordinator
func (c *Coordinator) GetMetricCollectors() []prometheus.Collector {
	return c.metrics.collectors()
}

// probe checks a single application. The application is a copy owned
// by the calling routine, so its version can be set without locking.
func (c *Coordinator) probe(ctx context.Context, app Application, url string) Row {
	log := logger.FromContext(ctx).With("application", app.Name, "url", url)
	app.Version = nil

	start := time.Now()
	outcome := c.prober.Probe(ctx, url)
	elapsed := time.Since(start)

	var healthy bool
	var status int
	var cause string
	switch o := outcome.(type) {
	case Success:
		healthy, status = o.Healthy(), o.StatusCode
		if v, ok := o.Version(); ok {
			app.Version = &v
		} else {
			log.Debug("Response does not contain a version", "status", o.StatusCode)
		}
	case Failure:
		cause = o.Cause
		log.Warn("Health check failed", "error", o.Cause)
	default:
		cause = "prober returned no outcome"
		log.Error("Health check returned no outcome")
	}

	row := newRow(app)
	row.URL = url
	row.Healthy = healthy
	row.StatusCode = status
	row.Error = cause
	row.Duration = elapsed

	c.metrics.record(row)
	log.Debug("Finished health check", "healthy", healthy, "version", row.Version, "duration", elapsed.String())
	return row
}
