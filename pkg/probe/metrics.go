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
	"github.com/prometheus/client_golang/prometheus"
)

// metrics contains the metric collectors of the coordinator
type metrics struct {
	up       *prometheus.GaugeVec
	duration *prometheus.GaugeVec
	version  *prometheus.GaugeVec
}

// newMetrics initializes metric collectors of the coordinator
func newMetrics() metrics {
	return metrics{
		up: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webcheck_up",
				Help: "Whether the health check of the application returned a 2xx status",
			},
			[]string{
				"application",
			},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webcheck_probe_duration_seconds",
				Help: "Duration of the health check request of the application",
			},
			[]string{
				"application",
			},
		),
		version: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webcheck_version_info",
				Help: "Version reported by the application, always 1",
			},
			[]string{
				"application",
				"version",
			},
		),
	}
}

// record stores the result of one probed application
func (m metrics) record(r Row) {
	state := 0.0
	if r.Healthy {
		state = 1
	}
	m.up.WithLabelValues(r.Name).Set(state)
	m.duration.WithLabelValues(r.Name).Set(r.Duration.Seconds())
	if r.Version != "" {
		m.version.WithLabelValues(r.Name, r.Version).Set(1)
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.up,
		m.duration,
		m.version,
	}
}
