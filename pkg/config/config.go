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

package config

import (
	"time"

	"github.com/caas-team/webcheck/internal/httpclient"
	"github.com/caas-team/webcheck/pkg/probe"
	"github.com/caas-team/webcheck/pkg/report"
)

const (
	// DefaultApplicationsPath is the default location of the applications file
	DefaultApplicationsPath = "./input/webapps-info.json"
	// DefaultOverridesPath is the default location of the health check path overrides
	DefaultOverridesPath = "./input/health-check-path.json"
)

// Config is the configuration of a single webcheck run
type Config struct {
	// Applications is the path to the applications file
	Applications string `json:"applications" mapstructure:"applications"`
	// Overrides is the path to the health check path overrides file
	Overrides string `json:"overrides" mapstructure:"overrides"`
	// DefaultPath is the health check path of applications without override
	DefaultPath string `json:"defaultPath" mapstructure:"defaultPath"`
	// Timeout bounds every single probe
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// Concurrency limits the probes in flight, 0 means unlimited
	Concurrency int `json:"concurrency" mapstructure:"concurrency"`
	// Format is the report format
	Format string `json:"format" mapstructure:"format"`
	// Output is the report file, empty means stdout
	Output string `json:"output" mapstructure:"output"`
	// MetricsFile is the path of the prometheus textfile, empty disables it
	MetricsFile string `json:"metricsFile" mapstructure:"metricsFile"`
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		Applications: DefaultApplicationsPath,
		Overrides:    DefaultOverridesPath,
		DefaultPath:  probe.DefaultHealthCheckPath,
		Timeout:      httpclient.DefaultTimeout,
		Format:       report.FormatCSV,
	}
}

// HasMetricsFile returns true if the metrics should be written to a file
func (c *Config) HasMetricsFile() bool {
	return c.MetricsFile != ""
}
