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

import "time"

// Application is a single web application of the fleet
type Application struct {
	Name        string `json:"name"`
	BaseHost    string `json:"baseHost"`
	DisplayName string `json:"displayName"`
	// Version is set by the Coordinator after probing.
	// It stays nil if the probe failed or no version was reported.
	Version *string `json:"version,omitempty"`
}

// Override replaces the default health check path of one application
type Override struct {
	ApplicationName string `json:"applicationName"`
	Path            string `json:"path"`
}

// Row is the report entry of a single application
type Row struct {
	Name        string `json:"name"`
	BaseHost    string `json:"baseHost"`
	DisplayName string `json:"displayName"`
	// Version is empty if none could be extracted
	Version string `json:"version"`

	URL        string        `json:"url"`
	Healthy    bool          `json:"healthy"`
	StatusCode int           `json:"statusCode,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
}

// newRow builds the report row of a probed application
func newRow(app Application) Row {
	r := Row{
		Name:        app.Name,
		BaseHost:    app.BaseHost,
		DisplayName: app.DisplayName,
	}
	if app.Version != nil {
		r.Version = *app.Version
	}
	return r
}
