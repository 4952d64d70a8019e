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

// DefaultHealthCheckPath is used for applications without an override
const DefaultHealthCheckPath = "/api/health"

const scheme = "https://"

// Resolver derives the health check URL of an application
type Resolver struct {
	// DefaultPath is used when no override matches
	DefaultPath string
}

// NewResolver creates a Resolver using the given default path.
// An empty path yields DefaultHealthCheckPath.
func NewResolver(defaultPath string) Resolver {
	if defaultPath == "" {
		defaultPath = DefaultHealthCheckPath
	}
	return Resolver{DefaultPath: defaultPath}
}

// Resolve returns the health check URL of the application.
// The first override matching the application name wins.
// The host is not validated; a malformed host surfaces as a probe failure.
func (r Resolver) Resolve(app Application, overrides []Override) string {
	return scheme + app.BaseHost + r.path(app.Name, overrides)
}

func (r Resolver) path(name string, overrides []Override) string {
	for _, o := range overrides {
		if o.ApplicationName == name {
			return o.Path
		}
	}
	if r.DefaultPath == "" {
		return DefaultHealthCheckPath
	}
	return r.DefaultPath
}
