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

import "encoding/json"

// Outcome is the result of a single probe.
// It is either a [Success] or a [Failure].
type Outcome interface {
	outcome()
}

var (
	_ Outcome = Success{}
	_ Outcome = Failure{}
)

// Success is a probe that received a response, regardless of its status code
type Success struct {
	Body       string
	StatusCode int
}

// Failure is a probe that did not receive a usable response
type Failure struct {
	Cause string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Healthy reports whether the response status is 2xx
func (s Success) Healthy() bool {
	return s.StatusCode >= 200 && s.StatusCode < 300
}

// Version extracts the self-reported version from the response body
func (s Success) Version() (string, bool) {
	return ExtractVersion(s.Body)
}

// ExtractVersion returns the string value of the top level "version"
// field of a JSON object. It returns false if the body is no JSON object,
// the field is missing or the field is not a string.
// The value is returned verbatim.
func ExtractVersion(body string) (string, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return "", false
	}

	raw, ok := doc["version"]
	if !ok {
		return "", false
	}

	// null decodes into a nil pointer without error
	var version *string
	if err := json.Unmarshal(raw, &version); err != nil || version == nil {
		return "", false
	}
	return *version, true
}
