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
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/caas-team/webcheck/internal/httpclient"
	"github.com/caas-team/webcheck/internal/logger"
)

// maxBodySize limits how much of a response body is read
const maxBodySize = 1 << 20

// Prober performs a single probe against a URL.
// Implementations must be safe for concurrent use and must never panic
// on transport problems; failures are reported as [Failure].
type Prober interface {
	Probe(ctx context.Context, url string) Outcome
}

// ProberFunc adapts a function to the [Prober] interface
type ProberFunc func(ctx context.Context, url string) Outcome

// Probe calls f(ctx, url)
func (f ProberFunc) Probe(ctx context.Context, url string) Outcome {
	return f(ctx, url)
}

var _ Prober = (*HTTPProber)(nil)

// HTTPProber probes URLs with a plain HTTP GET.
// The http.Client is taken from the context, see [httpclient.IntoContext].
type HTTPProber struct{}

// NewHTTPProber creates a new HTTPProber
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{}
}

// Probe sends a GET request to url and returns the response body.
// Non 2xx responses are still a Success.
func (p *HTTPProber) Probe(ctx context.Context, url string) Outcome {
	log := logger.FromContext(ctx).With("url", url)
	client := httpclient.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		log.Debug("Error while creating request", "error", err)
		return Failure{Cause: fmt.Sprintf("invalid request: %v", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Debug("Error while requesting health", "error", err)
		return Failure{Cause: err.Error()}
	}
	defer func(b io.ReadCloser) {
		if cErr := b.Close(); cErr != nil {
			log.Debug("Failed to close response body", "error", cErr)
		}
	}(resp.Body)

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Debug("Error while reading response body", "error", err)
		return Failure{Cause: fmt.Sprintf("reading body: %v", err)}
	}

	if !utf8.Valid(b) {
		log.Debug("Response body is not valid UTF-8", "status", resp.Status)
		return Failure{Cause: "response body is not valid UTF-8"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("Health request was not ok", "status", resp.Status)
	}

	return Success{Body: string(b), StatusCode: resp.StatusCode}
}
