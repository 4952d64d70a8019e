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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/webcheck/internal/httpclient"
	"github.com/caas-team/webcheck/internal/logger"
)

var testApps = []Application{
	{Name: "webapp1", BaseHost: "example.com", DisplayName: "App1"},
	{Name: "webapp2", BaseHost: "example.com", DisplayName: "App2"},
	{Name: "webapp3", BaseHost: "example.com", DisplayName: "App3"},
}

func TestCoordinator_RunAll(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name                string
		registeredEndpoints map[string]httpmock.Responder
		apps                []Application
		overrides           []Override
		want                []Row
	}{
		{
			name: "no applications",
			apps: []Application{},
			want: []Row{},
		},
		{
			name: "overrides and default path",
			registeredEndpoints: map[string]httpmock.Responder{
				"https://example.com/health":     httpmock.NewStringResponder(http.StatusOK, `{"version":"1.0.0"}`),
				"https://example.com/status":     httpmock.NewStringResponder(http.StatusOK, `{"version":"2.0.0"}`),
				"https://example.com/api/health": httpmock.NewStringResponder(http.StatusOK, `{"version":"3.0.0"}`),
			},
			apps:      testApps,
			overrides: testOverrides,
			want: []Row{
				{Name: "webapp1", BaseHost: "example.com", DisplayName: "App1", Version: "1.0.0", URL: "https://example.com/health", Healthy: true, StatusCode: 200},
				{Name: "webapp2", BaseHost: "example.com", DisplayName: "App2", Version: "2.0.0", URL: "https://example.com/status", Healthy: true, StatusCode: 200},
				{Name: "webapp3", BaseHost: "example.com", DisplayName: "App3", Version: "3.0.0", URL: "https://example.com/api/health", Healthy: true, StatusCode: 200},
			},
		},
		{
			name: "one transport failure is isolated",
			registeredEndpoints: map[string]httpmock.Responder{
				"https://example.com/health":     httpmock.NewStringResponder(http.StatusOK, `{"version":"1.0.0"}`),
				"https://example.com/status":     httpmock.NewErrorResponder(errors.New("connection refused")),
				"https://example.com/api/health": httpmock.NewStringResponder(http.StatusOK, `{"version":"3.0.0"}`),
			},
			apps:      testApps,
			overrides: testOverrides,
			want: []Row{
				{Name: "webapp1", BaseHost: "example.com", DisplayName: "App1", Version: "1.0.0", URL: "https://example.com/health", Healthy: true, StatusCode: 200},
				{Name: "webapp2", BaseHost: "example.com", DisplayName: "App2", URL: "https://example.com/status"},
				{Name: "webapp3", BaseHost: "example.com", DisplayName: "App3", Version: "3.0.0", URL: "https://example.com/api/health", Healthy: true, StatusCode: 200},
			},
		},
		{
			name: "response shape errors",
			registeredEndpoints: map[string]httpmock.Responder{
				"https://a.test.com/api/health": httpmock.NewStringResponder(http.StatusOK, "not json"),
				"https://b.test.com/api/health": httpmock.NewStringResponder(http.StatusOK, `{"version":42}`),
				"https://c.test.com/api/health": httpmock.NewStringResponder(http.StatusInternalServerError, `{"version":"0.9.1"}`),
			},
			apps: []Application{
				{Name: "a", BaseHost: "a.test.com", DisplayName: "A"},
				{Name: "b", BaseHost: "b.test.com", DisplayName: "B"},
				{Name: "c", BaseHost: "c.test.com", DisplayName: "C"},
			},
			want: []Row{
				{Name: "a", BaseHost: "a.test.com", DisplayName: "A", URL: "https://a.test.com/api/health", Healthy: true, StatusCode: 200},
				{Name: "b", BaseHost: "b.test.com", DisplayName: "B", URL: "https://b.test.com/api/health", Healthy: true, StatusCode: 200},
				{Name: "c", BaseHost: "c.test.com", DisplayName: "C", Version: "0.9.1", URL: "https://c.test.com/api/health", StatusCode: 500},
			},
		},
		{
			name: "malformed host",
			apps: []Application{
				{Name: "broken", BaseHost: "not a host", DisplayName: "Broken"},
			},
			want: []Row{
				{Name: "broken", BaseHost: "not a host", DisplayName: "Broken", URL: "https://not a host/api/health"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			for endpoint, responder := range tt.registeredEndpoints {
				httpmock.RegisterResponder(http.MethodGet, endpoint, responder)
			}

			c := NewCoordinator(NewResolver(""), NewHTTPProber())
			got := c.RunAll(context.Background(), tt.apps, tt.overrides)

			require.Len(t, got, len(tt.apps))
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Row{}, "Duration", "Error")); diff != "" {
				t.Errorf("RunAll() mismatch (-want +got):\n%s", diff)
			}
			for _, r := range got {
				assert.Equal(t, r.Healthy || r.StatusCode != 0, r.Error == "", "error of %s does not match its outcome", r.Name)
			}
		})
	}
}

func TestCoordinator_RunAll_keepsInputOrder(t *testing.T) {
	apps := make([]Application, 20)
	for i := range apps {
		apps[i] = Application{Name: fmt.Sprintf("app%02d", i), BaseHost: fmt.Sprintf("app%02d.test.com", i)}
	}

	index := map[string]int{}
	for i, app := range apps {
		index["https://"+app.BaseHost+DefaultHealthCheckPath] = i
	}

	// later applications answer first
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		i := index[url]
		time.Sleep(time.Duration(len(apps)-i) * 5 * time.Millisecond)
		return Success{Body: fmt.Sprintf(`{"version":"%d"}`, i), StatusCode: http.StatusOK}
	})

	got := NewCoordinator(NewResolver(""), prober).RunAll(context.Background(), apps, nil)

	require.Len(t, got, len(apps))
	for i, r := range got {
		assert.Equal(t, apps[i].Name, r.Name)
		assert.Equal(t, apps[i].BaseHost, r.BaseHost)
		assert.Equal(t, fmt.Sprint(i), r.Version)
	}
}

func TestCoordinator_RunAll_fansOut(t *testing.T) {
	const n = 10
	apps := make([]Application, n)
	for i := range apps {
		apps[i] = Application{Name: fmt.Sprintf("app%d", i), BaseHost: "example.com"}
	}

	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		started.Done()
		select {
		case <-allStarted:
			return Success{Body: `{"version":"1"}`, StatusCode: http.StatusOK}
		case <-time.After(5 * time.Second):
			return Failure{Cause: "not all probes were in flight at the same time"}
		}
	})

	got := NewCoordinator(NewResolver(""), prober).RunAll(context.Background(), apps, nil)

	for _, r := range got {
		assert.Empty(t, r.Error)
		assert.Equal(t, "1", r.Version)
	}
}

func TestCoordinator_RunAll_boundedConcurrency(t *testing.T) {
	const limit = 3
	apps := make([]Application, 12)
	for i := range apps {
		apps[i] = Application{Name: fmt.Sprintf("app%d", i), BaseHost: "example.com"}
	}

	var inFlight, peak atomic.Int32
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return Failure{Cause: "down"}
	})

	got := NewCoordinator(NewResolver(""), prober, WithConcurrency(limit)).RunAll(context.Background(), apps, nil)

	require.Len(t, got, len(apps))
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	for i, r := range got {
		assert.Equal(t, apps[i].Name, r.Name)
		assert.Equal(t, "down", r.Error)
		assert.Empty(t, r.Version)
	}
}

func TestCoordinator_RunAll_doesNotMutateInput(t *testing.T) {
	v := "stale"
	apps := []Application{{Name: "webapp1", BaseHost: "example.com", Version: &v}}
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		return Success{Body: `{"version":"fresh"}`, StatusCode: http.StatusOK}
	})

	got := NewCoordinator(NewResolver(""), prober).RunAll(context.Background(), apps, nil)

	assert.Equal(t, "fresh", got[0].Version)
	assert.Equal(t, "stale", *apps[0].Version)
}

func TestCoordinator_RunAll_staleVersionDropped(t *testing.T) {
	v := "stale"
	apps := []Application{{Name: "webapp1", BaseHost: "example.com", Version: &v}}
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		return Failure{Cause: "timeout"}
	})

	got := NewCoordinator(NewResolver(""), prober).RunAll(context.Background(), apps, nil)

	assert.Empty(t, got[0].Version)
	assert.Equal(t, "timeout", got[0].Error)
}

func TestCoordinator_RunAll_nullVersion(t *testing.T) {
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		return Success{Body: `{"version":null}`, StatusCode: http.StatusOK}
	})

	c := NewCoordinator(NewResolver(""), prober)
	got := c.RunAll(context.Background(), testApps[:1], nil)

	require.Len(t, got, 1)
	assert.True(t, got[0].Healthy)
	assert.Empty(t, got[0].Version)
	assert.Equal(t, 0, testutil.CollectAndCount(c.metrics.version))
}

func TestCoordinator_RunAll_logsTransportFailureOnce(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/api/health",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logger.IntoContext(context.Background(), log)
	ctx = httpclient.IntoContext(ctx, httpclient.New(time.Second))

	got := NewCoordinator(NewResolver(""), NewHTTPProber()).RunAll(ctx, testApps[:1], nil)

	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].Error)
	warnings := strings.Count(buf.String(), "level=WARN")
	assert.Equal(t, 1, warnings, "logs: %s", buf.String())
	assert.Contains(t, buf.String(), "application=webapp1")
	assert.Contains(t, buf.String(), "url=https://example.com/api/health")
}

func TestCoordinator_RunAll_nilOutcome(t *testing.T) {
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		return nil
	})

	got := NewCoordinator(NewResolver(""), prober).RunAll(context.Background(), testApps[:1], nil)

	require.Len(t, got, 1)
	assert.False(t, got[0].Healthy)
	assert.NotEmpty(t, got[0].Error)
}

func TestCoordinator_metrics(t *testing.T) {
	prober := ProberFunc(func(ctx context.Context, url string) Outcome {
		switch url {
		case "https://example.com/health":
			return Success{Body: `{"version":"1.0.0"}`, StatusCode: http.StatusOK}
		case "https://example.com/status":
			return Failure{Cause: "connection refused"}
		default:
			return Success{Body: "gateway timeout", StatusCode: http.StatusGatewayTimeout}
		}
	})

	c := NewCoordinator(NewResolver(""), prober)
	c.RunAll(context.Background(), testApps, testOverrides)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.up.WithLabelValues("webapp1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.metrics.up.WithLabelValues("webapp2")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.metrics.up.WithLabelValues("webapp3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.version.WithLabelValues("webapp1", "1.0.0")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.metrics.version))
	assert.Equal(t, 3, testutil.CollectAndCount(c.metrics.duration))
	assert.Len(t, c.GetMetricCollectors(), 3)
}
