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

package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/caas-team/webcheck/pkg/probe"
)

const (
	// FormatCSV is the default format, kept for downstream tooling
	FormatCSV = "csv"
	// FormatTable renders an aligned table for humans
	FormatTable = "table"
	// FormatJSON renders all row fields as a JSON array
	FormatJSON = "json"
)

// csvHeader is the header line of the csv report
var csvHeader = []string{"Name", "URL", "DisplayName", "Version"}

// Reporter renders the rows of a run
type Reporter interface {
	Report(w io.Writer, rows []probe.Row) error
}

// Formats returns all supported report formats
func Formats() []string {
	return []string{FormatCSV, FormatTable, FormatJSON}
}

// New returns the Reporter for the given format
func New(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return csvReporter{}, nil
	case FormatTable:
		return tableReporter{}, nil
	case FormatJSON:
		return jsonReporter{}, nil
	default:
		return nil, ErrUnknownFormat{Format: format}
	}
}

// ErrUnknownFormat is returned for unsupported report formats
type ErrUnknownFormat struct {
	Format string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown report format %q, supported formats are %s", e.Format, strings.Join(Formats(), ", "))
}

type csvReporter struct{}

// Report writes one line per row with an empty version if none was reported.
// The URL column holds the base host of the application.
func (csvReporter) Report(w io.Writer, rows []probe.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed writing csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Name, r.BaseHost, r.DisplayName, r.Version}); err != nil {
			return fmt.Errorf("failed writing csv row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type tableReporter struct{}

func (tableReporter) Report(w io.Writer, rows []probe.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tURL\tSTATUS\tVERSION\tDURATION")
	for _, r := range rows {
		version := r.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.DisplayName, r.URL, status(r), version, r.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed writing table: %w", err)
	}
	return nil
}

// status describes the probe outcome of a row
func status(r probe.Row) string {
	switch {
	case r.Error != "":
		return "NG"
	case r.Healthy:
		return fmt.Sprintf("OK (%d)", r.StatusCode)
	default:
		return fmt.Sprintf("UNHEALTHY (%d)", r.StatusCode)
	}
}

type jsonReporter struct{}

// jsonRow is a row with its probe duration in seconds
type jsonRow struct {
	probe.Row
	DurationSeconds float64 `json:"durationSeconds"`
}

func (jsonReporter) Report(w io.Writer, rows []probe.Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, jsonRow{Row: r, DurationSeconds: r.Duration.Seconds()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed writing json report: %w", err)
	}
	return nil
}

// Summary holds the counts of a run
type Summary struct {
	Total     int
	Healthy   int
	Failed    int
	Versioned int
}

// Summarize counts the outcomes of all rows
func Summarize(rows []probe.Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Healthy {
			s.Healthy++
		}
		if r.Error != "" {
			s.Failed++
		}
		if r.Version != "" {
			s.Versioned++
		}
	}
	return s
}

// AllHealthy returns true if every application answered with a 2xx status
func (s Summary) AllHealthy() bool {
	return s.Healthy == s.Total
}
