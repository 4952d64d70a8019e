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
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/webcheck/internal/logger"
	"github.com/caas-team/webcheck/pkg/probe"
)

// Inventory holds the parsed input of a run
type Inventory struct {
	Applications []probe.Application
	Overrides    []probe.Override
}

// webAppRecord is a single entry of the applications file
type webAppRecord struct {
	WebAppsName string `json:"WebAppsName" yaml:"WebAppsName"`
	WebAppsURL  string `json:"WebAppsURL" yaml:"WebAppsURL"`
	AppName     string `json:"AppName" yaml:"AppName"`
}

// healthCheckPathRecord is a single entry of the overrides file
type healthCheckPathRecord struct {
	WebAppsName string `json:"WebAppsName" yaml:"WebAppsName"`
	Path        string `json:"Path" yaml:"Path"`
}

// osFS opens files relative to the working directory or by absolute path
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec // paths are provided by the operator
}

// FileLoader reads the applications and overrides files
type FileLoader struct {
	applicationsPath string
	overridesPath    string
	fsys             fs.FS
}

// NewFileLoader creates a FileLoader reading the files configured in cfg
func NewFileLoader(cfg *Config) *FileLoader {
	return &FileLoader{
		applicationsPath: cfg.Applications,
		overridesPath:    cfg.Overrides,
		fsys:             osFS{},
	}
}

// Load reads and validates both input files.
// Any error is fatal for the run and returned before probing starts.
func (f *FileLoader) Load(ctx context.Context) (Inventory, error) {
	log := logger.FromContext(ctx)

	apps, err := readRecords[webAppRecord](ctx, f.fsys, f.applicationsPath)
	if err != nil {
		return Inventory{}, err
	}
	overrides, err := readRecords[healthCheckPathRecord](ctx, f.fsys, f.overridesPath)
	if err != nil {
		return Inventory{}, err
	}

	inv := Inventory{
		Applications: make([]probe.Application, 0, len(apps)),
		Overrides:    make([]probe.Override, 0, len(overrides)),
	}

	seen := make(map[string]int, len(apps))
	for i, r := range apps {
		app := probe.Application{Name: r.WebAppsName, BaseHost: r.WebAppsURL, DisplayName: r.AppName}
		if err := validateApplication(app); err != nil {
			log.Error("Invalid application", "file", f.applicationsPath, "index", i, "error", err)
			return Inventory{}, ErrInvalidRecord{File: f.applicationsPath, Index: i, Reason: err.Error()}
		}
		if first, ok := seen[app.Name]; ok {
			log.Error("Duplicate application name", "file", f.applicationsPath, "name", app.Name, "index", i, "first", first)
			return Inventory{}, ErrInvalidRecord{
				File:   f.applicationsPath,
				Index:  i,
				Reason: fmt.Sprintf("application %q already defined at index %d", app.Name, first),
			}
		}
		seen[app.Name] = i
		inv.Applications = append(inv.Applications, app)
	}

	for i, r := range overrides {
		o := probe.Override{ApplicationName: r.WebAppsName, Path: r.Path}
		if err := validateOverride(o); err != nil {
			log.Error("Invalid health check path override", "file", f.overridesPath, "index", i, "error", err)
			return Inventory{}, ErrInvalidRecord{File: f.overridesPath, Index: i, Reason: err.Error()}
		}
		if _, ok := seen[o.ApplicationName]; !ok {
			log.Warn("Health check path override for unknown application", "application", o.ApplicationName)
		}
		inv.Overrides = append(inv.Overrides, o)
	}

	if len(inv.Applications) == 0 {
		log.Warn("No applications defined", "file", f.applicationsPath)
	}
	log.Info("Loaded inventory", "applications", len(inv.Applications), "overrides", len(inv.Overrides))
	return inv, nil
}

// readRecords reads a list of records from a JSON or YAML file.
// Files ending with .yaml or .yml are parsed as YAML, everything else as JSON.
func readRecords[T any](ctx context.Context, fsys fs.FS, path string) ([]T, error) {
	log := logger.FromContext(ctx).With("file", path)
	log.Debug("Reading inventory file")

	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		log.Error("Failed to read inventory file", "error", err)
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []T
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &records)
	default:
		err = json.Unmarshal(b, &records)
	}
	if err != nil {
		log.Error("Failed to parse inventory file", "error", err)
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

func validateApplication(app probe.Application) error {
	return validation.ValidateStruct(&app,
		validation.Field(&app.Name, validation.Required),
		validation.Field(&app.BaseHost, validation.Required),
	)
}

func validateOverride(o probe.Override) error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ApplicationName, validation.Required),
		validation.Field(&o.Path, validation.Required, validation.Match(absolutePath).Error("must start with '/'")),
	)
}
