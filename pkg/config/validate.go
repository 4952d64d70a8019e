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
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/caas-team/webcheck/internal/logger"
	"github.com/caas-team/webcheck/pkg/report"
)

const minTimeout = 1 * time.Second

// absolutePath matches paths relative to the host root
var absolutePath = regexp.MustCompile(`^/`)

// Validate validates the run configuration
func (c *Config) Validate(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx, "configValidation")
	defer cancel()
	log := logger.FromContext(ctx)

	err := validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Applications, validation.Required),
		validation.Field(&c.Overrides, validation.Required),
		validation.Field(&c.DefaultPath, validation.Required, validation.Match(absolutePath).Error("must start with '/'")),
		validation.Field(&c.Timeout, validation.Required, validation.Min(minTimeout).Error(fmt.Sprintf("must be at least %v", minTimeout))),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.Format, validation.Required, validation.In(formats()...)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, fErr := range fieldErrs {
			log.ErrorContext(ctx, "Invalid configuration field", "field", field, "error", fErr)
		}
	} else {
		log.ErrorContext(ctx, "Failed to validate configuration", "error", err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// formats returns the supported report formats for the validation.In rule
func formats() []any {
	f := report.Formats()
	values := make([]any, 0, len(f))
	for _, v := range f {
		values = append(values, v)
	}
	return values
}
