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
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the run configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidInventory is returned when an input file contains invalid records
	ErrInvalidInventory = errors.New("invalid inventory")
)

// ErrInvalidRecord is returned when a single record of an input file is invalid
type ErrInvalidRecord struct {
	File   string
	Index  int
	Reason string
}

func (e ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid record %d in %q: %s", e.Index, e.File, e.Reason)
}

// Unwrap allows matching the record error with ErrInvalidInventory
func (e ErrInvalidRecord) Unwrap() error {
	return ErrInvalidInventory
}
