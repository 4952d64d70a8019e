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

package helper

import "github.com/mitchellh/mapstructure"

// Decode decodes input, usually a map of settings, into a value of type T.
//
// Decoding is weakly typed, so values read from flags or the environment
// as strings are converted to the target field type. Strings are converted
// to time.Duration and comma separated strings to string slices.
// Map keys are matched case-insensitively against the field names or their
// mapstructure tags, which allows decoding the lowercased keys returned by
// viper.AllSettings.
//
// Example Usage:
//
//	settings := map[string]any{
//	    "timeout":     "10s",
//	    "concurrency": "4",
//	}
//	cfg, err := Decode[config.Config](settings)
//	if err != nil {
//	    // handle error
//	}
func Decode[T any](input any) (T, error) {
	var result T
	config := &mapstructure.DecoderConfig{
		Metadata:         nil,
		WeaklyTypedInput: true,
		Result:           &result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return result, err
	}

	if err := decoder.Decode(input); err != nil {
		return result, err
	}

	return result, nil
}
