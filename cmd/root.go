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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables overriding flags,
// e.g. WEBCHECK_TIMEOUT=30s
const envPrefix = "webcheck"

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webcheck",
		Short: "Webcheck, the web application version probe",
		Long: "Webcheck probes the health check endpoints of a fleet of web applications.\n" +
			"It reports for every application whether it is reachable and which version it runs.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return rootCmd
}

// BuildCmd creates the command tree
func BuildCmd(version string) *cobra.Command {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdRun())
	cmd.AddCommand(NewCmdGenDocs(cmd))
	return cmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
