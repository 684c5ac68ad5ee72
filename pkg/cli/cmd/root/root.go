/* Copyright 2025 Memorymap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package root holds the top level memorymap command and its global flags
package root

import (
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/spf13/cobra"
)

var (
	dbPathFlag string
	debugFlag  bool
)

var root = newCmd()

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "memorymap",
		Short:         "Memorymap - an offline-first location journal",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				log.SetDebug(true)
			}
		},
	}

	f := cmd.PersistentFlags()
	// Read again in main before the database is opened.
	f.StringVar(&dbPathFlag, "dbPath", "", "the path to the database file (defaults to standard location)")
	f.BoolVar(&debugFlag, "debug", false, "print debug messages")

	return cmd
}

// Register adds subcommands to the root command
func Register(cmds ...*cobra.Command) {
	root.AddCommand(cmds...)
}

// Execute runs the root command with the process arguments
func Execute() error {
	return root.Execute()
}
