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

package version

import (
	"fmt"

	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/spf13/cobra"
)

var verboseFlag bool

// NewCmd returns a new version command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Memorymap",
		Long:  "Print the version number of Memorymap",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "memorymap %s\n", ctx.Version)

			if verboseFlag {
				c := ctx.Engine.Config()
				fmt.Fprintf(out, "remote: %s\n", ctx.RemoteEndpoint)
				fmt.Fprintf(out, "database: %s\n", ctx.DB.Filepath)
				fmt.Fprintf(out, "batch size: %d, max attempts: %d, retry delay: %s, retention: %s\n",
					c.BatchSize, c.MaxAttempts, c.RetryDelay, c.Retention)
			}
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&verboseFlag, "verbose", "v", false, "also print the remote endpoint and the sync settings")

	return cmd
}
