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

package sync

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  memorymap sync`

// NewCmd returns a new sync command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Push queued changes to the remote store",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// online probes the remote store when the context carries a prober
func online(ctx context.MemoryCtx, cmd *cobra.Command) bool {
	if ctx.Prober == nil {
		return true
	}

	ok, _ := ctx.Prober.Probe(cmd.Context())
	return ok
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if !online(ctx, cmd) {
			log.Warnf("%s is unreachable. Changes stay queued until the next sync\n", ctx.RemoteEndpoint)
			return nil
		}

		start := ctx.Clock.Now()
		if err := ctx.Engine.StartSync(cmd.Context()); err != nil {
			return errors.Wrap(err, "syncing")
		}

		status := ctx.Engine.Status()
		output.PassResult(status.LastPass, ctx.Clock.Since(start))
		if status.LastSyncError != nil {
			log.Warnf("%s\n", *status.LastSyncError)
		}

		return nil
	}
}
