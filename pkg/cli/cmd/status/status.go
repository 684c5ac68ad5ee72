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

package status

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var failedFlag bool

var example = `
  * Show the sync state
  memorymap status

  * Also list the items that failed to sync
  memorymap status --failed`

// NewCmd returns a new status command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the sync state and the queue",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&failedFlag, "failed", false, "list the items that failed to sync")

	return cmd
}

func printFailed(ctx context.MemoryCtx) error {
	items, err := ctx.Store.ListQueueItems(database.QueueStatusFailed)
	if err != nil {
		return errors.Wrap(err, "listing failed items")
	}

	for _, item := range items {
		msg := ""
		if item.Error != nil {
			msg = *item.Error
		}

		log.Plainf("%s %s %s after %d attempt(s): %s\n",
			log.ColorRed.Sprint(item.Operation), item.EntityType, item.EntityID, item.Attempts, msg)
	}

	return nil
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		stats, err := ctx.Store.QueueStats()
		if err != nil {
			return errors.Wrap(err, "getting queue stats")
		}

		output.SyncStatus(ctx.Engine.Status(), stats)

		if failedFlag {
			return printFailed(ctx)
		}

		return nil
	}
}
