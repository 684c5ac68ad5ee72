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

package retry

import (
	"strings"

	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var syncFlag bool

var example = `
  * Retry every item that failed to sync
  memorymap retry

  * Retry the items of one entity and sync right away
  memorymap retry 7f3c2a9e --sync`

// NewCmd returns a new retry command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "retry [entity id]",
		Short:   "Give failed items a fresh set of attempts",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&syncFlag, "sync", "s", false, "sync after resetting")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// failedEntities returns the ids of entities with failed items that start
// with prefix, in queue order
func failedEntities(ctx context.MemoryCtx, prefix string) ([]string, error) {
	items, err := ctx.Store.ListQueueItems(database.QueueStatusFailed)
	if err != nil {
		return nil, errors.Wrap(err, "listing failed items")
	}

	seen := map[string]bool{}
	var ret []string
	for _, item := range items {
		if seen[item.EntityID] || !strings.HasPrefix(item.EntityID, prefix) {
			continue
		}

		seen[item.EntityID] = true
		ret = append(ret, item.EntityID)
	}

	return ret, nil
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}

		ids, err := failedEntities(ctx, prefix)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			log.Info("no failed items\n")
			return nil
		}
		if prefix != "" && len(ids) > 1 {
			return errors.Errorf("%s matches %d entities. Use a longer id", prefix, len(ids))
		}

		var total int64
		for _, id := range ids {
			n, err := ctx.Store.ResetFailed(id)
			if err != nil {
				return errors.Wrapf(err, "resetting %s", id)
			}
			total += n
		}

		log.Successf("reset %d failed item(s)\n", total)

		if !syncFlag {
			return nil
		}

		if err := ctx.Engine.StartSync(cmd.Context()); err != nil {
			return errors.Wrap(err, "syncing")
		}
		if s := ctx.Engine.Status(); s.LastSyncError != nil {
			log.Warnf("%s\n", *s.LastSyncError)
		}

		return nil
	}
}
