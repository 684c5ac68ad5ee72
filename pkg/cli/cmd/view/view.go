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

package view

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var historyFlag bool

var example = `
 * View a location
 memorymap view 7f3c2a9e

 * Also show the queued changes of the location
 memorymap view 7f3c2a9e --history
 `

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new view command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <location id>",
		Aliases: []string{"v"},
		Short:   "View a location",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&historyFlag, "history", false, "show the sync queue items of the location")

	return cmd
}

func printHistory(items []database.QueueItem) {
	log.Plainf("\n")
	for _, item := range items {
		line := log.ColorGray.Sprintf("%s v%d", item.CreatedAt, item.Version)
		log.Plainf("%s %s %s (attempts %d)\n", line, item.Operation, item.Status, item.Attempts)
		if item.Error != nil {
			log.Plainf("  %s\n", log.ColorRed.Sprint(*item.Error))
		}
	}
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := ctx.Store.ResolveID(database.EntityLocations, args[0])
		if err != nil {
			return errors.Wrap(err, "finding location")
		}

		loc, err := ctx.Store.GetLocation(id)
		if err != nil {
			return errors.Wrap(err, "finding location")
		}
		output.LocationInfo(loc)

		if !historyFlag {
			return nil
		}

		items, err := ctx.Store.ListEntityQueueItems(id)
		if err != nil {
			return errors.Wrap(err, "listing queue items")
		}
		printHistory(items)

		return nil
	}
}
