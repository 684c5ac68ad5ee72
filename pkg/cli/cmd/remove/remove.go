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

package remove

import (
	"fmt"

	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/memorymap/memorymap/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
  * Delete a location
  memorymap remove 7f3c2a9e

  * Skip the confirmation
  memorymap remove 7f3c2a9e -y`

// NewCmd returns a new remove command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <location id>",
		Short:   "Delete a location",
		Aliases: []string{"rm", "d"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "assume yes to the prompts and run in non-interactive mode")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
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

		if !yesFlag {
			output.LocationInfo(loc)

			ok, err := ui.Confirm(fmt.Sprintf("remove %s?", loc.Name), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := ctx.Store.SoftDeleteLocation(id); err != nil {
			return errors.Wrap(err, "removing location")
		}

		log.Successf("removed %s\n", loc.Name)

		return nil
	}
}
