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

package ls

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var favoritesFlag bool

var example = `
 * List all locations
 memorymap ls

 * List saved favorites
 memorymap ls --favorites`

// NewCmd returns a new ls command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List locations",
		Aliases: []string{"l"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&favoritesFlag, "favorites", "f", false, "list saved favorites instead of locations")

	return cmd
}

func printLocations(s *store.Store) error {
	locs, err := s.ListActiveLocations()
	if err != nil {
		return errors.Wrap(err, "listing locations")
	}
	if len(locs) == 0 {
		log.Info("no locations yet\n")
		return nil
	}

	for _, l := range locs {
		output.LocationLine(l)
	}

	return nil
}

// locationName returns the name of the location a favorite points to. A
// location deleted on this device still shows its last known name.
func locationName(s *store.Store, id string) (string, error) {
	l, err := s.GetLocation(id)
	if store.IsNotFound(err) {
		return id, nil
	}
	if err != nil {
		return "", err
	}

	return l.Name, nil
}

func printFavorites(s *store.Store) error {
	uls, err := s.ListUserLocations()
	if err != nil {
		return errors.Wrap(err, "listing favorites")
	}
	if len(uls) == 0 {
		log.Info("no favorites yet\n")
		return nil
	}

	for _, u := range uls {
		name, err := locationName(s, u.LocationID)
		if err != nil {
			return errors.Wrapf(err, "finding location %s", u.LocationID)
		}

		output.UserLocationLine(u, name)
	}

	return nil
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if favoritesFlag {
			return printFavorites(ctx.Store)
		}

		return printLocations(ctx.Store)
	}
}
