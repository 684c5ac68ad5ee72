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

package fav

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var nameFlag string
var descriptionFlag string
var categoryFlag string
var notifyFlag bool
var radiusFlag float64

var example = `
  * Save a location as a favorite
  memorymap fav 7f3c2a9e

  * Save it under a custom name and get notified within 500m
  memorymap fav 7f3c2a9e -n "Morning coffee" --notify --radius 0.5`

// NewCmd returns a new fav command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav <location id>",
		Short:   "Save a location as a favorite",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&nameFlag, "name", "n", "", "a custom name for the favorite")
	f.StringVarP(&descriptionFlag, "description", "d", "", "a custom description for the favorite")
	f.StringVarP(&categoryFlag, "category", "c", "", "a custom category for the favorite")
	f.BoolVar(&notifyFlag, "notify", false, "notify when nearby")
	f.Float64Var(&radiusFlag, "radius", store.DefaultNotifyRadius, "the notification radius in kilometers")

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
		locationID, err := ctx.Store.ResolveID(database.EntityLocations, args[0])
		if err != nil {
			return errors.Wrap(err, "finding location")
		}

		id, err := ctx.Store.SaveUserLocation(store.UserLocationInput{
			LocationID:        locationID,
			CustomName:        nameFlag,
			CustomDescription: descriptionFlag,
			Category:          categoryFlag,
			NotifyEnabled:     notifyFlag,
			NotifyRadius:      radiusFlag,
		})
		if err != nil {
			return errors.Wrap(err, "saving favorite")
		}

		log.Successf("saved favorite %s\n", id)

		return nil
	}
}
