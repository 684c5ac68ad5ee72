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

package edit

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var nameFlag string
var latFlag float64
var lngFlag float64
var descriptionFlag string
var addressFlag string
var categoryFlag string
var tagFlags []string
var photoFlags []string
var instagramFlag string
var postedFlag string

var example = `
  * Rename a location
  memorymap edit 7f3c2a9e -n "Blue Bottle Mint Plaza"

  * Replace the tags of a location
  memorymap edit 7f3c2a9e --tag coffee --tag wifi
`

// NewCmd returns a new edit command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <location id>",
		Short:   "Edit a location",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&nameFlag, "name", "n", "", "a new name")
	f.Float64Var(&latFlag, "lat", 0, "a new latitude")
	f.Float64Var(&lngFlag, "lng", 0, "a new longitude")
	f.StringVarP(&descriptionFlag, "description", "d", "", "a new description")
	f.StringVarP(&addressFlag, "address", "a", "", "a new street address")
	f.StringVarP(&categoryFlag, "category", "c", "", "a new category")
	f.StringSliceVar(&tagFlags, "tag", nil, "replace the tags. Repeat to set several")
	f.StringSliceVar(&photoFlags, "photo", nil, "replace the photos. Repeat to set several")
	f.StringVar(&instagramFlag, "instagram", "", "a new source instagram url. Empty clears the source")
	f.StringVar(&postedFlag, "posted", "", "a new source post date, as 2006-01-02")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if cmd.Flags().NFlag() == 0 {
		return errors.New("Nothing to edit. Pass at least one flag")
	}

	return nil
}

// buildPatch sets only the fields whose flags were given
func buildPatch(f *pflag.FlagSet) store.LocationPatch {
	var p store.LocationPatch

	if f.Changed("name") {
		p.Name = &nameFlag
	}
	if f.Changed("lat") {
		p.Latitude = &latFlag
	}
	if f.Changed("lng") {
		p.Longitude = &lngFlag
	}
	if f.Changed("description") {
		p.Description = &descriptionFlag
	}
	if f.Changed("address") {
		p.Address = &addressFlag
	}
	if f.Changed("category") {
		p.Category = &categoryFlag
	}
	if f.Changed("tag") {
		p.Tags = &tagFlags
	}
	if f.Changed("photo") {
		p.Photos = &photoFlags
	}
	if f.Changed("instagram") {
		isSource := instagramFlag != ""
		p.IsInstagramSource = &isSource
		p.InstagramURL = &instagramFlag
	}
	if f.Changed("posted") {
		p.DatePosted = &postedFlag
	}

	return p
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := ctx.Store.ResolveID(database.EntityLocations, args[0])
		if err != nil {
			return errors.Wrap(err, "finding location")
		}

		if err := ctx.Store.UpdateLocation(id, buildPatch(cmd.Flags())); err != nil {
			return errors.Wrap(err, "updating location")
		}

		loc, err := ctx.Store.GetLocation(id)
		if err != nil {
			return errors.Wrap(err, "finding the updated location")
		}

		log.Successf("edited %s\n", loc.Name)
		output.LocationInfo(loc)

		return nil
	}
}
