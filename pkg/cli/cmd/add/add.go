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

package add

import (
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/output"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

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
 * Save a location
 memorymap add "Blue Bottle" --lat 37.7825 --lng -122.4078 -c cafe --tag coffee

 * Send stdin content as the description
 echo "great pour over" | memorymap add "Blue Bottle" --lat 37.7825 --lng -122.4078`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
		return errors.New("--lat and --lng are required")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Save a new location",
		Aliases: []string{"a", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.Float64Var(&latFlag, "lat", 0, "latitude in degrees")
	f.Float64Var(&lngFlag, "lng", 0, "longitude in degrees")
	f.StringVarP(&descriptionFlag, "description", "d", "", "a description of the location")
	f.StringVarP(&addressFlag, "address", "a", "", "the street address")
	f.StringVarP(&categoryFlag, "category", "c", "", "a category such as cafe or park")
	f.StringSliceVar(&tagFlags, "tag", nil, "a tag. Repeat to add several")
	f.StringSliceVar(&photoFlags, "photo", nil, "a photo reference. Repeat to add several")
	f.StringVar(&instagramFlag, "instagram", "", "the url of the instagram post the location comes from")
	f.StringVar(&postedFlag, "posted", "", "the date the source was posted, as 2006-01-02")

	return cmd
}

func getDescription() (string, error) {
	if descriptionFlag != "" || !ui.IsPiped() {
		return descriptionFlag, nil
	}

	c, err := ui.ReadStdInput()
	if err != nil {
		return "", errors.Wrap(err, "Failed to get piped input")
	}

	return c, nil
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		description, err := getDescription()
		if err != nil {
			return errors.Wrap(err, "getting description")
		}

		id, err := ctx.Store.InsertLocation(store.LocationInput{
			Name:        args[0],
			Latitude:    latFlag,
			Longitude:   lngFlag,
			Description: description,
			Address:     addressFlag,
			Category:    categoryFlag,
			Tags:        tagFlags,
			Photos:      photoFlags,

			IsInstagramSource: instagramFlag != "",
			InstagramURL:      instagramFlag,
			DatePosted:        postedFlag,
		})
		if err != nil {
			return errors.Wrap(err, "saving location")
		}

		log.Successf("saved %s\n", args[0])

		loc, err := ctx.Store.GetLocation(id)
		if err != nil {
			return errors.Wrap(err, "finding the saved location")
		}
		output.LocationInfo(loc)

		return nil
	}
}
