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
	"bytes"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/ui"
	"github.com/pkg/errors"
)

func execute(t *testing.T, ctx context.MemoryCtx, args ...string) error {
	var buf bytes.Buffer
	log.SetOutput(&buf)

	cmd := NewCmd(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return cmd.Execute()
}

func TestAdd(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)
	ui.Stdin = bytes.NewBufferString("")

	err := execute(t, ctx, "Blue Bottle", "--lat", "37.7825", "--lng", "-122.4078",
		"-d", "pour over", "-a", "1 Mint Plaza", "-c", "cafe", "--tag", "coffee", "--tag", "quiet")
	assert.IsNil(t, err, "running add")

	locs, err := ctx.Store.ListActiveLocations()
	assert.IsNil(t, err, "listing")
	assert.Equal(t, len(locs), 1, "location count mismatch")
	assert.Equal(t, locs[0].Name, "Blue Bottle", "name mismatch")
	assert.Equal(t, locs[0].Latitude, 37.7825, "latitude mismatch")
	assert.Equal(t, locs[0].Description, "pour over", "description mismatch")
	assert.DeepEqual(t, locs[0].Tags, []string{"coffee", "quiet"}, "tags mismatch")

	stats, err := ctx.Store.QueueStats()
	assert.IsNil(t, err, "getting queue stats")
	assert.Equal(t, stats.Pending, 1, "a create item must be queued")
}

func TestAdd_instagramSource(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)
	ui.Stdin = bytes.NewBufferString("")

	err := execute(t, ctx, "Blue Bottle", "--lat", "37.7825", "--lng", "-122.4078", "-d", "pour over", "-a", "1 Mint Plaza",
		"-c", "cafe", "--instagram", "https://instagram.com/p/abc", "--posted", "2025-02-01")
	assert.IsNil(t, err, "running add")

	locs, err := ctx.Store.ListActiveLocations()
	assert.IsNil(t, err, "listing")
	assert.Equal(t, locs[0].IsInstagramSource, true, "is_instagram_source mismatch")
	assert.Equal(t, locs[0].InstagramURL, "https://instagram.com/p/abc", "instagram_url mismatch")
	assert.Equal(t, locs[0].DatePosted, "2025-02-01", "date_posted mismatch")
}

func TestAdd_pipedDescription(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)
	ui.Stdin = bytes.NewBufferString("line one\nline two\n")

	err := execute(t, ctx, "Park", "--lat", "1", "--lng", "2", "-a", "Dolores St", "-c", "park")
	assert.IsNil(t, err, "running add")

	locs, err := ctx.Store.ListActiveLocations()
	assert.IsNil(t, err, "listing")
	assert.Equal(t, locs[0].Description, "line one\nline two", "description mismatch")
}

func TestAdd_invalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "latitude out of range", args: []string{"X", "--lat", "91", "--lng", "0"}},
		{name: "empty name", args: []string{" ", "--lat", "0", "--lng", "0"}},
		{name: "missing coordinates", args: []string{"X"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _, _ := context.InitTestCtx(t)
			ui.Stdin = bytes.NewBufferString("")

			err := execute(t, ctx, tc.args...)
			if err == nil {
				t.Fatal("expected an error")
			}

			var n int
			database.MustScan(t, "counting locations", ctx.DB.QueryRow("SELECT count(*) FROM locations"), &n)
			assert.Equal(t, n, 0, "nothing must be written")
		})
	}

	t.Run("validation error type", func(t *testing.T) {
		ctx, _, _ := context.InitTestCtx(t)
		ui.Stdin = bytes.NewBufferString("")

		err := execute(t, ctx, "X", "--lat", "0", "--lng", "181", "-d", "d", "-a", "a", "-c", "c")

		var verr *store.ValidationError
		assert.Equal(t, errors.As(err, &verr), true, "must wrap a validation error")
		assert.Equal(t, verr.Field, "longitude", "field mismatch")
	})
}
