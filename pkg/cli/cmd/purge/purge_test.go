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

package purge

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	clictx "github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/testutils"
	"github.com/memorymap/memorymap/pkg/clock"
)

func execute(ctx clictx.MemoryCtx, args ...string) error {
	log.SetOutput(&bytes.Buffer{})

	cmd := NewCmd(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd.Execute()
}

func completedCount(t *testing.T, ctx clictx.MemoryCtx) int {
	stats, err := ctx.Store.QueueStats()
	if err != nil {
		t.Fatal(err)
	}

	return stats.Completed
}

func TestPurge(t *testing.T) {
	ctx, _, _ := clictx.InitTestCtx(t)
	c := ctx.Clock.(*clock.Mock)

	_, err := ctx.Store.InsertLocation(testutils.Harbor())
	assert.IsNil(t, err, "inserting")
	assert.IsNil(t, ctx.Engine.StartSync(context.Background()), "syncing")
	assert.Equal(t, completedCount(t, ctx), 1, "precondition: item must be completed")

	c.Advance(2 * 24 * time.Hour)
	assert.IsNil(t, execute(ctx), "purging with the default retention")
	assert.Equal(t, completedCount(t, ctx), 1, "a recent item must be kept")

	assert.IsNil(t, execute(ctx, "--days", "1"), "purging with a custom retention")
	assert.Equal(t, completedCount(t, ctx), 0, "an item older than the retention must be deleted")
}

func TestPurge_negativeDays(t *testing.T) {
	ctx, _, _ := clictx.InitTestCtx(t)

	if err := execute(ctx, "--days", "-1"); err == nil {
		t.Fatal("expected an error")
	}
}
