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

package daemon

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	clictx "github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/testutils"
	"github.com/memorymap/memorymap/pkg/clock"
)

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("condition was not met in time")
}

func TestDaemon_syncOnTransition(t *testing.T) {
	mctx, r, _ := clictx.InitTestCtx(t)
	log.SetOutput(&bytes.Buffer{})

	id, err := mctx.Store.InsertLocation(testutils.Harbor())
	assert.IsNil(t, err, "inserting")

	ctx, cancel := context.WithCancel(context.Background())
	transitions := make(chan bool, 1)

	d := newDaemon(mctx)
	assert.IsNil(t, d.start(ctx, transitions), "starting")
	assert.Equal(t, len(d.cron.Entries()), 2, "job count mismatch")

	transitions <- true
	waitFor(t, func() bool {
		_, ok, err := r.Get(context.Background(), database.EntityLocations, id)
		return err == nil && ok
	})

	cancel()
	d.stop()
}

func TestDaemon_invalidSchedule(t *testing.T) {
	mctx, _, _ := clictx.InitTestCtx(t)
	mctx.SyncSchedule = "not a schedule"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newDaemon(mctx).start(ctx, nil); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestDaemon_jobs(t *testing.T) {
	mctx, r, _ := clictx.InitTestCtx(t)
	var buf bytes.Buffer
	log.SetOutput(&buf)

	_, err := mctx.Store.InsertLocation(testutils.Harbor())
	assert.IsNil(t, err, "inserting")

	d := newDaemon(mctx)
	d.syncJob(context.Background())()
	assert.Equal(t, r.Len(), 1, "the sync job must drain the queue")

	mctx.Clock.(*clock.Mock).Advance(8 * 24 * time.Hour)
	d.purgeJob()

	stats, err := mctx.Store.QueueStats()
	assert.IsNil(t, err, "getting stats")
	assert.Equal(t, stats.Total(), 0, "the purge job must delete old completed items")
	assert.Equal(t, strings.Contains(buf.String(), "purged 1 completed item(s)"), true, "output mismatch")
}

func TestNewLogWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")

	w := newLogWriter(path)
	_, err := w.Write([]byte("hello\n"))
	assert.IsNil(t, err, "writing")
	assert.IsNil(t, w.Close(), "closing")
}
