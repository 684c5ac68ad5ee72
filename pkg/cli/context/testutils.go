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

package context

import (
	"path/filepath"
	"testing"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/sync"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/memorymap/memorymap/pkg/dirs"
	"github.com/pkg/errors"
)

// getDefaultTestPaths creates default test paths with all paths pointing to a temp directory
func getDefaultTestPaths(t *testing.T) dirs.Paths {
	tmpDir := t.TempDir()
	return dirs.Paths{
		Home:   tmpDir,
		Cache:  filepath.Join(tmpDir, "cache"),
		Config: filepath.Join(tmpDir, "config"),
		Data:   filepath.Join(tmpDir, "data"),
	}
}

// InitTestCtx initializes a test context with an in-memory database, an
// in-memory remote store, an online connectivity state and a mock clock
func InitTestCtx(t *testing.T) (MemoryCtx, *remote.MemoryStore, *sync.StaticConnectivity) {
	paths := getDefaultTestPaths(t)
	if err := paths.Ensure("memorymap"); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	db := database.InitTestMemoryDB(t)
	c := clock.NewMock()
	s := store.New(db, c)
	r := remote.NewMemoryStore()
	conn := sync.NewStaticConnectivity(true)

	engine, err := sync.NewEngine(s, r, conn, c, sync.Config{RetryDelay: -1})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating engine"))
	}

	ctx := MemoryCtx{
		Paths:         paths,
		Version:       "test",
		DB:            db,
		Clock:         c,
		Store:         s,
		Remote:        r,
		Engine:        engine,
		SyncSchedule:  "@every 1m",
		PurgeSchedule: "@every 1h",
	}

	return ctx, r, conn
}
