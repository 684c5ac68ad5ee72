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

// Package infra provides operations and definitions for the
// local infrastructure for memorymap
package infra

import (
	"github.com/memorymap/memorymap/pkg/cli/config"
	"github.com/memorymap/memorymap/pkg/cli/consts"
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/sync"
	"github.com/memorymap/memorymap/pkg/cli/utils"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/memorymap/memorymap/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunEFunc is a function type of memorymap commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths dirs.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return paths.DataFile(consts.AppDirName, consts.DBFileName)
}

// Init initializes the memorymap environment and returns a new context.
// remoteEndpoint is used when creating a new config file and overrides the
// configured endpoint when it is not empty.
func Init(versionTag, remoteEndpoint, dbPath string) (*context.MemoryCtx, error) {
	paths, err := dirs.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolving directories")
	}

	if err := initFiles(paths, remoteEndpoint); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	cf, err := config.Read(paths)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if remoteEndpoint != "" {
		cf.RemoteEndpoint = remoteEndpoint
	}

	db, err := InitDB(getDBPath(paths, dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	ctx, err := setupCtx(paths, versionTag, db, cf)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: version=%s endpoint=%s db=%s\n", ctx.Version, ctx.RemoteEndpoint, db.Filepath)

	return &ctx, nil
}

// InitDB opens the database at the given path and applies pending migrations
func InitDB(path string) (*database.DB, error) {
	log.Debug("initializing the database at %s\n", path)

	db, err := database.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to db")
	}

	if _, err := database.Migrate(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

// setupCtx builds the store, the remote store and the sync engine
func setupCtx(paths dirs.Paths, versionTag string, db *database.DB, cf config.Config) (context.MemoryCtx, error) {
	syncConfig, err := cf.SyncConfig()
	if err != nil {
		return context.MemoryCtx{}, errors.Wrap(err, "reading sync config")
	}
	probeInterval, err := cf.ProbeEvery()
	if err != nil {
		return context.MemoryCtx{}, errors.Wrap(err, "reading probe interval")
	}

	c := clock.New()
	s := store.New(db, c)
	r := remote.NewHTTPStore(cf.RemoteEndpoint, nil)
	prober := sync.NewProber(r, probeInterval)

	engine, err := sync.NewEngine(s, r, prober, c, syncConfig)
	if err != nil {
		return context.MemoryCtx{}, errors.Wrap(err, "creating sync engine")
	}

	return context.MemoryCtx{
		Paths:          paths,
		Version:        versionTag,
		RemoteEndpoint: cf.RemoteEndpoint,
		DB:             db,
		Clock:          c,
		Store:          s,
		Remote:         r,
		Engine:         engine,
		Prober:         prober,
		SyncSchedule:   withDefault(cf.SyncSchedule, consts.DefaultSyncSchedule),
		PurgeSchedule:  withDefault(cf.PurgeSchedule, consts.DefaultPurgeSchedule),
	}, nil
}

func withDefault(val, def string) string {
	if val == "" {
		return def
	}

	return val
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(paths dirs.Paths, remoteEndpoint string) error {
	path := config.GetPath(paths)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	if err := config.Write(paths, config.Default(remoteEndpoint)); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the memorymap directories and files inside
func initFiles(paths dirs.Paths, remoteEndpoint string) error {
	if err := paths.Ensure(consts.AppDirName); err != nil {
		return errors.Wrap(err, "creating the memorymap dirs")
	}
	if err := initConfigFile(paths, remoteEndpoint); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
