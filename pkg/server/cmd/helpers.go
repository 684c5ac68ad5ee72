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

package cmd

import (
	"flag"
	"fmt"

	"github.com/memorymap/memorymap/pkg/server/app"
	"github.com/memorymap/memorymap/pkg/server/config"
	"github.com/memorymap/memorymap/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBDriver, cfg.ConnString(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := database.InitSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

// initApp initializes the app and returns a function that releases its resources
func initApp(cfg config.Config) (*app.App, func(), error) {
	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initializing database")
	}

	a := &app.App{
		DB: db,
	}
	cleanup := func() {
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return a, cleanup, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(fs.Output(), "  --%s", f.Name)

		// Print type hint for non-boolean flags
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Fprintf(fs.Output(), " %s", name)
		}
		fmt.Fprintln(fs.Output())

		if usage != "" {
			fmt.Fprintf(fs.Output(), "    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(fs.Output(), " (default: %s)", f.DefValue)
			}
			fmt.Fprintln(fs.Output())
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}
