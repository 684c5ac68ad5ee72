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

package main

import (
	"os"
	"strings"

	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/memorymap/memorymap/pkg/cli/cmd/add"
	"github.com/memorymap/memorymap/pkg/cli/cmd/daemon"
	"github.com/memorymap/memorymap/pkg/cli/cmd/edit"
	"github.com/memorymap/memorymap/pkg/cli/cmd/fav"
	"github.com/memorymap/memorymap/pkg/cli/cmd/ls"
	"github.com/memorymap/memorymap/pkg/cli/cmd/purge"
	"github.com/memorymap/memorymap/pkg/cli/cmd/remove"
	"github.com/memorymap/memorymap/pkg/cli/cmd/retry"
	"github.com/memorymap/memorymap/pkg/cli/cmd/root"
	"github.com/memorymap/memorymap/pkg/cli/cmd/status"
	"github.com/memorymap/memorymap/pkg/cli/cmd/sync"
	"github.com/memorymap/memorymap/pkg/cli/cmd/unfav"
	"github.com/memorymap/memorymap/pkg/cli/cmd/version"
	"github.com/memorymap/memorymap/pkg/cli/cmd/view"
)

// remoteEndpoint and versionTag are populated during link time
var remoteEndpoint string
var versionTag = "master"

// parseDBPath extracts the --dbPath flag value from the command line arguments
// regardless of where it appears. It returns an empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func main() {
	// The database is opened before cobra parses the flags, and --dbPath
	// may appear after the subcommand.
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, remoteEndpoint, dbPath)
	if err != nil {
		log.Errorf("%s\n", errors.Wrap(err, "initializing context").Error())
		os.Exit(1)
	}
	defer ctx.DB.Close()

	root.Register(add.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(fav.NewCmd(*ctx))
	root.Register(unfav.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(status.NewCmd(*ctx))
	root.Register(retry.NewCmd(*ctx))
	root.Register(purge.NewCmd(*ctx))
	root.Register(daemon.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		ctx.DB.Close()
		os.Exit(1)
	}
}
