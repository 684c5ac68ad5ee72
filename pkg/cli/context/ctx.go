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

// Package context defines the runtime state shared by memorymap commands
package context

import (
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/sync"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/memorymap/memorymap/pkg/dirs"
)

// MemoryCtx is a context holding the information of the current runtime
type MemoryCtx struct {
	Paths          dirs.Paths
	Version        string
	RemoteEndpoint string
	DB             *database.DB
	Clock          clock.Clock

	Store  *store.Store
	Remote remote.Store
	Engine *sync.Engine
	// Prober is nil when connectivity is not derived from health checks
	Prober *sync.Prober

	SyncSchedule  string
	PurgeSchedule string
}
