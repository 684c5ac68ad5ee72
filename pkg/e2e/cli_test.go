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

package e2e

import (
	"strings"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	cliDatabase "github.com/memorymap/memorymap/pkg/cli/database"
)

func getLocationID(t *testing.T, env cliEnv, name string) string {
	var id string
	env.withDB(t, func(db *cliDatabase.DB) {
		cliDatabase.MustScan(t, "getting location id",
			db.QueryRow("SELECT id FROM locations WHERE name = ?", name), &id)
	})

	return id
}

func TestCLI_addAndSync(t *testing.T) {
	server := setupServer(t)
	env := setupCLI(t, server.URL)

	env.run(t, "add", "Harbor", "--lat", "37.808", "--lng", "-122.4177", "-d", "fog and sea lions", "-a", "Pier 39", "-c", "park")
	id := getLocationID(t, env, "Harbor")

	env.run(t, "fav", id[:8], "-n", "Sea lions", "--notify")

	out := env.run(t, "sync")
	assert.Equal(t, strings.Contains(out, "synced 2 item(s)"), true, "sync output mismatch: "+out)

	doc, fields := server.MustGetFields(t, "locations", id)
	assert.Equal(t, doc.Version, 1, "version mismatch")
	assert.Equal(t, fields["address"], "Pier 39", "address mismatch")

	count, err := server.App.CountDocuments("user_locations")
	assert.IsNil(t, err, "counting user locations")
	assert.Equal(t, count, int64(1), "user location count mismatch")

	out = env.run(t, "status")
	assert.Equal(t, strings.Contains(out, "0 pending, 0 processing, 0 failed, 2 completed"), true, "status output mismatch: "+out)

	env.withDB(t, func(db *cliDatabase.DB) {
		var syncStatus string
		cliDatabase.MustScan(t, "getting sync status",
			db.QueryRow("SELECT sync_status FROM locations WHERE id = ?", id), &syncStatus)
		assert.Equal(t, syncStatus, string(cliDatabase.SyncStatusSynced), "local sync status mismatch")
	})
}

func TestCLI_editAndRemove(t *testing.T) {
	server := setupServer(t)
	env := setupCLI(t, server.URL)

	env.run(t, "add", "Cafe", "--lat", "37.5665", "--lng", "126.978", "-d", "espresso", "-a", "1 Main St", "-c", "food")
	id := getLocationID(t, env, "Cafe")
	env.run(t, "sync")

	env.run(t, "edit", id[:8], "-n", "Corner Cafe", "--tag", "coffee")
	env.run(t, "sync")

	doc, fields := server.MustGetFields(t, "locations", id)
	assert.Equal(t, doc.Version, 2, "version after edit mismatch")
	assert.Equal(t, fields["name"], "Corner Cafe", "name after edit mismatch")
	assert.DeepEqual(t, fields["tags"], []interface{}{"coffee"}, "tags after edit mismatch")

	env.run(t, "remove", id[:8], "-y")
	env.run(t, "sync")

	_, fields = server.MustGetFields(t, "locations", id)
	assert.Equal(t, fields == nil, true, "location must be deleted on the server")

	out := env.run(t, "ls")
	assert.Equal(t, strings.Contains(out, "Corner Cafe"), false, "removed location must not be listed")
}

func TestCLI_offlineThenOnline(t *testing.T) {
	server := setupServer(t)
	env := setupCLI(t, server.URL)

	server.SetDown(true)

	env.run(t, "add", "Harbor", "--lat", "37.808", "--lng", "-122.4177", "-d", "fog", "-a", "Pier 39", "-c", "park")
	id := getLocationID(t, env, "Harbor")

	out := env.run(t, "sync")
	assert.Equal(t, strings.Contains(out, "unreachable"), true, "offline sync output mismatch: "+out)

	env.withDB(t, func(db *cliDatabase.DB) {
		var attempts int
		var status string
		cliDatabase.MustScan(t, "getting queue item",
			db.QueryRow("SELECT attempts, status FROM sync_queue WHERE entity_id = ?", id), &attempts, &status)
		assert.Equal(t, attempts, 0, "no attempt must be consumed while unreachable")
		assert.Equal(t, status, string(cliDatabase.QueueStatusPending), "queue status mismatch")
	})

	server.SetDown(false)

	out = env.run(t, "sync")
	assert.Equal(t, strings.Contains(out, "synced 1 item(s)"), true, "online sync output mismatch: "+out)

	doc, _ := server.MustGetFields(t, "locations", id)
	assert.Equal(t, doc.Version, 1, "location must reach the server once online")
}
