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

package store

import (
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/pkg/errors"
)

func TestResolveID(t *testing.T) {
	s, _ := newTestStore(t)

	database.MustExec(t, "inserting location 1", s.DB(), `INSERT INTO locations (id, name, latitude, longitude, description, address, category, created_at, updated_at, sync_status, version, deleted)
		VALUES ('abc123', 'one', 0, 0, '', '', '', '', '', 'pending', 1, 0)`)
	database.MustExec(t, "inserting location 2", s.DB(), `INSERT INTO locations (id, name, latitude, longitude, description, address, category, created_at, updated_at, sync_status, version, deleted)
		VALUES ('abd456', 'two', 0, 0, '', '', '', '', '', 'pending', 1, 0)`)
	database.MustExec(t, "inserting tombstone", s.DB(), `INSERT INTO locations (id, name, latitude, longitude, description, address, category, created_at, updated_at, sync_status, version, deleted)
		VALUES ('xyz789', 'gone', 0, 0, '', '', '', '', '', 'pending', 2, 1)`)

	t.Run("unique prefix", func(t *testing.T) {
		id, err := s.ResolveID(database.EntityLocations, "abc")
		assert.IsNil(t, err, "resolving")
		assert.Equal(t, id, "abc123", "id mismatch")
	})

	t.Run("full id", func(t *testing.T) {
		id, err := s.ResolveID(database.EntityLocations, "abd456")
		assert.IsNil(t, err, "resolving")
		assert.Equal(t, id, "abd456", "id mismatch")
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := s.ResolveID(database.EntityLocations, "ab")

		var verr *ValidationError
		assert.Equal(t, errors.As(err, &verr), true, "must be a validation error")
	})

	t.Run("tombstone", func(t *testing.T) {
		_, err := s.ResolveID(database.EntityLocations, "xyz")
		assert.Equal(t, IsNotFound(err), true, "soft-deleted rows must not resolve")
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		_, err := s.ResolveID(database.EntityLocations, "a_c")
		assert.Equal(t, IsNotFound(err), true, "underscore must not match any character")
	})
}
