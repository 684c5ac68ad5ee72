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
	"strings"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/pkg/errors"
)

var resolveQueries = map[database.EntityType]string{
	database.EntityLocations:     "SELECT id FROM locations WHERE id LIKE ? ESCAPE '\\' AND deleted = 0 LIMIT 2",
	database.EntityUserLocations: "SELECT id FROM user_locations WHERE id LIKE ? ESCAPE '\\' AND deleted = 0 LIMIT 2",
}

// ResolveID returns the id of the single active entity whose id starts with
// prefix. It returns a ValidationError when the prefix is ambiguous.
func (s *Store) ResolveID(entityType database.EntityType, prefix string) (string, error) {
	query, ok := resolveQueries[entityType]
	if !ok {
		return "", &ValidationError{Field: "entity_type", Message: "unknown entity type " + string(entityType)}
	}
	if strings.TrimSpace(prefix) == "" {
		return "", &ValidationError{Field: "id", Message: "is required"}
	}

	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(prefix)

	rows, err := s.db.Query(query, escaped+"%")
	if err != nil {
		return "", &StorageError{Op: "resolving id", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", &StorageError{Op: "resolving id", Err: errors.Wrap(err, "scanning a row")}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", &StorageError{Op: "resolving id", Err: err}
	}

	switch len(ids) {
	case 0:
		return "", &NotFoundError{EntityType: entityType, ID: prefix}
	case 1:
		return ids[0], nil
	default:
		return "", &ValidationError{Field: "id", Message: "prefix " + prefix + " matches more than one " + string(entityType)}
	}
}
