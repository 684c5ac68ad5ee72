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

package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	// SystemLastSyncAt is the key for the time at which the last drain pass completed
	SystemLastSyncAt = "last_sync_at"
	// SystemLastSyncError is the key for the error recorded by the last drain pass
	SystemLastSyncError = "last_sync_error"
)

// GetSystem scans the value of the given system key into dest. It returns
// false when the key is absent.
func GetSystem(db *DB, key string, dest *string) (bool, error) {
	err := db.QueryRow("SELECT value FROM system WHERE key = ?", key).Scan(dest)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "finding system configuration %s", key)
	}

	return true, nil
}

// UpsertSystem sets the value of the given system key
func UpsertSystem(db *DB, key, val string) error {
	if _, err := db.Exec(`INSERT INTO system (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, val); err != nil {
		return errors.Wrapf(err, "updating system configuration %s", key)
	}

	return nil
}

// DeleteSystem removes the given system key
func DeleteSystem(db *DB, key string) error {
	if _, err := db.Exec("DELETE FROM system WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "deleting system configuration %s", key)
	}

	return nil
}
