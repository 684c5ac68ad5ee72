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
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/pkg/errors"
)

const queueColumns = "id, entity_type, entity_id, operation, data, created_at, attempts, status, error, version"

// entityQueries holds the statements the sync engine runs against one entity table
type entityQueries struct {
	markSynced          string
	markTombstoneSynced string
	markFailed          string
	resetFailed         string
}

var queries = map[database.EntityType]entityQueries{
	database.EntityLocations: {
		markSynced:          "UPDATE locations SET sync_status = ? WHERE id = ? AND version = ?",
		markTombstoneSynced: "UPDATE locations SET deleted = 1, sync_status = ? WHERE id = ?",
		markFailed:          "UPDATE locations SET sync_status = ? WHERE id = ? AND version = ?",
		resetFailed:         "UPDATE locations SET sync_status = ? WHERE id = ? AND sync_status = ?",
	},
	database.EntityUserLocations: {
		markSynced:          "UPDATE user_locations SET sync_status = ? WHERE id = ? AND version = ?",
		markTombstoneSynced: "UPDATE user_locations SET deleted = 1, sync_status = ? WHERE id = ?",
		markFailed:          "UPDATE user_locations SET sync_status = ? WHERE id = ? AND version = ?",
		resetFailed:         "UPDATE user_locations SET sync_status = ? WHERE id = ? AND sync_status = ?",
	},
}

func queriesFor(t database.EntityType) (entityQueries, error) {
	q, ok := queries[t]
	if !ok {
		return q, errors.Errorf("unknown entity type %s", t)
	}

	return q, nil
}

// QueueStats counts the sync queue items in each status
type QueueStats struct {
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Total returns the number of items in the queue
func (q QueueStats) Total() int {
	return q.Pending + q.Processing + q.Failed + q.Completed
}

// enqueue appends a queue item for the snapshot. The snapshot is validated
// before it is written.
func (s *Store) enqueue(tx *database.DB, snap Snapshot, op database.Operation) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO sync_queue ("+queueColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), snap.EntityType(), snap.EntityID(), op, data, s.now(), 0,
		database.QueueStatusPending, nil, snap.SnapshotVersion()); err != nil {
		return errors.Wrap(err, "inserting sync queue item")
	}

	return nil
}

func scanQueueItem(row scanner) (database.QueueItem, error) {
	var item database.QueueItem

	err := row.Scan(&item.ID, &item.EntityType, &item.EntityID, &item.Operation, &item.Data, &item.CreatedAt,
		&item.Attempts, &item.Status, &item.Error, &item.Version)

	return item, err
}

func (s *Store) listQueue(op, query string, args ...interface{}) ([]database.QueueItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	ret := []database.QueueItem{}
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, &StorageError{Op: op, Err: errors.Wrap(err, "scanning a row")}
		}

		ret = append(ret, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}

	return ret, nil
}

// EligibleQueueItems returns the pending and failed items that have attempts
// left, oldest first
func (s *Store) EligibleQueueItems(maxAttempts int) ([]database.QueueItem, error) {
	return s.listQueue("selecting eligible queue items",
		"SELECT "+queueColumns+" FROM sync_queue WHERE status IN (?, ?) AND attempts < ? ORDER BY created_at ASC, rowid ASC",
		database.QueueStatusPending, database.QueueStatusFailed, maxAttempts)
}

// ListQueueItems returns the items in the given status, oldest first
func (s *Store) ListQueueItems(status database.QueueStatus) ([]database.QueueItem, error) {
	return s.listQueue("listing queue items",
		"SELECT "+queueColumns+" FROM sync_queue WHERE status = ? ORDER BY created_at ASC, rowid ASC", status)
}

// ListEntityQueueItems returns every item recorded for the given entity, oldest first
func (s *Store) ListEntityQueueItems(entityID string) ([]database.QueueItem, error) {
	return s.listQueue("listing entity queue items",
		"SELECT "+queueColumns+" FROM sync_queue WHERE entity_id = ? ORDER BY created_at ASC, rowid ASC", entityID)
}

// GetQueueItem returns the queue item with the given id
func (s *Store) GetQueueItem(id string) (database.QueueItem, error) {
	item, err := scanQueueItem(s.db.QueryRow("SELECT "+queueColumns+" FROM sync_queue WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return item, &NotFoundError{EntityType: "sync_queue", ID: id}
		}
		return item, &StorageError{Op: "finding queue item", Err: err}
	}

	return item, nil
}

// MarkProcessing moves the item to processing and consumes one attempt.
// It returns the attempt count after the increment.
func (s *Store) MarkProcessing(id string) (int, error) {
	var attempts int

	err := s.withTx("marking queue item processing", func(tx *database.DB) error {
		res, err := tx.Exec("UPDATE sync_queue SET status = ?, attempts = attempts + 1 WHERE id = ?",
			database.QueueStatusProcessing, id)
		if err != nil {
			return errors.Wrap(err, "updating queue item")
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.Wrap(err, "counting affected rows")
		} else if n == 0 {
			return &NotFoundError{EntityType: "sync_queue", ID: id}
		}

		return tx.QueryRow("SELECT attempts FROM sync_queue WHERE id = ?", id).Scan(&attempts)
	})

	return attempts, err
}

// MarkCompleted moves the item to completed and clears its error
func (s *Store) MarkCompleted(id string) error {
	_, err := s.exec("marking queue item completed",
		"UPDATE sync_queue SET status = ?, error = NULL WHERE id = ?", database.QueueStatusCompleted, id)

	return err
}

// MarkFailed moves the item to failed and records the error message
func (s *Store) MarkFailed(id, message string) error {
	_, err := s.exec("marking queue item failed",
		"UPDATE sync_queue SET status = ?, error = ? WHERE id = ?", database.QueueStatusFailed, message, id)

	return err
}

// RequeueInterrupted moves items left in processing by an interrupted pass
// back to failed so that their remaining attempts are honored. Entities whose
// interrupted item used its last attempt are marked failed.
func (s *Store) RequeueInterrupted(maxAttempts int) (int64, error) {
	var count int64

	err := s.withTx("requeueing interrupted queue items", func(tx *database.DB) error {
		rows, err := tx.Query("SELECT entity_type, entity_id, version FROM sync_queue WHERE status = ? AND attempts >= ?",
			database.QueueStatusProcessing, maxAttempts)
		if err != nil {
			return errors.Wrap(err, "finding exhausted items")
		}

		type exhausted struct {
			entityType database.EntityType
			entityID   string
			version    int
		}
		var items []exhausted
		for rows.Next() {
			var e exhausted
			if err := rows.Scan(&e.entityType, &e.entityID, &e.version); err != nil {
				rows.Close()
				return errors.Wrap(err, "scanning a row")
			}
			items = append(items, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return errors.Wrap(err, "iterating exhausted items")
		}

		res, err := tx.Exec("UPDATE sync_queue SET status = ?, error = ? WHERE status = ?",
			database.QueueStatusFailed, "sync was interrupted", database.QueueStatusProcessing)
		if err != nil {
			return errors.Wrap(err, "requeueing items")
		}
		if count, err = res.RowsAffected(); err != nil {
			return errors.Wrap(err, "counting affected rows")
		}

		for _, e := range items {
			q, err := queriesFor(e.entityType)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(q.markFailed, database.SyncStatusFailed, e.entityID, e.version); err != nil {
				return errors.Wrap(err, "marking entity failed")
			}
		}

		return nil
	})

	return count, err
}

// ResetFailed moves the failed items of the entity back to pending with a
// fresh attempt count. It returns the number of items reset.
func (s *Store) ResetFailed(entityID string) (int64, error) {
	var count int64

	err := s.withTx("resetting failed queue items", func(tx *database.DB) error {
		rows, err := tx.Query("SELECT DISTINCT entity_type FROM sync_queue WHERE entity_id = ? AND status = ?",
			entityID, database.QueueStatusFailed)
		if err != nil {
			return errors.Wrap(err, "finding failed entity types")
		}

		var types []database.EntityType
		for rows.Next() {
			var t database.EntityType
			if err := rows.Scan(&t); err != nil {
				rows.Close()
				return errors.Wrap(err, "scanning a row")
			}
			types = append(types, t)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return errors.Wrap(err, "iterating failed entity types")
		}

		res, err := tx.Exec("UPDATE sync_queue SET status = ?, attempts = 0, error = NULL WHERE entity_id = ? AND status = ?",
			database.QueueStatusPending, entityID, database.QueueStatusFailed)
		if err != nil {
			return errors.Wrap(err, "resetting queue items")
		}
		if count, err = res.RowsAffected(); err != nil {
			return errors.Wrap(err, "counting affected rows")
		}

		for _, t := range types {
			q, err := queriesFor(t)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(q.resetFailed, database.SyncStatusPending, entityID, database.SyncStatusFailed); err != nil {
				return errors.Wrap(err, "resetting entity sync status")
			}
		}

		return nil
	})

	return count, err
}

// PurgeCompletedQueueItems deletes completed items created before now - olderThan
// and returns the number of deleted items
func (s *Store) PurgeCompletedQueueItems(olderThan time.Duration) (int64, error) {
	cutoff := database.FormatTime(s.clock.Now().Add(-olderThan))

	return s.exec("purging completed queue items",
		"DELETE FROM sync_queue WHERE status = ? AND created_at < ?", database.QueueStatusCompleted, cutoff)
}

// QueueStats counts the queue items per status
func (s *Store) QueueStats() (QueueStats, error) {
	var stats QueueStats

	rows, err := s.db.Query("SELECT status, COUNT(*) FROM sync_queue GROUP BY status")
	if err != nil {
		return stats, &StorageError{Op: "counting queue items", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var status database.QueueStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, &StorageError{Op: "counting queue items", Err: errors.Wrap(err, "scanning a row")}
		}

		switch status {
		case database.QueueStatusPending:
			stats.Pending = n
		case database.QueueStatusProcessing:
			stats.Processing = n
		case database.QueueStatusFailed:
			stats.Failed = n
		case database.QueueStatusCompleted:
			stats.Completed = n
		}
	}
	if err := rows.Err(); err != nil {
		return stats, &StorageError{Op: "counting queue items", Err: err}
	}

	return stats, nil
}

// MarkSynced marks the entity synced if it was not edited after the snapshot
// was taken. It reports whether the row was updated.
func (s *Store) MarkSynced(entityType database.EntityType, id string, snapshotVersion int) (bool, error) {
	q, err := queriesFor(entityType)
	if err != nil {
		return false, err
	}

	n, err := s.exec("marking entity synced", q.markSynced, database.SyncStatusSynced, id, snapshotVersion)

	return n > 0, err
}

// MarkEntityFailed marks the entity failed if it was not edited after the snapshot was taken
func (s *Store) MarkEntityFailed(entityType database.EntityType, id string, snapshotVersion int) (bool, error) {
	q, err := queriesFor(entityType)
	if err != nil {
		return false, err
	}

	n, err := s.exec("marking entity failed", q.markFailed, database.SyncStatusFailed, id, snapshotVersion)

	return n > 0, err
}

// MarkTombstoneSynced marks a soft-deleted entity synced
func (s *Store) MarkTombstoneSynced(entityType database.EntityType, id string) error {
	q, err := queriesFor(entityType)
	if err != nil {
		return err
	}

	_, err = s.exec("marking tombstone synced", q.markTombstoneSynced, database.SyncStatusSynced, id)

	return err
}

// ApplyMerged writes a conflict resolution back to the local row, unless the
// row was edited after the snapshot was taken. It reports whether the row was updated.
func (s *Store) ApplyMerged(snap Snapshot, fields map[string]interface{}, version int) (bool, error) {
	merged, err := snap.merged(fields, version)
	if err != nil {
		return false, &StorageError{Op: "applying merged entity", Err: err}
	}

	n, err := merged.writeBack(s.db, snap.SnapshotVersion())
	if err != nil {
		return false, &StorageError{Op: "applying merged entity", Err: err}
	}

	return n > 0, nil
}
