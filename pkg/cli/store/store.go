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

// Package store implements the transactional local store. Every mutation of a
// syncable entity writes the row and appends its sync queue item in one transaction.
package store

import (
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/pkg/errors"
)

// Store reads and writes locations, user locations and the sync queue
type Store struct {
	db    *database.DB
	clock clock.Clock
}

// New returns a new store backed by the given database
func New(db *database.DB, c clock.Clock) *Store {
	return &Store{db: db, clock: c}
}

// DB returns the underlying database
func (s *Store) DB() *database.DB {
	return s.db
}

func (s *Store) now() string {
	return database.FormatTime(s.clock.Now())
}

// withTx runs fn in a transaction. The transaction is rolled back if fn fails.
func (s *Store) withTx(op string, fn func(tx *database.DB) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &StorageError{Op: op, Err: errors.Wrapf(err, "rolling back after failure: %s", rbErr.Error())}
		}

		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: op, Err: errors.Wrap(err, "committing a transaction")}
	}

	return nil
}

// exec runs a single statement outside of an explicit transaction and
// returns the number of affected rows
func (s *Store) exec(op, query string, args ...interface{}) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: op, Err: errors.Wrap(err, "counting affected rows")}
	}

	return n, nil
}
