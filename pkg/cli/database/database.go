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
	"os"
	"path/filepath"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLCommon is the minimal interface shared by a connection pool and a transaction
type SQLCommon interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type sqlDB interface {
	Begin() (*sql.Tx, error)
}

type sqlTx interface {
	Commit() error
	Rollback() error
}

// DB contains information about the current database connection.
// The same type is used for the pool and for a transaction started from it.
type DB struct {
	Conn     SQLCommon
	Filepath string

	pool *sql.DB
}

// Open opens a SQLite database at the given path, creating its directory if necessary.
// In-memory DSNs starting with "file:" are passed through untouched.
func Open(p string) (*DB, error) {
	if !strings.HasPrefix(p, "file:") {
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", withPragmas(p))
	if err != nil {
		return nil, errors.Wrap(err, "opening db connection")
	}

	// A single connection serializes every local read and write. Transactions
	// therefore never observe each other's partial state.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to db")
	}

	return &DB{
		Conn:     db,
		Filepath: p,
		pool:     db,
	}, nil
}

func withPragmas(p string) string {
	sep := "?"
	if strings.Contains(p, "?") {
		sep = "&"
	}

	return p + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// SQLDB returns the underlying connection pool
func (d *DB) SQLDB() *sql.DB {
	return d.pool
}

// Begin begins a transaction
func (d *DB) Begin() (*DB, error) {
	db, ok := d.Conn.(sqlDB)
	if !ok {
		return nil, errors.New("can't start transaction")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "beginning a transaction")
	}

	return &DB{Conn: tx, Filepath: d.Filepath, pool: d.pool}, nil
}

// Commit commits a transaction
func (d *DB) Commit() error {
	db, ok := d.Conn.(sqlTx)
	if !ok || db == nil {
		return errors.New("invalid transaction")
	}

	return db.Commit()
}

// Rollback rolls back a transaction
func (d *DB) Rollback() error {
	db, ok := d.Conn.(sqlTx)
	if !ok || db == nil {
		return errors.New("invalid transaction")
	}

	return db.Rollback()
}

// Close closes the connection pool
func (d *DB) Close() error {
	if d.pool == nil {
		return nil
	}

	return d.pool.Close()
}

// Exec executes a sql
func (d *DB) Exec(query string, values ...interface{}) (sql.Result, error) {
	return d.Conn.Exec(query, values...)
}

// Query queries rows
func (d *DB) Query(query string, values ...interface{}) (*sql.Rows, error) {
	return d.Conn.Query(query, values...)
}

// QueryRow queries a row
func (d *DB) QueryRow(query string, values ...interface{}) *sql.Row {
	return d.Conn.QueryRow(query, values...)
}
