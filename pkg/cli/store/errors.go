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
	"fmt"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/validate"
	"github.com/pkg/errors"
)

// ValidationError is returned when the caller supplies malformed entity data.
// Nothing is written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newValidationError(fe *validate.FieldError) *ValidationError {
	return &ValidationError{Field: fe.Field, Message: fe.Message}
}

// NotFoundError is returned when a referenced entity is absent or soft-deleted
type NotFoundError struct {
	EntityType database.EntityType
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.EntityType, e.ID)
}

// StorageError is returned when a local transaction fails. The transaction has
// been rolled back in full.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

// Cause returns the underlying error
func (e *StorageError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var nerr *NotFoundError
	return errors.As(err, &nerr)
}

// classify keeps caller-facing errors intact and turns everything else into a StorageError
func classify(op string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var nerr *NotFoundError
	if errors.As(err, &nerr) {
		return nerr
	}
	var serr *StorageError
	if errors.As(err, &serr) {
		return serr
	}

	return &StorageError{Op: op, Err: err}
}
