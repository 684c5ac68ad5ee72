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

// Package remote provides the document store that local entities are replicated to
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/pkg/errors"
)

// Document is the remote copy of an entity
type Document struct {
	Version    int                    `json:"version"`
	SyncStatus string                 `json:"sync_status,omitempty"`
	Fields     map[string]interface{} `json:"fields"`
}

// Clone returns a deep copy of the document
func (d Document) Clone() (Document, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return Document{}, errors.Wrap(err, "marshalling document")
	}

	var ret Document
	if err := json.Unmarshal(b, &ret); err != nil {
		return Document{}, errors.Wrap(err, "unmarshalling document")
	}
	if ret.Fields == nil {
		ret.Fields = map[string]interface{}{}
	}

	return ret, nil
}

// Store is a document store keyed by (collection, id). Collections are entity types.
type Store interface {
	// Get returns the document and whether it exists
	Get(ctx context.Context, collection database.EntityType, id string) (Document, bool, error)
	// Set creates or overwrites the document
	Set(ctx context.Context, collection database.EntityType, id string, doc Document) error
	// Update merges the given fields and version into an existing document.
	// It fails with a NotFoundError if the document does not exist.
	Update(ctx context.Context, collection database.EntityType, id string, doc Document) error
	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection database.EntityType, id string) error
}

// Code classifies remote failures
type Code string

const (
	// CodePermissionDenied is returned when the store refuses the operation
	CodePermissionDenied Code = "permission-denied"
	// CodeUnavailable is returned when the store cannot be reached
	CodeUnavailable Code = "unavailable"
	// CodeResourceExhausted is returned when a quota or rate limit is exceeded
	CodeResourceExhausted Code = "resource-exhausted"
	// CodeDeadlineExceeded is returned when a call does not finish in time
	CodeDeadlineExceeded Code = "deadline-exceeded"
	// CodeUnknown is returned for any other failure
	CodeUnknown Code = "unknown"
)

var messages = map[Code]string{
	CodePermissionDenied:  "Permission denied by the remote store",
	CodeUnavailable:       "Remote store is unavailable. Check your connection",
	CodeResourceExhausted: "Remote store quota exceeded. Try again later",
	CodeDeadlineExceeded:  "Remote store did not respond in time",
	CodeUnknown:           "Unexpected remote store error",
}

// Message returns the human-readable message for the code
func Message(c Code) string {
	if m, ok := messages[c]; ok {
		return m
	}

	return messages[CodeUnknown]
}

// Error is a failure reported by, or on the way to, the remote store.
// Its message is stable and safe to show to users.
type Error struct {
	Code Code
	Err  error
}

// NewError returns a remote error with the given code
func NewError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	return Message(e.Code)
}

// Cause returns the underlying error
func (e *Error) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a document required by an operation does not exist
type NotFoundError struct {
	Collection database.EntityType
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("remote %s %s not found", e.Collection, e.ID)
}

// FromContext converts a context error into a remote error. Other errors are returned as is.
func FromContext(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return NewError(CodeUnavailable, err)
	}

	return err
}

// UserMessage returns the message to persist for a failed sync of an entity
func UserMessage(err error) string {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Error()
	}

	return err.Error()
}
