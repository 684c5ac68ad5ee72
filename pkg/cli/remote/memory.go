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

package remote

import (
	"context"
	"sync"

	"github.com/memorymap/memorymap/pkg/cli/database"
)

// Op names a document store operation
type Op string

const (
	// OpGet is a document read
	OpGet Op = "get"
	// OpSet is a document write
	OpSet Op = "set"
	// OpUpdate is a document patch
	OpUpdate Op = "update"
	// OpDelete is a document removal
	OpDelete Op = "delete"
)

// Hook is called before every operation of a MemoryStore. A non-nil error
// fails the operation without touching the documents.
type Hook func(ctx context.Context, op Op, collection database.EntityType, id string) error

type docKey struct {
	collection database.EntityType
	id         string
}

// MemoryStore is an in-process document store
type MemoryStore struct {
	mu    sync.Mutex
	docs  map[docKey]Document
	calls map[Op]int
	hook  Hook
}

// NewMemoryStore returns an empty in-process document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  map[docKey]Document{},
		calls: map[Op]int{},
	}
}

// SetHook installs the hook called before every operation
func (m *MemoryStore) SetHook(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hook = h
}

// Calls returns the number of times the operation was invoked
func (m *MemoryStore) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[op]
}

// Len returns the number of stored documents
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.docs)
}

func (m *MemoryStore) before(ctx context.Context, op Op, collection database.EntityType, id string) error {
	m.mu.Lock()
	m.calls[op]++
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, op, collection, id); err != nil {
			return err
		}
	}

	return FromContext(ctx.Err())
}

// Get returns the document and whether it exists
func (m *MemoryStore) Get(ctx context.Context, collection database.EntityType, id string) (Document, bool, error) {
	if err := m.before(ctx, OpGet, collection, id); err != nil {
		return Document{}, false, err
	}

	m.mu.Lock()
	doc, ok := m.docs[docKey{collection, id}]
	m.mu.Unlock()

	if !ok {
		return Document{}, false, nil
	}

	ret, err := doc.Clone()
	if err != nil {
		return Document{}, false, NewError(CodeUnknown, err)
	}

	return ret, true, nil
}

// Set creates or overwrites the document
func (m *MemoryStore) Set(ctx context.Context, collection database.EntityType, id string, doc Document) error {
	if err := m.before(ctx, OpSet, collection, id); err != nil {
		return err
	}

	c, err := doc.Clone()
	if err != nil {
		return NewError(CodeUnknown, err)
	}

	m.mu.Lock()
	m.docs[docKey{collection, id}] = c
	m.mu.Unlock()

	return nil
}

// Update merges the fields and version into an existing document
func (m *MemoryStore) Update(ctx context.Context, collection database.EntityType, id string, doc Document) error {
	if err := m.before(ctx, OpUpdate, collection, id); err != nil {
		return err
	}

	patch, err := doc.Clone()
	if err != nil {
		return NewError(CodeUnknown, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := docKey{collection, id}
	existing, ok := m.docs[key]
	if !ok {
		return &NotFoundError{Collection: collection, ID: id}
	}

	for k, v := range patch.Fields {
		existing.Fields[k] = v
	}
	existing.Version = patch.Version
	if patch.SyncStatus != "" {
		existing.SyncStatus = patch.SyncStatus
	}
	m.docs[key] = existing

	return nil
}

// Delete removes the document if it exists
func (m *MemoryStore) Delete(ctx context.Context, collection database.EntityType, id string) error {
	if err := m.before(ctx, OpDelete, collection, id); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.docs, docKey{collection, id})
	m.mu.Unlock()

	return nil
}
