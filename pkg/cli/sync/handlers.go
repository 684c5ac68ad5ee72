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

package sync

import (
	"context"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/pkg/errors"
)

// dispatch applies a queue item to the remote store
func (e *Engine) dispatch(ctx context.Context, item database.QueueItem) error {
	snap, err := store.DecodeSnapshot(item.EntityType, item.Data)
	if err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}

	switch item.Operation {
	case database.OperationCreate:
		return e.handleCreate(ctx, snap)
	case database.OperationUpdate:
		return e.handleUpdate(ctx, snap)
	case database.OperationDelete:
		return e.handleDelete(ctx, snap)
	}

	return errors.Errorf("unknown operation %s", item.Operation)
}

// call runs fn under the remote timeout. A timeout is reported as a retryable
// remote error.
func (e *Engine) call(ctx context.Context, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, e.config.RemoteTimeout)
	defer cancel()

	err := fn(cctx)
	if err == nil {
		return nil
	}

	var rerr *remote.Error
	if errors.As(err, &rerr) {
		return err
	}
	if cctx.Err() == context.DeadlineExceeded {
		return remote.NewError(remote.CodeDeadlineExceeded, err)
	}

	return remote.FromContext(err)
}

func (e *Engine) getRemote(ctx context.Context, snap store.Snapshot) (remote.Document, bool, error) {
	var doc remote.Document
	var exists bool

	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		doc, exists, err = e.remote.Get(ctx, snap.EntityType(), snap.EntityID())
		return err
	})

	return doc, exists, err
}

func (e *Engine) handleCreate(ctx context.Context, snap store.Snapshot) error {
	doc, exists, err := e.getRemote(ctx, snap)
	if err != nil {
		return errors.Wrap(err, "getting remote document")
	}

	// a retried create whose earlier attempt reached the remote store
	if exists {
		return e.resolve(ctx, snap, doc)
	}

	return e.createRemote(ctx, snap)
}

func (e *Engine) createRemote(ctx context.Context, snap store.Snapshot) error {
	fields, err := snap.Fields()
	if err != nil {
		return err
	}

	now := database.FormatTime(e.clock.Now())
	fields["created_at"] = now
	fields["updated_at"] = now

	doc := remote.Document{
		Version:    1,
		SyncStatus: string(database.SyncStatusSynced),
		Fields:     fields,
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.remote.Set(ctx, snap.EntityType(), snap.EntityID(), doc)
	}); err != nil {
		return errors.Wrap(err, "creating remote document")
	}

	return e.markSynced(snap)
}

func (e *Engine) handleUpdate(ctx context.Context, snap store.Snapshot) error {
	doc, exists, err := e.getRemote(ctx, snap)
	if err != nil {
		return errors.Wrap(err, "getting remote document")
	}

	if !exists {
		// user locations are overlays whose create may never have reached the remote store
		if snap.EntityType() == database.EntityUserLocations {
			return e.createRemote(ctx, snap)
		}

		return &remote.NotFoundError{Collection: snap.EntityType(), ID: snap.EntityID()}
	}

	if doc.Version > snap.SnapshotVersion() {
		return e.resolve(ctx, snap, doc)
	}

	fields, err := snap.Fields()
	if err != nil {
		return err
	}
	delete(fields, "created_at")

	patch := remote.Document{
		Version:    doc.Version + 1,
		SyncStatus: string(database.SyncStatusSynced),
		Fields:     fields,
	}
	if err := e.call(ctx, func(ctx context.Context) error {
		return e.remote.Update(ctx, snap.EntityType(), snap.EntityID(), patch)
	}); err != nil {
		return errors.Wrap(err, "updating remote document")
	}

	return e.markSynced(snap)
}

func (e *Engine) handleDelete(ctx context.Context, snap store.Snapshot) error {
	_, exists, err := e.getRemote(ctx, snap)
	if err != nil {
		return errors.Wrap(err, "getting remote document")
	}

	if exists {
		if err := e.call(ctx, func(ctx context.Context) error {
			return e.remote.Delete(ctx, snap.EntityType(), snap.EntityID())
		}); err != nil {
			return errors.Wrap(err, "deleting remote document")
		}
	}

	return e.store.MarkTombstoneSynced(snap.EntityType(), snap.EntityID())
}

// resolve merges the snapshot into the remote document and writes the result to both sides
func (e *Engine) resolve(ctx context.Context, snap store.Snapshot, doc remote.Document) error {
	local, err := snap.Fields()
	if err != nil {
		return err
	}

	res, err := e.resolver.Merge(snap.EntityType(), local, doc)
	if err != nil {
		return errors.Wrap(err, "merging conflict")
	}

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.remote.Set(ctx, snap.EntityType(), snap.EntityID(), res.Document())
	}); err != nil {
		return errors.Wrap(err, "writing merged document")
	}

	applied, err := e.store.ApplyMerged(snap, res.Fields, res.Version)
	if err != nil {
		return err
	}
	if !applied {
		log.Debug("%s %s was edited after the snapshot, keeping the local row\n", snap.EntityType(), snap.EntityID())
	}

	return nil
}

func (e *Engine) markSynced(snap store.Snapshot) error {
	ok, err := e.store.MarkSynced(snap.EntityType(), snap.EntityID(), snap.SnapshotVersion())
	if err != nil {
		return err
	}
	if !ok {
		log.Debug("%s %s was edited after the snapshot, leaving it pending\n", snap.EntityType(), snap.EntityID())
	}

	return nil
}
