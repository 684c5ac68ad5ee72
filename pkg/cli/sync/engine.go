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

// Package sync drains the local sync queue into the remote document store
package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBatchSize is the number of queue items processed concurrently
	DefaultBatchSize = 10
	// DefaultMaxAttempts is the number of attempts an item gets across all passes
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the delay between attempts of an item within a pass
	DefaultRetryDelay = 5 * time.Second
	// DefaultRetention is how long completed queue items are kept
	DefaultRetention = 7 * 24 * time.Hour
	// DefaultRemoteTimeout bounds every remote call
	DefaultRemoteTimeout = 30 * time.Second
)

// Config configures an Engine. Zero values are replaced by the defaults.
type Config struct {
	BatchSize     int
	MaxAttempts   int
	RetryDelay    time.Duration
	Retention     time.Duration
	RemoteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	} else if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = DefaultRemoteTimeout
	}

	return c
}

// PassStats summarizes a drain pass
type PassStats struct {
	Purged    int64
	Selected  int
	Completed int
	Failed    int
}

// Status is the observable state of the engine
type Status struct {
	IsSyncing     bool
	LastSyncTime  *time.Time
	LastSyncError *string
	LastPass      *PassStats
}

// Engine replicates queued local mutations to the remote store. At most one
// drain pass runs at a time.
type Engine struct {
	store    *store.Store
	remote   remote.Store
	resolver *Resolver
	conn     Connectivity
	clock    clock.Clock
	config   Config

	flight singleflight.Group

	mu     gosync.RWMutex
	status Status
}

// NewEngine returns an engine and restores the status persisted by previous passes
func NewEngine(s *store.Store, r remote.Store, conn Connectivity, c clock.Clock, config Config) (*Engine, error) {
	e := &Engine{
		store:    s,
		remote:   r,
		resolver: NewResolver(c),
		conn:     conn,
		clock:    c,
		config:   config.withDefaults(),
	}

	if err := e.loadStatus(); err != nil {
		return nil, errors.Wrap(err, "loading sync status")
	}

	return e, nil
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.config
}

// Status returns a snapshot of the engine status
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.status
}

// StartSync runs a drain pass and returns when it completes. A call made
// while a pass is running waits for that pass and shares its result. It
// returns nil without doing anything when offline. Failures of individual
// items do not fail the pass; they are reported through Status.
func (e *Engine) StartSync(ctx context.Context) error {
	_, err, shared := e.flight.Do("sync", func() (interface{}, error) {
		return nil, e.run(ctx)
	})
	if shared {
		log.Debug("joined a running sync pass\n")
	}

	return err
}

// Watch runs a drain pass on every transition to online until ctx is done
// or transitions is closed
func (e *Engine) Watch(ctx context.Context, transitions <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-transitions:
			if !ok {
				return
			}
			if !online {
				log.Debug("connectivity lost\n")
				continue
			}

			log.Debug("connectivity restored, starting sync\n")
			if err := e.StartSync(ctx); err != nil {
				log.Errorf("sync failed: %s\n", err.Error())
			}
		}
	}
}

func (e *Engine) run(ctx context.Context) error {
	e.setSyncing(true)
	defer e.setSyncing(false)

	if !e.conn.Online() {
		log.Debug("offline, skipping sync\n")
		return nil
	}

	stats, lastErr, err := e.drain(ctx)
	if err != nil {
		e.finish(nil, err)
		return err
	}
	if stats.Failed > 0 {
		e.finish(&stats, errors.Errorf("%d item(s) failed to sync: %s", stats.Failed, lastErr))
	} else {
		e.finish(&stats, nil)
	}

	return nil
}

func (e *Engine) drain(ctx context.Context) (PassStats, string, error) {
	var stats PassStats

	if n, err := e.store.RequeueInterrupted(e.config.MaxAttempts); err != nil {
		return stats, "", errors.Wrap(err, "requeueing interrupted items")
	} else if n > 0 {
		log.Debug("requeued %d interrupted item(s)\n", n)
	}

	purged, err := e.store.PurgeCompletedQueueItems(e.config.Retention)
	if err != nil {
		return stats, "", errors.Wrap(err, "purging completed items")
	}
	stats.Purged = purged

	items, err := e.store.EligibleQueueItems(e.config.MaxAttempts)
	if err != nil {
		return stats, "", errors.Wrap(err, "selecting queue items")
	}
	stats.Selected = len(items)

	log.Debug("sync pass: purged %d, selected %d\n", purged, len(items))

	var lastErr string
	for start := 0; start < len(items); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(items) {
			end = len(items)
		}

		completed, failed, msg := e.processBatch(ctx, items[start:end])
		stats.Completed += completed
		stats.Failed += failed
		if msg != "" {
			lastErr = msg
		}

		if err := ctx.Err(); err != nil {
			return stats, lastErr, errors.Wrap(err, "sync pass interrupted")
		}
	}

	return stats, lastErr, nil
}

// chains groups the batch by entity in queue order. Items of one entity run
// sequentially; different entities run concurrently.
func chains(batch []database.QueueItem) [][]database.QueueItem {
	index := map[string]int{}
	var ret [][]database.QueueItem

	for _, item := range batch {
		i, ok := index[item.EntityID]
		if !ok {
			i = len(ret)
			index[item.EntityID] = i
			ret = append(ret, nil)
		}
		ret[i] = append(ret[i], item)
	}

	return ret
}

func (e *Engine) processBatch(ctx context.Context, batch []database.QueueItem) (int, int, string) {
	var mu gosync.Mutex
	var completed, failed int
	var lastErr string

	var g errgroup.Group
	g.SetLimit(e.config.BatchSize)

	for _, chain := range chains(batch) {
		g.Go(func() error {
			for _, item := range chain {
				err := e.processItem(ctx, item)

				mu.Lock()
				if err != nil {
					failed++
					lastErr = remote.UserMessage(err)
				} else {
					completed++
				}
				mu.Unlock()
			}

			return nil
		})
	}
	g.Wait()

	return completed, failed, lastErr
}

// processItem attempts the item until it succeeds, its attempts are
// exhausted or ctx is done. It returns the last error.
func (e *Engine) processItem(ctx context.Context, item database.QueueItem) error {
	for {
		attempts, err := e.store.MarkProcessing(item.ID)
		if err != nil {
			return errors.Wrapf(err, "marking item %s processing", item.ID)
		}

		err = e.dispatch(ctx, item)
		if err == nil {
			if err := e.store.MarkCompleted(item.ID); err != nil {
				return errors.Wrapf(err, "marking item %s completed", item.ID)
			}

			log.Debug("synced %s %s %s (attempt %d)\n", item.Operation, item.EntityType, item.EntityID, attempts)
			return nil
		}

		msg := remote.UserMessage(err)
		log.Debug("syncing %s %s %s failed (attempt %d/%d): %s\n", item.Operation, item.EntityType, item.EntityID, attempts, e.config.MaxAttempts, err.Error())

		if mErr := e.store.MarkFailed(item.ID, msg); mErr != nil {
			return errors.Wrapf(mErr, "marking item %s failed", item.ID)
		}

		if attempts >= e.config.MaxAttempts {
			if _, mErr := e.store.MarkEntityFailed(item.EntityType, item.EntityID, item.Version); mErr != nil {
				return errors.Wrapf(mErr, "marking %s %s failed", item.EntityType, item.EntityID)
			}

			return err
		}

		if sleepErr := sleep(ctx, e.config.RetryDelay); sleepErr != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) setSyncing(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.IsSyncing = on
}

// finish records the outcome of a pass in memory and in the system table
func (e *Engine) finish(stats *PassStats, passErr error) {
	now := e.clock.Now()

	e.mu.Lock()
	if stats != nil {
		e.status.LastSyncTime = &now
		e.status.LastPass = stats
	}
	if passErr != nil {
		msg := passErr.Error()
		e.status.LastSyncError = &msg
	} else {
		e.status.LastSyncError = nil
	}
	status := e.status
	e.mu.Unlock()

	if err := e.persistStatus(status); err != nil {
		log.Errorf("saving sync status: %s\n", err.Error())
	}
}

func (e *Engine) persistStatus(s Status) error {
	db := e.store.DB()

	if s.LastSyncTime != nil {
		if err := database.UpsertSystem(db, database.SystemLastSyncAt, database.FormatTime(*s.LastSyncTime)); err != nil {
			return err
		}
	}

	if s.LastSyncError != nil {
		return database.UpsertSystem(db, database.SystemLastSyncError, *s.LastSyncError)
	}

	return database.DeleteSystem(db, database.SystemLastSyncError)
}

func (e *Engine) loadStatus() error {
	db := e.store.DB()

	var lastAt, lastErr string
	ok, err := database.GetSystem(db, database.SystemLastSyncAt, &lastAt)
	if err != nil {
		return err
	}
	if ok {
		t, err := database.ParseTime(lastAt)
		if err != nil {
			return err
		}
		e.status.LastSyncTime = &t
	}

	ok, err = database.GetSystem(db, database.SystemLastSyncError, &lastErr)
	if err != nil {
		return err
	}
	if ok {
		e.status.LastSyncError = &lastErr
	}

	return nil
}

// String returns a one-line description of the status
func (s Status) String() string {
	state := "idle"
	if s.IsSyncing {
		state = "syncing"
	}

	last := "never"
	if s.LastSyncTime != nil {
		last = s.LastSyncTime.Format(time.RFC3339)
	}

	if s.LastSyncError != nil {
		return fmt.Sprintf("%s, last synced %s, last error: %s", state, last, *s.LastSyncError)
	}

	return fmt.Sprintf("%s, last synced %s", state, last)
}
