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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/sync"
)

const timeFormat = "Jan 2, 2006 3:04pm (MST)"

func formatTime(s string) string {
	t, err := database.ParseTime(s)
	if err != nil {
		return s
	}

	return t.Local().Format(timeFormat)
}

func syncLabel(s database.SyncStatus) string {
	switch s {
	case database.SyncStatusSynced:
		return log.ColorGreen.Sprint(s)
	case database.SyncStatusFailed:
		return log.ColorRed.Sprint(s)
	default:
		return log.ColorYellow.Sprint(s)
	}
}

// LocationInfo prints the details of a location
func LocationInfo(l database.Location) {
	log.Infof("location id: %s\n", l.ID)
	log.Infof("name: %s\n", l.Name)
	log.Infof("coordinates: %.6f, %.6f\n", l.Latitude, l.Longitude)
	if l.Address != "" {
		log.Infof("address: %s\n", l.Address)
	}
	if l.Category != "" {
		log.Infof("category: %s\n", l.Category)
	}
	if len(l.Tags) > 0 {
		log.Infof("tags: %s\n", strings.Join(l.Tags, ", "))
	}
	if len(l.Photos) > 0 {
		log.Infof("photos: %d\n", len(l.Photos))
	}
	log.Infof("created at: %s\n", formatTime(l.CreatedAt))
	if l.UpdatedAt != l.CreatedAt {
		log.Infof("updated at: %s\n", formatTime(l.UpdatedAt))
	}
	log.Infof("sync: %s (version %d)\n", syncLabel(l.SyncStatus), l.Version)

	if l.Description != "" {
		fmt.Printf("\n%s\n", l.Description)
	}
}

// LocationLine prints a location as a single line of a list
func LocationLine(l database.Location) {
	log.Plainf("%s %s %s (%.4f, %.4f) %s\n",
		log.ColorYellow.Sprintf("(%s)", shortID(l.ID)),
		l.Name,
		log.ColorGray.Sprint(l.Category),
		l.Latitude, l.Longitude,
		syncLabel(l.SyncStatus))
}

// UserLocationLine prints a saved location as a single line of a list
func UserLocationLine(u database.UserLocation, name string) {
	if u.CustomName != "" {
		name = u.CustomName
	}

	notify := "off"
	if u.NotifyEnabled {
		notify = fmt.Sprintf("%.1fkm", u.NotifyRadius)
	}

	log.Plainf("%s %s notify:%s %s\n",
		log.ColorYellow.Sprintf("(%s)", shortID(u.ID)),
		name,
		notify,
		syncLabel(u.SyncStatus))
}

// SyncStatus prints the state of the sync engine and the queue
func SyncStatus(s sync.Status, q store.QueueStats) {
	state := "idle"
	if s.IsSyncing {
		state = "syncing"
	}
	log.Infof("state: %s\n", state)

	if s.LastSyncTime != nil {
		log.Infof("last synced: %s\n", s.LastSyncTime.Local().Format(timeFormat))
	} else {
		log.Infof("last synced: never\n")
	}

	if s.LastSyncError != nil {
		log.Warnf("last error: %s\n", *s.LastSyncError)
	}

	log.Infof("queue: %d pending, %d processing, %d failed, %d completed\n",
		q.Pending, q.Processing, q.Failed, q.Completed)
}

// PassResult prints the outcome of a drain pass
func PassResult(p *sync.PassStats, elapsed time.Duration) {
	if p == nil {
		log.Info("nothing was synced\n")
		return
	}

	if p.Failed > 0 {
		log.Warnf("%d of %d item(s) failed to sync\n", p.Failed, p.Selected)
	}
	log.Successf("synced %d item(s) in %s\n", p.Completed, elapsed.Round(time.Millisecond))
	if p.Purged > 0 {
		log.Infof("purged %d completed item(s)\n", p.Purged)
	}
}

// shortID returns the prefix of an id used to identify rows in lists
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}

	return id[:8]
}
