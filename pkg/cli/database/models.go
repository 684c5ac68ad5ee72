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
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the fixed-width ISO-8601 layout used for every stored timestamp.
// Fixed width keeps lexical ordering of TEXT columns equal to time ordering.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime formats the given time for storage
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing timestamp %s", s)
	}

	return t, nil
}

// EntityType is the closed set of entity kinds that are replicated to the remote store
type EntityType string

const (
	// EntityLocations identifies rows of the locations table
	EntityLocations EntityType = "locations"
	// EntityUserLocations identifies rows of the user_locations table
	EntityUserLocations EntityType = "user_locations"
)

// EntityTypes lists every entity type in a stable order
var EntityTypes = []EntityType{EntityLocations, EntityUserLocations}

// Valid reports whether the entity type is known
func (e EntityType) Valid() bool {
	return e == EntityLocations || e == EntityUserLocations
}

// SyncStatus is the replication state of a local row
type SyncStatus string

const (
	// SyncStatusPending marks a row with local changes not yet replicated
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSynced marks a row matching the remote copy
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusFailed marks a row whose replication exhausted its retries
	SyncStatusFailed SyncStatus = "failed"
)

// Operation is the kind of mutation recorded in the sync queue
type Operation string

const (
	// OperationCreate records an insert
	OperationCreate Operation = "create"
	// OperationUpdate records a change to an existing entity
	OperationUpdate Operation = "update"
	// OperationDelete records a soft delete
	OperationDelete Operation = "delete"
)

// QueueStatus is the state of a sync queue item
type QueueStatus string

const (
	// QueueStatusPending is an item waiting for a drain pass
	QueueStatusPending QueueStatus = "pending"
	// QueueStatusProcessing is an item being applied to the remote store
	QueueStatusProcessing QueueStatus = "processing"
	// QueueStatusFailed is an item whose last attempt failed
	QueueStatusFailed QueueStatus = "failed"
	// QueueStatusCompleted is an item that was applied successfully
	QueueStatusCompleted QueueStatus = "completed"
)

// Location is a saved point of interest
type Location struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Photos      []string   `json:"photos"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
	SyncStatus  SyncStatus `json:"sync_status"`
	Version     int        `json:"version"`
	Deleted     bool       `json:"deleted"`

	// IsInstagramSource marks locations imported from an instagram post
	IsInstagramSource bool   `json:"is_instagram_source"`
	InstagramURL      string `json:"instagram_url"`
	DatePosted        string `json:"date_posted"`
}

// UserLocation is the user-specific overlay of a location
type UserLocation struct {
	ID                string     `json:"id"`
	LocationID        string     `json:"location_id"`
	CustomName        string     `json:"custom_name"`
	CustomDescription string     `json:"custom_description"`
	Category          string     `json:"category"`
	IsFavorite        bool       `json:"is_favorite"`
	NotifyEnabled     bool       `json:"notify_enabled"`
	NotifyRadius      float64    `json:"notify_radius"`
	SavedAt           string     `json:"saved_at"`
	UpdatedAt         string     `json:"updated_at"`
	SyncStatus        SyncStatus `json:"sync_status"`
	Version           int        `json:"version"`
	Deleted           bool       `json:"deleted"`
}

// QueueItem is a pending mutation recorded in the sync queue
type QueueItem struct {
	ID         string
	EntityType EntityType
	EntityID   string
	Operation  Operation
	Data       string
	CreatedAt  string
	Attempts   int
	Status     QueueStatus
	Error      *string
	Version    int
}
