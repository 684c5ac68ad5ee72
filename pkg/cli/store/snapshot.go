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
	"encoding/json"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/validate"
	"github.com/pkg/errors"
)

// bookkeepingKeys are row attributes that are not replicated as document fields
var bookkeepingKeys = []string{"id", "version", "sync_status", "deleted"}

// Snapshot is the immutable state of an entity captured when a queue item is
// enqueued. It is implemented only by LocationSnapshot and UserLocationSnapshot.
type Snapshot interface {
	EntityType() database.EntityType
	EntityID() string
	SnapshotVersion() int
	// Fields returns the replicated fields as they appear in a remote document
	Fields() (map[string]interface{}, error)
	Validate() error

	// merged returns a copy of the snapshot with the given fields overlaid
	merged(fields map[string]interface{}, version int) (Snapshot, error)
	// writeBack overwrites the local row if its version still equals expectedVersion
	writeBack(db *database.DB, expectedVersion int) (int64, error)
}

// LocationSnapshot is the snapshot of a location row
type LocationSnapshot struct {
	database.Location
}

// EntityType returns the entity type of the snapshot
func (s LocationSnapshot) EntityType() database.EntityType { return database.EntityLocations }

// EntityID returns the id of the snapshotted location
func (s LocationSnapshot) EntityID() string { return s.ID }

// SnapshotVersion returns the version of the location at enqueue time
func (s LocationSnapshot) SnapshotVersion() int { return s.Version }

// Fields returns the replicated fields of the location
// Cleared lists are sent as empty sequences so that the remote copy drops them.
func (s LocationSnapshot) Fields() (map[string]interface{}, error) {
	l := s.Location
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.Photos == nil {
		l.Photos = []string{}
	}

	return toFields(l)
}

// Validate checks the snapshot with the same rules as a direct write
func (s LocationSnapshot) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if fe := validate.Location(locationFields(s.Location)); fe != nil {
		return newValidationError(fe)
	}

	return nil
}

func (s LocationSnapshot) merged(fields map[string]interface{}, version int) (Snapshot, error) {
	loc := s.Location
	if err := overlay(fields, &loc); err != nil {
		return nil, err
	}
	loc.ID = s.ID
	loc.Version = version
	loc.SyncStatus = database.SyncStatusSynced
	loc.Deleted = s.Deleted

	return LocationSnapshot{loc}, nil
}

func (s LocationSnapshot) writeBack(db *database.DB, expectedVersion int) (int64, error) {
	tags, photos, err := encodeLists(s.Tags, s.Photos)
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`UPDATE locations
		SET name = ?, latitude = ?, longitude = ?, description = ?, address = ?, category = ?,
			tags = ?, photos = ?, is_instagram_source = ?, instagram_url = ?, date_posted = ?,
			updated_at = ?, sync_status = ?, version = ?
		WHERE id = ? AND version = ?`,
		s.Name, s.Latitude, s.Longitude, s.Description, s.Address, s.Category,
		tags, photos, s.IsInstagramSource, s.InstagramURL, s.DatePosted,
		s.UpdatedAt, s.SyncStatus, s.Version, s.ID, expectedVersion)
	if err != nil {
		return 0, errors.Wrap(err, "writing back location")
	}

	return res.RowsAffected()
}

// UserLocationSnapshot is the snapshot of a user location row
type UserLocationSnapshot struct {
	database.UserLocation
}

// EntityType returns the entity type of the snapshot
func (s UserLocationSnapshot) EntityType() database.EntityType { return database.EntityUserLocations }

// EntityID returns the id of the snapshotted user location
func (s UserLocationSnapshot) EntityID() string { return s.ID }

// SnapshotVersion returns the version of the user location at enqueue time
func (s UserLocationSnapshot) SnapshotVersion() int { return s.Version }

// Fields returns the replicated fields of the user location
func (s UserLocationSnapshot) Fields() (map[string]interface{}, error) {
	return toFields(s.UserLocation)
}

// Validate checks the snapshot with the same rules as a direct write
func (s UserLocationSnapshot) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if fe := validate.UserLocation(userLocationFields(s.UserLocation)); fe != nil {
		return newValidationError(fe)
	}

	return nil
}

func (s UserLocationSnapshot) merged(fields map[string]interface{}, version int) (Snapshot, error) {
	ul := s.UserLocation
	if err := overlay(fields, &ul); err != nil {
		return nil, err
	}
	ul.ID = s.ID
	ul.Version = version
	ul.SyncStatus = database.SyncStatusSynced
	ul.Deleted = s.Deleted

	return UserLocationSnapshot{ul}, nil
}

func (s UserLocationSnapshot) writeBack(db *database.DB, expectedVersion int) (int64, error) {
	res, err := db.Exec(`UPDATE user_locations
		SET custom_name = ?, custom_description = ?, category = ?, is_favorite = ?, notify_enabled = ?,
			notify_radius = ?, updated_at = ?, sync_status = ?, version = ?
		WHERE id = ? AND version = ?`,
		s.CustomName, s.CustomDescription, s.Category, s.IsFavorite, s.NotifyEnabled,
		s.NotifyRadius, s.UpdatedAt, s.SyncStatus, s.Version, s.ID, expectedVersion)
	if err != nil {
		return 0, errors.Wrap(err, "writing back user location")
	}

	return res.RowsAffected()
}

// EncodeSnapshot serializes a snapshot for the data column of the sync queue
func EncodeSnapshot(s Snapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "marshalling snapshot")
	}

	return string(b), nil
}

// DecodeSnapshot parses the data column of a sync queue item
func DecodeSnapshot(entityType database.EntityType, data string) (Snapshot, error) {
	switch entityType {
	case database.EntityLocations:
		var s LocationSnapshot
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, errors.Wrap(err, "unmarshalling location snapshot")
		}
		return s, nil
	case database.EntityUserLocations:
		var s UserLocationSnapshot
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, errors.Wrap(err, "unmarshalling user location snapshot")
		}
		return s, nil
	}

	return nil, errors.Errorf("unknown entity type %s", entityType)
}

// Merged returns a copy of the snapshot with the given document fields
// overlaid, stamped with the given version and marked synced
func Merged(s Snapshot, fields map[string]interface{}, version int) (Snapshot, error) {
	return s.merged(fields, version)
}

func toFields(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling entity")
	}

	var ret map[string]interface{}
	if err := json.Unmarshal(b, &ret); err != nil {
		return nil, errors.Wrap(err, "unmarshalling entity fields")
	}
	for _, k := range bookkeepingKeys {
		delete(ret, k)
	}

	return ret, nil
}

func overlay(fields map[string]interface{}, dest interface{}) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "marshalling merged fields")
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return errors.Wrap(err, "decoding merged fields")
	}

	return nil
}

func locationFields(l database.Location) validate.LocationFields {
	return validate.LocationFields{
		Name:        l.Name,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Description: l.Description,
		Address:     l.Address,
		Category:    l.Category,
		Tags:        l.Tags,
		Photos:      l.Photos,

		IsInstagramSource: l.IsInstagramSource,
		InstagramURL:      l.InstagramURL,
		DatePosted:        l.DatePosted,
	}
}

func userLocationFields(u database.UserLocation) validate.UserLocationFields {
	return validate.UserLocationFields{
		LocationID:        u.LocationID,
		CustomName:        u.CustomName,
		CustomDescription: u.CustomDescription,
		Category:          u.Category,
		NotifyRadius:      u.NotifyRadius,
	}
}
