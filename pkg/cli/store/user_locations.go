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
	"database/sql"

	"github.com/google/uuid"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/validate"
	"github.com/pkg/errors"
)

// DefaultNotifyRadius is the notification radius in kilometers used when none is given
const DefaultNotifyRadius = 1.0

const userLocationColumns = `id, location_id, custom_name, custom_description, category, is_favorite,
	notify_enabled, notify_radius, saved_at, updated_at, sync_status, version, deleted`

// UserLocationInput is the data needed to save a location for the user
type UserLocationInput struct {
	LocationID        string
	CustomName        string
	CustomDescription string
	Category          string
	NotifyEnabled     bool
	NotifyRadius      float64
}

// UserLocationPatch holds the fields to change on a user location. Nil fields are left untouched.
type UserLocationPatch struct {
	CustomName        *string
	CustomDescription *string
	Category          *string
	IsFavorite        *bool
	NotifyEnabled     *bool
	NotifyRadius      *float64
}

func (p UserLocationPatch) apply(u *database.UserLocation) {
	if p.CustomName != nil {
		u.CustomName = *p.CustomName
	}
	if p.CustomDescription != nil {
		u.CustomDescription = *p.CustomDescription
	}
	if p.Category != nil {
		u.Category = *p.Category
	}
	if p.IsFavorite != nil {
		u.IsFavorite = *p.IsFavorite
	}
	if p.NotifyEnabled != nil {
		u.NotifyEnabled = *p.NotifyEnabled
	}
	if p.NotifyRadius != nil {
		u.NotifyRadius = *p.NotifyRadius
	}
}

func scanUserLocation(row scanner) (database.UserLocation, error) {
	var u database.UserLocation

	err := row.Scan(&u.ID, &u.LocationID, &u.CustomName, &u.CustomDescription, &u.Category, &u.IsFavorite,
		&u.NotifyEnabled, &u.NotifyRadius, &u.SavedAt, &u.UpdatedAt, &u.SyncStatus, &u.Version, &u.Deleted)

	return u, err
}

func getUserLocation(db *database.DB, id string) (database.UserLocation, error) {
	row := db.QueryRow("SELECT "+userLocationColumns+" FROM user_locations WHERE id = ?", id)

	u, err := scanUserLocation(row)
	if err == sql.ErrNoRows {
		return u, &NotFoundError{EntityType: database.EntityUserLocations, ID: id}
	}
	if err != nil {
		return u, errors.Wrap(err, "finding user location")
	}

	return u, nil
}

func getActiveUserLocation(db *database.DB, id string) (database.UserLocation, error) {
	u, err := getUserLocation(db, id)
	if err != nil {
		return u, err
	}
	if u.Deleted {
		return u, &NotFoundError{EntityType: database.EntityUserLocations, ID: id}
	}

	return u, nil
}

func writeUserLocation(db *database.DB, u database.UserLocation) error {
	if _, err := db.Exec(`UPDATE user_locations
		SET custom_name = ?, custom_description = ?, category = ?, is_favorite = ?, notify_enabled = ?,
			notify_radius = ?, updated_at = ?, sync_status = ?, version = ?, deleted = ?
		WHERE id = ?`,
		u.CustomName, u.CustomDescription, u.Category, u.IsFavorite, u.NotifyEnabled,
		u.NotifyRadius, u.UpdatedAt, u.SyncStatus, u.Version, u.Deleted, u.ID); err != nil {
		return errors.Wrap(err, "updating user location")
	}

	return nil
}

// SaveUserLocation marks an active location as a favorite of the user and
// returns the id of the new user location
func (s *Store) SaveUserLocation(input UserLocationInput) (string, error) {
	radius := input.NotifyRadius
	if radius == 0 {
		radius = DefaultNotifyRadius
	}

	now := s.now()
	ul := database.UserLocation{
		ID:                uuid.NewString(),
		LocationID:        input.LocationID,
		CustomName:        input.CustomName,
		CustomDescription: input.CustomDescription,
		Category:          input.Category,
		IsFavorite:        true,
		NotifyEnabled:     input.NotifyEnabled,
		NotifyRadius:      radius,
		SavedAt:           now,
		UpdatedAt:         now,
		SyncStatus:        database.SyncStatusPending,
		Version:           1,
	}

	if fe := validate.UserLocation(userLocationFields(ul)); fe != nil {
		return "", newValidationError(fe)
	}

	err := s.withTx("saving user location", func(tx *database.DB) error {
		if _, err := getActiveLocation(tx, ul.LocationID); err != nil {
			return err
		}

		if _, err := tx.Exec("INSERT INTO user_locations ("+userLocationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			ul.ID, ul.LocationID, ul.CustomName, ul.CustomDescription, ul.Category, ul.IsFavorite,
			ul.NotifyEnabled, ul.NotifyRadius, ul.SavedAt, ul.UpdatedAt, ul.SyncStatus, ul.Version, ul.Deleted); err != nil {
			return errors.Wrap(err, "inserting user location row")
		}

		return s.enqueue(tx, UserLocationSnapshot{ul}, database.OperationCreate)
	})
	if err != nil {
		return "", err
	}

	return ul.ID, nil
}

// UpdateUserLocation applies the patch to an active user location
func (s *Store) UpdateUserLocation(id string, patch UserLocationPatch) error {
	return s.withTx("updating user location", func(tx *database.DB) error {
		ul, err := getActiveUserLocation(tx, id)
		if err != nil {
			return err
		}

		patch.apply(&ul)
		if fe := validate.UserLocation(userLocationFields(ul)); fe != nil {
			return newValidationError(fe)
		}

		ul.Version++
		ul.UpdatedAt = s.now()
		ul.SyncStatus = database.SyncStatusPending

		if err := writeUserLocation(tx, ul); err != nil {
			return err
		}

		return s.enqueue(tx, UserLocationSnapshot{ul}, database.OperationUpdate)
	})
}

// SoftDeleteUserLocation marks an active user location as deleted
func (s *Store) SoftDeleteUserLocation(id string) error {
	return s.withTx("deleting user location", func(tx *database.DB) error {
		ul, err := getActiveUserLocation(tx, id)
		if err != nil {
			return err
		}

		ul.Deleted = true
		ul.IsFavorite = false
		ul.Version++
		ul.UpdatedAt = s.now()
		ul.SyncStatus = database.SyncStatusPending

		if err := writeUserLocation(tx, ul); err != nil {
			return err
		}

		return s.enqueue(tx, UserLocationSnapshot{ul}, database.OperationDelete)
	})
}

// GetUserLocation returns the user location with the given id, including tombstones
func (s *Store) GetUserLocation(id string) (database.UserLocation, error) {
	u, err := getUserLocation(s.db, id)
	if err != nil {
		return u, classify("finding user location", err)
	}

	return u, nil
}

// ListUserLocations returns the user locations that are not soft-deleted, most recently saved first
func (s *Store) ListUserLocations() ([]database.UserLocation, error) {
	rows, err := s.db.Query("SELECT " + userLocationColumns + " FROM user_locations WHERE deleted = 0 ORDER BY saved_at DESC, rowid DESC")
	if err != nil {
		return nil, &StorageError{Op: "listing user locations", Err: err}
	}
	defer rows.Close()

	ret := []database.UserLocation{}
	for rows.Next() {
		u, err := scanUserLocation(rows)
		if err != nil {
			return nil, &StorageError{Op: "listing user locations", Err: errors.Wrap(err, "scanning a row")}
		}

		ret = append(ret, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "listing user locations", Err: err}
	}

	return ret, nil
}
