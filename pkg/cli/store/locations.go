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
	"encoding/json"

	"github.com/google/uuid"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/validate"
	"github.com/pkg/errors"
)

const locationColumns = `id, name, latitude, longitude, description, address, category, tags, photos,
	is_instagram_source, instagram_url, date_posted, created_at, updated_at, sync_status, version, deleted`

// LocationInput is the data needed to save a new location
type LocationInput struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Description string
	Address     string
	Category    string
	Tags        []string
	Photos      []string

	IsInstagramSource bool
	InstagramURL      string
	DatePosted        string
}

// LocationPatch holds the fields to change on a location. Nil fields are left untouched.
type LocationPatch struct {
	Name        *string
	Latitude    *float64
	Longitude   *float64
	Description *string
	Address     *string
	Category    *string
	Tags        *[]string
	Photos      *[]string

	IsInstagramSource *bool
	InstagramURL      *string
	DatePosted        *string
}

func (p LocationPatch) apply(l *database.Location) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Latitude != nil {
		l.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		l.Longitude = *p.Longitude
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Tags != nil {
		l.Tags = *p.Tags
	}
	if p.Photos != nil {
		l.Photos = *p.Photos
	}
	if p.IsInstagramSource != nil {
		l.IsInstagramSource = *p.IsInstagramSource
	}
	if p.InstagramURL != nil {
		l.InstagramURL = *p.InstagramURL
	}
	if p.DatePosted != nil {
		l.DatePosted = *p.DatePosted
	}
}

// withLists replaces nil lists with empty ones, the form they take once stored
func withLists(l *database.Location) {
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.Photos == nil {
		l.Photos = []string{}
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(row scanner) (database.Location, error) {
	var l database.Location
	var tags, photos string

	if err := row.Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude, &l.Description, &l.Address, &l.Category,
		&tags, &photos, &l.IsInstagramSource, &l.InstagramURL, &l.DatePosted, &l.CreatedAt, &l.UpdatedAt, &l.SyncStatus, &l.Version, &l.Deleted); err != nil {
		return l, err
	}

	if err := json.Unmarshal([]byte(tags), &l.Tags); err != nil {
		return l, errors.Wrapf(err, "decoding tags of location %s", l.ID)
	}
	if err := json.Unmarshal([]byte(photos), &l.Photos); err != nil {
		return l, errors.Wrapf(err, "decoding photos of location %s", l.ID)
	}

	return l, nil
}

func encodeLists(tags, photos []string) (string, string, error) {
	if tags == nil {
		tags = []string{}
	}
	if photos == nil {
		photos = []string{}
	}

	t, err := json.Marshal(tags)
	if err != nil {
		return "", "", errors.Wrap(err, "encoding tags")
	}
	p, err := json.Marshal(photos)
	if err != nil {
		return "", "", errors.Wrap(err, "encoding photos")
	}

	return string(t), string(p), nil
}

func getLocation(db *database.DB, id string) (database.Location, error) {
	row := db.QueryRow("SELECT "+locationColumns+" FROM locations WHERE id = ?", id)

	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return l, &NotFoundError{EntityType: database.EntityLocations, ID: id}
	}
	if err != nil {
		return l, errors.Wrap(err, "finding location")
	}

	return l, nil
}

func getActiveLocation(db *database.DB, id string) (database.Location, error) {
	l, err := getLocation(db, id)
	if err != nil {
		return l, err
	}
	if l.Deleted {
		return l, &NotFoundError{EntityType: database.EntityLocations, ID: id}
	}

	return l, nil
}

func writeLocation(db *database.DB, l database.Location) error {
	tags, photos, err := encodeLists(l.Tags, l.Photos)
	if err != nil {
		return err
	}

	if _, err := db.Exec(`UPDATE locations
		SET name = ?, latitude = ?, longitude = ?, description = ?, address = ?, category = ?,
			tags = ?, photos = ?, is_instagram_source = ?, instagram_url = ?, date_posted = ?,
			updated_at = ?, sync_status = ?, version = ?, deleted = ?
		WHERE id = ?`,
		l.Name, l.Latitude, l.Longitude, l.Description, l.Address, l.Category,
		tags, photos, l.IsInstagramSource, l.InstagramURL, l.DatePosted,
		l.UpdatedAt, l.SyncStatus, l.Version, l.Deleted, l.ID); err != nil {
		return errors.Wrap(err, "updating location")
	}

	return nil
}

// InsertLocation validates and saves a new location with a create queue item
// and returns its id
func (s *Store) InsertLocation(input LocationInput) (string, error) {
	now := s.now()
	loc := database.Location{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Description: input.Description,
		Address:     input.Address,
		Category:    input.Category,
		Tags:        input.Tags,
		Photos:      input.Photos,
		CreatedAt:   now,
		UpdatedAt:   now,
		SyncStatus:  database.SyncStatusPending,
		Version:     1,
		Deleted:     false,

		IsInstagramSource: input.IsInstagramSource,
		InstagramURL:      input.InstagramURL,
		DatePosted:        input.DatePosted,
	}
	withLists(&loc)

	if fe := validate.Location(locationFields(loc)); fe != nil {
		return "", newValidationError(fe)
	}

	tags, photos, err := encodeLists(loc.Tags, loc.Photos)
	if err != nil {
		return "", &StorageError{Op: "inserting location", Err: err}
	}

	err = s.withTx("inserting location", func(tx *database.DB) error {
		if _, err := tx.Exec("INSERT INTO locations ("+locationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Description, loc.Address, loc.Category,
			tags, photos, loc.IsInstagramSource, loc.InstagramURL, loc.DatePosted, loc.CreatedAt, loc.UpdatedAt, loc.SyncStatus, loc.Version, loc.Deleted); err != nil {
			return errors.Wrap(err, "inserting location row")
		}

		return s.enqueue(tx, LocationSnapshot{loc}, database.OperationCreate)
	})
	if err != nil {
		return "", err
	}

	return loc.ID, nil
}

// UpdateLocation applies the patch to an active location, bumps its version
// and appends an update queue item with the post-update snapshot
func (s *Store) UpdateLocation(id string, patch LocationPatch) error {
	return s.withTx("updating location", func(tx *database.DB) error {
		loc, err := getActiveLocation(tx, id)
		if err != nil {
			return err
		}

		patch.apply(&loc)
		withLists(&loc)
		if fe := validate.Location(locationFields(loc)); fe != nil {
			return newValidationError(fe)
		}

		loc.Version++
		loc.UpdatedAt = s.now()
		loc.SyncStatus = database.SyncStatusPending

		if err := writeLocation(tx, loc); err != nil {
			return err
		}

		return s.enqueue(tx, LocationSnapshot{loc}, database.OperationUpdate)
	})
}

// SoftDeleteLocation marks an active location as deleted and appends a delete queue item
func (s *Store) SoftDeleteLocation(id string) error {
	return s.withTx("deleting location", func(tx *database.DB) error {
		loc, err := getActiveLocation(tx, id)
		if err != nil {
			return err
		}

		loc.Deleted = true
		loc.Version++
		loc.UpdatedAt = s.now()
		loc.SyncStatus = database.SyncStatusPending

		if err := writeLocation(tx, loc); err != nil {
			return err
		}

		return s.enqueue(tx, LocationSnapshot{loc}, database.OperationDelete)
	})
}

// GetLocation returns the location with the given id, including tombstones
func (s *Store) GetLocation(id string) (database.Location, error) {
	l, err := getLocation(s.db, id)
	if err != nil {
		return l, classify("finding location", err)
	}

	return l, nil
}

// ListActiveLocations returns all locations that are not soft-deleted, newest first
func (s *Store) ListActiveLocations() ([]database.Location, error) {
	rows, err := s.db.Query("SELECT " + locationColumns + " FROM locations WHERE deleted = 0 ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, &StorageError{Op: "listing locations", Err: err}
	}
	defer rows.Close()

	ret := []database.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, &StorageError{Op: "listing locations", Err: errors.Wrap(err, "scanning a row")}
		}

		ret = append(ret, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "listing locations", Err: err}
	}

	return ret, nil
}
