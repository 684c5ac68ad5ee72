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

package app

import (
	"encoding/json"

	"github.com/memorymap/memorymap/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentInput is the client payload for writing a document
type DocumentInput struct {
	Version    int                    `json:"version"`
	SyncStatus string                 `json:"sync_status"`
	Fields     map[string]interface{} `json:"fields"`
}

func validateKey(collection, id string) error {
	if collection == "" || id == "" {
		return ErrInvalidKey
	}

	return nil
}

func encodeFields(fields map[string]interface{}) (string, error) {
	if fields == nil {
		fields = map[string]interface{}{}
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "marshalling fields")
	}

	return string(b), nil
}

// DecodeFields returns the fields stored in the document
func DecodeFields(doc database.Document) (map[string]interface{}, error) {
	ret := map[string]interface{}{}
	if doc.Data == "" {
		return ret, nil
	}

	if err := json.Unmarshal([]byte(doc.Data), &ret); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling fields of %s/%s", doc.Collection, doc.DocID)
	}

	return ret, nil
}

func findDocument(db *gorm.DB, collection, id string) (database.Document, error) {
	var doc database.Document

	err := db.Where("collection = ? AND doc_id = ?", collection, id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return doc, ErrNotFound
	} else if err != nil {
		return doc, errors.Wrap(err, "finding document")
	}

	return doc, nil
}

// GetDocument returns the document with the given key
func (a *App) GetDocument(collection, id string) (database.Document, error) {
	if err := validateKey(collection, id); err != nil {
		return database.Document{}, err
	}

	return findDocument(a.DB, collection, id)
}

// SetDocument creates the document or overwrites all of its content
func (a *App) SetDocument(collection, id string, in DocumentInput) (database.Document, error) {
	if err := validateKey(collection, id); err != nil {
		return database.Document{}, err
	}
	if in.Version < 0 {
		return database.Document{}, ErrInvalidVersion
	}

	data, err := encodeFields(in.Fields)
	if err != nil {
		return database.Document{}, err
	}

	doc := database.Document{
		Collection: collection,
		DocID:      id,
		Version:    in.Version,
		SyncStatus: in.SyncStatus,
		Data:       data,
	}

	err = a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "sync_status", "data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return doc, errors.Wrap(err, "upserting document")
	}

	return findDocument(a.DB, collection, id)
}

// UpdateDocument merges the given fields into an existing document and sets
// its version. An empty sync status keeps the stored one.
func (a *App) UpdateDocument(collection, id string, in DocumentInput) (database.Document, error) {
	if err := validateKey(collection, id); err != nil {
		return database.Document{}, err
	}
	if in.Version < 0 {
		return database.Document{}, ErrInvalidVersion
	}

	var ret database.Document

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := findDocument(tx.Clauses(clause.Locking{Strength: "UPDATE"}), collection, id)
		if err != nil {
			return err
		}

		fields, err := DecodeFields(doc)
		if err != nil {
			return err
		}
		for k, v := range in.Fields {
			fields[k] = v
		}

		data, err := encodeFields(fields)
		if err != nil {
			return err
		}

		doc.Data = data
		doc.Version = in.Version
		if in.SyncStatus != "" {
			doc.SyncStatus = in.SyncStatus
		}

		if err := tx.Save(&doc).Error; err != nil {
			return errors.Wrap(err, "saving document")
		}

		ret = doc
		return nil
	})
	if err != nil {
		return ret, err
	}

	return ret, nil
}

// DeleteDocument removes the document. Removing an absent document succeeds.
func (a *App) DeleteDocument(collection, id string) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	if err := a.DB.Where("collection = ? AND doc_id = ?", collection, id).Delete(&database.Document{}).Error; err != nil {
		return errors.Wrap(err, "deleting document")
	}

	return nil
}

// CountDocuments returns the number of documents in the collection
func (a *App) CountDocuments(collection string) (int64, error) {
	var count int64

	if err := a.DB.Model(&database.Document{}).Where("collection = ?", collection).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting documents")
	}

	return count, nil
}
