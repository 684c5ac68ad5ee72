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

package presenters

import (
	"encoding/json"
	"time"

	"github.com/memorymap/memorymap/pkg/server/database"
)

// Document is a result of PresentDocument
type Document struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Version    int             `json:"version"`
	SyncStatus string          `json:"sync_status,omitempty"`
	Fields     json.RawMessage `json:"fields"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PresentDocument presents a document. The stored fields are passed through as is.
func PresentDocument(doc database.Document) Document {
	fields := json.RawMessage(doc.Data)
	if len(fields) == 0 {
		fields = json.RawMessage("{}")
	}

	return Document{
		Collection: doc.Collection,
		ID:         doc.DocID,
		Version:    doc.Version,
		SyncStatus: doc.SyncStatus,
		Fields:     fields,
		CreatedAt:  formatTS(doc.CreatedAt),
		UpdatedAt:  formatTS(doc.UpdatedAt),
	}
}

// formatTS rounds the timestamp to the microsecond, the precision both
// supported databases store
func formatTS(ts time.Time) time.Time {
	return ts.UTC().Round(time.Microsecond)
}
