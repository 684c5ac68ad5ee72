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
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/server/database"
)

func TestPresentDocument(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 9, 30, 0, 123456789, time.UTC)

	testCases := []struct {
		name           string
		data           string
		expectedFields string
	}{
		{
			name:           "with fields",
			data:           `{"name":"Cafe","lat":37.5}`,
			expectedFields: `{"name":"Cafe","lat":37.5}`,
		},
		{
			name:           "empty data",
			data:           "",
			expectedFields: `{}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := database.Document{
				Model:      database.Model{CreatedAt: createdAt, UpdatedAt: createdAt},
				Collection: "locations",
				DocID:      "l1",
				Version:    4,
				SyncStatus: "synced",
				Data:       tc.data,
			}

			got := PresentDocument(doc)

			assert.Equal(t, got.ID, "l1", "id mismatch")
			assert.Equal(t, got.Version, 4, "version mismatch")
			assert.Equal(t, string(got.Fields), tc.expectedFields, "fields mismatch")
			assert.Equal(t, got.CreatedAt, formatTS(createdAt), "created_at mismatch")

			b, err := json.Marshal(got)
			assert.IsNil(t, err, "marshalling")

			var decoded map[string]interface{}
			assert.IsNil(t, json.Unmarshal(b, &decoded), "unmarshalling")
			assert.Equal(t, decoded["sync_status"], "synced", "sync_status mismatch")
		})
	}
}
