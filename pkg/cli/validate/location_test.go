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

package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
)

func validLocation() LocationFields {
	return LocationFields{
		Name:        "Cafe",
		Latitude:    37.5665,
		Longitude:   126.978,
		Description: "espresso and quiet corners",
		Address:     "1 Main St",
		Category:    "food",
	}
}

func TestLocation(t *testing.T) {
	testCases := []struct {
		name          string
		modify        func(f *LocationFields)
		expectedField string
	}{
		{
			name:          "valid",
			modify:        func(f *LocationFields) {},
			expectedField: "",
		},
		{
			name:          "empty name",
			modify:        func(f *LocationFields) { f.Name = "" },
			expectedField: "name",
		},
		{
			name:          "blank name",
			modify:        func(f *LocationFields) { f.Name = "   " },
			expectedField: "name",
		},
		{
			name:          "name at limit",
			modify:        func(f *LocationFields) { f.Name = strings.Repeat("a", MaxNameLength) },
			expectedField: "",
		},
		{
			name:          "name too long",
			modify:        func(f *LocationFields) { f.Name = strings.Repeat("a", MaxNameLength+1) },
			expectedField: "name",
		},
		{
			name:          "latitude lower bound",
			modify:        func(f *LocationFields) { f.Latitude = -90 },
			expectedField: "",
		},
		{
			name:          "latitude out of range",
			modify:        func(f *LocationFields) { f.Latitude = 90.0001 },
			expectedField: "latitude",
		},
		{
			name:          "longitude out of range",
			modify:        func(f *LocationFields) { f.Longitude = -180.5 },
			expectedField: "longitude",
		},
		{
			name:          "empty description",
			modify:        func(f *LocationFields) { f.Description = "" },
			expectedField: "description",
		},
		{
			name:          "address too long",
			modify:        func(f *LocationFields) { f.Address = strings.Repeat("x", MaxAddressLength+1) },
			expectedField: "address",
		},
		{
			name:          "instagram source without url",
			modify:        func(f *LocationFields) { f.IsInstagramSource = true },
			expectedField: "instagram_url",
		},
		{
			name: "instagram source",
			modify: func(f *LocationFields) {
				f.IsInstagramSource = true
				f.InstagramURL = "https://instagram.com/p/abc"
				f.DatePosted = "2025-02-01T08:00:00Z"
			},
			expectedField: "",
		},
		{
			name:          "date posted as a day",
			modify:        func(f *LocationFields) { f.DatePosted = "2025-02-01" },
			expectedField: "",
		},
		{
			name:          "invalid date posted",
			modify:        func(f *LocationFields) { f.DatePosted = "last week" },
			expectedField: "date_posted",
		},
		{
			name:          "empty category",
			modify:        func(f *LocationFields) { f.Category = "" },
			expectedField: "category",
		},
		{
			name: "too many tags",
			modify: func(f *LocationFields) {
				for i := 0; i <= MaxTags; i++ {
					f.Tags = append(f.Tags, fmt.Sprintf("t%d", i))
				}
			},
			expectedField: "tags",
		},
		{
			name:          "empty photo",
			modify:        func(f *LocationFields) { f.Photos = []string{"a.jpg", ""} },
			expectedField: "photos",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := validLocation()
			tc.modify(&f)

			err := Location(f)
			if tc.expectedField == "" {
				if err != nil {
					t.Fatalf("expected no error but got %s", err.Error())
				}
				return
			}

			if err == nil {
				t.Fatalf("expected an error on %s", tc.expectedField)
			}
			assert.Equal(t, err.Field, tc.expectedField, "field mismatch")
		})
	}
}

func TestUserLocation(t *testing.T) {
	testCases := []struct {
		input         UserLocationFields
		expectedField string
	}{
		{
			input:         UserLocationFields{LocationID: "l1", NotifyRadius: 1},
			expectedField: "",
		},
		{
			input:         UserLocationFields{LocationID: "", NotifyRadius: 1},
			expectedField: "location_id",
		},
		{
			input:         UserLocationFields{LocationID: "l1", NotifyRadius: 0},
			expectedField: "notify_radius",
		},
		{
			input:         UserLocationFields{LocationID: "l1", NotifyRadius: 1, CustomName: strings.Repeat("n", MaxNameLength+1)},
			expectedField: "custom_name",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("case %d", idx), func(t *testing.T) {
			err := UserLocation(tc.input)
			if tc.expectedField == "" {
				if err != nil {
					t.Fatalf("expected no error but got %s", err.Error())
				}
				return
			}

			if err == nil {
				t.Fatalf("expected an error on %s", tc.expectedField)
			}
			assert.Equal(t, err.Field, tc.expectedField, "field mismatch")
		})
	}
}
