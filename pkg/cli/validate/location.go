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

// Package validate checks entity data before it is written to the local store
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLength is the maximum number of characters in a location name
	MaxNameLength = 100
	// MaxDescriptionLength is the maximum number of characters in a description
	MaxDescriptionLength = 500
	// MaxAddressLength is the maximum number of characters in an address
	MaxAddressLength = 200
	// MaxCategoryLength is the maximum number of characters in a category
	MaxCategoryLength = 50
	// MaxTags is the maximum number of tags on a location
	MaxTags = 20
	// MaxTagLength is the maximum number of characters in a tag
	MaxTagLength = 30
	// MaxPhotos is the maximum number of photo references on a location
	MaxPhotos = 50
	// MaxURLLength is the maximum number of characters in a source url
	MaxURLLength = 500
	// MaxNotifyRadius is the maximum notification radius in kilometers
	MaxNotifyRadius = 100.0
)

// FieldError describes a single constraint violation
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func requiredText(field, val string, max int) *FieldError {
	if strings.TrimSpace(val) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(val) > max {
		return &FieldError{Field: field, Message: fmt.Sprintf("cannot exceed %d characters", max)}
	}

	return nil
}

func optionalText(field, val string, max int) *FieldError {
	if utf8.RuneCountInString(val) > max {
		return &FieldError{Field: field, Message: fmt.Sprintf("cannot exceed %d characters", max)}
	}

	return nil
}

// Latitude checks that the value is a valid latitude
func Latitude(v float64) *FieldError {
	if v < -90 || v > 90 {
		return &FieldError{Field: "latitude", Message: "must be between -90 and 90"}
	}

	return nil
}

// Longitude checks that the value is a valid longitude
func Longitude(v float64) *FieldError {
	if v < -180 || v > 180 {
		return &FieldError{Field: "longitude", Message: "must be between -180 and 180"}
	}

	return nil
}

// LocationFields holds the user-visible fields of a location
type LocationFields struct {
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

// Location validates location fields and returns the first violation
func Location(f LocationFields) *FieldError {
	if err := requiredText("name", f.Name, MaxNameLength); err != nil {
		return err
	}
	if err := Latitude(f.Latitude); err != nil {
		return err
	}
	if err := Longitude(f.Longitude); err != nil {
		return err
	}
	if err := requiredText("description", f.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := requiredText("address", f.Address, MaxAddressLength); err != nil {
		return err
	}
	if err := requiredText("category", f.Category, MaxCategoryLength); err != nil {
		return err
	}

	if len(f.Tags) > MaxTags {
		return &FieldError{Field: "tags", Message: fmt.Sprintf("cannot have more than %d entries", MaxTags)}
	}
	for _, tag := range f.Tags {
		if err := requiredText("tags", tag, MaxTagLength); err != nil {
			return err
		}
	}

	if len(f.Photos) > MaxPhotos {
		return &FieldError{Field: "photos", Message: fmt.Sprintf("cannot have more than %d entries", MaxPhotos)}
	}
	for _, photo := range f.Photos {
		if strings.TrimSpace(photo) == "" {
			return &FieldError{Field: "photos", Message: "cannot contain empty entries"}
		}
	}

	return source(f)
}

func source(f LocationFields) *FieldError {
	if f.IsInstagramSource {
		if err := requiredText("instagram_url", f.InstagramURL, MaxURLLength); err != nil {
			return err
		}
	} else if err := optionalText("instagram_url", f.InstagramURL, MaxURLLength); err != nil {
		return err
	}

	if f.DatePosted == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, f.DatePosted); err == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", f.DatePosted); err == nil {
		return nil
	}

	return &FieldError{Field: "date_posted", Message: "must be a date (2006-01-02) or an RFC 3339 time"}
}

// UserLocationFields holds the user-visible fields of a user location overlay
type UserLocationFields struct {
	LocationID        string
	CustomName        string
	CustomDescription string
	Category          string
	NotifyRadius      float64
}

// UserLocation validates user location fields and returns the first violation
func UserLocation(f UserLocationFields) *FieldError {
	if strings.TrimSpace(f.LocationID) == "" {
		return &FieldError{Field: "location_id", Message: "is required"}
	}
	if err := optionalText("custom_name", f.CustomName, MaxNameLength); err != nil {
		return err
	}
	if err := optionalText("custom_description", f.CustomDescription, MaxDescriptionLength); err != nil {
		return err
	}
	if err := optionalText("category", f.Category, MaxCategoryLength); err != nil {
		return err
	}
	if f.NotifyRadius <= 0 || f.NotifyRadius > MaxNotifyRadius {
		return &FieldError{Field: "notify_radius", Message: fmt.Sprintf("must be greater than 0 and at most %g", MaxNotifyRadius)}
	}

	return nil
}
