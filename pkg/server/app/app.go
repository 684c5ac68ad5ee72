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
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrNotFound is returned when the requested document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrInvalidKey is returned for an empty collection or document id
	ErrInvalidKey = errors.New("collection and id are required")
	// ErrInvalidVersion is returned for a negative document version
	ErrInvalidVersion = errors.New("version must not be negative")
)

// App is an application context
type App struct {
	DB *gorm.DB
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}

	return nil
}
