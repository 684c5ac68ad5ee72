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

package log

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/pkg/errors"
)

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		currentLevel string
		logLevel     string
		expected     bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelWarn, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelWarn, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
		{"unknown", LevelDebug, false},
		{"unknown", LevelInfo, true},
	}

	for _, tc := range testCases {
		SetLevel(tc.currentLevel)
		result := shouldLog(tc.logLevel)
		if result != tc.expected {
			t.Errorf("level %s logging %s: expected %v, got %v", tc.currentLevel, tc.logLevel, tc.expected, result)
		}
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	defer SetLevel(LevelInfo)

	WithFields(Fields{
		"collection": "locations",
		"err":        errors.New("boom"),
		"duration":   1500 * time.Millisecond,
	}).Warn("storing document")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "unmarshalling the log line"))
	}

	assert.Equal(t, got["level"], LevelWarn, "level mismatch")
	assert.Equal(t, got["msg"], "storing document", "msg mismatch")
	assert.Equal(t, got["collection"], "locations", "collection mismatch")
	assert.Equal(t, got["err"], "boom", "err mismatch")
	assert.Equal(t, got["duration"], float64(1500), "duration mismatch")

	buf.Reset()
	SetLevel(LevelError)
	Info("hidden")
	assert.Equal(t, buf.Len(), 0, "info must not be written at the error level")
}
