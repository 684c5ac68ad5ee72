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

package clock

import (
	"testing"
	"time"
)

func TestMock(t *testing.T) {
	c := NewMock()
	start := c.Now()

	c.Advance(90 * time.Second)
	if got := c.Since(start); got != 90*time.Second {
		t.Errorf("expected 1m30s since start, got %s", got)
	}

	loc := time.FixedZone("KST", 9*60*60)
	c.SetNow(time.Date(2025, time.May, 1, 21, 0, 0, 0, loc))
	if got := c.Now(); got.Location() != time.UTC || got.Hour() != 12 {
		t.Errorf("expected 12:00 UTC, got %s", got)
	}
}

func TestNew(t *testing.T) {
	c := New()

	if got := c.Now().Location(); got != time.UTC {
		t.Errorf("expected UTC, got %s", got)
	}
	if got := c.Since(c.Now().Add(-time.Minute)); got < time.Minute {
		t.Errorf("expected at least a minute, got %s", got)
	}
}
