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

// Package clock abstracts the current time so that the sync engine and the
// local store can be driven by a fixed time in tests
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time in UTC
type Clock interface {
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
}

type clock struct{}

func (c *clock) Now() time.Time {
	return time.Now().UTC()
}

func (c *clock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// New returns a clock reading the system time
func New() Clock {
	return &clock{}
}

// Mock is a clock that moves only when told to
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMock returns a mock clock set to a fixed time
func NewMock() *Mock {
	return &Mock{
		currentTime: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
}

// SetNow sets the current time of the mock clock
func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentTime = t.UTC()
}

// Advance moves the mock clock forward by the given duration
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentTime = c.currentTime.Add(d)
}

// Now returns the current time of the mock clock
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.currentTime
}

// Since returns the mock time elapsed since t
func (c *Mock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}
