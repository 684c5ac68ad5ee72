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

package ui

import (
	"strings"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
)

func withStdin(t *testing.T, input string) {
	orig := Stdin
	Stdin = strings.NewReader(input)
	t.Cleanup(func() { Stdin = orig })
}

func TestConfirm(t *testing.T) {
	testCases := []struct {
		input      string
		optimistic bool
		expected   bool
	}{
		{input: "y\n", optimistic: false, expected: true},
		{input: "n\n", optimistic: false, expected: false},
		{input: "\n", optimistic: false, expected: false},
		{input: "\n", optimistic: true, expected: true},
	}

	for _, tc := range testCases {
		withStdin(t, tc.input)

		got, err := Confirm("delete?", tc.optimistic)
		assert.IsNil(t, err, "confirming")
		assert.Equal(t, got, tc.expected, "result mismatch for "+tc.input)
	}
}

func TestReadStdInput(t *testing.T) {
	withStdin(t, "first line\nsecond line\n")

	got, err := ReadStdInput()
	assert.IsNil(t, err, "reading")
	assert.Equal(t, got, "first line\nsecond line", "content mismatch")
	assert.Equal(t, IsPiped(), true, "a reader that is not a file counts as piped")
}
