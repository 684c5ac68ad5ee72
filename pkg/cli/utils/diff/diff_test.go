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

package diff

import (
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
)

func TestLines(t *testing.T) {
	testCases := []struct {
		s1       string
		s2       string
		expected string
	}{
		{
			s1:       "quiet corners",
			s2:       "quiet corners",
			expected: "",
		},
		{
			s1:       "espresso\nquiet corners\n",
			s2:       "espresso\nloud music\n",
			expected: "-quiet corners\n+loud music\n",
		},
		{
			s1:       "",
			s2:       "new",
			expected: "+new\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, Lines(tc.s1, tc.s2), tc.expected, "diff mismatch")
		})
	}
}
