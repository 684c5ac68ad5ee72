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

package root

import (
	"bytes"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/spf13/cobra"
)

func TestDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetDebug(false)
		debugFlag = false
	})

	cmd := newCmd()
	cmd.AddCommand(&cobra.Command{
		Use: "noop",
		Run: func(cmd *cobra.Command, args []string) {
			log.Debug("ran noop\n")
		},
	})
	cmd.SetArgs([]string{"noop", "--debug"})

	err := cmd.Execute()
	assert.Equal(t, err, nil, "executing command")
	assert.Equal(t, bytes.Contains(buf.Bytes(), []byte("ran noop")), true, "debug output missing")
}

func TestDBPathFlag(t *testing.T) {
	t.Cleanup(func() { dbPathFlag = "" })

	cmd := newCmd()
	cmd.AddCommand(&cobra.Command{Use: "noop", Run: func(*cobra.Command, []string) {}})
	cmd.SetArgs([]string{"noop", "--dbPath", "/tmp/memorymap.db"})

	err := cmd.Execute()
	assert.Equal(t, err, nil, "executing command")
	assert.Equal(t, dbPathFlag, "/tmp/memorymap.db", "dbPath mismatch")
}
