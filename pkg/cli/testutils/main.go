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

// Package testutils provides utilities used in tests that run the memorymap binary
package testutils

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/pkg/errors"
)

// RunCmdOptions is an option for RunCmd
type RunCmdOptions struct {
	Env   []string
	Stdin string
}

// NewCmd returns a new memorymap command and pointers to stderr and stdout
func NewCmd(opts RunCmdOptions, binaryName string, arg ...string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer, error) {
	var stderr, stdout bytes.Buffer

	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return &exec.Cmd{}, &stderr, &stdout, errors.Wrap(err, "getting the absolute path to the test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout
	cmd.Stdin = strings.NewReader(opts.Stdin)
	cmd.Env = append(append([]string{}, opts.Env...), "MEMORYMAP_DEBUG=1")

	return cmd, &stderr, &stdout, nil
}

// RunCmd runs a memorymap command, fails the test if it exits with an error
// and returns its stdout
func RunCmd(t *testing.T, opts RunCmdOptions, binaryName string, arg ...string) string {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, stderr, stdout, err := NewCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	if err := cmd.Run(); err != nil {
		t.Logf("\n%s", stdout)
		t.Fatal(errors.Wrapf(err, "running command %s", stderr.String()))
	}

	// Print stdout if and only if test fails later
	t.Logf("\n%s", stdout)

	return stdout.String()
}

// RunCmdErr runs a memorymap command that is expected to fail and returns its stdout
func RunCmdErr(t *testing.T, opts RunCmdOptions, binaryName string, arg ...string) string {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, _, stdout, err := NewCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	if err := cmd.Run(); err == nil {
		t.Logf("\n%s", stdout)
		t.Fatal("expected the command to fail")
	}

	return stdout.String()
}

// Fixture location ids
const (
	HarborID = "0f6a1a52-9b6c-4f50-9d1e-6c8d4c2f1a01"
	ParkID   = "8e2b4c11-2d7f-4a3e-b5c9-3f1e7d9a6b02"
)

// Harbor returns a valid location input
func Harbor() store.LocationInput {
	return store.LocationInput{
		Name:        "Harbor",
		Latitude:    1,
		Longitude:   2,
		Description: "fog and sea lions",
		Address:     "Pier 39",
		Category:    "park",
	}
}

// SetupLocations inserts two synced locations
func SetupLocations(t *testing.T, db *database.DB) {
	database.MustExec(t, "setting up location 1", db, `INSERT INTO locations
		(id, name, latitude, longitude, description, address, category, created_at, updated_at, sync_status, version, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		HarborID, "Harbor", 37.8080, -122.4177, "fog and sea lions", "Pier 39", "park",
		"2025-01-02T10:00:00.000000Z", "2025-01-02T10:00:00.000000Z", database.SyncStatusSynced, 1, false)
	database.MustExec(t, "setting up location 2", db, `INSERT INTO locations
		(id, name, latitude, longitude, description, address, category, created_at, updated_at, sync_status, version, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ParkID, "Dolores Park", 37.7596, -122.4269, "city views on the hill", "Dolores St & 19th St", "park",
		"2025-01-03T10:00:00.000000Z", "2025-01-03T10:00:00.000000Z", database.SyncStatusSynced, 2, false)
}
