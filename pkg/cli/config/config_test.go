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

package config

import (
	"os"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/consts"
	"github.com/memorymap/memorymap/pkg/cli/sync"
	"github.com/memorymap/memorymap/pkg/dirs"
)

func testPaths(t *testing.T) dirs.Paths {
	tmp := t.TempDir()
	paths := dirs.Paths{Home: tmp, Config: tmp + "/config", Data: tmp + "/data", Cache: tmp + "/cache"}
	if err := paths.Ensure(consts.AppDirName); err != nil {
		t.Fatal(err)
	}

	return paths
}

func TestReadWrite(t *testing.T) {
	paths := testPaths(t)

	cf := Default("http://127.0.0.1:3005")
	assert.IsNil(t, Write(paths, cf), "writing config")

	got, err := Read(paths)
	assert.IsNil(t, err, "reading config")
	assert.Equal(t, got, cf, "config mismatch")
}

func TestRead_missing(t *testing.T) {
	_, err := Read(testPaths(t))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestRead_partial(t *testing.T) {
	paths := testPaths(t)
	if err := os.WriteFile(GetPath(paths), []byte("remoteEndpoint: http://example.com\nmaxAttempts: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cf, err := Read(paths)
	assert.IsNil(t, err, "reading config")
	assert.Equal(t, cf.RemoteEndpoint, "http://example.com", "endpoint mismatch")

	sc, err := cf.SyncConfig()
	assert.IsNil(t, err, "building sync config")
	assert.Equal(t, sc, sync.Config{MaxAttempts: 5}, "unset values must be left for the engine defaults")
}

func TestSyncConfig(t *testing.T) {
	cf := Default("")
	assert.Equal(t, cf.RemoteEndpoint, consts.DefaultRemoteEndpoint, "default endpoint mismatch")

	sc, err := cf.SyncConfig()
	assert.IsNil(t, err, "building sync config")
	assert.Equal(t, sc, sync.Config{
		BatchSize:     sync.DefaultBatchSize,
		MaxAttempts:   sync.DefaultMaxAttempts,
		RetryDelay:    sync.DefaultRetryDelay,
		Retention:     sync.DefaultRetention,
		RemoteTimeout: sync.DefaultRemoteTimeout,
	}, "sync config mismatch")

	cf.RetryDelay = "soon"
	_, err = cf.SyncConfig()
	if err == nil {
		t.Fatal("expected an error for an invalid duration")
	}

	d, err := Default("").ProbeEvery()
	assert.IsNil(t, err, "parsing probe interval")
	assert.Equal(t, d, 30*time.Second, "probe interval mismatch")
}
