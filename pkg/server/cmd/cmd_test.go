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

package cmd

import (
	"bytes"
	"context"
	"flag"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/server/buildinfo"
	"github.com/memorymap/memorymap/pkg/server/config"
	"github.com/memorymap/memorymap/pkg/server/database"
	"github.com/memorymap/memorymap/pkg/server/log"
	"github.com/pkg/errors"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd(&buf)

	assert.Equal(t, buf.String(), "memorymap-server-"+buildinfo.Version+"\n", "output mismatch")
}

func TestSetupFlagSet(t *testing.T) {
	fs := setupFlagSet("start", "memorymap-server start")
	fs.String("dbDriver", "", "Database driver")
	fs.Bool("verbose", false, "Verbose")

	var buf bytes.Buffer
	fs.SetOutput(&buf)
	fs.Usage()

	out := buf.String()
	if !strings.Contains(out, "memorymap-server start [flags]") {
		t.Errorf("usage line missing: %s", out)
	}
	if !strings.Contains(out, "  --dbDriver string") {
		t.Errorf("flag line missing: %s", out)
	}
	if !strings.Contains(out, "  --verbose\n") {
		t.Errorf("bool flag line missing: %s", out)
	}
	assert.Equal(t, fs.ErrorHandling(), flag.ExitOnError, "error handling mismatch")
}

func TestInitApp(t *testing.T) {
	cfg := config.Config{
		DBDriver: database.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "server.db"),
		LogLevel: log.LevelInfo,
	}

	a, cleanup, err := initApp(cfg)
	assert.IsNil(t, err, "initializing app")
	defer cleanup()

	assert.IsNil(t, a.Validate(), "validating app")
	assert.Equal(t, a.DB.Migrator().HasTable(&database.Document{}), true, "documents table must exist")
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(errors.Wrap(err, "finding a free port"))
	}
	addr := l.Addr().String()
	l.Close()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, addr, h)
	}()

	var res *http.Response
	for i := 0; i < 50; i++ {
		res, err = http.Get("http://" + addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.IsNil(t, err, "requesting the server")
	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
	res.Body.Close()

	cancel()

	select {
	case err := <-done:
		assert.IsNil(t, err, "shutting down")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
