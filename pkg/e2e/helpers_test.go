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

package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	gosync "sync"
	"testing"

	"github.com/memorymap/memorymap/pkg/cli/config"
	"github.com/memorymap/memorymap/pkg/cli/consts"
	cliDatabase "github.com/memorymap/memorymap/pkg/cli/database"
	clitest "github.com/memorymap/memorymap/pkg/cli/testutils"
	"github.com/memorymap/memorymap/pkg/dirs"
	"github.com/memorymap/memorymap/pkg/server/app"
	"github.com/memorymap/memorymap/pkg/server/controllers"
	"github.com/memorymap/memorymap/pkg/server/database"
	"github.com/memorymap/memorymap/pkg/server/log"
	apitest "github.com/memorymap/memorymap/pkg/server/testutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// switchableHandler serves 503 for every request while down
type switchableHandler struct {
	mu      gosync.RWMutex
	down    bool
	handler http.Handler
}

func (s *switchableHandler) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.down = down
}

func (s *switchableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	down := s.down
	s.mu.RUnlock()

	if down {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}

	s.handler.ServeHTTP(w, r)
}

// testServer is a document store server backed by an in-memory database
type testServer struct {
	*httptest.Server
	App *app.App
	DB  *gorm.DB
	sw  *switchableHandler
}

func setupServer(t *testing.T) testServer {
	log.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { log.SetOutput(nil) })

	db := apitest.InitMemoryDB(t)
	a := &app.App{DB: db}

	h, err := controllers.NewHandler(a)
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing handler"))
	}

	sw := &switchableHandler{handler: h}
	server := httptest.NewServer(sw)
	t.Cleanup(server.Close)

	return testServer{Server: server, App: a, DB: db, sw: sw}
}

// SetDown makes the server respond with 503 to every request
func (s testServer) SetDown(down bool) {
	s.sw.setDown(down)
}

// MustGetFields returns the fields of the stored document, or nil if it does not exist
func (s testServer) MustGetFields(t *testing.T, collection, id string) (database.Document, map[string]interface{}) {
	doc, err := s.App.GetDocument(collection, id)
	if errors.Cause(err) == app.ErrNotFound {
		return doc, nil
	}
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting server document"))
	}

	fields, err := app.DecodeFields(doc)
	if err != nil {
		t.Fatal(errors.Wrap(err, "decoding server document"))
	}

	return doc, fields
}

// cliEnv is an isolated home for the CLI binary
type cliEnv struct {
	Dir  string
	Opts clitest.RunCmdOptions
}

func setupCLI(t *testing.T, endpoint string) cliEnv {
	dir := t.TempDir()
	paths := dirs.Paths{
		Config: filepath.Join(dir, "config"),
		Data:   filepath.Join(dir, "data"),
		Cache:  filepath.Join(dir, "cache"),
	}
	if err := paths.Ensure(consts.AppDirName); err != nil {
		t.Fatal(errors.Wrap(err, "creating app directories"))
	}

	cf := config.Default(endpoint)
	cf.RetryDelay = "1ms"
	cf.MaxAttempts = 2
	if err := config.Write(paths, cf); err != nil {
		t.Fatal(errors.Wrap(err, "writing config"))
	}

	return cliEnv{
		Dir: dir,
		Opts: clitest.RunCmdOptions{
			Env: []string{
				fmt.Sprintf("XDG_CONFIG_HOME=%s", paths.Config),
				fmt.Sprintf("XDG_DATA_HOME=%s", paths.Data),
				fmt.Sprintf("XDG_CACHE_HOME=%s", paths.Cache),
			},
		},
	}
}

func (c cliEnv) run(t *testing.T, arg ...string) string {
	return clitest.RunCmd(t, c.Opts, cliBinaryName, arg...)
}

// withDB opens the CLI database for fn and closes it before the binary runs again
func (c cliEnv) withDB(t *testing.T, fn func(db *cliDatabase.DB)) {
	path := filepath.Join(c.Dir, "data", consts.AppDirName, consts.DBFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatal(errors.Wrap(err, "finding the CLI database"))
	}

	db, err := cliDatabase.Open(path)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening the CLI database"))
	}
	defer db.Close()

	fn(db)
}
