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

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/pkg/errors"
)

type fakeServer struct {
	mu       sync.Mutex
	docs     map[string]Document
	requests []string
	status   int
	delay    time.Duration
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	status := f.status
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		http.Error(w, "failure", status)
		return
	}

	if r.URL.Path == "/health" {
		w.Write([]byte("ok"))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, ok := f.docs[r.URL.Path]
	switch r.Method {
	case http.MethodGet:
		if !ok {
			writeNotFound(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	case http.MethodPut:
		var in Document
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &in)
		f.docs[r.URL.Path] = in
		w.WriteHeader(http.StatusOK)
	case http.MethodPatch:
		if !ok {
			writeNotFound(w)
			return
		}
		var in Document
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &in)
		for k, v := range in.Fields {
			doc.Fields[k] = v
		}
		doc.Version = in.Version
		f.docs[r.URL.Path] = doc
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.docs, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not_found"}`))
}

func newFakeServer(t *testing.T) (*fakeServer, *HTTPStore) {
	f := &fakeServer{docs: map[string]Document{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return f, NewHTTPStore(srv.URL+"/", nil)
}

func TestHTTPStore(t *testing.T) {
	ctx := context.Background()
	f, s := newFakeServer(t)

	_, ok, err := s.Get(ctx, database.EntityLocations, "l1")
	assert.IsNil(t, err, "getting an absent document")
	assert.Equal(t, ok, false, "absent document must not exist")

	err = s.Update(ctx, database.EntityUserLocations, "u1", Document{Version: 2})
	var nerr *NotFoundError
	assert.ErrorType(t, err, &nerr, "updating an absent document")

	doc := Document{Version: 1, SyncStatus: "synced", Fields: map[string]interface{}{"name": "Cafe"}}
	assert.IsNil(t, s.Set(ctx, database.EntityLocations, "l1", doc), "setting document")

	got, ok, err := s.Get(ctx, database.EntityLocations, "l1")
	assert.IsNil(t, err, "getting document")
	assert.Equal(t, ok, true, "document must exist")
	assert.Equal(t, got.Version, 1, "version mismatch")
	assert.Equal(t, got.Fields["name"], "Cafe", "name mismatch")

	assert.IsNil(t, s.Update(ctx, database.EntityLocations, "l1", Document{Version: 2, Fields: map[string]interface{}{"name": "Bar"}}), "updating document")
	got, _, err = s.Get(ctx, database.EntityLocations, "l1")
	assert.IsNil(t, err, "getting document")
	assert.Equal(t, got.Version, 2, "version mismatch")
	assert.Equal(t, got.Fields["name"], "Bar", "name mismatch")

	assert.IsNil(t, s.Delete(ctx, database.EntityLocations, "l1"), "deleting document")
	assert.IsNil(t, s.Delete(ctx, database.EntityLocations, "l1"), "deleting an absent document")

	assert.IsNil(t, s.Health(ctx), "checking health")

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, f.requests[0], "GET /api/v1/documents/locations/l1", "request path mismatch")
}

func TestHTTPStore_statusMapping(t *testing.T) {
	testCases := []struct {
		status   int
		expected Code
	}{
		{status: http.StatusForbidden, expected: CodePermissionDenied},
		{status: http.StatusUnauthorized, expected: CodePermissionDenied},
		{status: http.StatusTooManyRequests, expected: CodeResourceExhausted},
		{status: http.StatusBadGateway, expected: CodeUnavailable},
		{status: http.StatusServiceUnavailable, expected: CodeUnavailable},
		{status: http.StatusGatewayTimeout, expected: CodeUnavailable},
		{status: http.StatusInternalServerError, expected: CodeUnknown},
		{status: http.StatusBadRequest, expected: CodeUnknown},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			f, s := newFakeServer(t)
			f.mu.Lock()
			f.status = tc.status
			f.mu.Unlock()

			err := s.Set(context.Background(), database.EntityLocations, "l1", Document{Version: 1})

			var rerr *Error
			assert.ErrorType(t, err, &rerr, "error type mismatch")
			if rerr != nil {
				assert.Equal(t, rerr.Code, tc.expected, "code mismatch")
				assert.Equal(t, rerr.Error(), Message(tc.expected), "message mismatch")
			}
		})
	}
}

func TestHTTPStore_timeout(t *testing.T) {
	f, s := newFakeServer(t)
	f.mu.Lock()
	f.delay = 200 * time.Millisecond
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := s.Get(ctx, database.EntityLocations, "l1")

	var rerr *Error
	assert.ErrorType(t, err, &rerr, "error type mismatch")
	if rerr != nil {
		assert.Equal(t, rerr.Code, CodeDeadlineExceeded, "code mismatch")
	}
}

func TestHTTPStore_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	s := NewHTTPStore(endpoint, &http.Client{})
	err := s.Health(context.Background())

	var rerr *Error
	assert.ErrorType(t, err, &rerr, "error type mismatch")
	if rerr != nil {
		assert.Equal(t, rerr.Code, CodeUnavailable, "code mismatch")
	}
}

func TestHTTPStore_unknownRoute(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	s := NewHTTPStore(srv.URL, nil)

	_, ok, err := s.Get(ctx, database.EntityLocations, "l1")
	assert.Equal(t, ok, false, "document must not be reported")

	var rerr *Error
	assert.ErrorType(t, err, &rerr, "a missing route must not read as a missing document")
	if rerr != nil {
		assert.Equal(t, rerr.Code, CodeUnknown, "code mismatch")
	}

	err = s.Update(ctx, database.EntityLocations, "l1", Document{Version: 2})
	var nerr *NotFoundError
	if errors.As(err, &nerr) {
		t.Error("a missing route must not read as an absent document on update")
	}
	assert.ErrorType(t, err, &rerr, "error type mismatch")

	err = s.Delete(ctx, database.EntityLocations, "l1")
	assert.ErrorType(t, err, &rerr, "deleting through a missing route must fail")
}
