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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

// HTTPStore is a document store served by memorymap-server
type HTTPStore struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPStore returns a document store for the server at the given endpoint.
// A rate limited client is used if hc is nil.
func NewHTTPStore(endpoint string, hc *http.Client) *HTTPStore {
	if hc == nil {
		hc = NewRateLimitedHTTPClient()
	}

	return &HTTPStore{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: hc,
	}
}

func (s *HTTPStore) documentPath(collection database.EntityType, id string) string {
	return fmt.Sprintf("/api/v1/documents/%s/%s", url.PathEscape(string(collection)), url.PathEscape(id))
}

// codeForStatus maps an HTTP status of an error response to a remote error code
func codeForStatus(status int) Code {
	switch status {
	case http.StatusForbidden, http.StatusUnauthorized:
		return CodePermissionDenied
	case http.StatusTooManyRequests:
		return CodeResourceExhausted
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CodeUnavailable
	case http.StatusRequestTimeout:
		return CodeDeadlineExceeded
	}

	return CodeUnknown
}

// checkRespErr returns an HTTPError if the response indicates an error
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

// errorCodeNotFound is the error code the server sends for a missing document
const errorCodeNotFound = "not_found"

// isDocumentNotFound reports whether a 404 response is about a missing document
// rather than a path the server does not serve
func isDocumentNotFound(res *http.Response) bool {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1024)).Decode(&body); err != nil {
		return false
	}

	return body.Error == errorCodeNotFound
}

// doReq does an http request to the given path in the endpoint. A 404 for a missing
// document is returned as a nil error with the response so that callers can decide
// what absence means. Any other 404 is an error.
func (s *HTTPStore) doReq(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, NewError(CodeUnknown, errors.Wrap(err, "marshalling the payload"))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+path, reader)
	if err != nil {
		return nil, NewError(CodeUnknown, errors.Wrap(err, "constructing http request"))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := FromContext(err); ctxErr != err {
			return nil, ctxErr
		}
		return nil, NewError(CodeUnavailable, errors.Wrap(err, "making http request"))
	}

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if res.StatusCode == http.StatusNotFound {
		if isDocumentNotFound(res) {
			return res, nil
		}
		res.Body.Close()
		return nil, NewError(CodeUnknown, errors.Errorf("server does not serve %s %s", method, path))
	}

	if err := checkRespErr(res); err != nil {
		res.Body.Close()
		var herr *HTTPError
		if errors.As(err, &herr) {
			return nil, NewError(codeForStatus(herr.StatusCode), err)
		}
		return nil, NewError(CodeUnknown, err)
	}

	return res, nil
}

// Get returns the document and whether it exists
func (s *HTTPStore) Get(ctx context.Context, collection database.EntityType, id string) (Document, bool, error) {
	var ret Document

	res, err := s.doReq(ctx, http.MethodGet, s.documentPath(collection, id), nil)
	if err != nil {
		return ret, false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ret, false, nil
	}

	if err := json.NewDecoder(res.Body).Decode(&ret); err != nil {
		return ret, false, NewError(CodeUnknown, errors.Wrap(err, "unmarshalling the payload"))
	}
	if ret.Fields == nil {
		ret.Fields = map[string]interface{}{}
	}

	return ret, true, nil
}

// Set creates or overwrites the document
func (s *HTTPStore) Set(ctx context.Context, collection database.EntityType, id string, doc Document) error {
	res, err := s.doReq(ctx, http.MethodPut, s.documentPath(collection, id), doc)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return NewError(CodeUnknown, errors.Errorf("server refused to create %s", s.documentPath(collection, id)))
	}

	return nil
}

// Update merges the fields and version into an existing document
func (s *HTTPStore) Update(ctx context.Context, collection database.EntityType, id string, doc Document) error {
	res, err := s.doReq(ctx, http.MethodPatch, s.documentPath(collection, id), doc)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &NotFoundError{Collection: collection, ID: id}
	}

	return nil
}

// Delete removes the document if it exists
func (s *HTTPStore) Delete(ctx context.Context, collection database.EntityType, id string) error {
	res, err := s.doReq(ctx, http.MethodDelete, s.documentPath(collection, id), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return nil
}

// Health checks that the server is reachable
func (s *HTTPStore) Health(ctx context.Context) error {
	res, err := s.doReq(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return NewError(CodeUnavailable, errors.Errorf("health check responded with %d", res.StatusCode))
	}

	return nil
}
