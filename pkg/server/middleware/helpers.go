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

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/memorymap/memorymap/pkg/server/log"
)

// DoError logs the error and responds with the given status code with a generic status text
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = err.Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
		"err":        err,
	}).Error(message)

	statusText := http.StatusText(statusCode)
	http.Error(w, statusText, statusCode)
}

// RespondNotFound responds with 404
func RespondNotFound(w http.ResponseWriter) {
	http.Error(w, "not found", http.StatusNotFound)
}

// ErrorCodeNotFound is the error code of a document that does not exist
const ErrorCodeNotFound = "not_found"

// ErrorBody is the JSON body of an error response
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondDocumentNotFound responds with 404 and a body telling a missing
// document apart from an unknown route
func RespondDocumentNotFound(w http.ResponseWriter) {
	RespondJSON(w, http.StatusNotFound, ErrorBody{Error: ErrorCodeNotFound})
}

// RespondJSON encodes the given payload into JSON and writes it with the status code
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}
