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

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/memorymap/memorymap/pkg/server/app"
	"github.com/memorymap/memorymap/pkg/server/log"
	mw "github.com/memorymap/memorymap/pkg/server/middleware"
	"github.com/memorymap/memorymap/pkg/server/presenters"
	"github.com/pkg/errors"
)

// maxBodyBytes bounds the size of a document payload
const maxBodyBytes = 1 << 20

// NewDocuments creates a new Documents controller.
func NewDocuments(app *app.App) *Documents {
	return &Documents{
		app: app,
	}
}

// Documents is a document controller.
type Documents struct {
	app *app.App
}

func documentKey(r *http.Request) (string, string) {
	vars := mux.Vars(r)

	return vars["collection"], vars["id"]
}

func parseDocumentInput(w http.ResponseWriter, r *http.Request) (app.DocumentInput, error) {
	var ret app.DocumentInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ret); err != nil {
		return ret, errors.Wrap(err, "decoding payload")
	}

	return ret, nil
}

func handleAppError(w http.ResponseWriter, msg string, err error) {
	switch errors.Cause(err) {
	case app.ErrNotFound:
		mw.RespondDocumentNotFound(w)
	case app.ErrInvalidKey, app.ErrInvalidVersion:
		http.Error(w, errors.Cause(err).Error(), http.StatusBadRequest)
	default:
		mw.DoError(w, msg, err, http.StatusInternalServerError)
	}
}

// Show handles GET /api/v1/documents/{collection}/{id}
func (d *Documents) Show(w http.ResponseWriter, r *http.Request) {
	collection, id := documentKey(r)

	doc, err := d.app.GetDocument(collection, id)
	if err != nil {
		handleAppError(w, "getting document", err)
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentDocument(doc))
}

// Set handles PUT /api/v1/documents/{collection}/{id}
func (d *Documents) Set(w http.ResponseWriter, r *http.Request) {
	collection, id := documentKey(r)

	in, err := parseDocumentInput(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := d.app.SetDocument(collection, id, in)
	if err != nil {
		handleAppError(w, "setting document", err)
		return
	}

	log.WithFields(log.Fields{
		"collection": collection,
		"id":         id,
		"version":    doc.Version,
	}).Debug("document set")

	mw.RespondJSON(w, http.StatusOK, presenters.PresentDocument(doc))
}

// Update handles PATCH /api/v1/documents/{collection}/{id}
func (d *Documents) Update(w http.ResponseWriter, r *http.Request) {
	collection, id := documentKey(r)

	in, err := parseDocumentInput(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := d.app.UpdateDocument(collection, id, in)
	if err != nil {
		handleAppError(w, "updating document", err)
		return
	}

	log.WithFields(log.Fields{
		"collection": collection,
		"id":         id,
		"version":    doc.Version,
	}).Debug("document updated")

	mw.RespondJSON(w, http.StatusOK, presenters.PresentDocument(doc))
}

// Delete handles DELETE /api/v1/documents/{collection}/{id}
func (d *Documents) Delete(w http.ResponseWriter, r *http.Request) {
	collection, id := documentKey(r)

	if err := d.app.DeleteDocument(collection, id); err != nil {
		handleAppError(w, "deleting document", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
