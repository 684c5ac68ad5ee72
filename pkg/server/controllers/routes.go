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
	"net/http"

	"github.com/gorilla/mux"
	"github.com/memorymap/memorymap/pkg/server/app"
	mw "github.com/memorymap/memorymap/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/v1/documents/{collection}/{id}", c.Documents.Show, true},
		{"PUT", "/v1/documents/{collection}/{id}", c.Documents.Set, true},
		{"PATCH", "/v1/documents/{collection}/{id}", c.Documents.Update, true},
		{"DELETE", "/v1/documents/{collection}/{id}", c.Documents.Delete, true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	router.Handle("/health", mw.ApplyLimit(http.HandlerFunc(rc.Controllers.Health.Index), true)).Methods("GET")

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, rc.APIRoutes)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw.RespondNotFound(w)
	})

	return mw.Global(router), nil
}

// NewHandler wires the controllers for the given app into a router
func NewHandler(a *app.App) (http.Handler, error) {
	ctl := New(a)
	rc := RouteConfig{
		APIRoutes:   NewAPIRoutes(a, ctl),
		Controllers: ctl,
	}

	r, err := NewRouter(a, rc)
	if err != nil {
		return nil, errors.Wrap(err, "initializing router")
	}

	return r, nil
}
