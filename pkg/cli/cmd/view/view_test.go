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

package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/store"
)

func TestView(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)

	id, err := ctx.Store.InsertLocation(store.LocationInput{
		Name:        "Harbor",
		Latitude:    1,
		Longitude:   2,
		Description: "fog and sea lions",
		Address:     "Pier 39",
		Category:    "park",
		Tags:        []string{"sea", "boats"},
	})
	assert.IsNil(t, err, "inserting")
	name := "Old Harbor"
	assert.IsNil(t, ctx.Store.UpdateLocation(id, store.LocationPatch{Name: &name}), "updating")

	var buf bytes.Buffer
	log.SetOutput(&buf)

	cmd := NewCmd(ctx)
	cmd.SetArgs([]string{id[:8], "--history"})
	assert.IsNil(t, cmd.Execute(), "running view")

	got := buf.String()
	assert.Equal(t, strings.Contains(got, "name: Old Harbor"), true, "name mismatch: "+got)
	assert.Equal(t, strings.Contains(got, "tags: sea, boats"), true, "tags mismatch: "+got)
	assert.Equal(t, strings.Contains(got, "create pending"), true, "create item must be listed: "+got)
	assert.Equal(t, strings.Contains(got, "update pending"), true, "update item must be listed: "+got)
}

func TestView_notFound(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)
	log.SetOutput(&bytes.Buffer{})

	cmd := NewCmd(ctx)
	cmd.SetArgs([]string{"nope"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error")
	}
}
