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

package unfav

import (
	"bytes"
	"testing"

	"github.com/memorymap/memorymap/pkg/assert"
	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/store"
	"github.com/memorymap/memorymap/pkg/cli/testutils"
)

func TestUnfav(t *testing.T) {
	ctx, _, _ := context.InitTestCtx(t)
	log.SetOutput(&bytes.Buffer{})

	locID, err := ctx.Store.InsertLocation(testutils.Harbor())
	assert.IsNil(t, err, "inserting")
	id, err := ctx.Store.SaveUserLocation(store.UserLocationInput{LocationID: locID})
	assert.IsNil(t, err, "saving")

	cmd := NewCmd(ctx)
	cmd.SetArgs([]string{id})
	assert.IsNil(t, cmd.Execute(), "running unfav")

	ul, err := ctx.Store.GetUserLocation(id)
	assert.IsNil(t, err, "getting")
	assert.Equal(t, ul.Deleted, true, "deleted mismatch")
	assert.Equal(t, ul.IsFavorite, false, "is_favorite mismatch")

	items, err := ctx.Store.ListEntityQueueItems(id)
	assert.IsNil(t, err, "listing queue")
	assert.Equal(t, items[len(items)-1].Operation, database.OperationDelete, "operation mismatch")
}
