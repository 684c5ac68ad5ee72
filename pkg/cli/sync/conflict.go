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

package sync

import (
	"encoding/json"
	"reflect"

	"github.com/memorymap/memorymap/pkg/cli/database"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/memorymap/memorymap/pkg/cli/remote"
	"github.com/memorymap/memorymap/pkg/cli/utils/diff"
	"github.com/memorymap/memorymap/pkg/clock"
	"github.com/pkg/errors"
)

// MergePolicy decides how each field is merged when the remote copy of an
// entity advanced past the local snapshot.
//
// Local values win over remote values whenever they are present. The
// LocalPriority set names the user-entered fields for which that rule is a
// product decision rather than a fallback: a local edit is assumed more
// authoritative than a concurrent remote one, because no per-field edit time
// is recorded. Sequences are merged by set union so that neither side loses entries.
type MergePolicy struct {
	LocalPriority []string
	Sequences     []string
}

func (p MergePolicy) isSequence(key string) bool {
	for _, k := range p.Sequences {
		if k == key {
			return true
		}
	}

	return false
}

var policies = map[database.EntityType]MergePolicy{
	database.EntityLocations: {
		LocalPriority: []string{"name", "description", "tags"},
		Sequences:     []string{"photos", "comments"},
	},
	database.EntityUserLocations: {
		LocalPriority: []string{"custom_name", "custom_description"},
	},
}

// PolicyFor returns the merge policy of the entity type
func PolicyFor(t database.EntityType) (MergePolicy, error) {
	p, ok := policies[t]
	if !ok {
		return p, errors.Errorf("no merge policy for entity type %s", t)
	}

	return p, nil
}

// Resolution is the outcome of a merge
type Resolution struct {
	Fields  map[string]interface{}
	Version int
}

// Document returns the resolution as a synced remote document
func (r Resolution) Document() remote.Document {
	return remote.Document{
		Version:    r.Version,
		SyncStatus: string(database.SyncStatusSynced),
		Fields:     r.Fields,
	}
}

// Resolver merges local snapshots with remote documents
type Resolver struct {
	clock clock.Clock
}

// NewResolver returns a resolver that stamps merges with the given clock
func NewResolver(c clock.Clock) *Resolver {
	return &Resolver{clock: c}
}

// Merge merges the local fields of an entity into its remote document
func (r *Resolver) Merge(entityType database.EntityType, local map[string]interface{}, doc remote.Document) (Resolution, error) {
	policy, err := PolicyFor(entityType)
	if err != nil {
		return Resolution{}, err
	}

	merged := make(map[string]interface{}, len(doc.Fields)+len(local))
	for k, v := range doc.Fields {
		merged[k] = v
	}

	for k, lv := range local {
		if lv == nil {
			continue
		}

		if policy.isSequence(k) {
			u, err := union(lv, doc.Fields[k])
			if err != nil {
				return Resolution{}, errors.Wrapf(err, "merging %s", k)
			}
			merged[k] = u
			continue
		}

		merged[k] = lv
	}

	for _, k := range []string{"version", "sync_status", "id", "deleted"} {
		delete(merged, k)
	}
	if rc, ok := doc.Fields["created_at"]; ok && rc != nil {
		merged["created_at"] = rc
	}
	merged["updated_at"] = database.FormatTime(r.clock.Now())

	r.report(entityType, policy, local, doc)

	return Resolution{Fields: merged, Version: doc.Version + 1}, nil
}

func (r *Resolver) report(entityType database.EntityType, policy MergePolicy, local map[string]interface{}, doc remote.Document) {
	for _, k := range policy.LocalPriority {
		lv, ok := local[k]
		if !ok || lv == nil {
			continue
		}
		rv, ok := doc.Fields[k]
		if !ok || reflect.DeepEqual(lv, rv) {
			continue
		}

		ls, lok := lv.(string)
		rs, rok := rv.(string)
		if lok && rok {
			log.Debug("conflict on %s.%s at remote version %d, keeping local value:\n%s", entityType, k, doc.Version, diff.Lines(rs, ls))
		} else {
			log.Debug("conflict on %s.%s at remote version %d, keeping local value\n", entityType, k, doc.Version)
		}
	}
}

// union returns the entries of a followed by the entries of b that are not in a.
// Entries are compared by their JSON encoding.
func union(a, b interface{}) ([]interface{}, error) {
	ret := []interface{}{}
	seen := map[string]bool{}

	for _, seq := range []interface{}{a, b} {
		entries, err := toSlice(seq)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			key, err := json.Marshal(e)
			if err != nil {
				return nil, errors.Wrap(err, "encoding sequence entry")
			}
			if seen[string(key)] {
				continue
			}

			seen[string(key)] = true
			ret = append(ret, e)
		}
	}

	return ret, nil
}

func toSlice(v interface{}) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.([]interface{}); ok {
		return s, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Errorf("expected a sequence but got %T", v)
	}

	ret := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ret[i] = rv.Index(i).Interface()
	}

	return ret, nil
}
