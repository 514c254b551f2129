/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package namemap canonicalizes algorithm names (including aliases) to
// dense numeric ids (§4.1, component C2).
package namemap

import (
	"errors"
	"strings"
	"sync"

	"dirpx.dev/provctx/apis"
)

var (
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("namemap: empty name provided")
	// ErrConflictingAlias indicates an attempt to bind an alias that is
	// already bound to a different id.
	ErrConflictingAlias = errors.New("namemap: alias already bound to a different id")
	// ErrSpaceExhausted is returned when interning would exceed
	// apis.MaxNameID.
	ErrSpaceExhausted = errors.New("namemap: name id space exhausted")
)

// Map canonicalizes algorithm names to apis.NameID values. It is
// append-only: ids are never reused once assigned, and iteration yields
// canonical names only. Concurrent Intern of equal (folded) names is
// linearizable: both calls observe the same id (§4.1).
type Map struct {
	// mu guards the write path (new id allocation, alias conflict checks)
	// and keeps the next-id counter consistent.
	mu sync.Mutex
	// byName maps folded name/alias -> id.
	byName sync.Map // map[string]apis.NameID
	// canonical maps id -> canonical (first-seen, folded) name.
	canonical sync.Map // map[apis.NameID]string
	next      apis.NameID
}

// New constructs an empty Map.
func New() *Map {
	return &Map{}
}

// fold canonicalizes a name for case-insensitive ASCII comparison.
func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Intern returns the id for name, assigning a new one on first sight.
// Two concurrent Intern calls for the same folded name always return the
// same id.
func (m *Map) Intern(name string) (apis.NameID, error) {
	key := fold(name)
	if key == "" {
		return 0, ErrEmptyName
	}

	// Fast read path: no lock needed if already interned.
	if v, ok := m.byName.Load(key); ok {
		return v.(apis.NameID), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under lock in case another goroutine interned meanwhile.
	if v, ok := m.byName.Load(key); ok {
		return v.(apis.NameID), nil
	}

	if m.next >= apis.MaxNameID {
		return 0, ErrSpaceExhausted
	}
	m.next++
	id := m.next

	m.byName.Store(key, id)
	m.canonical.Store(id, key)
	return id, nil
}

// Lookup returns the id for name, or 0 if name has never been interned nor
// registered as an alias.
func (m *Map) Lookup(name string) apis.NameID {
	if v, ok := m.byName.Load(fold(name)); ok {
		return v.(apis.NameID)
	}
	return 0
}

// AddAlias binds alias to the same id as an already-interned name.
// Re-binding an alias to the id it already maps to is idempotent;
// re-binding it to a different id fails with ErrConflictingAlias.
func (m *Map) AddAlias(id apis.NameID, alias string) error {
	key := fold(alias)
	if key == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.byName.Load(key); ok {
		if v.(apis.NameID) == id {
			return nil
		}
		return ErrConflictingAlias
	}
	m.byName.Store(key, id)
	return nil
}

// ForEach iterates every canonical (id, name) pair in unspecified order.
// Aliases are not yielded.
func (m *Map) ForEach(fn func(id apis.NameID, name string) bool) {
	m.canonical.Range(func(k, v any) bool {
		return fn(k.(apis.NameID), v.(string))
	})
}

// Count returns the number of canonical (non-alias) names interned.
func (m *Map) Count() int {
	n := 0
	m.canonical.Range(func(_, _ any) bool { n++; return true })
	return n
}
