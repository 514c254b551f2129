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

// Package store implements the Method Store (§4.4, component C4): a
// per-library-context registry of (operation, name) candidates with a
// secondary query-result cache, built on a sync.Map plus a narrow mutex
// guarding registration and the insertion counter, with idempotent Add. Candidates
// are matched by property score rather than by type equality.
package store

import (
	"fmt"
	"strconv"
	"sync"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/internal/cachepolicy"
	"dirpx.dev/provctx/property"
)

// entry pairs a registered candidate with its property definition and the
// destructor to run when the store releases its own reference.
type entry struct {
	def  property.Set
	impl apis.Implementation
	dtor func(apis.Implementation)
	seq  int
}

// store is a concrete apis.Store. Candidates are append-only per methodID
// except for Free, which tears everything down. Reads (Fetch, ForEach) never
// block writers for longer than a slice copy.
type store struct {
	mu        sync.Mutex
	seq       int
	cache     cachepolicy.Cache
	cacheCfg  apis.Config
	cacheKind apis.CacheStrategy

	candidates sync.Map // apis.MethodID -> []entry (copy-on-write)

	globalMu  sync.Mutex
	globalDef string
}

// New constructs an empty Store configured per cfg.
func New(cfg apis.Config) apis.Store {
	return &store{
		cache:     cachepolicy.New(cfg.CacheStrategy, cfg),
		cacheCfg:  cfg,
		cacheKind: cfg.CacheStrategy,
		globalDef: cfg.DefaultProperties,
	}
}

// cacheKey builds the secondary-cache key for (methodID, query).
func cacheKey(methodID apis.MethodID, query string) string {
	return strconv.FormatUint(uint64(methodID), 10) + "|" + query
}

func (s *store) Add(methodID apis.MethodID, propertyDef string, impl apis.Implementation, dtor func(apis.Implementation)) error {
	if methodID == 0 {
		return fmt.Errorf("store: Add requires a non-zero MethodID")
	}
	if impl == nil {
		return fmt.Errorf("store: Add requires a non-nil Implementation")
	}

	def, err := property.ParseDefinition(propertyDef)
	if err != nil {
		return fmt.Errorf("store: invalid property definition %q: %w", propertyDef, err)
	}
	defKey := defString(def)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.candidates.Load(methodID)
	var list []entry
	if existing != nil {
		list = existing.([]entry)
	}

	for _, e := range list {
		if defString(e.def) == defKey && e.impl.Provider() == impl.Provider() {
			// The same provider already won the race to register this
			// (methodID, property definition) pair: Add is idempotent for
			// identical candidates, so drop the caller's reference rather
			// than appending a duplicate. Distinct providers are allowed
			// to share a property definition; they remain separate
			// candidates ranked by priority.
			impl.Release()
			return nil
		}
	}

	s.seq++
	e := entry{def: def, impl: impl, dtor: dtor, seq: s.seq}
	next := make([]entry, len(list), len(list)+1)
	copy(next, list)
	next = append(next, e)
	s.candidates.Store(methodID, next)

	// A newly registered candidate can outrank previously cached results.
	s.cache.Reset()
	return nil
}

func (s *store) Fetch(methodID apis.MethodID, query string) (apis.Implementation, bool) {
	if impl, ok := s.CacheGet(methodID, query); ok {
		return impl, true
	}

	v, ok := s.candidates.Load(methodID)
	if !ok {
		return nil, false
	}
	list := v.([]entry)

	q, err := property.Parse(query)
	if err != nil {
		return nil, false
	}
	q = q.WithDefaults(s.defaultSet())

	cands := make([]property.Candidate[apis.Implementation], 0, len(list))
	for _, e := range list {
		cands = append(cands, property.Candidate[apis.Implementation]{
			Def:      e.def,
			Priority: e.impl.Provider().Priority(),
			Seq:      e.seq,
			Value:    e.impl,
		})
	}

	best, found := property.Best(cands, q)
	if !found {
		return nil, false
	}
	best.AddRef()
	s.CacheSet(methodID, query, best)
	return best, true
}

func (s *store) defaultSet() property.Set {
	s.globalMu.Lock()
	def := s.globalDef
	s.globalMu.Unlock()

	set, err := property.Parse(def)
	if err != nil {
		return nil
	}
	return set
}

func (s *store) CacheGet(methodID apis.MethodID, query string) (apis.Implementation, bool) {
	v, ok := s.cache.Get(cacheKey(methodID, query))
	if !ok {
		return nil, false
	}
	impl := v.(apis.Implementation)
	impl.AddRef()
	return impl, true
}

func (s *store) CacheSet(methodID apis.MethodID, query string, impl apis.Implementation) {
	if impl == nil {
		return
	}
	s.cache.Set(cacheKey(methodID, query), impl)
}

func (s *store) SetGlobalProperties(query string) {
	s.globalMu.Lock()
	s.globalDef = query
	s.globalMu.Unlock()
	s.cache.Reset()
}

func (s *store) GlobalProperties() string {
	s.globalMu.Lock()
	defer s.globalMu.Unlock()
	return s.globalDef
}

func (s *store) ForEach(op apis.OperationID, fn func(methodID apis.MethodID, propertyDef string, impl apis.Implementation) bool) {
	s.candidates.Range(func(k, v any) bool {
		methodID := k.(apis.MethodID)
		if methodID.OperationID() != op {
			return true
		}
		for _, e := range v.([]entry) {
			if !fn(methodID, defString(e.def), e.impl) {
				return false
			}
		}
		return true
	})
}

func defString(set property.Set) string {
	out := ""
	for i, a := range set {
		if i > 0 {
			out += ","
		}
		out += a.Name + string(a.Op) + a.Value.Canonical()
	}
	return out
}

func (s *store) Free() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates.Range(func(k, v any) bool {
		for _, e := range v.([]entry) {
			if e.impl.Release() == 0 && e.dtor != nil {
				e.dtor(e.impl)
			}
		}
		s.candidates.Delete(k)
		return true
	})
	s.cache.Reset()
}
