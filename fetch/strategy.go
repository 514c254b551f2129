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

package fetch

import (
	"fmt"
	"strings"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/property"
)

// primaryName returns the canonical (first) alias of a colon-separated
// NameString, e.g. "BLAKE3:BLAKE3-256" -> "BLAKE3".
func primaryName(nameString string) string {
	if i := strings.IndexByte(nameString, ':'); i >= 0 {
		return nameString[:i]
	}
	return nameString
}

// cacheStrategy is the zero-cost fast path: consult the Method Store's
// secondary query cache, a cheap check that short-circuits the chain
// whenever a prior Fetch already resolved this exact query.
type cacheStrategy struct {
	store apis.Store
}

var _ apis.FetchStrategy = cacheStrategy{}

func (s cacheStrategy) TryFetch(methodID apis.MethodID, query string) (apis.Implementation, bool, error) {
	impl, ok := s.store.CacheGet(methodID, query)
	return impl, ok, nil
}

// storeStrategy scans the default store's already-registered candidates
// through the Property Engine: a direct, reflection-free lookup against
// pre-populated state.
type storeStrategy struct {
	store apis.Store
}

var _ apis.FetchStrategy = storeStrategy{}

func (s storeStrategy) TryFetch(methodID apis.MethodID, query string) (apis.Implementation, bool, error) {
	impl, ok := s.store.Fetch(methodID, query)
	return impl, ok, nil
}

// constructStrategy is the universal fallback: enumerate every provider for
// the operation, decode a fresh Implementation via the op's Adapter, and
// promote a match into the default store so later fetches hit storeStrategy
// (or cacheStrategy) instead. The promotion into Store is what memoizes the
// otherwise expensive provider scan.
type constructStrategy struct {
	chain *chain
}

var _ apis.FetchStrategy = constructStrategy{}

func (s constructStrategy) TryFetch(methodID apis.MethodID, query string) (apis.Implementation, bool, error) {
	nameID := methodID.NameID()
	op := methodID.OperationID()

	var found string
	s.chain.nm.ForEach(func(id apis.NameID, name string) bool {
		if id == nameID {
			found = name
			return false
		}
		return true
	})
	if found == "" {
		return nil, false, nil
	}
	return s.tryFetchByName(op, found, query)
}

// candidate is one provider's matching algorithm for a name, decoded into
// an owned Implementation, awaiting ranking against the effective query.
type candidate struct {
	methodID apis.MethodID
	def      string
	impl     apis.Implementation
	provider apis.Provider
	noStore  bool
}

// tryFetchByName runs the construct algorithm directly from a name
// string, used both by the chain's normal TryFetch path and by the
// not-yet-interned fast path in Fetch.
//
// §4.5 steps 3-4: every provider offering a matching algorithm is decoded
// into a candidate and inserted into the temporary (here, the default)
// store under its own property definition — not only the eventual winner —
// so a same-named implementation that loses this particular query still
// remains reachable by a later Fetch whose query selects it. The winner is
// then chosen by running the Property Engine (property.Best) against the
// effective query, exactly as storeStrategy does for already-promoted
// candidates (store.Fetch), rather than by provider priority alone.
func (s constructStrategy) tryFetchByName(op apis.OperationID, name string, query string) (apis.Implementation, bool, error) {
	adapter, ok := s.chain.adapters[op]
	if !ok {
		return nil, false, nil
	}

	var built []candidate
	releaseBuilt := func() {
		for _, c := range built {
			c.impl.Release()
		}
	}

	for _, p := range s.chain.providers {
		algos, err := p.QueryOperation(op)
		if err != nil {
			releaseBuilt()
			return nil, false, err
		}
		for _, alg := range algos {
			if !strings.EqualFold(primaryName(alg.NameString), name) && !hasAlias(alg.NameString, name) {
				continue
			}

			nameID, err := s.chain.nm.Intern(primaryName(alg.NameString))
			if err != nil {
				releaseBuilt()
				return nil, false, err
			}
			methodID := apis.NewMethodID(nameID, op)

			impl, ok, err := adapter(methodID, primaryName(alg.NameString), alg.Dispatch, p)
			if err != nil {
				releaseBuilt()
				return nil, false, err
			}
			if !ok {
				continue
			}

			built = append(built, candidate{methodID: methodID, def: alg.PropertyDefinition, impl: impl, provider: p, noStore: alg.NoStore})
		}
	}

	if len(built) == 0 {
		return nil, false, nil
	}

	q, err := property.Parse(query)
	if err != nil {
		releaseBuilt()
		return nil, false, fmt.Errorf("fetch: malformed query %q: %w", query, err)
	}
	if defaults, err := property.Parse(s.chain.store.GlobalProperties()); err == nil {
		q = q.WithDefaults(defaults)
	}

	stored := make([]bool, len(built))
	ranked := make([]property.Candidate[int], 0, len(built))
	for i, c := range built {
		def, err := property.ParseDefinition(c.def)
		if err != nil {
			// An unparsable definition can never match; drop it from
			// ranking but still release its reference below.
			continue
		}
		if !c.noStore {
			// Store.Add takes ownership of a +1 ref; hand it a fresh one
			// and keep our own reference for ranking and the caller.
			c.impl.AddRef()
			if err := s.chain.store.Add(c.methodID, c.def, c.impl, nil); err != nil {
				c.impl.Release()
			} else {
				stored[i] = true
			}
		}
		ranked = append(ranked, property.Candidate[int]{Def: def, Priority: c.provider.Priority(), Seq: i, Value: i})
	}

	winnerIdx, found := property.Best(ranked, q)
	for i, c := range built {
		if !found || i != winnerIdx {
			c.impl.Release()
		}
	}
	if !found {
		return nil, false, nil
	}

	winner := built[winnerIdx]
	if stored[winnerIdx] {
		s.chain.store.CacheSet(winner.methodID, query, winner.impl)
	}
	return winner.impl, true, nil
}

// hasAlias reports whether target appears among nameString's colon-separated
// aliases, compared case-insensitively.
func hasAlias(nameString, target string) bool {
	for _, part := range strings.Split(nameString, ":") {
		if strings.EqualFold(part, target) {
			return true
		}
	}
	return false
}
