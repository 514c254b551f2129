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

// Package fetch implements the Generic Fetch / Do-All entry point (§4.6,
// component C6) as a three-strategy, first-handles-wins chain: cache ->
// store -> construct.
package fetch

import (
	"fmt"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/namemap"
)

// New constructs an apis.Fetcher over store, providers and the per-operation
// Adapters used to decode a provider's DispatchTable into an Implementation.
// nm resolves algorithm names to apis.NameID, interning names the first time
// a provider's QueryOperation result mentions them. Nil providers are
// filtered out and registration order is preserved.
func New(nm *namemap.Map, store apis.Store, providers []apis.Provider, adapters map[apis.OperationID]apis.Adapter) apis.Fetcher {
	provs := make([]apis.Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			provs = append(provs, p)
		}
	}

	c := &chain{nm: nm, store: store, providers: provs, adapters: adapters}
	c.strategies = []apis.FetchStrategy{
		cacheStrategy{store: store},
		storeStrategy{store: store},
		constructStrategy{chain: c},
	}
	return c
}

// chain is the immutable, order-preserving fetcher over the three
// strategies above. It also carries the state the construct strategy needs
// (providers, adapters), since unlike the cache and store lookups,
// "construct" is not a pure lookup.
type chain struct {
	nm         *namemap.Map
	store      apis.Store
	providers  []apis.Provider
	adapters   map[apis.OperationID]apis.Adapter
	strategies []apis.FetchStrategy
}

// Fetch runs strategies in order until one resolves the method.
func (c *chain) Fetch(op apis.OperationID, name string, query string) (apis.Implementation, error) {
	if op == 0 {
		return nil, fmt.Errorf("fetch: operation id must be non-zero")
	}
	if name == "" {
		return nil, fmt.Errorf("fetch: name must be non-empty")
	}

	nameID := c.nm.Lookup(name)
	if nameID == 0 {
		// Not interned yet: the construct strategy may still find it by
		// enumerating providers, which interns names as it discovers them.
		return c.constructByName(op, name, query)
	}

	methodID := apis.NewMethodID(nameID, op)
	for _, s := range c.strategies {
		impl, ok, err := s.TryFetch(methodID, query)
		if err != nil {
			return nil, err
		}
		if ok {
			return impl, nil
		}
	}
	return nil, fmt.Errorf("fetch: no implementation of %q satisfies query %q", name, query)
}

// DoAll walks every provider directly, bypassing the chain entirely: no
// cache interaction, no deduplication, transient records released after
// each call (§4.6).
func (c *chain) DoAll(op apis.OperationID, fn func(apis.Implementation) error) error {
	adapter, ok := c.adapters[op]
	if !ok {
		return fmt.Errorf("fetch: no adapter registered for operation %d", op)
	}

	for _, p := range c.providers {
		algos, err := p.QueryOperation(op)
		if err != nil {
			return fmt.Errorf("fetch: provider %q: %w", p.Name(), err)
		}
		for _, alg := range algos {
			name := primaryName(alg.NameString)
			nameID, err := c.nm.Intern(name)
			if err != nil {
				return fmt.Errorf("fetch: interning %q: %w", name, err)
			}
			methodID := apis.NewMethodID(nameID, op)

			impl, ok, err := adapter(methodID, name, alg.Dispatch, p)
			if err != nil {
				return fmt.Errorf("fetch: constructing %q from %q: %w", alg.NameString, p.Name(), err)
			}
			if !ok {
				continue
			}
			err = fn(impl)
			impl.Release()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// constructByName runs the construct strategy directly when name has never
// been interned: there cannot be a cache or store hit for a method id that
// does not exist yet.
func (c *chain) constructByName(op apis.OperationID, name string, query string) (apis.Implementation, error) {
	cs := constructStrategy{chain: c}
	impl, ok, err := cs.tryFetchByName(op, name, query)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fetch: no implementation of %q satisfies query %q", name, query)
	}
	return impl, nil
}
