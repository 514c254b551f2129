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

package provctx

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/builder"
	"dirpx.dev/provctx/config"
	"dirpx.dev/provctx/namemap"
)

var (
	// ErrNilStore is returned when a builder returns a nil store.
	ErrNilStore = errors.New("provctx: builder returned nil store")
	// ErrNilFetcher is returned when a builder returns a nil fetcher.
	ErrNilFetcher = errors.New("provctx: builder returned nil fetcher")
)

// Context is a library context (§3, §4.8, component C8): the
// process-local (or test-local) root owning a Name Map, a Method Store, the
// providers registered against it, and the Fetcher wired over both.
//
// State lives behind an atomic.Pointer as an immutable snapshot,
// rebuilt-and-swapped under a narrow build mutex so readers never observe a
// partially constructed state. Context is an explicit value (no
// package-level global mutation by default) — Default returns the one
// lazily-built process-wide instance for callers that want global
// convenience.
type Context struct {
	buildMu sync.Mutex
	st      atomic.Pointer[state]
}

// state is one immutable Context snapshot. Never mutate a published state's
// fields; build a new one and swap it in under buildMu.
type state struct {
	cfg       apis.Config
	nm        *namemap.Map
	store     apis.Store
	providers []apis.Provider
	fetcher   apis.Fetcher
	builder   apis.Builder
	adapters  map[apis.OperationID]apis.Adapter
}

// New constructs a Context from cfg and the initial set of adapters (one per
// operation kind the caller intends to use). Providers are registered
// afterward via RegisterProvider.
func New(cfg apis.Config, adapters map[apis.OperationID]apis.Adapter) *Context {
	nm := namemap.New()
	b := builder.New(nm)
	s := b.BuildStore(cfg, nil)
	f := b.BuildFetcher(cfg, s, nil, adapters)

	c := &Context{}
	c.st.Store(&state{cfg: cfg, nm: nm, store: s, fetcher: f, builder: b, adapters: adapters})
	return c
}

// Fetch resolves the best implementation of (op, name) matching query
// (§4.6).
func (c *Context) Fetch(op apis.OperationID, name string, query string) (apis.Implementation, error) {
	return c.st.Load().fetcher.Fetch(op, name, query)
}

// DoAll invokes fn once per (provider, algorithm) registered for op, with no
// caching or deduplication (§4.6).
func (c *Context) DoAll(op apis.OperationID, fn func(apis.Implementation) error) error {
	return c.st.Load().fetcher.DoAll(op, fn)
}

// RegisterProvider appends p to the context's provider list, builds a new
// Store from the current one (migrating already promoted candidates) and
// rebuilds the Fetcher over it so subsequent fetches can see p's
// algorithms.
func (c *Context) RegisterProvider(p apis.Provider) {
	if p == nil {
		return
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	old := c.st.Load()
	providers := make([]apis.Provider, len(old.providers), len(old.providers)+1)
	copy(providers, old.providers)
	providers = append(providers, p)

	nextStore := old.builder.BuildStore(old.cfg, old.store)
	if nextStore == nil {
		panic(ErrNilStore)
	}
	nextFetcher := old.builder.BuildFetcher(old.cfg, nextStore, providers, old.adapters)
	if nextFetcher == nil {
		panic(ErrNilFetcher)
	}

	c.st.Store(&state{
		cfg:       old.cfg,
		nm:        old.nm,
		store:     nextStore,
		providers: providers,
		fetcher:   nextFetcher,
		builder:   old.builder,
		adapters:  old.adapters,
	})
}

// RegisterAdapter binds adapter as the decoder for op's dispatch tables and
// rebuilds the Fetcher so subsequent fetches and DoAll calls for op use it.
// Must be called before fetching any algorithm of that operation kind.
func (c *Context) RegisterAdapter(op apis.OperationID, adapter apis.Adapter) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	old := c.st.Load()
	adapters := make(map[apis.OperationID]apis.Adapter, len(old.adapters)+1)
	for k, v := range old.adapters {
		adapters[k] = v
	}
	adapters[op] = adapter

	nextFetcher := old.builder.BuildFetcher(old.cfg, old.store, old.providers, adapters)
	if nextFetcher == nil {
		panic(ErrNilFetcher)
	}

	c.st.Store(&state{
		cfg:       old.cfg,
		nm:        old.nm,
		store:     old.store,
		providers: old.providers,
		fetcher:   nextFetcher,
		builder:   old.builder,
		adapters:  adapters,
	})
}

// SetDefaultProperties updates the global default property query applied to
// every fetch that does not override the same atom names (§4.3, §6).
func (c *Context) SetDefaultProperties(query string) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	old := c.st.Load()
	cfg := old.cfg
	cfg.DefaultProperties = query
	old.store.SetGlobalProperties(query)

	c.st.Store(&state{
		cfg:       cfg,
		nm:        old.nm,
		store:     old.store,
		providers: old.providers,
		fetcher:   old.fetcher,
		builder:   old.builder,
		adapters:  old.adapters,
	})
}

// Config returns the context's current configuration snapshot.
func (c *Context) Config() apis.Config {
	return c.st.Load().cfg
}

// Store returns the context's Method Store, for diagnostics and tests.
func (c *Context) Store() apis.Store {
	return c.st.Load().store
}

// Providers returns a snapshot of the registered providers, in registration
// order.
func (c *Context) Providers() []apis.Provider {
	st := c.st.Load()
	out := make([]apis.Provider, len(st.providers))
	copy(out, st.providers)
	return out
}

// Teardown releases every registered provider and frees the Method Store.
// The Context must not be used afterward (§7: teardown errors are
// logged and swallowed, never propagated).
func (c *Context) Teardown(onError func(provider string, err error)) {
	st := c.st.Load()
	for _, p := range st.providers {
		if err := p.Teardown(); err != nil && onError != nil {
			onError(p.Name(), err)
		}
	}
	st.store.Free()
}

var (
	defaultOnce sync.Once
	defaultCtx  *Context
)

// Default lazily constructs and returns the process-wide default Context on
// first call, with no adapters and no providers pre-registered: callers
// that want the bundled providers/base algorithms must RegisterProvider it
// explicitly, avoiding a hard init()-time dependency on a concrete provider
// implementation (see DESIGN.md's Open Question on default-provider
// linkage).
func Default() *Context {
	defaultOnce.Do(func() {
		defaultCtx = New(config.NewConfig(), map[apis.OperationID]apis.Adapter{})
	})
	return defaultCtx
}
