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

// Package provctx provides a pluggable cryptographic provider runtime: a
// library context that resolves "operation + algorithm name + property
// query" into a ref-counted implementation handle, the way a service
// locator resolves a dependency by name and tag.
//
// # Design
//
// The core of provctx is a read-mostly immutable snapshot (state), held
// behind an atomic.Pointer and published under a narrow build mutex on
// every mutation. The snapshot holds:
//
//   - Config: the default property query and Method Store cache policy.
//
//   - a Name Map: canonicalizes algorithm names (and their aliases) to
//     dense numeric ids, assigned once and never reused.
//
//   - a Method Store: the registry of (operation, name) candidates,
//     along with a secondary query-result cache.
//
//   - a Fetcher: the three-stage resolution chain (cache, store, construct)
//     that turns (operation, name, query) into a ref-incremented
//     implementation.
//
//   - a Builder: the pluggable factory that assembles Store and Fetcher for
//     a given Config and provider list.
//
// Reads (Fetch, DoAll, Store, Providers, Config) load the current *state
// atomically and never take buildMu; the Name Map and Method Store they
// consult use their own short internal locks. Writes
// (RegisterProvider, RegisterAdapter, SetDefaultProperties) take buildMu,
// assemble a new state, and publish it via an atomic pointer swap.
//
// # Usage pattern
//
//	ctx := provctx.New(config.NewConfig(), map[apis.OperationID]apis.Adapter{
//	    apis.OpDigest: base.DigestAdapter,
//	})
//	ctx.RegisterProvider(base.New(0))
//
//	impl, err := ctx.Fetch(apis.OpDigest, "SHA-256", "provider=base")
//	if err != nil {
//	    // no implementation satisfies the query
//	}
//	defer impl.Release()
//
// # Scope
//
// provctx does not interpret algorithm semantics: it only resolves names to
// implementations and manages their lifetime. Operation-specific behavior
// (digest update/final, cipher encrypt/decrypt, key exchange derive) lives
// in the envelope package and its subpackages, one typed context per
// operation kind.
package provctx
