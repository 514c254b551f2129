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

// Package builder implements the Method Constructor's assembly step (§4.5,
// component C5): turning an apis.Config and a provider list into a wired
// Store+Fetcher pair, carrying a shared namemap.Map the Fetcher needs to
// resolve algorithm names.
package builder

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/fetch"
	"dirpx.dev/provctx/namemap"
	"dirpx.dev/provctx/store"
)

// New creates an apis.Builder bound to nm, the shared Name Map. A single
// namemap.Map must be shared by every Store/Fetcher pair the builder
// produces for one library context.
func New(nm *namemap.Map) apis.Builder {
	return &builder{nm: nm}
}

type builder struct {
	nm *namemap.Map
}

// BuildStore constructs a fresh Store for cfg. If prev is non-nil, every one
// of its candidates is migrated into the new Store under the same property
// definition.
func (b *builder) BuildStore(cfg apis.Config, prev apis.Store) apis.Store {
	next := store.New(cfg)
	if prev != nil {
		for _, op := range []apis.OperationID{apis.OpDigest, apis.OpCipher, apis.OpKeyMgmt, apis.OpKeyExch} {
			prev.ForEach(op, func(methodID apis.MethodID, propertyDef string, impl apis.Implementation) bool {
				impl.AddRef()
				_ = next.Add(methodID, propertyDef, impl, nil)
				return true
			})
		}
	}
	return next
}

// BuildFetcher constructs the three-stage fetch chain over store and
// providers, using adapters to decode each operation's dispatch tables.
func (b *builder) BuildFetcher(_ apis.Config, s apis.Store, providers []apis.Provider, adapters map[apis.OperationID]apis.Adapter) apis.Fetcher {
	return fetch.New(b.nm, s, providers, adapters)
}
