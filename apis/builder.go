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

package apis

// Builder composes a Store and a Fetcher from a Config and a provider
// list (the Method Constructor, C5). Implementations may migrate state
// from a previous Store/Fetcher, or ignore it.
type Builder interface {
	// BuildStore constructs a Store for cfg. If prev is non-nil, its
	// candidates may be migrated into the new Store.
	BuildStore(cfg Config, prev Store) Store

	// BuildFetcher constructs a Fetcher wired to store and providers.
	// adapters maps each OperationID to the Adapter used to decode that
	// operation's dispatch tables into Implementations.
	BuildFetcher(cfg Config, store Store, providers []Provider, adapters map[OperationID]Adapter) Fetcher
}
