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

// Store is a per-library-context registry: (operation, name) -> ordered
// candidates of (property definition, Implementation), with a secondary
// query-result cache, keyed on MethodID and resolved by a property match
// rather than an equality lookup (§4.4).
type Store interface {
	// Add inserts impl as a candidate for methodID under propertyDef,
	// taking ownership of the +1 reference impl carries in. dtor, if
	// non-nil, runs when impl's refcount reaches zero after Free releases
	// the store's own reference.
	Add(methodID MethodID, propertyDef string, impl Implementation, dtor func(Implementation)) error

	// Fetch scans candidates for methodID, applies the Property Engine
	// against query, and returns the best match with its refcount bumped,
	// or (nil, false) if none match.
	Fetch(methodID MethodID, query string) (Implementation, bool)

	// CacheGet consults the secondary query cache for (methodID, query).
	CacheGet(methodID MethodID, query string) (Implementation, bool)
	// CacheSet populates the secondary query cache. Advisory: callers must
	// not rely on an entry surviving eviction.
	CacheSet(methodID MethodID, query string, impl Implementation)

	// SetGlobalProperties updates the default property query and
	// invalidates the query cache (§4.4, §6).
	SetGlobalProperties(query string)
	// GlobalProperties returns the current default property query.
	GlobalProperties() string

	// ForEach iterates every candidate registered for op across all names,
	// in unspecified order, until fn returns false.
	ForEach(op OperationID, fn func(methodID MethodID, propertyDef string, impl Implementation) bool)

	// Free releases every candidate's store-held reference and clears the
	// cache. The Store must not be used afterward.
	Free()
}
