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

// Implementation is a refcounted record binding one algorithm name, under
// one operation, to one provider's decoded dispatch slots. It is immutable
// after construction except for its refcount (§3's Implementation
// record). Every handoff out of the runtime (Fetch, Dup) carries a +1
// reference the caller must Release.
type Implementation interface {
	// Name returns the canonical algorithm name this implementation serves.
	Name() string
	// MethodID identifies the (operation, name) pair this implementation
	// was constructed for.
	MethodID() MethodID
	// Provider returns the owning provider. The Implementation holds a
	// strong reference to it for its own lifetime (§9).
	Provider() Provider
	// AddRef increments the refcount and returns the new value.
	AddRef() int32
	// Release decrements the refcount and returns the new value. When the
	// count reaches zero the registered destructor, if any, runs and the
	// Implementation must not be used again.
	Release() int32
	// Refs reports the current refcount, for tests and diagnostics.
	Refs() int32
}
