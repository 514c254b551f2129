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

// Package envelope provides the shared algorithm-context scaffolding
// (§4.7, component C7): the lifecycle flags and refcount bookkeeping
// common to every operation kind's typed context (envelope/digest,
// envelope/cipher, envelope/keyexch, envelope/keymgmt). The numeric-id
// dispatch ABI stays at the provider boundary (apis.DispatchTable); each
// operation kind's subpackage exposes a small Go interface instead, per
// §9's design note.
package envelope

import "dirpx.dev/provctx/apis"

// Flags is a bitmask of lifecycle states a context can carry across
// init/update/final/dup/reset/free (§3, §4.7).
type Flags uint8

const (
	// Cleaned marks a context whose opaque state has been released but
	// whose struct has not yet been freed.
	Cleaned Flags = 1 << iota
	// Reuse marks a context eligible for the reset-and-reinit fast path
	// instead of a full free/new cycle.
	Reuse
	// Oneshot marks a context driven through the single-call (`digest`,
	// `cipher`) slot rather than init/update/final.
	Oneshot
	// NoInit marks a context that has not yet seen a successful init:
	// update/final before init is protocol misuse.
	NoInit
	// KeepPKeyCtx preserves an attached public-key context across reset,
	// for signature-producing digest flows.
	KeepPKeyCtx
)

// Has reports whether f has every bit of other set.
func (f Flags) Has(other Flags) bool { return f&other == other }

// Base is embedded by every operation kind's Context. It owns the strong
// reference to the resolved Implementation and the lifecycle flags; it does
// not know how to interpret the implementation's opaque per-context state,
// which is operation-specific and lives in the embedding struct.
type Base struct {
	impl  apis.Implementation
	flags Flags
}

// NewBase binds a freshly ref-counted impl (the +1 reference Fetch handed
// out) into a Base starting in the NoInit state.
func NewBase(impl apis.Implementation) Base {
	return Base{impl: impl, flags: NoInit}
}

// Implementation returns the bound implementation.
func (b *Base) Implementation() apis.Implementation { return b.impl }

// Flags returns the current lifecycle flags.
func (b *Base) Flags() Flags { return b.flags }

// SetFlags replaces the lifecycle flags wholesale.
func (b *Base) SetFlags(f Flags) { b.flags = f }

// Mark sets the given bits without clearing any others.
func (b *Base) Mark(f Flags) { b.flags |= f }

// Unmark clears the given bits.
func (b *Base) Unmark(f Flags) { b.flags &^= f }

// Free releases the Base's strong reference to its implementation. Callers
// must not use the Base afterward.
func (b *Base) Free() {
	if b.impl != nil {
		b.impl.Release()
		b.impl = nil
	}
}
