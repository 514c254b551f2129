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

// Package digest implements the digest algorithm context (§4.7): the
// init/update/final state machine and its completeness rule, either the
// full {new, init, update, final, free} set or the single-shot {digest}
// slot, with {size} mandatory in both cases.
package digest

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope"
	"dirpx.dev/provctx/internal/errs"
)

// Dispatch slot ids for the digest operation kind (§4.7, §6). Zero is
// reserved as the table terminator (apis.DispatchTable).
const (
	FnNewCtx apis.FunctionID = iota + 1
	FnInit
	FnUpdate
	FnFinal
	FnDigest // one-shot
	FnFreeCtx
	FnDupCtx
	FnGetSize
	FnGetBlockSize
	FnSetParams
	FnGetParams
)

// Func signatures each slot id carries, documented by convention (a
// DispatchTable stores them as `any`; the adapter asserts the matching
// signature for each slot it looks up).
type (
	NewCtxFunc      func() (state any, err error)
	InitFunc        func(state any, params []apis.Param) error
	UpdateFunc      func(state any, chunk []byte) error
	FinalFunc       func(state any) ([]byte, error)
	DigestFunc      func(input []byte) ([]byte, error)
	FreeCtxFunc     func(state any)
	DupCtxFunc      func(state any) (any, error)
	GetSizeFunc     func() int
	GetBlockSizeFunc func() int
)

// ops bundles the decoded, type-asserted function set one Context needs.
type ops struct {
	newCtx      NewCtxFunc
	init        InitFunc
	update      UpdateFunc
	final       FinalFunc
	oneshot     DigestFunc
	freeCtx     FreeCtxFunc
	dupCtx      DupCtxFunc
	size        int
	oneshotOnly bool
}

// decode applies the completeness rule of §4.7 to t, returning the
// decoded ops or a construction error.
func decode(t apis.DispatchTable) (*ops, error) {
	sizeFn, ok := lookup[GetSizeFunc](t, FnGetSize)
	if !ok {
		return nil, errs.New("envelope/digest", errs.KindConstruction, "missing mandatory size slot", nil)
	}

	newCtx, hasNew := lookup[NewCtxFunc](t, FnNewCtx)
	initFn, hasInit := lookup[InitFunc](t, FnInit)
	updateFn, hasUpdate := lookup[UpdateFunc](t, FnUpdate)
	finalFn, hasFinal := lookup[FinalFunc](t, FnFinal)
	freeCtx, hasFree := lookup[FreeCtxFunc](t, FnFreeCtx)
	oneshot, hasOneshot := lookup[DigestFunc](t, FnDigest)
	dupCtx, _ := lookup[DupCtxFunc](t, FnDupCtx)

	fullSet := hasNew && hasInit && hasUpdate && hasFinal && hasFree

	switch {
	case fullSet:
		return &ops{newCtx: newCtx, init: initFn, update: updateFn, final: finalFn, freeCtx: freeCtx, dupCtx: dupCtx, size: sizeFn()}, nil
	case hasOneshot:
		return &ops{oneshot: oneshot, oneshotOnly: true, size: sizeFn()}, nil
	default:
		return nil, errs.New("envelope/digest", errs.KindConstruction, "neither the full init/update/final set nor the one-shot digest slot is present", nil)
	}
}

func lookup[T any](t apis.DispatchTable, id apis.FunctionID) (T, bool) {
	var zero T
	fn, ok := t.Lookup(id)
	if !ok {
		return zero, false
	}
	typed, ok := fn.(T)
	return typed, ok
}

// Context is the digest algorithm context: new -> init -> update* -> final,
// or reset -> init -> update* -> final for reuse (§4.7).
type Context struct {
	envelope.Base
	ops    *ops
	state  any
	pendingInput []byte // accumulates input for oneshotOnly implementations
}

// New binds impl (the resolved digest implementation) into a fresh Context
// in the post-new, pre-init state. impl's dispatch table is decoded once
// here; construction fails if it does not satisfy the completeness rule.
func New(impl apis.Implementation, dispatch apis.DispatchTable) (*Context, error) {
	o, err := decode(dispatch)
	if err != nil {
		impl.Release()
		return nil, err
	}
	c := &Context{Base: envelope.NewBase(impl), ops: o}
	return c, nil
}

// Init transitions the context into the initialized state, ready for
// Update/Final.
func (c *Context) Init(params []apis.Param) error {
	if c.ops.oneshotOnly {
		c.pendingInput = nil
		c.Unmark(envelope.NoInit)
		c.Mark(envelope.Oneshot)
		return nil
	}

	state, err := c.ops.newCtx()
	if err != nil {
		return errs.New("envelope/digest", errs.KindConstruction, "newctx failed", err)
	}
	if err := c.ops.init(state, params); err != nil {
		return errs.New("envelope/digest", errs.KindConstruction, "init failed", err)
	}
	c.state = state
	c.Unmark(envelope.NoInit)
	return nil
}

// Update feeds chunk into the digest. Calling Update before Init is
// protocol misuse (§8 scenario 4).
func (c *Context) Update(chunk []byte) error {
	if c.Flags().Has(envelope.NoInit) {
		return errs.New("envelope/digest", errs.KindLifecycle, "Update called before Init", nil)
	}
	if c.ops.oneshotOnly {
		c.pendingInput = append(c.pendingInput, chunk...)
		return nil
	}
	if err := c.ops.update(c.state, chunk); err != nil {
		return errs.New("envelope/digest", errs.KindLifecycle, "update failed", err)
	}
	return nil
}

// Final completes the digest and returns the output, whose length equals
// Size(). The context returns to the post-new state afterward (§4.7:
// "final -> reset|free").
func (c *Context) Final() ([]byte, error) {
	if c.Flags().Has(envelope.NoInit) {
		return nil, errs.New("envelope/digest", errs.KindLifecycle, "Final called before Init", nil)
	}

	var out []byte
	var err error
	if c.ops.oneshotOnly {
		out, err = c.ops.oneshot(c.pendingInput)
	} else {
		out, err = c.ops.final(c.state)
		if c.ops.freeCtx != nil {
			c.ops.freeCtx(c.state)
		}
		c.state = nil
	}
	if err != nil {
		return nil, errs.New("envelope/digest", errs.KindLifecycle, "final failed", err)
	}
	c.Mark(envelope.NoInit)
	return out, nil
}

// Size returns the digest's fixed output length in bytes.
func (c *Context) Size() int { return c.ops.size }

// Dup returns an independent context observationally equivalent to c at the
// moment of the call (§8 scenario 5: mutating one must not affect the
// other). The implementation reference is bumped; the opaque state is
// duplicated via dupctx when available, or by snapshotting pendingInput for
// one-shot implementations.
func (c *Context) Dup() (*Context, error) {
	impl := c.Implementation()
	impl.AddRef()

	dup := &Context{Base: envelope.NewBase(impl), ops: c.ops}
	dup.SetFlags(c.Flags())

	if c.ops.oneshotOnly {
		dup.pendingInput = append([]byte(nil), c.pendingInput...)
		return dup, nil
	}

	if c.state == nil {
		return dup, nil
	}
	if c.ops.dupCtx == nil {
		impl.Release()
		return nil, errs.New("envelope/digest", errs.KindUnsupported, "implementation does not support dup", nil)
	}
	state, err := c.ops.dupCtx(c.state)
	if err != nil {
		impl.Release()
		return nil, errs.New("envelope/digest", errs.KindConstruction, "dupctx failed", err)
	}
	dup.state = state
	return dup, nil
}

// Reset returns the envelope to the post-new state, releasing per-context
// state but keeping the implementation reference (§4.7).
func (c *Context) Reset() {
	if !c.ops.oneshotOnly && c.state != nil && c.ops.freeCtx != nil {
		c.ops.freeCtx(c.state)
	}
	c.state = nil
	c.pendingInput = nil
	c.SetFlags(envelope.NoInit)
}

// Free releases per-context state and the implementation reference. The
// Context must not be used afterward.
func (c *Context) Free() {
	if !c.ops.oneshotOnly && c.state != nil && c.ops.freeCtx != nil {
		c.ops.freeCtx(c.state)
	}
	c.state = nil
	c.Base.Free()
}
