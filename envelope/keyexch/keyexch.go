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

// Package keyexch implements the key-exchange algorithm context (§4.7):
// init(key) -> set_peer(key) -> derive(out, *outlen, cap), with the
// two-phase length-query / write contract of derive.
package keyexch

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope"
	"dirpx.dev/provctx/internal/errs"
)

const (
	FnNewCtx apis.FunctionID = iota + 1
	FnInit
	FnSetPeer
	FnDerive
	FnFreeCtx
	FnDupCtx
	FnSetParams
)

type (
	NewCtxFunc    func() (state any, err error)
	InitFunc      func(state any, key any) error
	SetPeerFunc   func(state any, peerKey any) error
	DeriveFunc    func(state any, cap int) (secret []byte, err error)
	FreeCtxFunc   func(state any)
	DupCtxFunc    func(state any) (any, error)
	SetParamsFunc func(state any, params []apis.Param) error
)

type ops struct {
	newCtx    NewCtxFunc
	init      InitFunc
	setPeer   SetPeerFunc
	derive    DeriveFunc
	freeCtx   FreeCtxFunc
	dupCtx    DupCtxFunc
	setParams SetParamsFunc
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

func decode(t apis.DispatchTable) (*ops, error) {
	newCtx, hasNew := lookup[NewCtxFunc](t, FnNewCtx)
	initFn, hasInit := lookup[InitFunc](t, FnInit)
	setPeer, hasSetPeer := lookup[SetPeerFunc](t, FnSetPeer)
	derive, hasDerive := lookup[DeriveFunc](t, FnDerive)
	freeCtx, hasFree := lookup[FreeCtxFunc](t, FnFreeCtx)
	dupCtx, _ := lookup[DupCtxFunc](t, FnDupCtx)
	setParams, _ := lookup[SetParamsFunc](t, FnSetParams)

	if !(hasNew && hasInit && hasSetPeer && hasDerive && hasFree) {
		return nil, errs.New("envelope/keyexch", errs.KindConstruction, "key-exchange implementation is missing a mandatory slot", nil)
	}
	return &ops{newCtx: newCtx, init: initFn, setPeer: setPeer, derive: derive, freeCtx: freeCtx, dupCtx: dupCtx, setParams: setParams}, nil
}

// Context is the key-exchange algorithm context (§4.7).
type Context struct {
	envelope.Base
	ops      *ops
	state    any
	hasKey   bool
	hasPeer  bool
}

// New binds impl into a fresh Context and allocates its opaque state.
func New(impl apis.Implementation, dispatch apis.DispatchTable) (*Context, error) {
	o, err := decode(dispatch)
	if err != nil {
		impl.Release()
		return nil, err
	}
	state, err := o.newCtx()
	if err != nil {
		impl.Release()
		return nil, errs.New("envelope/keyexch", errs.KindConstruction, "newctx failed", err)
	}
	return &Context{Base: envelope.NewBase(impl), ops: o, state: state}, nil
}

// Init binds the local key.
func (c *Context) Init(key any) error {
	if err := c.ops.init(c.state, key); err != nil {
		return errs.New("envelope/keyexch", errs.KindConstruction, "init failed", err)
	}
	c.hasKey = true
	c.syncReady()
	return nil
}

// SetPeer binds the peer's public key.
func (c *Context) SetPeer(peerKey any) error {
	if err := c.ops.setPeer(c.state, peerKey); err != nil {
		return errs.New("envelope/keyexch", errs.KindConstruction, "set_peer failed", err)
	}
	c.hasPeer = true
	c.syncReady()
	return nil
}

func (c *Context) syncReady() {
	if c.hasKey && c.hasPeer {
		c.Unmark(envelope.NoInit)
	}
}

// SetParams applies reconfigurable derive parameters (e.g. "pad").
func (c *Context) SetParams(params []apis.Param) error {
	if c.ops.setParams == nil {
		return errs.New("envelope/keyexch", errs.KindUnsupported, "implementation does not support set_params", nil)
	}
	return c.ops.setParams(c.state, params)
}

// Derive implements the two-phase contract of §4.7: a nil out queries
// the exact shared-secret size without writing; a too-small cap fails;
// otherwise the secret is written and its length returned.
func (c *Context) Derive(out []byte, cap int) (written int, err error) {
	if c.Flags().Has(envelope.NoInit) {
		return 0, errs.New("envelope/keyexch", errs.KindLifecycle, "Derive called before Init and SetPeer", nil)
	}

	secret, err := c.ops.derive(c.state, cap)
	if err != nil {
		return 0, errs.New("envelope/keyexch", errs.KindLifecycle, "derive failed", err)
	}
	if out == nil {
		return len(secret), nil
	}
	if cap < len(secret) {
		return 0, errs.New("envelope/keyexch", errs.KindParam, "capacity too small for shared secret", nil)
	}
	n := copy(out, secret)
	return n, nil
}

// Dup returns an independent context observationally equivalent to c.
func (c *Context) Dup() (*Context, error) {
	impl := c.Implementation()
	impl.AddRef()

	dup := &Context{Base: envelope.NewBase(impl), ops: c.ops, hasKey: c.hasKey, hasPeer: c.hasPeer}
	dup.SetFlags(c.Flags())

	if c.ops.dupCtx == nil {
		impl.Release()
		return nil, errs.New("envelope/keyexch", errs.KindUnsupported, "implementation does not support dup", nil)
	}
	state, err := c.ops.dupCtx(c.state)
	if err != nil {
		impl.Release()
		return nil, errs.New("envelope/keyexch", errs.KindConstruction, "dupctx failed", err)
	}
	dup.state = state
	return dup, nil
}

// Free releases per-context state and the implementation reference.
func (c *Context) Free() {
	if c.state != nil && c.ops.freeCtx != nil {
		c.ops.freeCtx(c.state)
	}
	c.state = nil
	c.Base.Free()
}
