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

// Package cipher implements the cipher algorithm context (§4.7):
// separate encrypt/decrypt init entry points over a shared update/final
// state machine, or a single-shot cipher slot.
package cipher

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope"
	"dirpx.dev/provctx/internal/errs"
)

const (
	FnNewCtx apis.FunctionID = iota + 1
	FnEncryptInit
	FnDecryptInit
	FnUpdate
	FnFinal
	FnCipher // one-shot
	FnFreeCtx
	FnDupCtx
	FnGetParams
	FnCtxGetParams
	FnCtxSetParams
)

type (
	NewCtxFunc       func() (state any, err error)
	EncryptInitFunc  func(state any, key, iv []byte, params []apis.Param) error
	DecryptInitFunc  func(state any, key, iv []byte, params []apis.Param) error
	UpdateFunc       func(state any, in []byte) (out []byte, err error)
	FinalFunc        func(state any) (out []byte, err error)
	CipherFunc       func(key, iv, in []byte, encrypt bool) (out []byte, err error)
	FreeCtxFunc      func(state any)
	DupCtxFunc       func(state any) (any, error)
	CtxSetParamsFunc func(state any, params []apis.Param) error
	CtxGetParamsFunc func(state any, params []apis.Param) error
)

type ops struct {
	newCtx      NewCtxFunc
	encInit     EncryptInitFunc
	decInit     DecryptInitFunc
	update      UpdateFunc
	final       FinalFunc
	oneshot     CipherFunc
	freeCtx     FreeCtxFunc
	dupCtx      DupCtxFunc
	setParams   CtxSetParamsFunc
	getParams   CtxGetParamsFunc
	oneshotOnly bool
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
	encInit, hasEnc := lookup[EncryptInitFunc](t, FnEncryptInit)
	decInit, hasDec := lookup[DecryptInitFunc](t, FnDecryptInit)
	updateFn, hasUpdate := lookup[UpdateFunc](t, FnUpdate)
	finalFn, hasFinal := lookup[FinalFunc](t, FnFinal)
	freeCtx, hasFree := lookup[FreeCtxFunc](t, FnFreeCtx)
	oneshot, hasOneshot := lookup[CipherFunc](t, FnCipher)
	dupCtx, _ := lookup[DupCtxFunc](t, FnDupCtx)
	setParams, _ := lookup[CtxSetParamsFunc](t, FnCtxSetParams)
	getParams, _ := lookup[CtxGetParamsFunc](t, FnCtxGetParams)

	fullSet := hasNew && (hasEnc || hasDec) && hasUpdate && hasFinal && hasFree

	switch {
	case fullSet:
		return &ops{newCtx: newCtx, encInit: encInit, decInit: decInit, update: updateFn, final: finalFn, freeCtx: freeCtx, dupCtx: dupCtx, setParams: setParams, getParams: getParams}, nil
	case hasOneshot:
		return &ops{oneshot: oneshot, oneshotOnly: true, setParams: setParams, getParams: getParams}, nil
	default:
		return nil, errs.New("envelope/cipher", errs.KindConstruction, "neither the full init/update/final set nor the one-shot cipher slot is present", nil)
	}
}

// Context is the cipher algorithm context: new -> {encrypt_init|decrypt_init}
// -> update* -> final (§4.7).
type Context struct {
	envelope.Base
	ops       *ops
	state     any
	encrypt   bool
	key, iv   []byte
}

// New binds impl into a fresh, uninitialized Context.
func New(impl apis.Implementation, dispatch apis.DispatchTable) (*Context, error) {
	o, err := decode(dispatch)
	if err != nil {
		impl.Release()
		return nil, err
	}
	return &Context{Base: envelope.NewBase(impl), ops: o}, nil
}

// EncryptInit transitions the context into the initialized-for-encryption
// state.
func (c *Context) EncryptInit(key, iv []byte, params []apis.Param) error {
	return c.init(key, iv, params, true)
}

// DecryptInit transitions the context into the initialized-for-decryption
// state.
func (c *Context) DecryptInit(key, iv []byte, params []apis.Param) error {
	return c.init(key, iv, params, false)
}

func (c *Context) init(key, iv []byte, params []apis.Param, encrypt bool) error {
	c.key, c.iv, c.encrypt = key, iv, encrypt

	if c.ops.oneshotOnly {
		c.Unmark(envelope.NoInit)
		c.Mark(envelope.Oneshot)
		return nil
	}

	state, err := c.ops.newCtx()
	if err != nil {
		return errs.New("envelope/cipher", errs.KindConstruction, "newctx failed", err)
	}

	initFn := c.ops.encInit
	if !encrypt {
		initFn = EncryptInitFunc(c.ops.decInit)
	}
	if initFn == nil {
		return errs.New("envelope/cipher", errs.KindUnsupported, "implementation does not support this direction", nil)
	}
	if err := initFn(state, key, iv, params); err != nil {
		return errs.New("envelope/cipher", errs.KindConstruction, "direction init failed", err)
	}
	c.state = state
	c.Unmark(envelope.NoInit)
	return nil
}

// Update feeds in and returns however much ciphertext/plaintext the
// implementation is ready to emit (block-boundary buffering is the
// implementation's concern, not the envelope's).
func (c *Context) Update(in []byte) ([]byte, error) {
	if c.Flags().Has(envelope.NoInit) {
		return nil, errs.New("envelope/cipher", errs.KindLifecycle, "Update called before EncryptInit/DecryptInit", nil)
	}
	if c.ops.oneshotOnly {
		return nil, errs.New("envelope/cipher", errs.KindUnsupported, "one-shot implementations do not support incremental Update", nil)
	}
	out, err := c.ops.update(c.state, in)
	if err != nil {
		return nil, errs.New("envelope/cipher", errs.KindLifecycle, "update failed", err)
	}
	return out, nil
}

// Final completes the operation, returning any trailing output.
func (c *Context) Final() ([]byte, error) {
	if c.Flags().Has(envelope.NoInit) {
		return nil, errs.New("envelope/cipher", errs.KindLifecycle, "Final called before EncryptInit/DecryptInit", nil)
	}

	var out []byte
	var err error
	if c.ops.oneshotOnly {
		out, err = nil, errs.New("envelope/cipher", errs.KindUnsupported, "one-shot Final has no pending input; use Cipher", nil)
	} else {
		out, err = c.ops.final(c.state)
		if c.ops.freeCtx != nil {
			c.ops.freeCtx(c.state)
		}
		c.state = nil
	}
	if err != nil {
		return nil, err
	}
	c.Mark(envelope.NoInit)
	return out, nil
}

// Cipher performs the entire operation in one call for one-shot-only
// implementations.
func (c *Context) Cipher(in []byte) ([]byte, error) {
	if !c.ops.oneshotOnly {
		return nil, errs.New("envelope/cipher", errs.KindUnsupported, "implementation is not one-shot", nil)
	}
	return c.ops.oneshot(c.key, c.iv, in, c.encrypt)
}

// Dup returns an independent context observationally equivalent to c.
func (c *Context) Dup() (*Context, error) {
	impl := c.Implementation()
	impl.AddRef()

	dup := &Context{Base: envelope.NewBase(impl), ops: c.ops, key: append([]byte(nil), c.key...), iv: append([]byte(nil), c.iv...), encrypt: c.encrypt}
	dup.SetFlags(c.Flags())

	if c.ops.oneshotOnly || c.state == nil {
		return dup, nil
	}
	if c.ops.dupCtx == nil {
		impl.Release()
		return nil, errs.New("envelope/cipher", errs.KindUnsupported, "implementation does not support dup", nil)
	}
	state, err := c.ops.dupCtx(c.state)
	if err != nil {
		impl.Release()
		return nil, errs.New("envelope/cipher", errs.KindConstruction, "dupctx failed", err)
	}
	dup.state = state
	return dup, nil
}

// Free releases per-context state and the implementation reference.
func (c *Context) Free() {
	if !c.ops.oneshotOnly && c.state != nil && c.ops.freeCtx != nil {
		c.ops.freeCtx(c.state)
	}
	c.state = nil
	c.Base.Free()
}
