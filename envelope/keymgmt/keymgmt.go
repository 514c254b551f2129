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

// Package keymgmt implements key management (§4.7): import/export,
// generate, load and free, for domain parameters and keys separately. A key
// may be created from domain parameters; mixing parameters and keys from
// different providers is a caller error this package does not attempt to
// detect (§4.7: "behavior is undefined").
package keymgmt

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope"
	"dirpx.dev/provctx/internal/errs"
)

const (
	FnNewParams apis.FunctionID = iota + 1
	FnGenParams
	FnImportParams
	FnExportParams
	FnFreeParams
	FnNewKey
	FnGenKey
	FnImportKey
	FnExportKey
	FnLoadKey
	FnFreeKey
)

type (
	NewParamsFunc    func() (params any, err error)
	GenParamsFunc    func(params any, selectors []apis.Param) error
	ImportParamsFunc func(params any, data []apis.Param) error
	ExportParamsFunc func(params any) ([]apis.Param, error)
	FreeParamsFunc   func(params any)

	NewKeyFunc    func(domainParams any) (key any, err error)
	GenKeyFunc    func(key any, selectors []apis.Param) error
	ImportKeyFunc func(key any, data []apis.Param) error
	ExportKeyFunc func(key any) ([]apis.Param, error)
	LoadKeyFunc   func(data []byte) (key any, err error)
	FreeKeyFunc   func(key any)
)

type ops struct {
	newParams    NewParamsFunc
	genParams    GenParamsFunc
	importParams ImportParamsFunc
	exportParams ExportParamsFunc
	freeParams   FreeParamsFunc

	newKey    NewKeyFunc
	genKey    GenKeyFunc
	importKey ImportKeyFunc
	exportKey ExportKeyFunc
	loadKey   LoadKeyFunc
	freeKey   FreeKeyFunc
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
	o := &ops{}
	o.newParams, _ = lookup[NewParamsFunc](t, FnNewParams)
	o.genParams, _ = lookup[GenParamsFunc](t, FnGenParams)
	o.importParams, _ = lookup[ImportParamsFunc](t, FnImportParams)
	o.exportParams, _ = lookup[ExportParamsFunc](t, FnExportParams)
	o.freeParams, _ = lookup[FreeParamsFunc](t, FnFreeParams)

	newKey, hasNewKey := lookup[NewKeyFunc](t, FnNewKey)
	freeKey, hasFreeKey := lookup[FreeKeyFunc](t, FnFreeKey)
	if !hasNewKey || !hasFreeKey {
		return nil, errs.New("envelope/keymgmt", errs.KindConstruction, "key management implementation is missing new_key or free_key", nil)
	}
	o.newKey, o.freeKey = newKey, freeKey
	o.genKey, _ = lookup[GenKeyFunc](t, FnGenKey)
	o.importKey, _ = lookup[ImportKeyFunc](t, FnImportKey)
	o.exportKey, _ = lookup[ExportKeyFunc](t, FnExportKey)
	o.loadKey, _ = lookup[LoadKeyFunc](t, FnLoadKey)
	return o, nil
}

// DomainParams wraps the opaque domain-parameter state one provider's
// dispatch table produces, kept distinct from Key so callers cannot
// accidentally pass one where the other is expected.
type DomainParams struct {
	ops   *ops
	state any
}

// Key wraps the opaque key state one provider's dispatch table produces.
// Key does not keep a reference to the DomainParams it was constructed
// from, and the runtime does not verify provider identity across the two
// (§4.7).
type Key struct {
	envelope.Base
	ops   *ops
	state any
}

// Context is the key-management algorithm context: the decoded dispatch
// plus the implementation reference shared by every DomainParams/Key it
// produces.
type Context struct {
	envelope.Base
	ops *ops
}

// New binds impl into a fresh key-management Context.
func New(impl apis.Implementation, dispatch apis.DispatchTable) (*Context, error) {
	o, err := decode(dispatch)
	if err != nil {
		impl.Release()
		return nil, err
	}
	return &Context{Base: envelope.NewBase(impl), ops: o}, nil
}

// NewParams allocates empty domain parameters.
func (c *Context) NewParams() (*DomainParams, error) {
	if c.ops.newParams == nil {
		return nil, errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support domain parameters", nil)
	}
	state, err := c.ops.newParams()
	if err != nil {
		return nil, errs.New("envelope/keymgmt", errs.KindConstruction, "new_params failed", err)
	}
	return &DomainParams{ops: c.ops, state: state}, nil
}

// GenerateParams generates domain parameters per selectors (e.g. bit length).
func (p *DomainParams) GenerateParams(selectors []apis.Param) error {
	if p.ops.genParams == nil {
		return errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support parameter generation", nil)
	}
	return p.ops.genParams(p.state, selectors)
}

// ImportParams loads domain parameters from an encoded representation.
func (p *DomainParams) ImportParams(data []apis.Param) error {
	if p.ops.importParams == nil {
		return errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support parameter import", nil)
	}
	return p.ops.importParams(p.state, data)
}

// ExportParams returns the parameter fields as a Param list.
func (p *DomainParams) ExportParams() ([]apis.Param, error) {
	if p.ops.exportParams == nil {
		return nil, errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support parameter export", nil)
	}
	return p.ops.exportParams(p.state)
}

// Free releases the domain parameter state.
func (p *DomainParams) Free() {
	if p.state != nil && p.ops.freeParams != nil {
		p.ops.freeParams(p.state)
	}
	p.state = nil
}

// NewKey allocates a key, optionally bound to domainParams (nil for a
// parameter-less algorithm).
func (c *Context) NewKey(domainParams *DomainParams) (*Key, error) {
	var raw any
	if domainParams != nil {
		raw = domainParams.state
	}
	impl := c.Implementation()
	impl.AddRef()

	state, err := c.ops.newKey(raw)
	if err != nil {
		impl.Release()
		return nil, errs.New("envelope/keymgmt", errs.KindConstruction, "new_key failed", err)
	}
	return &Key{Base: envelope.NewBase(impl), ops: c.ops, state: state}, nil
}

// Generate generates key material per selectors.
func (k *Key) Generate(selectors []apis.Param) error {
	if k.ops.genKey == nil {
		return errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support key generation", nil)
	}
	return k.ops.genKey(k.state, selectors)
}

// Import loads key material from an encoded representation.
func (k *Key) Import(data []apis.Param) error {
	if k.ops.importKey == nil {
		return errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support key import", nil)
	}
	return k.ops.importKey(k.state, data)
}

// Export returns the key fields as a Param list.
func (k *Key) Export() ([]apis.Param, error) {
	if k.ops.exportKey == nil {
		return nil, errs.New("envelope/keymgmt", errs.KindUnsupported, "implementation does not support key export", nil)
	}
	return k.ops.exportKey(k.state)
}

// Raw exposes the opaque key state to a sibling package (e.g. keyexch) that
// needs to pass it to an implementation's init/set_peer slot. Exported
// rather than hidden because the envelope's operation kinds cooperate
// through these opaque handles by design (§9: "a vtable plus an
// opaque per-context state blob").
func (k *Key) Raw() any { return k.state }

// Free releases the key state and the implementation reference.
func (k *Key) Free() {
	if k.state != nil && k.ops.freeKey != nil {
		k.ops.freeKey(k.state)
	}
	k.state = nil
	k.Base.Free()
}
