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

package base

import (
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/digest"
	"dirpx.dev/provctx/envelope/keyexch"
	"dirpx.dev/provctx/envelope/keymgmt"
	"dirpx.dev/provctx/internal/implrecord"
)

// Name is the provider identifier advertised in property definitions
// ("provider=base") and diagnostics.
const Name = "base"

// Provider bundles the digest, key-exchange and key-management algorithms
// this module ships, the Go analogue of providers/base's OSSL_PROVIDER
// entry point: one static table per operation kind, returned verbatim by
// QueryOperation.
type Provider struct {
	priority int
}

// New constructs the base Provider at the given property-engine priority
// (§4.3(a)).
func New(priority int) *Provider {
	return &Provider{priority: priority}
}

func (p *Provider) Name() string  { return Name }
func (p *Provider) Priority() int { return p.priority }

func (p *Provider) QueryOperation(op apis.OperationID) ([]apis.Algorithm, error) {
	switch op {
	case apis.OpDigest:
		return []apis.Algorithm{
			{NameString: "SHA-256:SHA256", Dispatch: sha256Dispatch(), PropertyDefinition: "provider=base,fips=yes"},
			{NameString: "BLAKE3:BLAKE3-256", Dispatch: blake3Dispatch(), PropertyDefinition: "provider=base"},
		}, nil
	case apis.OpKeyExch:
		return []apis.Algorithm{
			{NameString: "DH", Dispatch: dhKeyexchDispatch(), PropertyDefinition: "provider=base"},
		}, nil
	case apis.OpKeyMgmt:
		return []apis.Algorithm{
			{NameString: "DH", Dispatch: dhKeymgmtDispatch(), PropertyDefinition: "provider=base"},
		}, nil
	default:
		return nil, nil
	}
}

func (p *Provider) GetParamTypes() []apis.ParamTag {
	return []apis.ParamTag{apis.ParamString}
}

func (p *Provider) GetParams(ps []apis.Param) error {
	for i := range ps {
		if ps[i].Key == "name" {
			ps[i].Data = Name
		}
	}
	return nil
}

func (p *Provider) Teardown() error { return nil }

// FipsNoVariant is a second provider offering the same "SHA-256" name
// under a distinct property definition, used to exercise the property
// engine's tie-break rule (§8 scenario 2). This is a property-engine
// test fixture, not a claim that the two digests are cryptographically
// distinct: both wrap crypto/sha256.
type FipsNoVariant struct {
	priority int
}

// NewFipsNoVariant constructs the fips=no sibling provider.
func NewFipsNoVariant(priority int) *FipsNoVariant {
	return &FipsNoVariant{priority: priority}
}

func (p *FipsNoVariant) Name() string  { return "base-fips-no" }
func (p *FipsNoVariant) Priority() int { return p.priority }

func (p *FipsNoVariant) QueryOperation(op apis.OperationID) ([]apis.Algorithm, error) {
	if op != apis.OpDigest {
		return nil, nil
	}
	return []apis.Algorithm{
		{NameString: "SHA-256:SHA256", Dispatch: sha256Dispatch(), PropertyDefinition: "provider=base-fips-no,fips=no"},
	}, nil
}

func (p *FipsNoVariant) GetParamTypes() []apis.ParamTag { return nil }
func (p *FipsNoVariant) GetParams([]apis.Param) error   { return nil }
func (p *FipsNoVariant) Teardown() error                { return nil }

// discardImpl is a throwaway apis.Implementation used only to drive the
// envelope packages' completeness-rule decoding during adapter validation;
// it never holds a real resource.
type discardImpl struct{ refs int32 }

func (d *discardImpl) Name() string            { return "" }
func (d *discardImpl) MethodID() apis.MethodID { return 0 }
func (d *discardImpl) Provider() apis.Provider { return nil }
func (d *discardImpl) AddRef() int32           { d.refs++; return d.refs }
func (d *discardImpl) Release() int32          { d.refs--; return d.refs }
func (d *discardImpl) Refs() int32             { return d.refs }

// DigestAdapter decodes a digest dispatch table into an apis.Implementation
// by constructing an envelope/digest.Context once to validate the
// completeness rule, then wrapping the raw dispatch in an implrecord.Record
// so the store and fetch chain can hold and refcount it without depending
// on the envelope package (§4.5 construction, §4.7 completeness).
func DigestAdapter(methodID apis.MethodID, name string, dispatch apis.DispatchTable, provider apis.Provider) (apis.Implementation, bool, error) {
	if _, err := digest.New(&discardImpl{refs: 1}, dispatch); err != nil {
		return nil, false, nil
	}
	return implrecord.New(name, methodID, provider, dispatch, nil), true, nil
}

// KeyexchAdapter decodes a key-exchange dispatch table the same way
// DigestAdapter does, enforcing keyexch's mandatory slot set.
func KeyexchAdapter(methodID apis.MethodID, name string, dispatch apis.DispatchTable, provider apis.Provider) (apis.Implementation, bool, error) {
	if _, err := keyexch.New(&discardImpl{refs: 1}, dispatch); err != nil {
		return nil, false, nil
	}
	return implrecord.New(name, methodID, provider, dispatch, nil), true, nil
}

// KeymgmtAdapter decodes a key-management dispatch table, enforcing that
// new_key and free_key are present.
func KeymgmtAdapter(methodID apis.MethodID, name string, dispatch apis.DispatchTable, provider apis.Provider) (apis.Implementation, bool, error) {
	if _, err := keymgmt.New(&discardImpl{refs: 1}, dispatch); err != nil {
		return nil, false, nil
	}
	return implrecord.New(name, methodID, provider, dispatch, nil), true, nil
}
