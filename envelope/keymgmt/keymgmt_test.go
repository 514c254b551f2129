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

package keymgmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/keymgmt"
)

type fakeImpl struct{ refs int32 }

func (f *fakeImpl) Name() string            { return "DH" }
func (f *fakeImpl) MethodID() apis.MethodID { return apis.NewMethodID(1, apis.OpKeyMgmt) }
func (f *fakeImpl) Provider() apis.Provider { return nil }
func (f *fakeImpl) AddRef() int32           { f.refs++; return f.refs }
func (f *fakeImpl) Release() int32          { f.refs--; return f.refs }
func (f *fakeImpl) Refs() int32             { return f.refs }

type fakeParams struct{ bits int }
type fakeKey struct {
	params *fakeParams
	value  int
}

func dispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: keymgmt.FnNewParams, Fn: keymgmt.NewParamsFunc(func() (any, error) { return &fakeParams{}, nil })},
		{ID: keymgmt.FnGenParams, Fn: keymgmt.GenParamsFunc(func(params any, selectors []apis.Param) error {
			params.(*fakeParams).bits = 256
			return nil
		})},
		{ID: keymgmt.FnFreeParams, Fn: keymgmt.FreeParamsFunc(func(params any) {})},
		{ID: keymgmt.FnNewKey, Fn: keymgmt.NewKeyFunc(func(domainParams any) (any, error) {
			var p *fakeParams
			if domainParams != nil {
				p = domainParams.(*fakeParams)
			}
			return &fakeKey{params: p}, nil
		})},
		{ID: keymgmt.FnGenKey, Fn: keymgmt.GenKeyFunc(func(key any, selectors []apis.Param) error {
			key.(*fakeKey).value = 42
			return nil
		})},
		{ID: keymgmt.FnFreeKey, Fn: keymgmt.FreeKeyFunc(func(key any) {})},
	}
}

func TestContext_GenerateParamsThenKey(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keymgmt.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	params, err := c.NewParams()
	require.NoError(t, err)
	require.NoError(t, params.GenerateParams(nil))
	defer params.Free()

	key, err := c.NewKey(params)
	require.NoError(t, err)
	defer key.Free()
	require.NoError(t, key.Generate(nil))

	raw := key.Raw().(*fakeKey)
	assert.Equal(t, 256, raw.params.bits)
	assert.Equal(t, 42, raw.value)
}

func TestContext_MissingNewKey_FailsConstruction(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	_, err := keymgmt.New(impl, apis.DispatchTable{})
	assert.Error(t, err)
	assert.EqualValues(t, 0, impl.Refs())
}

func TestKey_Free_ReleasesImplementation(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keymgmt.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	key, err := c.NewKey(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, impl.Refs())

	key.Free()
	assert.EqualValues(t, 1, impl.Refs())
}
