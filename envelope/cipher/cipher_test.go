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

package cipher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/cipher"
)

type fakeImpl struct{ refs int32 }

func (f *fakeImpl) Name() string            { return "XOR" }
func (f *fakeImpl) MethodID() apis.MethodID { return apis.NewMethodID(1, apis.OpCipher) }
func (f *fakeImpl) Provider() apis.Provider { return nil }
func (f *fakeImpl) AddRef() int32           { f.refs++; return f.refs }
func (f *fakeImpl) Release() int32          { f.refs--; return f.refs }
func (f *fakeImpl) Refs() int32             { return f.refs }

type xorState struct{ key []byte }

func xorBytes(key, in []byte) []byte {
	out := make([]byte, len(in))
	for i := range in {
		out[i] = in[i] ^ key[i%len(key)]
	}
	return out
}

func fullSetDispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: cipher.FnNewCtx, Fn: cipher.NewCtxFunc(func() (any, error) { return &xorState{}, nil })},
		{ID: cipher.FnEncryptInit, Fn: cipher.EncryptInitFunc(func(state any, key, iv []byte, params []apis.Param) error {
			state.(*xorState).key = key
			return nil
		})},
		{ID: cipher.FnDecryptInit, Fn: cipher.DecryptInitFunc(func(state any, key, iv []byte, params []apis.Param) error {
			state.(*xorState).key = key
			return nil
		})},
		{ID: cipher.FnUpdate, Fn: cipher.UpdateFunc(func(state any, in []byte) ([]byte, error) {
			return xorBytes(state.(*xorState).key, in), nil
		})},
		{ID: cipher.FnFinal, Fn: cipher.FinalFunc(func(state any) ([]byte, error) { return nil, nil })},
		{ID: cipher.FnFreeCtx, Fn: cipher.FreeCtxFunc(func(state any) {})},
	}
}

func TestContext_EncryptThenDecrypt_RoundTrips(t *testing.T) {
	key := []byte{0x5a}
	impl := &fakeImpl{refs: 1}
	c, err := cipher.New(impl, fullSetDispatch())
	require.NoError(t, err)
	defer c.Free()

	require.NoError(t, c.EncryptInit(key, nil, nil))
	ct, err := c.Update([]byte("hello"))
	require.NoError(t, err)

	impl2 := &fakeImpl{refs: 1}
	d, err := cipher.New(impl2, fullSetDispatch())
	require.NoError(t, err)
	defer d.Free()

	require.NoError(t, d.DecryptInit(key, nil, nil))
	pt, err := d.Update(ct)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(pt))
}

func TestContext_Update_BeforeInit_Fails(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := cipher.New(impl, fullSetDispatch())
	require.NoError(t, err)
	defer c.Free()

	_, err = c.Update([]byte("x"))
	assert.Error(t, err)
}

func TestContext_MissingSlots_FailsConstruction(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	_, err := cipher.New(impl, apis.DispatchTable{})
	assert.Error(t, err)
	assert.EqualValues(t, 0, impl.Refs())
}
