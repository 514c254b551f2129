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

package keyexch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/keyexch"
)

type fakeImpl struct{ refs int32 }

func (f *fakeImpl) Name() string            { return "DH" }
func (f *fakeImpl) MethodID() apis.MethodID { return apis.NewMethodID(1, apis.OpKeyExch) }
func (f *fakeImpl) Provider() apis.Provider { return nil }
func (f *fakeImpl) AddRef() int32           { f.refs++; return f.refs }
func (f *fakeImpl) Release() int32          { f.refs--; return f.refs }
func (f *fakeImpl) Refs() int32             { return f.refs }

type dhState struct {
	local, peer byte
}

func dispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: keyexch.FnNewCtx, Fn: keyexch.NewCtxFunc(func() (any, error) { return &dhState{}, nil })},
		{ID: keyexch.FnInit, Fn: keyexch.InitFunc(func(state any, key any) error {
			state.(*dhState).local = key.(byte)
			return nil
		})},
		{ID: keyexch.FnSetPeer, Fn: keyexch.SetPeerFunc(func(state any, peerKey any) error {
			state.(*dhState).peer = peerKey.(byte)
			return nil
		})},
		{ID: keyexch.FnDerive, Fn: keyexch.DeriveFunc(func(state any, cap int) ([]byte, error) {
			s := state.(*dhState)
			return []byte{s.local ^ s.peer}, nil
		})},
		{ID: keyexch.FnFreeCtx, Fn: keyexch.FreeCtxFunc(func(state any) {})},
	}
}

func TestContext_Derive_BeforeInitAndSetPeer_Fails(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keyexch.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	_, err = c.Derive(nil, 0)
	assert.Error(t, err)
}

func TestContext_Derive_NilOut_ReportsSizeOnly(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keyexch.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	require.NoError(t, c.Init(byte(0x0f)))
	require.NoError(t, c.SetPeer(byte(0xf0)))

	n, err := c.Derive(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContext_Derive_WritesSecret(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keyexch.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	require.NoError(t, c.Init(byte(0x0f)))
	require.NoError(t, c.SetPeer(byte(0xf0)))

	out := make([]byte, 1)
	n, err := c.Derive(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0xff), out[0])
}

func TestContext_Derive_CapTooSmall_Fails(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	c, err := keyexch.New(impl, dispatch())
	require.NoError(t, err)
	defer c.Free()

	require.NoError(t, c.Init(byte(0x0f)))
	require.NoError(t, c.SetPeer(byte(0xf0)))

	_, err = c.Derive(make([]byte, 0), 0)
	assert.Error(t, err)
}
