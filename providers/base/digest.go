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
	"crypto/sha256"
	"hash"

	"github.com/zeebo/blake3"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/digest"
)

// sha256State pairs the running hash.Hash with the bytes fed into it so
// far: crypto/sha256's exported hash.Hash has no clone method, so dupctx
// replays the accumulated input into a fresh hash.Hash instead.
type sha256State struct {
	h   hash.Hash
	buf []byte
}

// sha256Dispatch builds the full {new,init,update,final,free,dup} digest
// dispatch table over crypto/sha256.
func sha256Dispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: digest.FnNewCtx, Fn: digest.NewCtxFunc(func() (any, error) {
			return &sha256State{h: sha256.New()}, nil
		})},
		{ID: digest.FnInit, Fn: digest.InitFunc(func(state any, params []apis.Param) error { return nil })},
		{ID: digest.FnUpdate, Fn: digest.UpdateFunc(func(state any, chunk []byte) error {
			st := state.(*sha256State)
			st.buf = append(st.buf, chunk...)
			_, err := st.h.Write(chunk)
			return err
		})},
		{ID: digest.FnFinal, Fn: digest.FinalFunc(func(state any) ([]byte, error) {
			return state.(*sha256State).h.Sum(nil), nil
		})},
		{ID: digest.FnFreeCtx, Fn: digest.FreeCtxFunc(func(state any) {})},
		{ID: digest.FnDupCtx, Fn: digest.DupCtxFunc(func(state any) (any, error) {
			st := state.(*sha256State)
			clone := sha256.New()
			if _, err := clone.Write(st.buf); err != nil {
				return nil, err
			}
			buf := make([]byte, len(st.buf))
			copy(buf, st.buf)
			return &sha256State{h: clone, buf: buf}, nil
		})},
		{ID: digest.FnGetSize, Fn: digest.GetSizeFunc(func() int { return sha256.Size })},
		{ID: digest.FnGetBlockSize, Fn: digest.GetBlockSizeFunc(func() int { return sha256.BlockSize })},
	}
}

// blake3Dispatch builds the full digest dispatch table over
// github.com/zeebo/blake3, registered under the 256-bit default output
// size, aliased to BLAKE3-256.
func blake3Dispatch() apis.DispatchTable {
	const size = 32
	return apis.DispatchTable{
		{ID: digest.FnNewCtx, Fn: digest.NewCtxFunc(func() (any, error) { return blake3.New(), nil })},
		{ID: digest.FnInit, Fn: digest.InitFunc(func(state any, params []apis.Param) error { return nil })},
		{ID: digest.FnUpdate, Fn: digest.UpdateFunc(func(state any, chunk []byte) error {
			_, err := state.(*blake3.Hasher).Write(chunk)
			return err
		})},
		{ID: digest.FnFinal, Fn: digest.FinalFunc(func(state any) ([]byte, error) {
			sum := state.(*blake3.Hasher).Sum(nil)
			return sum, nil
		})},
		{ID: digest.FnFreeCtx, Fn: digest.FreeCtxFunc(func(state any) {})},
		{ID: digest.FnDupCtx, Fn: digest.DupCtxFunc(func(state any) (any, error) {
			return state.(*blake3.Hasher).Clone(), nil
		})},
		{ID: digest.FnGetSize, Fn: digest.GetSizeFunc(func() int { return size })},
		{ID: digest.FnGetBlockSize, Fn: digest.GetBlockSizeFunc(func() int { return 64 })},
	}
}
