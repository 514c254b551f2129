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

// Package base implements the bundled digest, key-exchange and
// key-management algorithms: SHA-256 and BLAKE3 digests, and a
// fixed-bit-length Diffie-Hellman key exchange grounded directly on
// providers/common/{exchange/dh_exch.c,keymgmt/dh_kmgmt.c}'s PROV_DH_CTX
// state machine and derive/pad contract, using math/big for modular
// exponentiation and golang.org/x/crypto/hkdf to derive a reproducible
// test private exponent from a caller-supplied seed. No safe-prime
// ceremony or ASN.1 encoding: dhGroup is a small fixed test group, not a
// cryptographically adequate one; per-algorithm cryptographic correctness
// is explicitly out of scope here.
package base

import (
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/keyexch"
	"dirpx.dev/provctx/envelope/keymgmt"
	"dirpx.dev/provctx/internal/params"
)

// dhGroup is a fixed 1536-bit safe-prime-shaped test group, small enough
// that Exp calls in tests stay fast. It exists to exercise the
// key-exchange and key-management contracts, not to meet real security
// margins.
var dhGroup = struct {
	p *big.Int
	g *big.Int
}{
	p: mustParseHex("ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd129024e088a67cc74020bbea63b139b22514a08798e3404ddef9519b3cd3a431b302b0a6df25f14374fe1356d6d51c245e485b576625e7ec6f44c42e9a637ed6b0bff5cb6f406b7edee386bfb5a899fa5ae9f24117c4b1fe649286651ece45b3dc2007cb8a163bf0598da48361c55d39a69163fa8fd24cf5f83655d23dca3ad961c62f356208552bb9ed529077096966d670c354e4abc9804f1746c08ca237327ffffffffffffffff"),
	g: big.NewInt(2),
}

func mustParseHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("base: invalid dh group constant")
	}
	return n
}

// dhDomainParams holds p and g.
type dhDomainParams struct {
	p, g *big.Int
}

// dhKey holds one party's private exponent (if any) and public value.
type dhKey struct {
	params  *dhDomainParams
	private *big.Int // nil for an imported/peer public-only key
	public  *big.Int
}

// derivePrivate expands seed into a private exponent in [2, p-2] via HKDF,
// giving deterministic, reproducible key generation for tests without
// reusing the seed bytes directly as the exponent.
func derivePrivate(p *big.Int, seed []byte) (*big.Int, error) {
	r := hkdf.New(sha256.New, seed, nil, []byte("dirpx-dh-private"))
	byteLen := (p.BitLen() + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(buf)
	pMinus2 := new(big.Int).Sub(p, big.NewInt(2))
	x.Mod(x, pMinus2)
	x.Add(x, big.NewInt(2))
	return x, nil
}

func dhKeyexchDispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: keyexch.FnNewCtx, Fn: keyexch.NewCtxFunc(func() (any, error) {
			return &dhExchState{pad: false}, nil
		})},
		{ID: keyexch.FnInit, Fn: keyexch.InitFunc(func(state any, key any) error {
			state.(*dhExchState).self = key.(*dhKey)
			return nil
		})},
		{ID: keyexch.FnSetPeer, Fn: keyexch.SetPeerFunc(func(state any, peerKey any) error {
			state.(*dhExchState).peer = peerKey.(*dhKey)
			return nil
		})},
		{ID: keyexch.FnDerive, Fn: keyexch.DeriveFunc(dhDerive)},
		{ID: keyexch.FnFreeCtx, Fn: keyexch.FreeCtxFunc(func(state any) {})},
		{ID: keyexch.FnDupCtx, Fn: keyexch.DupCtxFunc(func(state any) (any, error) {
			s := state.(*dhExchState)
			dup := *s
			return &dup, nil
		})},
		{ID: keyexch.FnSetParams, Fn: keyexch.SetParamsFunc(func(state any, ps []apis.Param) error {
			pad, err := params.GetInt64(ps, "pad")
			if err != nil {
				return err
			}
			state.(*dhExchState).pad = pad != 0
			return nil
		})},
	}
}

type dhExchState struct {
	self, peer *dhKey
	pad        bool
}

// dhDerive computes peer_pub^self_private mod p, the shared DH secret,
// following providers/common/exchange/dh_exch.c's dh_derive two-phase
// contract and pad convention.
func dhDerive(state any, cap int) ([]byte, error) {
	s := state.(*dhExchState)
	if s.self == nil || s.peer == nil || s.self.private == nil {
		return nil, errDHNotReady
	}

	p := s.self.params.p
	secret := new(big.Int).Exp(s.peer.public, s.self.private, p)

	modulusLen := (p.BitLen() + 7) / 8
	raw := secret.Bytes()
	if !s.pad {
		return raw, nil
	}
	if len(raw) >= modulusLen {
		return raw, nil
	}
	padded := make([]byte, modulusLen)
	copy(padded[modulusLen-len(raw):], raw)
	return padded, nil
}

func dhKeymgmtDispatch() apis.DispatchTable {
	return apis.DispatchTable{
		{ID: keymgmt.FnNewParams, Fn: keymgmt.NewParamsFunc(func() (any, error) {
			return &dhDomainParams{p: dhGroup.p, g: dhGroup.g}, nil
		})},
		{ID: keymgmt.FnGenParams, Fn: keymgmt.GenParamsFunc(func(params any, selectors []apis.Param) error {
			// Fixed test group: generation is a no-op, matching the
			// fixed-bit-length scope this provider commits to.
			return nil
		})},
		{ID: keymgmt.FnImportParams, Fn: keymgmt.ImportParamsFunc(func(paramsState any, data []apis.Param) error {
			dp := paramsState.(*dhDomainParams)
			p, err := params.GetBignum(data, "p")
			if err != nil {
				return err
			}
			g, err := params.GetBignum(data, "g")
			if err != nil {
				return err
			}
			dp.p, dp.g = p, g
			return nil
		})},
		{ID: keymgmt.FnExportParams, Fn: keymgmt.ExportParamsFunc(func(paramsState any) ([]apis.Param, error) {
			dp := paramsState.(*dhDomainParams)
			var out []apis.Param
			out = params.SetBignum(out, "p", dp.p)
			out = params.SetBignum(out, "g", dp.g)
			return out, nil
		})},
		{ID: keymgmt.FnFreeParams, Fn: keymgmt.FreeParamsFunc(func(paramsState any) {})},

		{ID: keymgmt.FnNewKey, Fn: keymgmt.NewKeyFunc(func(domainParams any) (any, error) {
			dp, _ := domainParams.(*dhDomainParams)
			if dp == nil {
				dp = &dhDomainParams{p: dhGroup.p, g: dhGroup.g}
			}
			return &dhKey{params: dp}, nil
		})},
		{ID: keymgmt.FnGenKey, Fn: keymgmt.GenKeyFunc(func(keyState any, selectors []apis.Param) error {
			k := keyState.(*dhKey)
			seed, err := params.GetOctets(selectors, "seed")
			if err != nil {
				return err
			}
			priv, err := derivePrivate(k.params.p, seed)
			if err != nil {
				return err
			}
			k.private = priv
			k.public = new(big.Int).Exp(k.params.g, priv, k.params.p)
			return nil
		})},
		{ID: keymgmt.FnImportKey, Fn: keymgmt.ImportKeyFunc(func(keyState any, data []apis.Param) error {
			k := keyState.(*dhKey)
			pub, err := params.GetBignum(data, "pub")
			if err != nil {
				return err
			}
			k.public = pub
			return nil
		})},
		{ID: keymgmt.FnExportKey, Fn: keymgmt.ExportKeyFunc(func(keyState any) ([]apis.Param, error) {
			k := keyState.(*dhKey)
			var out []apis.Param
			out = params.SetBignum(out, "pub", k.public)
			return out, nil
		})},
		{ID: keymgmt.FnFreeKey, Fn: keymgmt.FreeKeyFunc(func(keyState any) {})},
	}
}
