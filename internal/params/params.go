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

// Package params implements the typed parameter codec of §6: get/set
// helpers over a flat []apis.Param slice, the Go realization of the
// OSSL_PARAM array convention (a provider-agnostic key/value/type triple
// list). math/big backs the arbitrary-precision ParamBignum slots the DH
// provider in providers/base needs for domain parameters and keys.
package params

import (
	"math/big"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/internal/errs"
)

// find returns the entry named key, if present.
func find(list []apis.Param, key string) (*apis.Param, bool) {
	for i := range list {
		if list[i].Key == key {
			return &list[i], true
		}
	}
	return nil, false
}

// GetInt64 reads a ParamInt64 entry named key.
func GetInt64(list []apis.Param, key string) (int64, error) {
	p, ok := find(list, key)
	if !ok {
		return 0, missing(key)
	}
	v, ok := p.Data.(int64)
	if !ok {
		return 0, wrongType(key, "int64")
	}
	return v, nil
}

// GetUint64 reads a ParamUint64 entry named key.
func GetUint64(list []apis.Param, key string) (uint64, error) {
	p, ok := find(list, key)
	if !ok {
		return 0, missing(key)
	}
	v, ok := p.Data.(uint64)
	if !ok {
		return 0, wrongType(key, "uint64")
	}
	return v, nil
}

// GetSize reads a ParamSize entry named key.
func GetSize(list []apis.Param, key string) (int, error) {
	p, ok := find(list, key)
	if !ok {
		return 0, missing(key)
	}
	v, ok := p.Data.(int)
	if !ok {
		return 0, wrongType(key, "size")
	}
	if v < 0 {
		return 0, errs.New("params", errs.KindParam, "negative size for "+key, nil)
	}
	return v, nil
}

// GetBignum reads a ParamBignum entry named key.
func GetBignum(list []apis.Param, key string) (*big.Int, error) {
	p, ok := find(list, key)
	if !ok {
		return nil, missing(key)
	}
	v, ok := p.Data.(*big.Int)
	if !ok {
		return nil, wrongType(key, "bignum")
	}
	return v, nil
}

// GetString reads a ParamString entry named key.
func GetString(list []apis.Param, key string) (string, error) {
	p, ok := find(list, key)
	if !ok {
		return "", missing(key)
	}
	v, ok := p.Data.(string)
	if !ok {
		return "", wrongType(key, "string")
	}
	return v, nil
}

// GetOctets reads a ParamOctets entry named key.
func GetOctets(list []apis.Param, key string) ([]byte, error) {
	p, ok := find(list, key)
	if !ok {
		return nil, missing(key)
	}
	v, ok := p.Data.([]byte)
	if !ok {
		return nil, wrongType(key, "octets")
	}
	return v, nil
}

// SetInt64 appends or overwrites an int64 entry named key.
func SetInt64(list []apis.Param, key string, v int64) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamInt64, Data: v})
}

// SetUint64 appends or overwrites a uint64 entry named key.
func SetUint64(list []apis.Param, key string, v uint64) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamUint64, Data: v})
}

// SetSize appends or overwrites a size entry named key.
func SetSize(list []apis.Param, key string, v int) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamSize, Data: v})
}

// SetBignum appends or overwrites a bignum entry named key.
func SetBignum(list []apis.Param, key string, v *big.Int) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamBignum, Data: v})
}

// SetString appends or overwrites a string entry named key.
func SetString(list []apis.Param, key string, v string) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamString, Data: v})
}

// SetOctets appends or overwrites an octets entry named key.
func SetOctets(list []apis.Param, key string, v []byte) []apis.Param {
	return upsert(list, apis.Param{Key: key, Type: apis.ParamOctets, Data: v})
}

func upsert(list []apis.Param, p apis.Param) []apis.Param {
	for i := range list {
		if list[i].Key == p.Key {
			list[i] = p
			return list
		}
	}
	return append(list, p)
}

// Fill applies GetParams-style resolution: for every entry in list whose Key
// is present in values, copies the value's Data in place; required entries
// missing from values report an error, optional ones are left untouched
// (§6: "unknown, non-required keys are skipped").
func Fill(list []apis.Param, values map[string]any) error {
	for i := range list {
		v, ok := values[list[i].Key]
		if !ok {
			if list[i].Required {
				return missing(list[i].Key)
			}
			continue
		}
		list[i].Data = v
		if list[i].ReturnedLen != nil {
			*list[i].ReturnedLen = len(fmtLen(v))
		}
	}
	return nil
}

func fmtLen(v any) []byte {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return nil
	}
}

func missing(key string) error {
	return errs.New("params", errs.KindParam, "missing required key "+key, nil)
}

func wrongType(key, want string) error {
	return errs.New("params", errs.KindParam, "key "+key+" is not a "+want, nil)
}
