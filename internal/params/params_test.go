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

package params_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/internal/params"
)

func TestSetAndGet_Bignum(t *testing.T) {
	var list []apis.Param
	list = params.SetBignum(list, "p", big.NewInt(23))

	got, err := params.GetBignum(list, "p")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(23), got)
}

func TestSet_OverwritesExistingKey(t *testing.T) {
	list := params.SetInt64(nil, "n", 1)
	list = params.SetInt64(list, "n", 2)
	require.Len(t, list, 1)

	got, err := params.GetInt64(list, "n")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got)
}

func TestGet_MissingKey(t *testing.T) {
	_, err := params.GetString(nil, "name")
	assert.Error(t, err)
}

func TestGet_WrongType(t *testing.T) {
	list := params.SetString(nil, "name", "sha256")
	_, err := params.GetInt64(list, "name")
	assert.Error(t, err)
}

func TestFill_RequiredMissingErrors(t *testing.T) {
	list := []apis.Param{{Key: "name", Type: apis.ParamString, Required: true}}
	err := params.Fill(list, map[string]any{})
	assert.Error(t, err)
}

func TestFill_OptionalMissingSkipped(t *testing.T) {
	list := []apis.Param{{Key: "name", Type: apis.ParamString}}
	err := params.Fill(list, map[string]any{})
	assert.NoError(t, err)
}

func TestFill_PopulatesValue(t *testing.T) {
	list := []apis.Param{{Key: "name", Type: apis.ParamString}}
	err := params.Fill(list, map[string]any{"name": "base"})
	require.NoError(t, err)
	assert.Equal(t, "base", list[0].Data)
}
