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

package base_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope/digest"
	"dirpx.dev/provctx/providers/base"
)

// Scenario 1 (§8): digest round trip via the base provider's
// SHA-256 registration.
func TestProvider_SHA256_DigestRoundTrip(t *testing.T) {
	p := base.New(0)
	algos, err := p.QueryOperation(apis.OpDigest)
	require.NoError(t, err)

	var sha *apis.Algorithm
	for i := range algos {
		if algos[i].NameString == "SHA-256:SHA256" {
			sha = &algos[i]
		}
	}
	require.NotNil(t, sha)

	impl, ok, err := base.DigestAdapter(apis.NewMethodID(1, apis.OpDigest), "SHA-256", sha.Dispatch, p)
	require.NoError(t, err)
	require.True(t, ok)

	// digest.New takes ownership of impl's single outstanding reference;
	// c.Free() releases it, so no separate impl.Release() is needed here.
	c, err := digest.New(impl, sha.Dispatch)
	require.NoError(t, err)
	defer c.Free()

	require.NoError(t, c.Init(nil))
	require.NoError(t, c.Update([]byte("abc")))
	out, err := c.Final()
	require.NoError(t, err)

	want, _ := hex.DecodeString("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	assert.Equal(t, want, out)
	assert.Equal(t, 32, c.Size())
}

func TestProvider_BLAKE3_Registered(t *testing.T) {
	p := base.New(0)
	algos, err := p.QueryOperation(apis.OpDigest)
	require.NoError(t, err)

	found := false
	for _, a := range algos {
		if a.NameString == "BLAKE3:BLAKE3-256" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFipsNoVariant_RegistersSHA256UnderDistinctProperty(t *testing.T) {
	p := base.NewFipsNoVariant(0)
	algos, err := p.QueryOperation(apis.OpDigest)
	require.NoError(t, err)
	require.Len(t, algos, 1)
	assert.Equal(t, "provider=base-fips-no,fips=no", algos[0].PropertyDefinition)
}

func TestProvider_Teardown_Succeeds(t *testing.T) {
	p := base.New(0)
	assert.NoError(t, p.Teardown())
}
