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

package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/internal/diag"
)

type stubProvider struct{ name string }

func (p stubProvider) Name() string  { return p.name }
func (p stubProvider) Priority() int { return 3 }
func (p stubProvider) QueryOperation(apis.OperationID) ([]apis.Algorithm, error) { return nil, nil }
func (p stubProvider) GetParamTypes() []apis.ParamTag { return nil }
func (p stubProvider) GetParams([]apis.Param) error   { return nil }
func (p stubProvider) Teardown() error                { return nil }

func TestDescribe_AssignsStableInstanceID(t *testing.T) {
	info := diag.Describe(stubProvider{name: "base"})
	assert.Equal(t, "base", info.Name())
	require.NotEmpty(t, info.InstanceID())
	assert.Equal(t, "provider", info.Category())
}

func TestDescribe_DistinctRegistrationsGetDistinctIDs(t *testing.T) {
	a := diag.Describe(stubProvider{name: "base"})
	b := diag.Describe(stubProvider{name: "base"})
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}

func TestAlgorithmInfo_String(t *testing.T) {
	ai := diag.AlgorithmInfo{Operation: apis.OpDigest, Name: "SHA-256", Provider: "base", PropertyDefinition: "provider=base"}
	s := ai.String()
	assert.Contains(t, s, "digest")
	assert.Contains(t, s, "SHA-256")
	assert.Contains(t, s, "base")
}
