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

package builder_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/builder"
	"dirpx.dev/provctx/config"
	"dirpx.dev/provctx/namemap"
)

type stubProvider struct {
	name  string
	algos map[apis.OperationID][]apis.Algorithm
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Priority() int   { return 0 }
func (p *stubProvider) QueryOperation(op apis.OperationID) ([]apis.Algorithm, error) {
	return p.algos[op], nil
}
func (p *stubProvider) GetParamTypes() []apis.ParamTag { return nil }
func (p *stubProvider) GetParams([]apis.Param) error   { return nil }
func (p *stubProvider) Teardown() error                { return nil }

type stubImpl struct {
	name     string
	methodID apis.MethodID
	provider apis.Provider
	refs     int32
}

func (i *stubImpl) Name() string            { return i.name }
func (i *stubImpl) MethodID() apis.MethodID { return i.methodID }
func (i *stubImpl) Provider() apis.Provider { return i.provider }
func (i *stubImpl) AddRef() int32           { return atomic.AddInt32(&i.refs, 1) }
func (i *stubImpl) Release() int32          { return atomic.AddInt32(&i.refs, -1) }
func (i *stubImpl) Refs() int32             { return atomic.LoadInt32(&i.refs) }

func stubAdapter(methodID apis.MethodID, name string, _ apis.DispatchTable, p apis.Provider) (apis.Implementation, bool, error) {
	return &stubImpl{name: name, methodID: methodID, provider: p, refs: 1}, true, nil
}

func TestBuilder_BuildStoreAndFetcher_EndToEnd(t *testing.T) {
	nm := namemap.New()
	b := builder.New(nm)

	p := &stubProvider{
		name: "stub",
		algos: map[apis.OperationID][]apis.Algorithm{
			apis.OpDigest: {{NameString: "SHA-256", PropertyDefinition: "provider=stub"}},
		},
	}

	s := b.BuildStore(config.NewConfig(), nil)
	require.NotNil(t, s)

	adapters := map[apis.OperationID]apis.Adapter{apis.OpDigest: stubAdapter}
	f := b.BuildFetcher(config.NewConfig(), s, []apis.Provider{p}, adapters)
	require.NotNil(t, f)

	impl, err := f.Fetch(apis.OpDigest, "SHA-256", "")
	require.NoError(t, err)
	assert.Equal(t, "SHA-256", impl.Name())

	// second fetch should hit the cache/store path, not reconstruct.
	impl2, err := f.Fetch(apis.OpDigest, "SHA-256", "")
	require.NoError(t, err)
	assert.Equal(t, impl.MethodID(), impl2.MethodID())
}

func TestBuilder_BuildStore_MigratesPreviousCandidates(t *testing.T) {
	nm := namemap.New()
	b := builder.New(nm)

	nameID, err := nm.Intern("SHA-256")
	require.NoError(t, err)
	methodID := apis.NewMethodID(nameID, apis.OpDigest)

	prev := b.BuildStore(config.NewConfig(), nil)
	impl := &stubImpl{name: "SHA-256", methodID: methodID, provider: &stubProvider{name: "stub"}, refs: 1}
	require.NoError(t, prev.Add(methodID, "provider=stub", impl, nil))

	next := b.BuildStore(config.NewConfig(), prev)
	got, ok := next.Fetch(methodID, "provider=stub")
	require.True(t, ok)
	assert.Equal(t, "SHA-256", got.Name())
}

func TestBuilder_DoAll_VisitsEveryAlgorithm(t *testing.T) {
	nm := namemap.New()
	b := builder.New(nm)

	p := &stubProvider{
		name: "stub",
		algos: map[apis.OperationID][]apis.Algorithm{
			apis.OpDigest: {
				{NameString: "SHA-256"},
				{NameString: "BLAKE3:BLAKE3-256"},
			},
		},
	}

	s := b.BuildStore(config.NewConfig(), nil)
	adapters := map[apis.OperationID]apis.Adapter{apis.OpDigest: stubAdapter}
	f := b.BuildFetcher(config.NewConfig(), s, []apis.Provider{p}, adapters)

	var names []string
	err := f.DoAll(apis.OpDigest, func(impl apis.Implementation) error {
		names = append(names, impl.Name())
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"SHA-256", "BLAKE3"}, names)
}

var _ apis.Builder = builder.New(namemap.New())
