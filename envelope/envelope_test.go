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

package envelope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/envelope"
)

type fakeImpl struct{ refs int32 }

func (f *fakeImpl) Name() string            { return "fake" }
func (f *fakeImpl) MethodID() apis.MethodID { return apis.NewMethodID(1, apis.OpDigest) }
func (f *fakeImpl) Provider() apis.Provider { return nil }
func (f *fakeImpl) AddRef() int32           { f.refs++; return f.refs }
func (f *fakeImpl) Release() int32          { f.refs--; return f.refs }
func (f *fakeImpl) Refs() int32             { return f.refs }

func TestBase_NewBase_StartsWithNoInit(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	b := envelope.NewBase(impl)
	assert.True(t, b.Flags().Has(envelope.NoInit))
}

func TestBase_MarkUnmark(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	b := envelope.NewBase(impl)

	b.Mark(envelope.Oneshot)
	assert.True(t, b.Flags().Has(envelope.Oneshot))
	assert.True(t, b.Flags().Has(envelope.NoInit))

	b.Unmark(envelope.NoInit)
	assert.False(t, b.Flags().Has(envelope.NoInit))
	assert.True(t, b.Flags().Has(envelope.Oneshot))
}

func TestBase_Free_ReleasesImplementationOnce(t *testing.T) {
	impl := &fakeImpl{refs: 1}
	b := envelope.NewBase(impl)

	b.Free()
	assert.EqualValues(t, 0, impl.Refs())

	// Free is idempotent: a second call must not double-release.
	b.Free()
	assert.EqualValues(t, 0, impl.Refs())
}

func TestFlags_Has_RequiresAllBits(t *testing.T) {
	f := envelope.Reuse | envelope.Oneshot
	assert.True(t, f.Has(envelope.Reuse))
	assert.True(t, f.Has(envelope.Oneshot))
	assert.False(t, f.Has(envelope.KeepPKeyCtx))
	assert.True(t, f.Has(envelope.Reuse|envelope.Oneshot))
}
