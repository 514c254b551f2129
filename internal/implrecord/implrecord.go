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

// Package implrecord provides the one concrete apis.Implementation every
// operation-kind adapter in providers/base constructs from: a name, a
// method id, an owning provider and an atomic refcount, with an optional
// destructor run once the count reaches zero (§3, §5's refcount
// discipline).
package implrecord

import (
	"sync/atomic"

	"dirpx.dev/provctx/apis"
)

// Record is the shared refcounted Implementation.
type Record struct {
	name     string
	methodID apis.MethodID
	provider apis.Provider
	dispatch apis.DispatchTable
	refs     int32
	dtor     func()
}

// New constructs a Record with an initial refcount of 1, matching the
// convention that every constructor hands its caller an owned reference.
func New(name string, methodID apis.MethodID, provider apis.Provider, dispatch apis.DispatchTable, dtor func()) *Record {
	return &Record{name: name, methodID: methodID, provider: provider, dispatch: dispatch, refs: 1, dtor: dtor}
}

func (r *Record) Name() string               { return r.name }
func (r *Record) MethodID() apis.MethodID    { return r.methodID }
func (r *Record) Provider() apis.Provider    { return r.provider }
func (r *Record) Dispatch() apis.DispatchTable { return r.dispatch }

func (r *Record) AddRef() int32 {
	return atomic.AddInt32(&r.refs, 1)
}

func (r *Record) Release() int32 {
	n := atomic.AddInt32(&r.refs, -1)
	if n == 0 && r.dtor != nil {
		r.dtor()
	}
	return n
}

func (r *Record) Refs() int32 { return atomic.LoadInt32(&r.refs) }

var _ apis.Implementation = (*Record)(nil)
