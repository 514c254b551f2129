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

// Package errs carries the error taxonomy (§7): a closed set of
// sentinel kinds wrapped with call-site context, using error wrapping
// (errors.Is/errors.As) rather than a reconstructed per-thread error stack.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a closed enumeration of error categories a Record can carry.
type Kind int

const (
	KindUnsupported Kind = iota + 1
	KindNotFound
	KindMalformedQuery
	KindConstruction
	KindLifecycle
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindNotFound:
		return "not_found"
	case KindMalformedQuery:
		return "malformed_query"
	case KindConstruction:
		return "construction"
	case KindLifecycle:
		return "lifecycle"
	case KindParam:
		return "param"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is a single error record: a Kind, the component that raised it,
// and a wrapped cause. Records compose with errors.Is/errors.As: callers
// match on Kind via errors.Is(err, errs.Sentinel(errs.KindNotFound)).
type Record struct {
	Kind      Kind
	Component string
	Message   string
	Cause     error
}

func (r *Record) Error() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", r.Component, r.Kind, r.Message, r.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", r.Component, r.Kind, r.Message)
}

func (r *Record) Unwrap() error { return r.Cause }

// Is reports whether target is a *Record with the same Kind, letting
// callers write errors.Is(err, errs.Sentinel(errs.KindNotFound)).
func (r *Record) Is(target error) bool {
	var other *Record
	if errors.As(target, &other) {
		return other.Kind == r.Kind && other.Component == ""
	}
	return false
}

// New constructs a Record raised by component, of the given kind, wrapping
// cause (which may be nil).
func New(component string, kind Kind, message string, cause error) *Record {
	return &Record{Kind: kind, Component: component, Message: message, Cause: cause}
}

// Sentinel builds a component-agnostic Record usable as an errors.Is target.
func Sentinel(kind Kind) *Record {
	return &Record{Kind: kind}
}
