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

package property

import "strconv"

// Kind tags the underlying representation of a Value (§4.3: "Values
// are strings, integers, or booleans with textual normalization").
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// Value is a normalized property atom value.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Bool bool
}

// parseValue normalizes a raw (already unquoted) atom value: "yes"/"no"/
// "true"/"false" fold to bool, a parseable decimal folds to int, anything
// else is kept as a string.
func parseValue(raw string) Value {
	switch raw {
	case "yes", "true":
		return Value{Kind: KindBool, Bool: true}
	case "no", "false":
		return Value{Kind: KindBool, Bool: false}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: n}
	}
	return Value{Kind: KindString, Str: raw}
}

// Canonical renders v as a comparable string, so that two textually
// different but semantically equal values (e.g. "yes" and "true") compare
// equal regardless of how they were spelled in source text.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return v.Str
	}
}

// Equal reports whether v and other normalize to the same canonical value.
func (v Value) Equal(other Value) bool {
	return v.Canonical() == other.Canonical()
}
