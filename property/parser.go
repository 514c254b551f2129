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

import (
	"fmt"
	"strings"
)

// ErrMalformed is returned for any input Parse cannot tokenize or that
// violates the `name OP value` grammar.
type ErrMalformed struct {
	Input  string
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("property: malformed query %q: %s", e.Input, e.Reason)
}

// Parse tokenizes a comma- or whitespace-separated sequence of
// `name=value` / `name?value` atoms. Values may be double-quoted to embed
// commas or whitespace. Empty input parses to an empty Set.
//
// Hand-rolled rather than built on a grammar library: no third-party
// dependency in the pack models this grammar, so this follows the
// trim-and-scan idiom used by the lexical value parsers elsewhere in the
// pack (e.g. a tokenizer that scans byte-by-byte tracking quote state).
func Parse(s string) (Set, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}

	out := make(Set, 0, len(tokens))
	for _, tok := range tokens {
		atom, err := parseAtom(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, atom)
	}
	return out, nil
}

// ParseDefinition parses s the same way Parse does, but additionally
// rejects preference ('?') atoms: a property definition is a set of
// mandatory atoms only (§3, §4.3).
func ParseDefinition(s string) (Set, error) {
	set, err := Parse(s)
	if err != nil {
		return nil, err
	}
	for _, a := range set {
		if a.Op != Require {
			return nil, &ErrMalformed{Input: s, Reason: fmt.Sprintf("definitions may not carry preference atoms (%q)", a.Name)}
		}
	}
	return set, nil
}

// tokenize splits s into raw atom strings on commas or whitespace, honoring
// double-quoted spans so a quoted value may embed either separator.
func tokenize(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			tokens = append(tokens, t)
		}
		cur.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case !inQuotes && (c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, &ErrMalformed{Input: s, Reason: "unterminated quoted value"}
	}
	flush()
	return tokens, nil
}

// parseAtom parses one `name=value` or `name?value` token.
func parseAtom(tok string) (Atom, error) {
	idx := strings.IndexAny(tok, "=?")
	if idx <= 0 {
		return Atom{}, &ErrMalformed{Input: tok, Reason: "expected name followed by '=' or '?'"}
	}

	name := strings.TrimSpace(tok[:idx])
	if name == "" {
		return Atom{}, &ErrMalformed{Input: tok, Reason: "empty property name"}
	}

	op := Operator(tok[idx])
	raw := strings.TrimSpace(tok[idx+1:])
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	} else if strings.ContainsAny(raw, `"`) {
		return Atom{}, &ErrMalformed{Input: tok, Reason: "unbalanced quote in value"}
	}
	if raw == "" {
		return Atom{}, &ErrMalformed{Input: tok, Reason: "empty property value"}
	}

	return Atom{Name: name, Op: op, Value: parseValue(raw)}, nil
}
