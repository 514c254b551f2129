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

// Match reports whether def satisfies every mandatory (Require) atom of
// query, and if so, the score: the count of query's preference (Prefer)
// atoms def also satisfies (§4.3).
func Match(def Set, query Set) (matched bool, score int) {
	for _, q := range query {
		d, ok := def.find(q.Name)
		satisfied := ok && d.Value.Equal(q.Value)

		switch q.Op {
		case Require:
			if !satisfied {
				return false, 0
			}
		case Prefer:
			if satisfied {
				score++
			}
		}
	}
	return true, score
}

// Candidate pairs a definition with whatever payload a caller wants to
// rank (typically an apis.Implementation plus tie-break metadata).
type Candidate[T any] struct {
	Def      Set
	Priority int
	Seq      int // insertion order, lower is earlier
	Value    T
}

// Best selects the highest-scoring Candidate matching query, breaking ties
// by (a) higher Priority, then (b) lower Seq (earlier insertion) — the
// tie-break order required by §4.3.
func Best[T any](candidates []Candidate[T], query Set) (T, bool) {
	var best Candidate[T]
	bestScore := -1
	found := false

	for _, c := range candidates {
		matched, score := Match(c.Def, query)
		if !matched {
			continue
		}
		if !found ||
			score > bestScore ||
			(score == bestScore && c.Priority > best.Priority) ||
			(score == bestScore && c.Priority == best.Priority && c.Seq < best.Seq) {
			best = c
			bestScore = score
			found = true
		}
	}
	return best.Value, found
}
