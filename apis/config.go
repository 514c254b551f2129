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

package apis

import (
	"fmt"
	"strings"
	"time"
)

// CacheStrategy selects the eviction policy of a Store's query cache.
type CacheStrategy int

const (
	// CacheNone disables the query-result cache: every fetch rescans the
	// store's candidates (construction still runs only on a store miss).
	CacheNone CacheStrategy = iota
	// CacheLRU evicts the least recently used entry when capacity is reached.
	CacheLRU
	// CacheTTL expires entries after a fixed duration regardless of use.
	CacheTTL
)

// String returns a stable, human-readable label for cs.
func (cs CacheStrategy) String() string {
	switch cs {
	case CacheNone:
		return "None"
	case CacheLRU:
		return "LRU"
	case CacheTTL:
		return "TTL"
	default:
		return fmt.Sprintf("Unknown(%d)", int(cs))
	}
}

// ParseCacheStrategy parses the case-insensitive tokens produced by
// CacheStrategy.String back into a CacheStrategy value.
func ParseCacheStrategy(s string) (CacheStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return CacheNone, nil
	case "lru":
		return CacheLRU, nil
	case "ttl":
		return CacheTTL, nil
	default:
		return 0, fmt.Errorf("apis: unknown cache strategy %q", s)
	}
}

// Config carries read-only knobs that influence fetch and store behavior.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// DefaultProperties is the global default property query string,
	// concatenated into every caller query unless the caller overrides
	// the same atom names (§4.3).
	DefaultProperties string

	// CacheStrategy selects the Method Store query-cache eviction policy.
	CacheStrategy CacheStrategy

	// CacheCapacity bounds the number of cached entries under CacheLRU.
	// Ignored by CacheNone and CacheTTL.
	CacheCapacity int

	// CacheTTL is the entry lifetime under CacheTTL. Ignored otherwise.
	CacheTTL time.Duration
}
