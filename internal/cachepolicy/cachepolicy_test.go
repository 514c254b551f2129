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

package cachepolicy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/internal/cachepolicy"
)

func TestNoneCache_AlwaysMisses(t *testing.T) {
	c := cachepolicy.New(apis.CacheNone, apis.Config{})
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cachepolicy.New(apis.CacheLRU, apis.Config{CacheCapacity: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a") // touch a, making b the LRU victim
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")

	va, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, va)

	vc, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, vc)
}

func TestLRUCache_Reset(t *testing.T) {
	c := cachepolicy.New(apis.CacheLRU, apis.Config{CacheCapacity: 4})
	c.Set("a", 1)
	c.Reset()
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_ExpiresAfterDuration(t *testing.T) {
	c := cachepolicy.New(apis.CacheTTL, apis.Config{CacheTTL: 50 * time.Millisecond})
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}
