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

// Package config builds apis.Config values via functional options.
package config

import (
	"time"

	"dirpx.dev/provctx/apis"
)

const (
	// DefaultCacheStrategy is used when no cache strategy is configured.
	DefaultCacheStrategy = apis.CacheLRU
	// DefaultCacheCapacity bounds the LRU query cache when no capacity is set.
	DefaultCacheCapacity = 1024
	// DefaultCacheTTL is the TTL cache entry lifetime when no TTL is set.
	DefaultCacheTTL = 10 * time.Minute
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		CacheStrategy: DefaultCacheStrategy,
		CacheCapacity: DefaultCacheCapacity,
		CacheTTL:      DefaultCacheTTL,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithDefaultProperties sets the global default property query (§4.3).
func WithDefaultProperties(query string) Option {
	return func(c *apis.Config) { c.DefaultProperties = query }
}

// WithCacheStrategy selects the Method Store query-cache eviction policy.
func WithCacheStrategy(s apis.CacheStrategy) Option {
	return func(c *apis.Config) { c.CacheStrategy = s }
}

// WithCacheCapacity bounds the LRU cache size. A value <= 0 resets to the default.
func WithCacheCapacity(n int) Option {
	return func(c *apis.Config) {
		if n <= 0 {
			n = DefaultCacheCapacity
		}
		c.CacheCapacity = n
	}
}

// WithCacheTTL sets the TTL cache entry lifetime. A value <= 0 resets to the default.
func WithCacheTTL(d time.Duration) Option {
	return func(c *apis.Config) {
		if d <= 0 {
			d = DefaultCacheTTL
		}
		c.CacheTTL = d
	}
}
