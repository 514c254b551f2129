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

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	assert.Equal(t, config.DefaultCacheStrategy, got.CacheStrategy)
	assert.Equal(t, config.DefaultCacheCapacity, got.CacheCapacity)
	assert.Equal(t, config.DefaultCacheTTL, got.CacheTTL)
	assert.Empty(t, got.DefaultProperties)
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	assert.Equal(t, config.DefaultConfig(), config.NewConfig())
}

func TestWithDefaultProperties(t *testing.T) {
	c := config.NewConfig(config.WithDefaultProperties("fips=yes"))
	assert.Equal(t, "fips=yes", c.DefaultProperties)
}

func TestWithCacheStrategy(t *testing.T) {
	c := config.NewConfig(config.WithCacheStrategy(apis.CacheNone))
	assert.Equal(t, apis.CacheNone, c.CacheStrategy)
}

func TestWithCacheCapacity_Positive(t *testing.T) {
	c := config.NewConfig(config.WithCacheCapacity(3))
	assert.Equal(t, 3, c.CacheCapacity)
}

func TestWithCacheCapacity_NonPositive_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithCacheCapacity(-1))
	assert.Equal(t, config.DefaultCacheCapacity, c.CacheCapacity)
}

func TestWithCacheTTL_NonPositive_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithCacheTTL(-time.Second))
	assert.Equal(t, config.DefaultCacheTTL, c.CacheTTL)
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithCacheStrategy(apis.CacheNone),
		config.WithCacheStrategy(apis.CacheTTL),
		config.WithCacheCapacity(2),
		config.WithCacheCapacity(5),
	)

	assert.Equal(t, apis.CacheTTL, c.CacheStrategy)
	assert.Equal(t, 5, c.CacheCapacity)
}
