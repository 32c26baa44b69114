// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache keeps recently read ledger slots in memory.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
)

var metricLookups = metrics.LazyLoadCounterVec("cache_lookups_count", []string{"cache", "result"})

// LRU is a fixed size cache of typed entries. Lookups are counted per cache name.
type LRU[K comparable, V any] struct {
	name    string
	entries *lru.Cache
}

// NewLRU creates a cache holding at most size entries. size must be positive.
func NewLRU[K comparable, V any](name string, size int) (*LRU[K, V], error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{name: name, entries: entries}, nil
}

// Get returns the cached value of key.
func (c *LRU[K, V]) Get(key K) (v V, ok bool) {
	if raw, found := c.entries.Get(key); found {
		v, ok = raw.(V), true
	}
	c.count(ok)
	return
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.entries.Add(key, value)
}

// Contains reports whether key is cached without touching its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	return c.entries.Contains(key)
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.entries.Len()
}

// GetOrLoad returns the cached value of key, calling load on a miss.
// Values are only cached when load succeeds.
func (c *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries.Add(key, v)
	return v, nil
}

func (c *LRU[K, V]) count(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metricLookups().AddWithLabel(1, map[string]string{"cache": c.name, "result": result})
}
