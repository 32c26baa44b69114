// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	_, err := NewLRU[int, int]("test", 0)
	assert.Error(t, err)

	c, err := NewLRU[int, int]("test", 2)
	require.NoError(t, err)

	loads := 0
	loader := func(key int) (int, error) {
		loads++
		return key * 10, nil
	}

	v, err := c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	c.GetOrLoad(2, loader)
	c.GetOrLoad(3, loader)
	assert.False(t, c.Contains(1), "oldest entry should be evicted")
	assert.Equal(t, 2, c.Len())

	_, err = c.GetOrLoad(4, func(int) (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Contains(4))
}

func TestLRUPut(t *testing.T) {
	c, err := NewLRU[string, []byte]("slots", 4)
	require.NoError(t, err)

	_, ok := c.Get("stake")
	assert.False(t, ok)

	c.Put("stake", []byte{1})
	v, ok := c.Get("stake")
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, v)

	c.Put("stake", nil)
	v, ok = c.Get("stake")
	assert.True(t, ok, "nil values are cached entries")
	assert.Nil(t, v)
}
