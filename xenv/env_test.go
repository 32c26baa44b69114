// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	b := BlockContext{Number: 7, Time: 100}

	assert.Equal(t, BlockContext{Number: 8, Time: 103}, b.Next(103))
	// time never goes backwards
	assert.Equal(t, BlockContext{Number: 8, Time: 100}, b.Next(90))
}
