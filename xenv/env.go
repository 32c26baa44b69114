// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Next returns the context of the following block sealed at the given time.
func (b BlockContext) Next(time uint64) BlockContext {
	if time < b.Time {
		time = b.Time
	}
	return BlockContext{Number: b.Number + 1, Time: time}
}
