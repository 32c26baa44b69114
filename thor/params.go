// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the farm.
const (
	BasisPointsDenominator uint32 = 10000

	MaxDepositFeeBP    uint32 = 600        // 6%
	MaxDevFeeBP        uint32 = 500        // 5%
	MaxHarvestInterval uint64 = 86400 * 14 // 14 days, in seconds

	BlockInterval uint64 = 3 // seconds between two sealed blocks in solo mode.
)

var (
	// RewardScale is the fixed-point scale of accumulated reward per share.
	RewardScale = big.NewInt(1e12)

	// BonusMultiplier scales block spans into reward units. Kept as a hook for time weighted bonuses.
	BonusMultiplier = big.NewInt(1)

	// BurnAddress is the unrecoverable sink for forfeited rewards.
	BurnAddress = MustParseAddress("0x000000000000000000000000000000000000dEaD")
)
