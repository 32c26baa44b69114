// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/farmclient"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func statusAction(ctx *cli.Context) error {
	var user *thor.Address
	if s := ctx.String(userFlag.Name); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "parse user")
		}
		user = &addr
	}
	return printStatus(os.Stdout, farmclient.New(ctx.String(nodeFlag.Name)), user)
}

// printStatus writes the emission state and the pool table read from a node,
// followed by the positions of user when it is not nil.
func printStatus(w io.Writer, client *farmclient.Client, user *thor.Address) error {
	em, err := client.HTTP().GetEmission()
	if err != nil {
		return errors.WithMessage(err, "emission")
	}
	token, err := client.HTTP().GetRewardToken()
	if err != nil {
		return errors.WithMessage(err, "reward token")
	}
	fmt.Fprintf(w, "Block:            %d\n", em.BlockNumber)
	fmt.Fprintf(w, "Reward token:     %v\n", token.Address)
	fmt.Fprintf(w, "Supply:           %s / %s\n", dec(em.TotalSupply), dec(em.MaximumSupply))
	fmt.Fprintf(w, "Reward per block: %s [%s, %s]\n", dec(em.RewardPerBlock), dec(em.BaseRate), dec(em.MaxRate))
	fmt.Fprintf(w, "Alloc weight:     %d\n\n", em.TotalAllocWeight)

	all, err := client.HTTP().GetPools()
	if err != nil {
		return errors.WithMessage(err, "pools")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tASSET\tWEIGHT\tLAST REWARD\tACC PER SHARE\tFEE BP\tHARVEST INTERVAL")
	for _, p := range all {
		fmt.Fprintf(tw, "%d\t%v\t%d\t%d\t%s\t%d\t%d\n",
			p.PID, p.Asset, p.AllocWeight, p.LastRewardBlock, dec(p.AccRewardPerShare), p.DepositFeeBP, p.HarvestInterval)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	positions, err := client.Positions(*user)
	if err != nil {
		return errors.WithMessage(err, "positions")
	}
	balance, err := client.HTTP().GetRewardBalance(*user)
	if err != nil {
		return errors.WithMessage(err, "reward balance")
	}
	fmt.Fprintf(w, "\n%v holds %s reward\n", *user, dec(balance.Balance))
	if len(positions) == 0 {
		fmt.Fprintln(w, "no positions")
		return nil
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tAMOUNT\tPENDING\tLOCKED\tSTATE\tNEXT HARVEST\tCAN HARVEST")
	for _, pp := range positions {
		pos := pp.Position
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%v\n",
			pp.Pool.PID, dec(pos.Amount), dec(pos.Pending), dec(pos.RewardLockedUp), pos.HarvestState, pos.NextHarvestUntil, pos.CanHarvest)
	}
	return tw.Flush()
}

func dec(v *math.HexOrDecimal256) string {
	if v == nil {
		return "0"
	}
	return (*big.Int)(v).String()
}
