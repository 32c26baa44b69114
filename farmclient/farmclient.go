// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farmclient is the client of a farm node, over HTTP and websocket.
package farmclient

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/pools"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/farmclient/httpclient"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/farmclient/wsclient"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var errNoWS = errors.New("client not created with websocket support")

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

// HTTP exposes the full HTTP api.
func (c *Client) HTTP() *httpclient.Client {
	return c.httpConn
}

// PoolPosition is the position of a user in one pool.
type PoolPosition struct {
	Pool     *pools.Pool
	Position *pools.Position
}

// Positions returns the positions of user in every pool where it has a stake or a reward.
func (c *Client) Positions(user thor.Address) ([]*PoolPosition, error) {
	all, err := c.httpConn.GetPools()
	if err != nil {
		return nil, err
	}
	var res []*PoolPosition
	for _, p := range all {
		pos, err := c.httpConn.GetPosition(p.PID, user)
		if err != nil {
			return nil, err
		}
		if isZero(pos.Amount) && isZero(pos.Pending) && isZero(pos.RewardLockedUp) {
			continue
		}
		res = append(res, &PoolPosition{p, pos})
	}
	return res, nil
}

func isZero(v *math.HexOrDecimal256) bool {
	return v == nil || (*big.Int)(v).Sign() == 0
}

// Deposit stakes amount into a pool on behalf of caller and returns the including block.
func (c *Client) Deposit(pid uint64, caller thor.Address, amount *big.Int) (uint32, error) {
	res, err := c.httpConn.Deposit(pid, &pools.CallRequest{Caller: caller, Amount: (*math.HexOrDecimal256)(amount)})
	if err != nil {
		return 0, err
	}
	return res.Block, nil
}

// Withdraw unstakes amount from a pool on behalf of caller and returns the including block.
func (c *Client) Withdraw(pid uint64, caller thor.Address, amount *big.Int) (uint32, error) {
	res, err := c.httpConn.Withdraw(pid, &pools.CallRequest{Caller: caller, Amount: (*math.HexOrDecimal256)(amount)})
	if err != nil {
		return 0, err
	}
	return res.Block, nil
}

// SubscribeEvents streams farm events, see wsclient.Client.SubscribeEvents.
func (c *Client) SubscribeEvents(query string) (*wsclient.Subscription[events.FilteredEvent], error) {
	if c.wsConn == nil {
		return nil, errNoWS
	}
	return c.wsConn.SubscribeEvents(query)
}
