// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient is an HTTP client of the farm node API.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/admin"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/pools"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/tokens"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Client represents the HTTP client for interacting with a farm node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

func poolURL(pid uint64) string {
	return "/pools/" + strconv.FormatUint(pid, 10)
}

// GetPools retrieves every registered pool.
func (c *Client) GetPools() ([]*pools.Pool, error) {
	body, err := c.httpGET(c.url + "/pools")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pools - %w", err)
	}
	res, err := decode[[]*pools.Pool](body, "pools")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// GetPool retrieves a single pool.
func (c *Client) GetPool(pid uint64) (*pools.Pool, error) {
	body, err := c.httpGET(c.url + poolURL(pid))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pool - %w", err)
	}
	return decode[pools.Pool](body, "pool")
}

// GetPosition retrieves the position of user in a pool.
func (c *Client) GetPosition(pid uint64, user thor.Address) (*pools.Position, error) {
	body, err := c.httpGET(c.url + poolURL(pid) + "/users/" + user.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve position - %w", err)
	}
	return decode[pools.Position](body, "position")
}

func (c *Client) poolCall(url string, req *pools.CallRequest) (*pools.CallResult, error) {
	body, err := c.httpPOST(c.url+url, req)
	if err != nil {
		return nil, fmt.Errorf("unable to call %s - %w", url, err)
	}
	return decode[pools.CallResult](body, "call result")
}

func (c *Client) Deposit(pid uint64, req *pools.CallRequest) (*pools.CallResult, error) {
	return c.poolCall(poolURL(pid)+"/deposit", req)
}

func (c *Client) Withdraw(pid uint64, req *pools.CallRequest) (*pools.CallResult, error) {
	return c.poolCall(poolURL(pid)+"/withdraw", req)
}

func (c *Client) Harvest(pid uint64, caller thor.Address) (*pools.CallResult, error) {
	return c.poolCall(poolURL(pid)+"/harvest", &pools.CallRequest{Caller: caller})
}

func (c *Client) EmergencyWithdraw(pid uint64, caller thor.Address) (*pools.CallResult, error) {
	return c.poolCall(poolURL(pid)+"/emergency-withdraw", &pools.CallRequest{Caller: caller})
}

func (c *Client) UpdatePool(pid uint64, caller thor.Address) (*pools.CallResult, error) {
	return c.poolCall(poolURL(pid)+"/update", &pools.CallRequest{Caller: caller})
}

func (c *Client) MassUpdatePools(caller thor.Address) (*pools.CallResult, error) {
	return c.poolCall("/pools/update", &pools.CallRequest{Caller: caller})
}

// GetEmission retrieves the emission rate and its inputs.
func (c *Client) GetEmission() (*emission.Emission, error) {
	body, err := c.httpGET(c.url + "/emission")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve emission - %w", err)
	}
	return decode[emission.Emission](body, "emission")
}

// GetRewardToken retrieves the supply of the reward token.
func (c *Client) GetRewardToken() (*tokens.RewardToken, error) {
	body, err := c.httpGET(c.url + "/tokens/reward")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward token - %w", err)
	}
	return decode[tokens.RewardToken](body, "reward token")
}

// GetRewardBalance retrieves the reward token balance of addr.
func (c *Client) GetRewardBalance(addr thor.Address) (*tokens.Balance, error) {
	body, err := c.httpGET(c.url + "/tokens/reward/balances/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward balance - %w", err)
	}
	return decode[tokens.Balance](body, "balance")
}

// GetAssetBalance retrieves the balance of addr in a staked asset.
func (c *Client) GetAssetBalance(asset, addr thor.Address) (*tokens.Balance, error) {
	body, err := c.httpGET(c.url + "/tokens/assets/" + asset.String() + "/balances/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve asset balance - %w", err)
	}
	return decode[tokens.Balance](body, "balance")
}

// FilterEvents queries the event log.
func (c *Client) FilterEvents(req *events.EventFilter) ([]*events.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/events", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	res, err := decode[[]*events.FilteredEvent](body, "events")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// GetAdminConfig retrieves the farm configuration. The node must expose /admin.
func (c *Client) GetAdminConfig() (*admin.Config, error) {
	body, err := c.httpGET(c.url + "/admin/config")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve config - %w", err)
	}
	return decode[admin.Config](body, "config")
}

// AddPool registers a pool, called by the owner.
func (c *Client) AddPool(req *admin.AddPoolRequest) (*admin.PoolResult, error) {
	body, err := c.httpPOST(c.url+"/admin/pools", req)
	if err != nil {
		return nil, fmt.Errorf("unable to add pool - %w", err)
	}
	return decode[admin.PoolResult](body, "pool result")
}

// SetPool updates a pool, called by the owner.
func (c *Client) SetPool(pid uint64, req *admin.SetPoolRequest) error {
	if _, err := c.httpPUT(c.url+"/admin"+poolURL(pid), req); err != nil {
		return fmt.Errorf("unable to set pool - %w", err)
	}
	return nil
}

// SetEmission updates the emission bounds, called by the owner.
func (c *Client) SetEmission(req *admin.EmissionRequest) error {
	if _, err := c.httpPUT(c.url+"/admin/emission", req); err != nil {
		return fmt.Errorf("unable to set emission - %w", err)
	}
	return nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified path.
func (c *Client) RawHTTPPost(path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.rawHTTPRequest(http.MethodPost, c.url+path, bytes.NewReader(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified path.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+path, nil)
}
