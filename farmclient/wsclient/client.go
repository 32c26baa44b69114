// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wsclient subscribes to the websocket feeds of a farm node.
package wsclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/farmclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	switch {
	case strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	case strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// Subscription is a live feed. Close ends it and closes the channel.
type Subscription[T any] struct {
	C    <-chan common.EventWrapper[*T]
	conn *websocket.Conn
}

func (s *Subscription[T]) Close() error {
	return s.conn.Close()
}

// SubscribeEvents streams the farm events matching query, e.g. "pos=10&event=Deposit".
func (c *Client) SubscribeEvents(query string) (*Subscription[events.FilteredEvent], error) {
	conn, err := c.connect("/subscriptions/events", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[events.FilteredEvent](conn), nil
}

// subscribe pumps the json messages of conn into a channel until the connection fails.
func subscribe[T any](conn *websocket.Conn) *Subscription[T] {
	eventChan := make(chan common.EventWrapper[*T])

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}
				return
			}
			eventChan <- common.EventWrapper[*T]{Data: &data}
		}
	}()

	return &Subscription[T]{C: eventChan, conn: conn}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
