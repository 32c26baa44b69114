// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

type Subscriptions struct {
	rt             *runtime.Runtime
	backtraceLimit uint32
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		rt:             rt,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) parseFrom(req *http.Request) (uint32, error) {
	best := s.rt.BestBlock().Number
	pos := req.URL.Query().Get("pos")
	if pos == "" {
		return best + 1, nil
	}
	n, err := strconv.ParseUint(pos, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	from := uint32(n)
	if from+s.backtraceLimit < best {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return from, nil
}

func parseCriteria(req *http.Request) (*events.EventCriteria, error) {
	query := req.URL.Query()
	var criteria events.EventCriteria
	for _, f := range []struct {
		name string
		dst  **thor.Address
	}{
		{"address", &criteria.Address},
		{"caller", &criteria.Caller},
	} {
		if v := query.Get(f.name); v != "" {
			addr, err := utils.ParseAddress(v, f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = &addr
		}
	}
	for i, dst := range []**thor.Bytes32{&criteria.Topic0, &criteria.Topic1, &criteria.Topic2, &criteria.Topic3} {
		name := "t" + strconv.Itoa(i)
		if v := query.Get(name); v != "" {
			topic, err := thor.ParseBytes32(v)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, name))
			}
			*dst = &topic
		}
	}
	criteria.Event = query.Get("event")
	return &criteria, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	from, err := s.parseFrom(req)
	if err != nil {
		return err
	}
	c, err := parseCriteria(req)
	if err != nil {
		return err
	}
	criteria, err := events.ConvertCriteria(c)
	if err != nil {
		return utils.BadRequest(err)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.pipe(req.Context(), conn, newEventReader(s.rt, criteria, from), closed); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	waiter := s.rt.NewBlockWaiter()
	for {
		msgs, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-waiter.C():
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close stops all subscriptions and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
