// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/elector/api/utils"
	"github.com/vechain/elector/election"
	"github.com/vechain/elector/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod = 25 * time.Second
	pongWait   = 30 * time.Second
	writeWait  = 10 * time.Second
)

// EventSource posts election events.
type EventSource interface {
	SubscribeEvents(ch chan *election.Event) event.Subscription
}

type Subscriptions struct {
	source   EventSource
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(source EventSource, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		source: source,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				host := strings.ToLower(u.Host)
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == host || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parseKinds reads the optional comma separated kind filter.
func parseKinds(raw string) (map[election.EventKind]bool, error) {
	if raw == "" {
		return nil, nil
	}
	kinds := make(map[election.EventKind]bool)
	for _, name := range strings.Split(raw, ",") {
		var kind election.EventKind
		if err := kind.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
			return nil, err
		}
		kinds[kind] = true
	}
	return kinds, nil
}

func (s *Subscriptions) handleElection(w http.ResponseWriter, req *http.Request) error {
	kinds, err := parseKinds(req.URL.Query().Get("kind"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "kind"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil // the upgrader has already responded
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(conn, kinds); err != nil {
		logger.Debug("election subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, kinds map[election.EventKind]bool) error {
	ch := make(chan *election.Event, 64)
	sub := s.source.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	// the reader only consumes control frames and reports a closed peer
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-ch:
			if kinds != nil && !kinds[ev.Kind] {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
				time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/election").
		Methods(http.MethodGet).
		Name("WS /subscriptions/election").
		HandlerFunc(utils.WrapHandlerFunc(s.handleElection))
}
