// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/thor"
)

type feedSource struct {
	feed event.Feed
}

func (f *feedSource) SubscribeEvents(ch chan *election.Event) event.Subscription {
	return f.feed.Subscribe(ch)
}

// post sends ev once a subscriber is listening.
func (f *feedSource) post(t *testing.T, ev *election.Event) {
	deadline := time.Now().Add(5 * time.Second)
	for f.feed.Send(ev) == 0 {
		require.True(t, time.Now().Before(deadline), "no subscriber")
		time.Sleep(5 * time.Millisecond)
	}
}

func initServer(t *testing.T) (*httptest.Server, *feedSource, *Subscriptions) {
	source := &feedSource{}
	subs := New(source, []string{"*"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, source, subs
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/election", RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestElectionEvents(t *testing.T) {
	ts, source, subs := initServer(t)
	defer subs.Close()
	conn := dial(t, ts, "")

	who := thor.BytesToAddress([]byte{1})
	sc := score.New(15, 30, 450)
	source.post(t, &election.Event{Kind: election.SignedAccepted, Round: 3, Height: 40, Phase: phase.Signed, Who: &who, Score: &sc})

	var ev election.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, election.SignedAccepted, ev.Kind)
	assert.Equal(t, uint32(3), ev.Round)
	assert.Equal(t, phase.Signed, ev.Phase)
	require.NotNil(t, ev.Who)
	assert.Equal(t, who, *ev.Who)
	require.NotNil(t, ev.Score)
	assert.Equal(t, sc, *ev.Score)
}

func TestElectionEventsFiltered(t *testing.T) {
	ts, source, subs := initServer(t)
	defer subs.Close()
	conn := dial(t, ts, "kind=committed")

	source.post(t, &election.Event{Kind: election.PhaseChanged, Round: 1, Phase: phase.Unsigned})
	source.post(t, &election.Event{Kind: election.Committed, Round: 1, Phase: phase.Unsigned})

	var ev election.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, election.Committed, ev.Kind)
}

func TestElectionBadKind(t *testing.T) {
	ts, _, subs := initServer(t)
	defer subs.Close()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/election", RawQuery: "kind=bogus"}
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClose(t *testing.T) {
	ts, source, subs := initServer(t)
	conn := dial(t, ts, "")
	source.post(t, &election.Event{Kind: election.PhaseChanged})
	var ev election.Event
	require.NoError(t, conn.ReadJSON(&ev))

	subs.Close()
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds("")
	assert.NoError(t, err)
	assert.Nil(t, kinds)

	kinds, err = parseKinds("phaseChanged, committed")
	assert.NoError(t, err)
	assert.Equal(t, map[election.EventKind]bool{election.PhaseChanged: true, election.Committed: true}, kinds)

	_, err = parseKinds("phaseChanged,nope")
	assert.Error(t, err)
}
