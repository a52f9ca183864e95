// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

type fakeBackend struct {
	feed event.Feed

	lock      sync.Mutex
	snap      *snapshot.Snapshot
	phase     phase.Phase
	submitted chan *solution.Solution
}

func newFakeBackend(snap *snapshot.Snapshot, ph phase.Phase) *fakeBackend {
	return &fakeBackend{snap: snap, phase: ph, submitted: make(chan *solution.Solution, 4)}
}

func (b *fakeBackend) SubscribeEvents(ch chan *election.Event) event.Subscription {
	return b.feed.Subscribe(ch)
}

func (b *fakeBackend) Snapshot() *snapshot.Snapshot {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.snap
}

func (b *fakeBackend) Round() (uint32, phase.Phase) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.snap.Round(), b.phase
}

func (b *fakeBackend) SubmitUnsigned(sol *solution.Solution) error {
	b.submitted <- sol
	return nil
}

func (b *fakeBackend) setPhase(ph phase.Phase) {
	b.lock.Lock()
	b.phase = ph
	b.lock.Unlock()
	b.feed.Send(&election.Event{Kind: election.PhaseChanged, Round: b.snap.Round(), Phase: ph})
}

func runService(t *testing.T, b *fakeBackend) (wait func()) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService(b, testConfig)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("service did not stop")
		}
	}
}

func waitSubscribed(b *fakeBackend) {
	// Send returns 0 until the service has subscribed
	for b.feed.Send(&election.Event{Kind: election.SignedAccepted}) == 0 {
		time.Sleep(time.Millisecond)
	}
}

func TestServiceMinesOnUnsigned(t *testing.T) {
	snap := randomSnapshot(50, 8, 3)
	b := newFakeBackend(snap, phase.Signed)
	wait := runService(t, b)
	defer wait()

	waitSubscribed(b)
	b.setPhase(phase.Unsigned)

	select {
	case sol := <-b.submitted:
		assert.Equal(t, snap.Round(), sol.Round)
	case <-time.After(10 * time.Second):
		t.Fatal("no solution submitted")
	}

	// one run per round
	b.setPhase(phase.Unsigned)
	select {
	case <-b.submitted:
		t.Fatal("mined twice for the same round")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestServiceStartsInUnsigned(t *testing.T) {
	snap := randomSnapshot(50, 8, 3)
	b := newFakeBackend(snap, phase.Unsigned)
	wait := runService(t, b)
	defer wait()

	select {
	case sol := <-b.submitted:
		require.NotNil(t, sol)
		assert.Equal(t, snap.Round(), sol.Round)
	case <-time.After(10 * time.Second):
		t.Fatal("no solution submitted")
	}
}

func TestServiceIgnoresOtherPhases(t *testing.T) {
	snap := randomSnapshot(50, 8, 3)
	b := newFakeBackend(snap, phase.Off)
	wait := runService(t, b)
	defer wait()

	waitSubscribed(b)
	b.setPhase(phase.Signed)
	b.setPhase(phase.SignedValidation)

	select {
	case <-b.submitted:
		t.Fatal("mined outside the unsigned phase")
	case <-time.After(200 * time.Millisecond):
	}
}
