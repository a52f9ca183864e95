// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/elector/co"
	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

// Backend is what the service needs from the election engine.
type Backend interface {
	SubscribeEvents(ch chan *election.Event) event.Subscription
	Snapshot() *snapshot.Snapshot
	Round() (uint32, phase.Phase)
	SubmitUnsigned(sol *solution.Solution) error
}

// Service mines one solution per round when the unsigned phase opens and submits it
// through the unsigned channel.
type Service struct {
	backend Backend
	config  Config
	goes    co.Goes
}

// NewService creates a mining service.
func NewService(backend Backend, config Config) *Service {
	return &Service{backend: backend, config: config}
}

// Run blocks until ctx is done.
func (s *Service) Run(ctx context.Context) {
	ch := make(chan *election.Event, 16)
	sub := s.backend.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	var (
		mined  uint32
		cancel context.CancelFunc = func() {}
	)
	defer func() {
		cancel()
		s.goes.Wait()
	}()

	start := func(round uint32) {
		if round == mined {
			return
		}
		snap := s.backend.Snapshot()
		if snap == nil || snap.Round() != round {
			return
		}
		mined = round
		cancel()
		cancel = s.goes.GoWithCancel(ctx, func(ctx context.Context) { s.mine(ctx, snap) })
	}

	// the service may start in the middle of an unsigned phase
	if round, ph := s.backend.Round(); ph == phase.Unsigned {
		start(round)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				logger.Warn("event subscription closed", "err", err)
			}
			return
		case ev := <-ch:
			if ev.Kind != election.PhaseChanged {
				continue
			}
			if ev.Phase == phase.Unsigned {
				start(ev.Round)
			} else {
				cancel()
			}
		}
	}
}

func (s *Service) mine(ctx context.Context, snap *snapshot.Snapshot) {
	res, err := Mine(ctx, snap, s.config)
	if err != nil {
		if ctx.Err() == nil {
			logger.Info("mining failed", "round", snap.Round(), "err", err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	if err := s.backend.SubmitUnsigned(res.Solution); err != nil {
		if rejection.IsRejection(err) {
			logger.Debug("mined solution rejected", "round", snap.Round(), "err", err)
		} else {
			logger.Warn("failed to submit mined solution", "round", snap.Round(), "err", err)
		}
		return
	}
	logger.Info("submitted mined solution", "round", snap.Round(), "score", res.Score)
}
