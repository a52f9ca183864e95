// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package election runs the multi-phase election of the validator set.
//
// Every state change of a round happens on the sequential path: block processing via OnBlock
// and signed submissions, serialized by a single lock. Unsigned solutions are checked off the
// path, buffered in a pool and taken in by the next block.
package election

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/election/unsigned"
	"github.com/vechain/elector/kv"
	"github.com/vechain/elector/log"
)

var logger = log.WithContext("pkg", "election")

// seen unsigned fingerprints remembered across rounds
const seenFingerprints = 4096

// Engine drives election rounds.
type Engine struct {
	config Config
	ledger Ledger
	store  kv.Store
	pool   *unsigned.Pool

	lock    sync.Mutex
	round   *Round
	next    uint32
	last    *Outcome
	height  uint32
	outbox  []*Event
	dirty   bool
	history []*Outcome // committed since the last persist

	feed  event.Feed
	scope event.SubscriptionScope

	// batches of events are posted in the order they were taken from the outbox
	sendMu   sync.Mutex
	sendCond *sync.Cond
	queued   uint64
	posted   uint64
}

// New creates an engine. The store may be nil, in which case nothing survives a restart.
func New(config Config, ledger Ledger, store kv.Store) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WithMessage(err, "config")
	}
	pool, err := unsigned.NewPool(config.UnsignedPoolSize, seenFingerprints)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		config: config,
		ledger: ledger,
		pool:   pool,
		next:   1,
	}
	e.sendCond = sync.NewCond(&e.sendMu)
	if store != nil {
		e.store = kv.Bucket(bucketName).NewStore(store)
		if err := e.load(); err != nil {
			return nil, errors.WithMessage(err, "load state")
		}
	}
	if r := e.round; r != nil && r.Phase() == phase.Unsigned && r.Pending == nil {
		var best *score.Score
		if r.Unsigned != nil {
			best = &r.Unsigned.Score
		}
		e.pool.Open(r.ID, best)
	}
	return e, nil
}

// Config returns the configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Close unsubscribes every event subscriber.
func (e *Engine) Close() {
	e.scope.Close()
}

// SubscribeEvents subscribes to engine events. Events are posted after the change is applied.
func (e *Engine) SubscribeEvents(ch chan *Event) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// run applies fn on the sequential path, persists the result and posts the events.
func (e *Engine) run(fn func() error) error {
	e.lock.Lock()
	err := fn()
	if e.dirty {
		if perr := e.persist(); perr != nil {
			logger.Error("failed to persist election state", "err", perr)
			if err == nil {
				err = perr
			}
		}
		e.dirty = false
	}
	events := e.outbox
	e.outbox = nil
	var ticket uint64
	if len(events) > 0 {
		e.queued++
		ticket = e.queued
	}
	e.lock.Unlock()

	if ticket > 0 {
		e.post(ticket, events)
	}
	return err
}

// post sends a batch once every batch queued before it has been sent.
// Subscribers may call back into the engine while a batch is being sent, so the
// engine lock is never held here.
func (e *Engine) post(ticket uint64, events []*Event) {
	e.sendMu.Lock()
	for e.posted+1 != ticket {
		e.sendCond.Wait()
	}
	e.sendMu.Unlock()

	for _, ev := range events {
		e.feed.Send(ev)
	}

	e.sendMu.Lock()
	e.posted = ticket
	e.sendCond.Broadcast()
	e.sendMu.Unlock()
}

func (e *Engine) emit(ev *Event) {
	ev.Height = e.height
	if e.round != nil {
		ev.Round = e.round.ID
		ev.Phase = e.round.Phase()
	}
	e.outbox = append(e.outbox, ev)
}

// OnBlock advances the election at the given block height.
// An error never leaves the round inconsistent; the failed step is retried on the next block.
func (e *Engine) OnBlock(height uint32) error {
	return e.run(func() error {
		e.height = height
		return e.onBlock(height)
	})
}

func (e *Engine) onBlock(height uint32) error {
	r := e.round
	if r == nil {
		next := e.ledger.NextElection(height)
		if next > height && next-height > e.config.Lead() {
			return nil
		}
		return e.openRound(height)
	}
	if r.Pending != nil {
		return e.commit(height)
	}

	switch r.Phase() {
	case phase.Signed:
		if r.Machine.Expired(height, e.config.Durations()) || r.Queue.Full() {
			return e.transition(phase.SignedValidation, height)
		}
	case phase.SignedValidation:
		e.settleSigned()
		if err := e.transition(phase.Unsigned, height); err != nil {
			return err
		}
		e.pool.Open(r.ID, nil)
	case phase.Unsigned:
		e.drainUnsigned()
		if r.Machine.Expired(height, e.config.Durations()) {
			e.pool.Close()
			return e.finalize(height)
		}
	case phase.Emergency:
		return e.resolveEmergency(height)
	}
	return nil
}

func (e *Engine) transition(to phase.Phase, height uint32) error {
	if err := e.round.Machine.Transition(to, height); err != nil {
		return err
	}
	e.dirty = true
	metricPhase().Set(int64(to))
	logger.Debug("phase changed", "round", e.round.ID, "phase", to, "height", height)
	e.emit(&Event{Kind: PhaseChanged})
	return nil
}

func (e *Engine) openRound(height uint32) error {
	id := e.next
	snap, err := snapshot.Build(id, e.ledger, e.config.Limits())
	if err != nil && !rejection.Is(err, rejection.InsufficientCandidates) {
		return errors.WithMessage(err, "build snapshot")
	}

	e.next++
	e.round = &Round{ID: id, Opened: height, Machine: phase.Machine{Phase: phase.Off, Since: height}}
	e.dirty = true
	if err != nil {
		logger.Warn("no candidates for round, entering emergency", "round", id, "err", err)
		if err := e.transition(phase.Emergency, height); err != nil {
			return err
		}
		return e.resolveEmergency(height)
	}

	e.round.Snapshot = snap
	e.round.Queue = signed.NewQueue(e.config.MaxSignedSubmissions)
	metricQueueLength().Set(0)
	logger.Info("opened election round",
		"round", id,
		"voters", snap.VoterCount(),
		"targets", snap.TargetCount(),
		"desired", snap.DesiredWinners(),
		"stake", snap.TotalStake())
	return e.transition(phase.Signed, height)
}

// settleSigned validates the queue and moves deposits.
func (e *Engine) settleSigned() {
	r := e.round
	st := r.Queue.Settle(func(sub *signed.Submission) error {
		return e.revalidate(r.Snapshot, sub)
	}, e.config.ForfeitPercent)

	for _, t := range st.Refunds {
		e.ledger.Unreserve(t.Who, t.Amount)
	}
	var slashed uint64
	for _, t := range st.Forfeits {
		slashed += e.ledger.Slash(t.Who, t.Amount)
	}

	ev := &Event{Kind: SignedSettled}
	if st.Winner != nil {
		r.Signed = st.Winner
		if slashed > 0 {
			e.ledger.Reward(st.Winner.Who, slashed)
		}
		ev.Who, ev.Score = &st.Winner.Who, &st.Winner.Score
	} else if slashed > 0 {
		e.ledger.Treasury(slashed)
	}
	e.dirty = true
	metricQueueLength().Set(0)
	logger.Info("signed phase settled", "round", r.ID, "winner", st.Winner != nil, "failed", len(st.Failed), "forfeited", slashed)
	e.emit(ev)
}

// revalidate checks a queued submission against the snapshot and the current ledger state.
func (e *Engine) revalidate(snap *snapshot.Snapshot, sub *signed.Submission) error {
	sc, err := e.check(snap, sub.Solution)
	if err != nil {
		return err
	}
	if sc.Compare(&sub.Score) != 0 {
		return errors.Errorf("score changed from %v to %v", sub.Score, sc)
	}
	return e.checkElectable(snap, sub.Solution)
}

func (e *Engine) checkElectable(snap *snapshot.Snapshot, sol *solution.Solution) error {
	for _, t := range sol.Winners() {
		if id := snap.Target(int(t)).ID; !e.ledger.Electable(id) {
			return rejection.Errorf(rejection.InfeasibleAssignment, "winner %v is no longer electable", id)
		}
	}
	return nil
}

// drainUnsigned takes the best pending unsigned candidate into the round.
func (e *Engine) drainUnsigned() {
	r := e.round
	for c := e.pool.Pop(); c != nil; c = e.pool.Pop() {
		if c.Solution.Round != r.ID {
			continue
		}
		if r.Unsigned != nil && !c.Score.Better(&r.Unsigned.Score) {
			continue
		}
		if err := e.checkElectable(r.Snapshot, c.Solution); err != nil {
			logger.Debug("dropped unsigned candidate", "round", r.ID, "err", err)
			continue
		}
		r.Unsigned = &Accepted{Solution: c.Solution, Score: c.Score}
		e.pool.Accepted(c.Score)
		e.dirty = true
		metricSubmissions().AddWithLabel(1, map[string]string{"channel": "unsigned", "result": "included"})
		logger.Debug("unsigned solution included", "round", r.ID, "score", c.Score)
		e.emit(&Event{Kind: UnsignedAccepted, Score: &r.Unsigned.Score})
		return
	}
}

// finalize resolves the round with the best solution, or enters emergency without one.
func (e *Engine) finalize(height uint32) error {
	r := e.round
	sol, sc, kind := r.best()
	if sol != nil {
		dense, err := solution.Expand(sol, solution.Bounds{
			Voters:   r.Snapshot.VoterCount(),
			Targets:  r.Snapshot.TargetCount(),
			MaxEdges: e.config.MaxNominations,
		})
		if err == nil {
			winners, exps := exposures(r.Snapshot, dense)
			best := *sc
			r.Pending = &Outcome{Round: r.ID, Height: height, Kind: kind, Score: &best, Winners: winners, Exposures: exps}
			e.dirty = true
			return e.commit(height)
		}
		logger.Error("best solution failed to expand", "round", r.ID, "err", err)
	}

	logger.Warn("no feasible solution, entering emergency", "round", r.ID)
	if err := e.transition(phase.Emergency, height); err != nil {
		return err
	}
	return e.resolveEmergency(height)
}

// resolveEmergency commits the fallback set, or the previous one.
func (e *Engine) resolveEmergency(height uint32) error {
	r := e.round
	metricFallbackRuns().AddWithLabel(1, map[string]string{"policy": e.config.Fallback.String()})

	if e.config.Fallback == fallback.Compute && r.Snapshot != nil {
		dense, err := fallback.Elect(r.Snapshot)
		if err == nil {
			winners, exps := exposures(r.Snapshot, dense)
			sc := score.Compute(dense, r.Snapshot.TargetCount())
			r.Pending = &Outcome{Round: r.ID, Height: height, Kind: FromFallback, Score: &sc, Winners: winners, Exposures: exps}
			e.dirty = true
			return e.commit(height)
		}
		logger.Warn("fallback election failed, keeping previous validator set", "round", r.ID, "err", err)
	}

	r.Pending = &Outcome{Round: r.ID, Height: height, Kind: FromPrevious}
	if e.last != nil {
		r.Pending.Winners = e.last.Winners
		r.Pending.Exposures = e.last.Exposures
	}
	e.dirty = true
	return e.commit(height)
}

// commit hands the pending outcome to the ledger and closes the round.
func (e *Engine) commit(height uint32) error {
	r := e.round
	o := r.Pending
	if err := e.ledger.CommitValidatorSet(o.Round, o.Winners, o.Exposures); err != nil {
		logger.Error("failed to commit validator set, retrying next block", "round", o.Round, "err", err)
		return errors.WithMessage(err, "commit validator set")
	}

	e.last = o
	e.history = append(e.history, o)
	kind := o.Kind
	metricOutcomes().AddWithLabel(1, map[string]string{"kind": kind.String()})
	logger.Info("validator set committed", "round", o.Round, "kind", kind, "winners", len(o.Winners), "score", o.Score)
	e.emit(&Event{Kind: Committed, Outcome: &kind, Winners: o.Winners, Score: o.Score})

	if err := e.transition(phase.Off, height); err != nil {
		return err
	}
	e.round = nil
	e.pool.Close()
	return nil
}
