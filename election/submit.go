// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/elector/election/feasibility"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/election/unsigned"
	"github.com/vechain/elector/thor"
)

// check rejects stale rounds, bounds the encoded size, checks feasibility and scores the solution.
func (e *Engine) check(snap *snapshot.Snapshot, sol *solution.Solution) (score.Score, error) {
	if err := checkRound(snap, sol); err != nil {
		return score.Score{}, err
	}
	if size := solution.EncodedSize(sol); size > e.config.MaxSolutionSize {
		return score.Score{}, rejection.Errorf(rejection.OutOfRange, "solution size %d exceeds %d", size, e.config.MaxSolutionSize)
	}
	dense, err := feasibility.Check(snap, sol, e.config.MaxNominations)
	if err != nil {
		return score.Score{}, err
	}
	return score.Compute(dense, snap.TargetCount()), nil
}

// checkRound comes before every other check, a stale solution is never weighed or charged.
func checkRound(snap *snapshot.Snapshot, sol *solution.Solution) error {
	if sol.Round != snap.Round() {
		return rejection.Errorf(rejection.InvalidRound, "solution for round %d, current round is %d", sol.Round, snap.Round())
	}
	return nil
}

func countSubmission(channel string, err error) {
	result := "accepted"
	if kind, ok := rejection.KindOf(err); ok {
		result = kind.String()
	} else if err != nil {
		result = "error"
	}
	metricSubmissions().AddWithLabel(1, map[string]string{"channel": channel, "result": result})
}

// RequiredDeposit returns the deposit a signed submission of sol must lock.
func (e *Engine) RequiredDeposit(sol *solution.Solution) uint64 {
	return e.config.RequiredDeposit(len(sol.Assignments))
}

// SubmitSigned queues a solution backed by a deposit reserved from who.
//
// The deposit is only locked once the solution is feasible and ranks into the queue;
// an evicted resident gets its deposit back in full. Rejections are not charged unless
// the engine is configured to charge infeasible submissions.
func (e *Engine) SubmitSigned(who thor.Address, sol *solution.Solution, deposit uint64) (err error) {
	defer func() { countSubmission("signed", err) }()

	return e.run(func() error {
		r := e.round
		if r == nil || r.Phase() != phase.Signed {
			return rejection.New(rejection.DeadlineExceeded, "signed phase is not open")
		}
		if err := checkRound(r.Snapshot, sol); err != nil {
			return err
		}
		if required := e.RequiredDeposit(sol); deposit < required {
			return rejection.Errorf(rejection.InsufficientDeposit, "deposit %d below required %d", deposit, required)
		}

		sc, err := e.check(r.Snapshot, sol)
		if err != nil {
			if e.config.ChargeRejected && rejection.IsRejection(err) {
				e.charge(who, deposit)
			}
			return err
		}
		if r.Queue.Full() {
			if worst := r.Queue.Worst(); !sc.Better(&worst.Score) {
				return rejection.Errorf(rejection.Outranked, "score %v does not beat the worst queued %v", sc, worst.Score)
			}
		}
		if err := e.ledger.Reserve(who, deposit); err != nil {
			return rejection.Errorf(rejection.InsufficientDeposit, "reserve deposit: %v", err)
		}

		sub := &signed.Submission{Who: who, Deposit: deposit, Score: sc, Solution: sol}
		evicted, err := r.Queue.Insert(sub)
		if err != nil {
			e.ledger.Unreserve(who, deposit)
			return err
		}
		e.dirty = true
		if evicted != nil {
			e.ledger.Unreserve(evicted.Who, evicted.Deposit)
			logger.Debug("signed submission evicted", "round", r.ID, "who", evicted.Who, "score", evicted.Score)
			e.emit(&Event{Kind: SignedEvicted, Who: &evicted.Who, Score: &evicted.Score})
		}
		metricQueueLength().Set(int64(r.Queue.Len()))
		logger.Debug("signed submission queued", "round", r.ID, "who", who, "score", sc, "deposit", deposit)
		e.emit(&Event{Kind: SignedAccepted, Who: &sub.Who, Score: &sub.Score})
		return nil
	})
}

// charge takes the deposit of a rejected submission into the treasury.
func (e *Engine) charge(who thor.Address, deposit uint64) {
	if err := e.ledger.Reserve(who, deposit); err != nil {
		logger.Debug("unable to charge rejected submission", "who", who, "err", err)
		return
	}
	if slashed := e.ledger.Slash(who, deposit); slashed > 0 {
		e.ledger.Treasury(slashed)
	}
}

// SubmitUnsigned checks an unsigned solution against the live snapshot and buffers it
// for inclusion by the next block. It is safe to call from any goroutine.
func (e *Engine) SubmitUnsigned(sol *solution.Solution) (err error) {
	defer func() { countSubmission("unsigned", err) }()

	e.lock.Lock()
	r := e.round
	var snap *snapshot.Snapshot
	open := r != nil && r.Phase() == phase.Unsigned && r.Pending == nil
	if open {
		snap = r.Snapshot
	}
	e.lock.Unlock()

	if !open {
		return rejection.New(rejection.DeadlineExceeded, "unsigned phase is not open")
	}
	// the snapshot is immutable, the check runs outside the lock
	sc, err := e.check(snap, sol)
	if err != nil {
		return err
	}
	return e.pool.Add(&unsigned.Candidate{
		Solution:    sol,
		Score:       sc,
		Fingerprint: solution.Fingerprint(sol),
	})
}
