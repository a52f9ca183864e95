// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/thor"
)

// Status summarizes the live round.
type Status struct {
	Height          uint32        `json:"height"`
	Round           uint32        `json:"round"`
	Phase           phase.Phase   `json:"phase"`
	PhaseSince      uint32        `json:"phaseSince"`
	Opened          uint32        `json:"opened"`
	QueueLength     int           `json:"queueLength"`
	QueueCapacity   int           `json:"queueCapacity"`
	PendingUnsigned int           `json:"pendingUnsigned"`
	SignedWinner    *thor.Address `json:"signedWinner"`
	BestUnsigned    *score.Score  `json:"bestUnsigned"`
	NextRound       uint32        `json:"nextRound"`
}

// Status returns the state of the live round. Round is zero when no round is open.
func (e *Engine) Status() *Status {
	e.lock.Lock()
	defer e.lock.Unlock()

	s := &Status{
		Height:          e.height,
		Phase:           phase.Off,
		QueueCapacity:   e.config.MaxSignedSubmissions,
		PendingUnsigned: e.pool.Len(),
		NextRound:       e.next,
	}
	if r := e.round; r != nil {
		s.Round = r.ID
		s.Phase = r.Phase()
		s.PhaseSince = r.Machine.Since
		s.Opened = r.Opened
		if r.Queue != nil {
			s.QueueLength = r.Queue.Len()
		}
		if r.Signed != nil {
			who := r.Signed.Who
			s.SignedWinner = &who
		}
		if r.Unsigned != nil {
			sc := r.Unsigned.Score
			s.BestUnsigned = &sc
		}
	}
	return s
}

// Round returns the live round identifier and phase.
func (e *Engine) Round() (uint32, phase.Phase) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.round == nil {
		return 0, phase.Off
	}
	return e.round.ID, e.round.Phase()
}

// Snapshot returns the snapshot of the live round, or nil.
func (e *Engine) Snapshot() *snapshot.Snapshot {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.round == nil {
		return nil
	}
	return e.round.Snapshot
}

// Queue returns the queued signed submissions, best first.
func (e *Engine) Queue() []*signed.Submission {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.round == nil || e.round.Queue == nil {
		return nil
	}
	return e.round.Queue.Entries()
}

// Outcome returns the last committed outcome, or nil.
func (e *Engine) Outcome() *Outcome {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.last
}
