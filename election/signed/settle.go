// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package signed

import (
	"github.com/vechain/elector/thor"
)

// Transfer moves Amount of a submitter's deposit.
type Transfer struct {
	Who    thor.Address `json:"who"`
	Amount uint64       `json:"amount"`
}

// Settlement is the outcome of validating the queue.
type Settlement struct {
	Winner   *Submission // nil if no resident re-validated
	Reward   uint64      // sum of forfeits, paid to the winner
	Refunds  []Transfer
	Forfeits []Transfer
	Failed   []*Submission
}

// Forfeit returns the part of a deposit forfeited at the given percentage.
func Forfeit(deposit uint64, percent uint8) uint64 {
	if percent >= 100 {
		return deposit
	}
	p := uint64(percent)
	return deposit/100*p + deposit%100*p/100
}

// Settle validates residents best to worst until one passes. Residents that fail forfeit
// forfeitPercent of their deposit and get the rest back; the winner and every resident below
// it are refunded in full. The queue is empty afterwards.
func (q *Queue) Settle(validate func(*Submission) error, forfeitPercent uint8) *Settlement {
	s := &Settlement{}
	for _, sub := range q.entries {
		if s.Winner != nil {
			s.Refunds = append(s.Refunds, Transfer{sub.Who, sub.Deposit})
			continue
		}
		if err := validate(sub); err != nil {
			logger.Debug("queued submission failed validation", "who", sub.Who, "score", sub.Score, "err", err)
			forfeit := Forfeit(sub.Deposit, forfeitPercent)
			s.Forfeits = append(s.Forfeits, Transfer{sub.Who, forfeit})
			if rest := sub.Deposit - forfeit; rest > 0 {
				s.Refunds = append(s.Refunds, Transfer{sub.Who, rest})
			}
			s.Failed = append(s.Failed, sub)
			s.Reward += forfeit
			continue
		}
		s.Winner = sub
		s.Refunds = append(s.Refunds, Transfer{sub.Who, sub.Deposit})
	}
	q.Clear()
	return s
}
