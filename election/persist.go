// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/kv"
)

const bucketName = "election/"

var (
	stateKey      = []byte("state")
	outcomePrefix = []byte("outcome/")
)

type storedRound struct {
	ID       uint32
	Opened   uint32
	Phase    phase.Phase
	Since    uint32
	Snapshot *snapshot.Snapshot `rlp:"nil"`
	QueueCap uint32
	Queue    []*signed.Submission
	Signed   *signed.Submission `rlp:"nil"`
	Unsigned *Accepted          `rlp:"nil"`
	Pending  *Outcome           `rlp:"nil"`
}

type storedState struct {
	Next   uint32
	Height uint32
	Round  *storedRound `rlp:"nil"`
	Last   *Outcome     `rlp:"nil"`
}

func outcomeKey(round uint32) []byte {
	return binary.BigEndian.AppendUint32(append([]byte(nil), outcomePrefix...), round)
}

func encode(val any) ([]byte, error) {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

func decode(data []byte, val any) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(raw, val)
}

// persist writes the engine state and the outcomes committed since the last call in one batch.
func (e *Engine) persist() error {
	if e.store == nil {
		return nil
	}
	st := storedState{Next: e.next, Height: e.height, Last: e.last}
	if r := e.round; r != nil {
		sr := &storedRound{
			ID:       r.ID,
			Opened:   r.Opened,
			Phase:    r.Machine.Phase,
			Since:    r.Machine.Since,
			Snapshot: r.Snapshot,
			Signed:   r.Signed,
			Unsigned: r.Unsigned,
			Pending:  r.Pending,
		}
		if r.Queue != nil {
			sr.QueueCap = uint32(r.Queue.Cap())
			sr.Queue = r.Queue.Entries()
		}
		st.Round = sr
	}

	batch := e.store.NewBatch()
	data, err := encode(&st)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	if err := batch.Put(stateKey, data); err != nil {
		return err
	}
	for _, o := range e.history {
		data, err := encode(o)
		if err != nil {
			return errors.Wrap(err, "encode outcome")
		}
		if err := batch.Put(outcomeKey(o.Round), data); err != nil {
			return err
		}
	}
	if n := len(e.history); n > 0 {
		if err := e.prune(batch, e.history[n-1].Round); err != nil {
			return errors.WithMessage(err, "prune outcomes")
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	e.history = nil
	return nil
}

func (e *Engine) load() error {
	data, err := e.store.Get(stateKey)
	if err != nil {
		if e.store.IsNotFound(err) {
			return nil
		}
		return err
	}
	var st storedState
	if err := decode(data, &st); err != nil {
		return errors.Wrap(err, "decode state")
	}

	e.next = st.Next
	e.height = st.Height
	e.last = st.Last
	if sr := st.Round; sr != nil {
		r := &Round{
			ID:       sr.ID,
			Opened:   sr.Opened,
			Machine:  phase.Machine{Phase: sr.Phase, Since: sr.Since},
			Snapshot: sr.Snapshot,
			Signed:   sr.Signed,
			Unsigned: sr.Unsigned,
			Pending:  sr.Pending,
		}
		if sr.Snapshot != nil {
			r.Queue = signed.Restore(int(sr.QueueCap), sr.Queue)
		}
		e.round = r
		logger.Info("restored election round", "round", r.ID, "phase", r.Phase(), "queued", len(sr.Queue))
	}

	// the limit may have been lowered since the outcomes were written
	if e.last != nil {
		batch := e.store.NewBatch()
		if err := e.prune(batch, e.last.Round); err != nil {
			return errors.WithMessage(err, "prune outcomes")
		}
		if batch.Len() > 0 {
			if err := batch.Write(); err != nil {
				return err
			}
			logger.Debug("pruned outcome history", "count", batch.Len(), "latest", e.last.Round)
		}
	}
	return nil
}

// prune deletes the outcomes falling out of the history limit once latest is stored.
func (e *Engine) prune(batch kv.Putter, latest uint32) error {
	limit := e.config.HistoryLimit
	if limit == 0 || latest <= limit {
		return nil
	}
	it := e.store.Iterate(outcomePrefix)
	defer it.Release()

	for ok := it.First(); ok; ok = it.Next() {
		key := it.Key()
		if len(key) != len(outcomePrefix)+4 {
			continue
		}
		if binary.BigEndian.Uint32(key[len(outcomePrefix):]) > latest-limit {
			break
		}
		if err := batch.Delete(append([]byte(nil), key...)); err != nil {
			return err
		}
	}
	return it.Error()
}

// Outcomes returns up to limit committed outcomes kept in store, newest first.
func (e *Engine) Outcomes(limit int) ([]*Outcome, error) {
	if limit <= 0 {
		return nil, nil
	}
	if e.store == nil {
		if last := e.Outcome(); last != nil {
			return []*Outcome{last}, nil
		}
		return nil, nil
	}

	it := e.store.Iterate(outcomePrefix)
	defer it.Release()

	var outs []*Outcome
	for ok := it.Last(); ok && len(outs) < limit; ok = it.Prev() {
		var o Outcome
		if err := decode(it.Value(), &o); err != nil {
			return nil, errors.Wrap(err, "decode outcome")
		}
		outs = append(outs, &o)
	}
	return outs, it.Error()
}

// OutcomeOf returns the outcome committed for a past round, or nil if unknown.
func (e *Engine) OutcomeOf(round uint32) (*Outcome, error) {
	if e.store == nil {
		if last := e.Outcome(); last != nil && last.Round == round {
			return last, nil
		}
		return nil, nil
	}
	data, err := e.store.Get(outcomeKey(round))
	if err != nil {
		if e.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var o Outcome
	if err := decode(data, &o); err != nil {
		return nil, errors.Wrap(err, "decode outcome")
	}
	return &o, nil
}
