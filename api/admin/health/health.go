// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/elector/election/phase"
)

type BlockIngestion struct {
	Height    uint32     `json:"height"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
	Phase          phase.Phase     `json:"phase"`
}

// Health tracks block ingestion of the election engine.
type Health struct {
	lock     sync.RWMutex
	newBlock time.Time
	height   uint32
	phase    phase.Phase
	now      func() time.Time
}

func New() *Health {
	return &Health{now: time.Now}
}

// NewBlock records a processed block and the phase it left the engine in.
func (h *Health) NewBlock(height uint32, ph phase.Phase) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBlock = h.now()
	h.height = height
	h.phase = ph
}

// Status reports healthy when a block was processed within maxTimeBetweenBlocks
// and the engine is not stuck in emergency.
func (h *Health) Status(maxTimeBetweenBlocks time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	st := &Status{Phase: h.phase}
	if h.newBlock.IsZero() {
		return st
	}
	ts := h.newBlock
	st.BlockIngestion = &BlockIngestion{Height: h.height, Timestamp: &ts}
	st.Healthy = h.now().Sub(h.newBlock) <= maxTimeBetweenBlocks && h.phase != phase.Emergency
	return st
}
