// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/vechain/elector/api/admin/health"
	"github.com/vechain/elector/election/phase"
)

// healthDelayBuffer is the slack on top of the block interval before the node is reported unhealthy.
const healthDelayBuffer = 5 * time.Second

// BlockHandler is fed one call per block.
type BlockHandler interface {
	OnBlock(height uint32) error
}

type roundEngine interface {
	BlockHandler
	Round() (uint32, phase.Phase)
}

// healthTracker reports every processed block to the health monitor.
type healthTracker struct {
	engine roundEngine
	health *health.Health
}

func (h *healthTracker) OnBlock(height uint32) error {
	if err := h.engine.OnBlock(height); err != nil {
		return err
	}
	_, ph := h.engine.Round()
	h.health.NewBlock(height, ph)
	return nil
}

// blockTicker stands in for the chain: it produces a block every interval.
type blockTicker struct {
	handler  BlockHandler
	interval time.Duration
	height   uint32
}

func newBlockTicker(handler BlockHandler, interval time.Duration, start uint32) *blockTicker {
	return &blockTicker{handler: handler, interval: interval, height: start}
}

// Run blocks until ctx is done. A failing block is logged and the next one is
// produced anyway, the engine retries pending work on every block.
func (b *blockTicker) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.handler.OnBlock(b.height); err != nil {
				logger.Warn("failed to process block", "height", b.height, "err", err)
			} else {
				logger.Debug("processed block", "height", b.height)
			}
			b.height++
		}
	}
}
