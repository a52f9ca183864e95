// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package phase

import (
	"github.com/pkg/errors"
)

// Durations are the phase lengths in blocks.
type Durations struct {
	Signed   uint32
	Unsigned uint32
}

// Machine tracks the phase of the live round and the block it was entered at.
type Machine struct {
	Phase Phase
	Since uint32
}

// Transition moves to the next phase at the given block height.
func (m *Machine) Transition(to Phase, height uint32) error {
	if !CanTransition(m.Phase, to) {
		return errors.Errorf("illegal phase transition %v -> %v", m.Phase, to)
	}
	m.Phase = to
	m.Since = height
	return nil
}

// Elapsed returns the blocks spent in the current phase.
func (m *Machine) Elapsed(height uint32) uint32 {
	if height < m.Since {
		return 0
	}
	return height - m.Since
}

// Expired reports whether the current phase has run its duration at the given height.
// Phases without a duration never expire.
func (m *Machine) Expired(height uint32, d Durations) bool {
	switch m.Phase {
	case Signed:
		return m.Elapsed(height) >= d.Signed
	case Unsigned:
		return m.Elapsed(height) >= d.Unsigned
	}
	return false
}
