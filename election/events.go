// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/thor"
)

// EventKind classifies engine events.
type EventKind uint8

const (
	PhaseChanged EventKind = iota + 1
	SignedAccepted
	SignedEvicted
	SignedSettled
	UnsignedAccepted
	Committed
)

var eventNames = map[EventKind]string{
	PhaseChanged:     "phaseChanged",
	SignedAccepted:   "signedAccepted",
	SignedEvicted:    "signedEvicted",
	SignedSettled:    "signedSettled",
	UnsignedAccepted: "unsignedAccepted",
	Committed:        "committed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown event kind %q", text)
}

// Event is posted on every change of the live round.
type Event struct {
	Kind    EventKind      `json:"kind"`
	Round   uint32         `json:"round"`
	Height  uint32         `json:"height"`
	Phase   phase.Phase    `json:"phase"`
	Who     *thor.Address  `json:"who,omitempty"`
	Score   *score.Score   `json:"score,omitempty"`
	Outcome *OutcomeKind   `json:"outcome,omitempty"`
	Winners []thor.Address `json:"winners,omitempty"`
}
