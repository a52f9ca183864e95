// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package phase

import (
	"fmt"

	"github.com/pkg/errors"
)

// Phase is the submission channel currently open.
type Phase uint8

const (
	Off Phase = iota
	Signed
	SignedValidation
	Unsigned
	Emergency
)

var names = [...]string{"off", "signed", "signedValidation", "unsigned", "emergency"}

func (p Phase) String() string {
	if int(p) < len(names) {
		return names[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range names {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return errors.Errorf("unknown phase %q", text)
}

// AcceptsSigned reports whether signed submissions are open.
func (p Phase) AcceptsSigned() bool { return p == Signed }

// AcceptsUnsigned reports whether unsigned submissions are open.
func (p Phase) AcceptsUnsigned() bool { return p == Unsigned }

// CanTransition reports whether from -> to is a legal move.
// Transitions only move forward within a round, and Off closes it.
func CanTransition(from, to Phase) bool {
	switch from {
	case Off:
		return to == Signed || to == Emergency
	case Signed:
		return to == SignedValidation || to == Emergency
	case SignedValidation:
		return to == Unsigned || to == Emergency
	case Unsigned:
		return to == Off || to == Emergency
	case Emergency:
		return to == Off
	}
	return false
}
