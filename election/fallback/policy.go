// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fallback

import (
	"github.com/pkg/errors"
)

// Policy decides what happens when a round ends without a solution.
type Policy uint8

const (
	// Compute elects by approval stake on-chain.
	Compute Policy = iota
	// Previous keeps the validator set of the previous round.
	Previous
)

func (p Policy) String() string {
	switch p {
	case Compute:
		return "compute"
	case Previous:
		return "previous"
	}
	return "unknown"
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "compute":
		return Compute, nil
	case "previous":
		return Previous, nil
	}
	return 0, errors.Errorf("unknown fallback policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePolicy(string(text))
	return
}
