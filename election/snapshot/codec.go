// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

type storedSnapshot struct {
	Round   uint32
	Desired uint32
	Voters  []Voter
	Targets []Target
}

var (
	_ rlp.Encoder = (*Snapshot)(nil)
	_ rlp.Decoder = (*Snapshot)(nil)
)

// EncodeRLP implements rlp.Encoder.
func (s *Snapshot) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &storedSnapshot{
		Round:   s.round,
		Desired: s.desired,
		Voters:  s.voters,
		Targets: s.targets,
	})
}

// DecodeRLP implements rlp.Decoder.
func (s *Snapshot) DecodeRLP(stream *rlp.Stream) error {
	var stored storedSnapshot
	if err := stream.Decode(&stored); err != nil {
		return err
	}
	*s = *New(stored.Round, stored.Desired, stored.Voters, stored.Targets)
	return nil
}
