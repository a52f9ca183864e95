// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package score

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

type jsonScore struct {
	MinimalStake    *uint256.Int `json:"minimalStake"`
	SumStake        *uint256.Int `json:"sumStake"`
	SumStakeSquared *uint256.Int `json:"sumStakeSquared"`
}

// MarshalJSON encodes the components as decimal strings.
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonScore{&s.MinimalStake, &s.SumStake, &s.SumStakeSquared})
}

// UnmarshalJSON decodes the components.
func (s *Score) UnmarshalJSON(data []byte) error {
	js := jsonScore{&s.MinimalStake, &s.SumStake, &s.SumStakeSquared}
	return json.Unmarshal(data, &js)
}
