// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/thor"
)

// Config is the election configuration. It is fixed at deployment.
type Config struct {
	SignedDuration       uint32          `yaml:"signedDuration"`   // blocks
	UnsignedDuration     uint32          `yaml:"unsignedDuration"` // blocks
	MaxSignedSubmissions int             `yaml:"maxSignedSubmissions"`
	MaxVoters            int             `yaml:"maxVoters"`
	MaxTargets           int             `yaml:"maxTargets"`
	MaxNominations       int             `yaml:"maxNominations"`
	MaxSolutionSize      int             `yaml:"maxSolutionSize"` // bytes, RLP encoded
	UnsignedPoolSize     int             `yaml:"unsignedPoolSize"`
	Fallback             fallback.Policy `yaml:"fallback"`
	DepositBase          uint64          `yaml:"depositBase"`
	DepositPerVoter      uint64          `yaml:"depositPerVoter"`
	ForfeitPercent       uint8           `yaml:"forfeitPercent"`
	ChargeRejected       bool            `yaml:"chargeRejected"`
	HistoryLimit         uint32          `yaml:"historyLimit"` // rounds of outcomes kept, zero keeps all
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SignedDuration:       thor.SignedPhaseDuration,
		UnsignedDuration:     thor.UnsignedPhaseDuration,
		MaxSignedSubmissions: thor.MaxSignedSubmissions,
		MaxVoters:            thor.MaxElectingVoters,
		MaxTargets:           thor.MaxElectableTargets,
		MaxNominations:       thor.MaxNominations,
		MaxSolutionSize:      thor.MaxSolutionSize,
		UnsignedPoolSize:     thor.MaxSignedSubmissions,
		Fallback:             fallback.Compute,
		DepositBase:          thor.SignedDepositBase,
		DepositPerVoter:      thor.SignedDepositPerVoter,
		ForfeitPercent:       thor.SignedForfeitPercent,
		HistoryLimit:         thor.OutcomeHistoryLimit,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.SignedDuration == 0 {
		return errors.New("signed duration must be positive")
	}
	if c.UnsignedDuration == 0 {
		return errors.New("unsigned duration must be positive")
	}
	if c.MaxSignedSubmissions < 0 {
		return errors.New("max signed submissions must not be negative")
	}
	if c.MaxVoters <= 0 || int64(c.MaxVoters) > math.MaxUint32 {
		return errors.Errorf("max voters out of range: %d", c.MaxVoters)
	}
	if c.MaxTargets <= 0 || c.MaxTargets > math.MaxUint16+1 {
		return errors.Errorf("max targets out of range: %d", c.MaxTargets)
	}
	if c.MaxNominations <= 0 {
		return errors.New("max nominations must be positive")
	}
	if c.MaxSolutionSize <= 0 {
		return errors.New("max solution size must be positive")
	}
	if c.UnsignedPoolSize <= 0 {
		return errors.New("unsigned pool size must be positive")
	}
	if c.ForfeitPercent > 100 {
		return errors.Errorf("forfeit percent out of range: %d", c.ForfeitPercent)
	}
	if c.Fallback != fallback.Compute && c.Fallback != fallback.Previous {
		return errors.Errorf("unknown fallback policy: %d", c.Fallback)
	}
	return nil
}

// Durations returns the phase durations.
func (c *Config) Durations() phase.Durations {
	return phase.Durations{Signed: c.SignedDuration, Unsigned: c.UnsignedDuration}
}

// Limits returns the snapshot bounds.
func (c *Config) Limits() snapshot.Limits {
	return snapshot.Limits{MaxVoters: c.MaxVoters, MaxTargets: c.MaxTargets, MaxNominations: c.MaxNominations}
}

// Lead returns how many blocks ahead of the election a round opens.
func (c *Config) Lead() uint32 {
	return c.SignedDuration + 1 + c.UnsignedDuration
}

// RequiredDeposit returns the deposit a signed submission with the given number of
// assignments must lock.
func (c *Config) RequiredDeposit(assignments int) uint64 {
	per := c.DepositPerVoter * uint64(assignments)
	if assignments != 0 && per/uint64(assignments) != c.DepositPerVoter {
		return math.MaxUint64
	}
	if total := c.DepositBase + per; total >= per {
		return total
	}
	return math.MaxUint64
}
