// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/vechain/elector/election/fallback"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, fallback.Compute, cfg.Fallback)
	assert.False(t, cfg.ChargeRejected)
	assert.Equal(t, uint8(100), cfg.ForfeitPercent)
	assert.Equal(t, uint32(1024), cfg.HistoryLimit)
	assert.Equal(t, cfg.SignedDuration+1+cfg.UnsignedDuration, cfg.Lead())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"signed duration", func(c *Config) { c.SignedDuration = 0 }},
		{"unsigned duration", func(c *Config) { c.UnsignedDuration = 0 }},
		{"queue", func(c *Config) { c.MaxSignedSubmissions = -1 }},
		{"voters", func(c *Config) { c.MaxVoters = 0 }},
		{"targets", func(c *Config) { c.MaxTargets = math.MaxUint16 + 2 }},
		{"nominations", func(c *Config) { c.MaxNominations = 0 }},
		{"size", func(c *Config) { c.MaxSolutionSize = 0 }},
		{"pool", func(c *Config) { c.UnsignedPoolSize = 0 }},
		{"forfeit", func(c *Config) { c.ForfeitPercent = 101 }},
		{"fallback", func(c *Config) { c.Fallback = 7 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequiredDeposit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DepositBase = 100
	cfg.DepositPerVoter = 2
	assert.Equal(t, uint64(100), cfg.RequiredDeposit(0))
	assert.Equal(t, uint64(120), cfg.RequiredDeposit(10))

	cfg.DepositPerVoter = math.MaxUint64 / 2
	assert.Equal(t, uint64(math.MaxUint64), cfg.RequiredDeposit(3))
	cfg.DepositPerVoter = math.MaxUint64 - 50
	assert.Equal(t, uint64(math.MaxUint64), cfg.RequiredDeposit(1))
}

func TestConfigYAML(t *testing.T) {
	var cfg Config
	err := yaml.Unmarshal([]byte("signedDuration: 5\nfallback: previous\nchargeRejected: true\n"), &cfg)
	assert.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.SignedDuration)
	assert.Equal(t, fallback.Previous, cfg.Fallback)
	assert.True(t, cfg.ChargeRejected)
}
