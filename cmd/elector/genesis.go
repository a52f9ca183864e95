// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/staking"
	"github.com/vechain/elector/thor"
)

// Genesis is the initial ledger state and the election options of a node.
type Genesis struct {
	EraLength      uint32           `yaml:"eraLength"`
	DesiredWinners uint32           `yaml:"desiredWinners"`
	Election       *election.Config `yaml:"election"`
	Validators     []struct {
		Address   thor.Address `yaml:"address"`
		SelfStake uint64       `yaml:"selfStake"`
	} `yaml:"validators"`
	Nominators []struct {
		Address thor.Address   `yaml:"address"`
		Stake   uint64         `yaml:"stake"`
		Targets []thor.Address `yaml:"targets"`
	} `yaml:"nominators"`
	Balances []struct {
		Address thor.Address `yaml:"address"`
		Amount  uint64       `yaml:"amount"`
	} `yaml:"balances"`
}

// DecodeGenesis parses a genesis document. Election options absent from the
// document keep their defaults.
func DecodeGenesis(r io.Reader) (*Genesis, error) {
	cfg := election.DefaultConfig()
	gene := Genesis{
		EraLength:      thor.EraLength,
		DesiredWinners: thor.InitialDesiredWinners,
		Election:       &cfg,
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gene); err != nil && err != io.EOF {
		return nil, err
	}
	if gene.Election == nil {
		gene.Election = &cfg
	}
	if gene.EraLength == 0 {
		return nil, errors.New("eraLength must be positive")
	}
	return &gene, nil
}

func loadGenesis(path string) (*Genesis, error) {
	if path == "" {
		return DecodeGenesis(bytes.NewReader(nil))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gene, err := DecodeGenesis(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode genesis %v", path)
	}
	return gene, nil
}

// Ledger builds the staking ledger described by the genesis.
func (g *Genesis) Ledger() *staking.Staking {
	s := staking.New(g.EraLength, g.DesiredWinners)
	for _, v := range g.Validators {
		s.Validate(v.Address, v.SelfStake)
	}
	for _, n := range g.Nominators {
		s.Nominate(n.Address, n.Stake, n.Targets)
	}
	for _, b := range g.Balances {
		s.SetBalance(b.Address, b.Amount)
	}
	return s
}

// electionConfig applies the flags set on the command line over the genesis options.
func electionConfig(ctx *cli.Context, gene *Genesis) (election.Config, error) {
	cfg := *gene.Election
	if ctx.IsSet(signedDurationFlag.Name) {
		cfg.SignedDuration = uint32(ctx.Uint64(signedDurationFlag.Name))
	}
	if ctx.IsSet(unsignedDurationFlag.Name) {
		cfg.UnsignedDuration = uint32(ctx.Uint64(unsignedDurationFlag.Name))
	}
	if ctx.IsSet(maxSignedSubmissionsFlag.Name) {
		cfg.MaxSignedSubmissions = ctx.Int(maxSignedSubmissionsFlag.Name)
	}
	if ctx.IsSet(maxVotersFlag.Name) {
		cfg.MaxVoters = ctx.Int(maxVotersFlag.Name)
	}
	if ctx.IsSet(maxTargetsFlag.Name) {
		cfg.MaxTargets = ctx.Int(maxTargetsFlag.Name)
	}
	if ctx.IsSet(maxNominationsFlag.Name) {
		cfg.MaxNominations = ctx.Int(maxNominationsFlag.Name)
	}
	if ctx.IsSet(maxSolutionSizeFlag.Name) {
		cfg.MaxSolutionSize = ctx.Int(maxSolutionSizeFlag.Name)
	}
	if ctx.IsSet(unsignedPoolSizeFlag.Name) {
		cfg.UnsignedPoolSize = ctx.Int(unsignedPoolSizeFlag.Name)
	}
	if ctx.IsSet(fallbackFlag.Name) {
		policy, err := fallback.ParsePolicy(ctx.String(fallbackFlag.Name))
		if err != nil {
			return cfg, err
		}
		cfg.Fallback = policy
	}
	if ctx.IsSet(depositBaseFlag.Name) {
		cfg.DepositBase = ctx.Uint64(depositBaseFlag.Name)
	}
	if ctx.IsSet(depositPerVoterFlag.Name) {
		cfg.DepositPerVoter = ctx.Uint64(depositPerVoterFlag.Name)
	}
	if ctx.IsSet(forfeitPercentFlag.Name) {
		percent := ctx.Uint(forfeitPercentFlag.Name)
		if percent > 100 {
			return cfg, errors.Errorf("forfeit percent out of range: %d", percent)
		}
		cfg.ForfeitPercent = uint8(percent)
	}
	if ctx.IsSet(chargeRejectedFlag.Name) {
		cfg.ChargeRejected = ctx.Bool(chargeRejectedFlag.Name)
	}
	if ctx.IsSet(historyLimitFlag.Name) {
		cfg.HistoryLimit = uint32(ctx.Uint64(historyLimitFlag.Name))
	}
	return cfg, cfg.Validate()
}
