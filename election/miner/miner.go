// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package miner searches for a high scoring solution off the sequential path.
package miner

import (
	"context"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/election/feasibility"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/metrics"
)

var (
	logger = log.WithContext("pkg", "miner")

	metricMineDuration = metrics.LazyLoadHistogram("miner_duration_ms", metrics.Bucket10s)
	metricMineResults  = metrics.LazyLoadCounterVec("miner_results_count", []string{"result"})
)

// ErrNoSolution is returned when no feasible solution fits the budget.
var ErrNoSolution = errors.New("no feasible solution found")

// Config bounds a mining run.
type Config struct {
	Iterations int // local search swaps and balancing passes
	MaxSize    int // encoded solution size in bytes
	MaxEdges   int // edges per voter
}

// Result is a mined solution with its score.
type Result struct {
	Solution *solution.Solution `json:"solution"`
	Score    score.Score        `json:"score"`
}

type candidate struct {
	winners []uint16
	dense   *solution.Dense
	score   score.Score
}

// Mine searches a solution for snap. Seeds are explored concurrently and the best
// feasible result that fits the size bound is returned.
func Mine(ctx context.Context, snap *snapshot.Snapshot, cfg Config) (*Result, error) {
	start := time.Now()
	res, err := mine(ctx, snap, cfg)
	metricMineDuration().Observe(time.Since(start).Milliseconds())
	if err != nil {
		metricMineResults().AddWithLabel(1, map[string]string{"result": "failed"})
		return nil, err
	}
	metricMineResults().AddWithLabel(1, map[string]string{"result": "found"})
	logger.Debug("mined solution", "round", snap.Round(), "score", res.Score, "edges", res.Solution.EdgeCount(), "elapsed", time.Since(start))
	return res, nil
}

func mine(ctx context.Context, snap *snapshot.Snapshot, cfg Config) (*Result, error) {
	desired := int(snap.DesiredWinners())
	seeds := [][]uint16{
		phragmen(snap, desired),
		fallback.TopApproved(snap, desired),
	}

	results := make([]*candidate, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			if len(seed) < desired {
				return nil
			}
			c, err := search(ctx, snap, seed, cfg.Iterations)
			if err != nil {
				if errors.Is(err, fallback.ErrInsufficientBacking) {
					return nil
				}
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *candidate
	for _, c := range results {
		if c != nil && (best == nil || c.score.Better(&best.score)) {
			best = c
		}
	}
	if best == nil {
		return nil, ErrNoSolution
	}

	sol, err := trim(snap, best.dense, cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	dense, err := feasibility.Check(snap, sol, cfg.MaxEdges)
	if err != nil {
		return nil, errors.Wrap(ErrNoSolution, err.Error())
	}
	return &Result{Solution: sol, Score: score.Compute(dense, snap.TargetCount())}, nil
}

func evaluate(snap *snapshot.Snapshot, winners []uint16, rounds int) (*candidate, error) {
	d, err := fallback.Assign(snap, winners)
	if err != nil {
		return nil, err
	}
	balance(snap, d, winners, rounds)
	return &candidate{winners: winners, dense: d, score: score.Compute(d, snap.TargetCount())}, nil
}

// search improves a seed by swapping its least backed winner for the most approved
// target not yet tried, keeping swaps that raise the score.
func search(ctx context.Context, snap *snapshot.Snapshot, seed []uint16, iterations int) (*candidate, error) {
	best, err := evaluate(snap, seed, iterations)
	if err != nil {
		return nil, err
	}

	ranked := fallback.TopApproved(snap, snap.TargetCount())
	tried := make(map[uint16]bool, len(ranked))
	for _, w := range seed {
		tried[w] = true
	}

	for range iterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		backing := best.dense.Backings(snap.TargetCount())
		weakest := 0
		for i, w := range best.winners {
			if backing[w] < backing[best.winners[weakest]] {
				weakest = i
			}
		}
		next := slices.IndexFunc(ranked, func(t uint16) bool { return !tried[t] })
		if next < 0 {
			break
		}
		tried[ranked[next]] = true

		winners := slices.Clone(best.winners)
		winners[weakest] = ranked[next]
		c, err := evaluate(snap, winners, iterations)
		if err != nil {
			continue
		}
		if c.score.Better(&best.score) {
			best = c
		}
	}
	return best, nil
}

// trim drops the lowest stake voters until the encoded solution fits maxSize.
// Voters whose removal would leave a winner unbacked are kept.
func trim(snap *snapshot.Snapshot, d *solution.Dense, maxSize int) (*solution.Solution, error) {
	sol := solution.Compact(d)
	size := solution.EncodedSize(sol)
	if size <= maxSize {
		return sol, nil
	}

	d = d.Copy()
	backing := d.Backings(snap.TargetCount())
	excess := size - maxSize
	// voters are ranked by stake, the tail holds the smallest
	for v := len(d.Rows) - 1; v >= 0 && excess > 0; v-- {
		row := d.Rows[v]
		if len(row) == 0 {
			continue
		}
		removable := true
		for _, e := range row {
			if backing[e.Target] == e.Weight {
				removable = false
				break
			}
		}
		if !removable {
			continue
		}
		for _, e := range row {
			backing[e.Target] -= e.Weight
		}
		enc, _ := rlp.EncodeToBytes(&solution.Assignment{Voter: uint32(v), Edges: row})
		excess -= len(enc)
		d.Clear(v)
	}

	sol = solution.Compact(d)
	if solution.EncodedSize(sol) > maxSize {
		return nil, errors.Wrapf(ErrNoSolution, "cannot trim below %d bytes", maxSize)
	}
	return sol, nil
}
