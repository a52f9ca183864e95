// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the election.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	EraLength uint32 = 360 // blocks between two validator set rotations.

	SignedPhaseDuration   uint32 = 30 // blocks the signed submission channel stays open.
	UnsignedPhaseDuration uint32 = 20 // blocks the unsigned submission channel stays open.

	MaxSignedSubmissions = 16 // capacity of the signed submission queue.

	MaxElectingVoters   = 22500 // max voters captured by a snapshot.
	MaxElectableTargets = 1000  // max targets captured by a snapshot.
	MaxNominations      = 16    // max targets one voter may back, also the max edges per voter.

	MaxSolutionSize = 512 * 1024 // max RLP encoded size of a submitted solution.

	MinerIterations = 10

	OutcomeHistoryLimit uint32 = 1024 // committed outcomes kept in store, zero keeps all.

	InitialDesiredWinners uint32 = 101
)

// Deposit parameters, in whole VET.
const (
	SignedDepositBase     uint64 = 100
	SignedDepositPerVoter uint64 = 1
	SignedForfeitPercent  uint8  = 100
)
