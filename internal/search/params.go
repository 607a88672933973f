// Package search implements the engine's negamax/alpha-beta search:
// quiescence, iterative deepening with aspiration windows, null-move
// pruning, late-move reduction/pruning, futility/razoring, and a
// time-aware root controller with cooperative cancellation.
package search

import (
	"math"

	. "github.com/elinde/goknight/internal/bitboard"
)

// lmrTable[depth][moveIndex] is the precomputed late-move reduction,
// approximated as 0.75 + ln(depth)*ln(index)/2.25. negamax lowers it by one
// at PV nodes and clamps it; killer, counter-move and history do not adjust
// it.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for i := 1; i < 64; i++ {
			r := 0.75 + math.Log(float64(d))*math.Log(float64(i))/2.25
			lmrTable[d][i] = int(math.Round(r))
		}
	}
}

func baseLmr(depth, moveIndex int) int {
	if depth >= 64 {
		depth = 63
	}
	if moveIndex >= 64 {
		moveIndex = 63
	}
	if depth < 1 || moveIndex < 1 {
		return 0
	}
	return lmrTable[depth][moveIndex]
}

// lmpMargin[depth] bounds the move index at which late-move pruning
// discards remaining quiet moves outright.
var lmpMargin [16]int

func init() {
	for d := 1; d < 16; d++ {
		lmpMargin[d] = 6 + int(math.Pow(float64(d)+0.5, 1.3))
	}
}

func lateMovePruningMargin(depth int) int {
	if depth >= 16 {
		depth = 15
	}
	if depth < 0 {
		depth = 0
	}
	return lmpMargin[depth]
}

// futilityMargin[depth] is the standing margin used by futility pruning
// at shallow depth.
var futilityMargin = [7]Value{0, 100, 200, 300, 500, 900, 1200}

// reverseFutilityMargin[depth] is the margin used by reverse futility
// pruning (depth <= 3 only).
var reverseFutilityMargin = [4]Value{0, 200, 400, 800}

// aspirationDelta is the initial aspiration window half-width.
const aspirationDelta = Value(25)
