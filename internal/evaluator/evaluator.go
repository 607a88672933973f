// Package evaluator implements the engine's static evaluation function: a
// pure function of a board position returning a centipawn score from the
// side-to-move's perspective. No side effects, no allocation on the hot
// path (the pawn cache lookup is a fixed-size array index).
package evaluator

import (
	"github.com/elinde/goknight/internal/board"
	. "github.com/elinde/goknight/internal/bitboard"
)

// gamePhaseMax is the material-weighted phase value at the start of a
// game (4 knights/bishops + 4 rooks + 2 queens worth of non-pawn phase
// weight); it tapers toward 0 as pieces come off the board.
const gamePhaseMax = 24

var phaseWeight = [PtLength]int{
	Pawn: 0, Knight: 1, Bishop: 1, Rook: 2, Queen: 4, King: 0,
}

// Evaluator computes the static evaluation of a position, with an optional
// pawn-structure cache to avoid recomputing pawn-shape terms every call.
type Evaluator struct {
	pawns *pawnCache
}

// New creates an Evaluator with the pawn cache enabled.
func New() *Evaluator {
	return &Evaluator{pawns: newPawnCache(1 << 16)}
}

// Evaluate returns a centipawn score for p from the side-to-move's
// perspective: positive favors the side to move. Mate scores are never
// returned here — those come only from the search, relative to ±MATE.
func (e *Evaluator) Evaluate(p *board.Position) Value {
	phase := gamePhase(p)
	factor := float64(phase) / gamePhaseMax

	var mid, end int32
	for c := Color(0); c < ColorLength; c++ {
		sign := int32(1)
		if c == Black {
			sign = -1
		}
		for pt := Pawn; pt <= King; pt++ {
			bb := p.PiecesBb(c, pt)
			for bb != BbZero {
				sq := bb.PopLsb()
				mid += sign * (int32(PieceValue[pt]) + pstValue(c, pt, sq, false))
				end += sign * (int32(PieceValue[pt]) + pstValue(c, pt, sq, true))
			}
		}
	}

	mid += e.pawnScore(p, true)
	end += e.pawnScore(p, false)

	blended := int32(factor*float64(mid) + (1-factor)*float64(end))
	if p.SideToMove() == Black {
		blended = -blended
	}
	return Value(blended)
}

func gamePhase(p *board.Position) int {
	phase := 0
	for c := Color(0); c < ColorLength; c++ {
		for pt := Knight; pt <= Queen; pt++ {
			phase += phaseWeight[pt] * p.PiecesBb(c, pt).PopCount()
		}
	}
	if phase > gamePhaseMax {
		phase = gamePhaseMax
	}
	return phase
}

// pawnScore adds a small structural penalty for doubled pawns (passed
// pawns are not scored), looked up through the pawn cache keyed by the pawn-only
// occupancy so repeated calls for positions sharing the same pawn shape
// skip recomputation.
func (e *Evaluator) pawnScore(p *board.Position, midgame bool) int32 {
	whitePawns := p.PiecesBb(White, Pawn)
	blackPawns := p.PiecesBb(Black, Pawn)
	if e.pawns != nil {
		if v, ok := e.pawns.get(whitePawns, blackPawns, midgame); ok {
			return v
		}
	}
	v := computePawnStructure(whitePawns, blackPawns)
	if e.pawns != nil {
		e.pawns.put(whitePawns, blackPawns, midgame, v)
	}
	return v
}

func computePawnStructure(whitePawns, blackPawns Bitboard) int32 {
	var score int32
	for f := FileA; f <= FileH; f++ {
		wc := (whitePawns & f.Bb()).PopCount()
		bc := (blackPawns & f.Bb()).PopCount()
		if wc > 1 {
			score -= int32(10 * (wc - 1))
		}
		if bc > 1 {
			score += int32(10 * (bc - 1))
		}
	}
	return score
}
