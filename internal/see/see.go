// Package see implements Static Exchange Evaluation: an estimate of the net
// material gain of a capture sequence beginning with a given move, using
// the standard least-valuable-attacker recurrence including X-ray
// re-attackers uncovered as sliding attackers are removed.
package see

import (
	"github.com/elinde/goknight/internal/board"
	. "github.com/elinde/goknight/internal/bitboard"
)

// See estimates the net material gain (in centipawns, from the moving
// side's perspective) of the capture sequence started by move on p.
func See(p *board.Position, move Move) Value {
	if move.IsEnPassant() {
		// the pawn that vanishes by en-passant is never worth contesting
		// the recurrence over; treat it as a straightforward pawn win.
		return PieceValue[Pawn]
	}

	var gain [32]Value
	ply := 0

	toSquare := move.To()
	fromSquare := move.From()
	movedPiece := p.PieceAt(fromSquare)
	side := p.SideToMove()

	occupied := p.OccupiedAll()
	remaining := p.AttackersTo(toSquare, occupied)

	gain[ply] = PieceValue[p.PieceAt(toSquare).TypeOf()]

	for {
		ply++
		side = side.Flip()

		if move.IsPromotion() && ply == 1 {
			gain[ply] = PieceValue[move.Promotion()] - PieceValue[Pawn] - gain[ply-1]
		} else {
			gain[ply] = PieceValue[movedPiece.TypeOf()] - gain[ply-1]
		}

		if max32(-gain[ply-1], gain[ply]) < 0 {
			break
		}

		remaining.PopSquareFrom(fromSquare)
		occupied.PopSquareFrom(fromSquare)
		remaining |= revealedAttacks(p, toSquare, occupied)

		fromSquare = leastValuableAttacker(p, remaining, side)
		if fromSquare == SqNone {
			break
		}
		movedPiece = p.PieceAt(fromSquare)
	}

	ply--
	for ply > 0 {
		gain[ply-1] = -max32(-gain[ply-1], gain[ply])
		ply--
	}
	return gain[0]
}

// SeeGe reports whether See(move) >= threshold. It computes the full See
// score and compares it; there is no early exit.
func SeeGe(p *board.Position, move Move, threshold Value) bool {
	return See(p, move) >= threshold
}

func revealedAttacks(p *board.Position, sq Square, occ Bitboard) Bitboard {
	white := p.AttackersTo(sq, occ) & occ & (p.PiecesBb(White, Bishop) | p.PiecesBb(White, Rook) | p.PiecesBb(White, Queen))
	black := p.AttackersTo(sq, occ) & occ & (p.PiecesBb(Black, Bishop) | p.PiecesBb(Black, Rook) | p.PiecesBb(Black, Queen))
	return white | black
}

func leastValuableAttacker(p *board.Position, bb Bitboard, color Color) Square {
	for pt := Pawn; pt <= King; pt++ {
		if hit := bb & p.PiecesBb(color, pt); hit != BbZero {
			return hit.Lsb()
		}
	}
	return SqNone
}

func max32(a, b Value) Value {
	if a > b {
		return a
	}
	return b
}
