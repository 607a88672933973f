package search

import (
	"sort"

	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/ordering"
	"github.com/elinde/goknight/internal/see"
	. "github.com/elinde/goknight/internal/bitboard"
)

// Move-ordering score bands, highest first, per the spec's ordering table.
const (
	scoreHashMove       = 30000
	scoreQueenPromo     = 28000
	scoreUnderPromo     = 25000
	scoreWinningCapture = 15000
	scoreKillerOne      = 9000
	scoreKillerTwo      = 8500
	scoreCounterMove    = 8000
	scoreQuietLo        = -8000
	scoreQuietHi        = 8000
)

// scoredMove pairs a pseudo-legal move with its ordering score so the move
// list can be sorted once per node and iterated in best-first order.
type scoredMove struct {
	move  Move
	score int32
}

// orderMoves scores every move in ms against the node's context (hash move,
// killers, counter-move, and the shared history tables) and returns them
// sorted best-first. Capture moves are scored by SEE/MVV-LVA; quiet moves
// by the butterfly/history heuristic.
func orderMoves(p *board.Position, ms MoveSlice, ply int, hashMove Move, previousMove Move, tables *ordering.Tables) []scoredMove {
	side := p.SideToMove()
	scored := make([]scoredMove, 0, ms.Len())
	counterMove := tables.CounterMoveFor(previousMove)

	for i := 0; i < ms.Len(); i++ {
		m := ms[i]
		scored = append(scored, scoredMove{move: m, score: scoreMove(p, m, ply, hashMove, counterMove, tables, side)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

func scoreMove(p *board.Position, m Move, ply int, hashMove Move, counterMove Move, tables *ordering.Tables, side Color) int32 {
	if m == hashMove {
		return scoreHashMove
	}

	if promo := m.Promotion(); promo != PtNone {
		if promo == Queen {
			return scoreQueenPromo
		}
		return scoreUnderPromo + int32(promo)
	}

	if m.IsCapture() {
		victim := PtNone
		if m.IsEnPassant() {
			victim = Pawn
		} else {
			victim = p.PieceAt(m.To()).TypeOf()
		}
		seeValue := see.See(p, m)
		if seeValue >= 0 {
			return scoreWinningCapture + int32(PieceValue[victim])*8 - int32(PieceValue[m.MovingPiece().TypeOf()])
		}
		return int32(seeValue)
	}

	if tables.IsKiller(ply, m) {
		if tables.Killers[ply][0] == m {
			return scoreKillerOne
		}
		return scoreKillerTwo
	}

	if counterMove != MoveNone && counterMove == m {
		return scoreCounterMove
	}

	q := tables.QuietScore(side, m)
	if q < scoreQuietLo {
		return scoreQuietLo
	}
	if q > scoreQuietHi {
		return scoreQuietHi
	}
	return q
}
