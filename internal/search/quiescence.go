package search

import (
	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/movegen"
	"github.com/elinde/goknight/internal/see"
	. "github.com/elinde/goknight/internal/bitboard"
)

// quiescence searches captures (and, while in check, all evasions) until
// the position is quiet, returning a score free of the horizon effect on
// tactical lines. Per spec §4.9: stand-pat cutoff, delta pruning, and SEE
// filtering of losing captures.
func (s *Searcher) quiescence(p *board.Position, alpha, beta Value, ply int) Value {
	s.nodes++
	if s.shouldStop() {
		return 0
	}

	inCheck := p.IsInCheck()
	var standPat Value
	if !inCheck {
		standPat = s.eval.Evaluate(p)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var ms MoveSlice
	if inCheck {
		movegen.GenLegalMoves(p, &ms)
	} else {
		movegen.GenPseudoLegalMoves(p, &ms)
	}

	const deltaMargin = Value(200)
	best := standPat

	scored := orderMoves(p, ms, ply, MoveNone, MoveNone, s.tables)
	for _, sm := range scored {
		m := sm.move
		if !inCheck {
			if !m.IsCapture() && !m.IsPromotion() {
				continue
			}
			if m.IsCapture() && !m.IsEnPassant() {
				victim := PieceValue[p.PieceAt(m.To()).TypeOf()]
				if standPat+victim+deltaMargin < alpha {
					continue
				}
				if see.See(p, m) < 0 {
					continue
				}
			}
		}

		if !p.DoMove(m, board.AllMoves) {
			continue
		}
		score := -s.quiescence(p, -beta, -alpha, ply+1)
		p.UndoMove(m)

		if s.stopped {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					return beta
				}
			}
		}
	}

	if inCheck && len(scored) == 0 {
		return -ValueMate + Value(ply)
	}

	return best
}
