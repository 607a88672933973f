package search

import (
	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/movegen"
	"github.com/elinde/goknight/internal/tt"
	. "github.com/elinde/goknight/internal/bitboard"
)

// negamax searches p to depth from the perspective of the side to move.
// It is fail-soft: the returned score is not clamped to [alpha, beta] and
// may lie outside the window (the best score found, or a pruning
// estimate such as reverse futility's). Implements the pruning
// techniques from spec §4.10: null-move, LMR/LMP, futility, razoring,
// reverse futility, PVS with zero-window re-search, check extension.
func (s *Searcher) negamax(p *board.Position, depth int, alpha, beta Value, ply int, previousMove Move, isPV bool) Value {
	s.nodes++
	if s.nodes&2047 == 0 && s.shouldStop() {
		return 0
	}

	if ply > 0 && (p.IsRepetition() || p.HalfMoveClock() >= 100) {
		return drawScore(s.contempt, p.SideToMove())
	}

	alphaOrig := alpha
	var hashMove Move
	if s.useTT {
		if v := s.tt.Probe(p.ZobristKey(), depth, ply, alpha, beta); v != tt.NotFound && !isPV {
			return v
		}
		hashMove = s.tt.ProbeMove(p.ZobristKey())
	}

	inCheck := p.IsInCheck()
	if inCheck {
		depth++ // check extension
	}

	if depth <= 0 {
		return s.quiescence(p, alpha, beta, ply)
	}

	if ply >= MaxPly-1 {
		return s.eval.Evaluate(p)
	}

	staticEval := s.eval.Evaluate(p)

	// Reverse futility pruning: if we're already comfortably above beta at
	// shallow depth, assume the opponent can't recover and cut early.
	if s.useReverseFutility && !isPV && !inCheck && depth <= 3 && depth < len(reverseFutilityMargin) {
		if staticEval-reverseFutilityMargin[depth] >= beta {
			return staticEval - reverseFutilityMargin[depth]
		}
	}

	// Razoring: deep enough below alpha at shallow depth that only a
	// quiescence search is worth running.
	if s.useRazoring && !isPV && !inCheck && depth <= 3 {
		margin := futilityMargin[depth]
		if staticEval+margin < alpha {
			score := s.quiescence(p, alpha-margin, beta-margin, ply)
			if score+margin < alpha {
				return score
			}
		}
	}

	// Null-move pruning: skip our move entirely and see if the opponent is
	// still losing even with an extra tempo — if so, this node is unlikely
	// to need a full search.
	if s.useNullMove && !isPV && !inCheck && depth >= 3 && staticEval >= beta && hasNonPawnMaterial(p) {
		r := 3 + depth/6
		p.DoNullMove()
		score := -s.negamax(p, depth-1-r, -beta, -beta+1, ply+1, MoveNone, false)
		p.UndoNullMove()
		if s.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	var ms MoveSlice
	movegen.GenPseudoLegalMoves(p, &ms)
	scored := orderMoves(p, ms, ply, hashMove, previousMove, s.tables)

	legalCount := 0
	best := -ValueMate
	bestMove := MoveNone
	var triedQuiets []Move

	futilityPrune := s.useFutility && !isPV && !inCheck && depth <= len(futilityMargin)-1 &&
		staticEval+futilityMargin[depth] <= alpha

	for _, sm := range scored {
		m := sm.move
		isQuiet := m.IsQuiet()
		victimClass := PtNone
		if m.IsCapture() {
			if m.IsEnPassant() {
				victimClass = Pawn
			} else {
				victimClass = p.PieceAt(m.To()).TypeOf()
			}
		}

		// Late move pruning: beyond the move-count margin, skip remaining
		// quiet moves outright at shallow depth in a non-PV node.
		if s.useLmp && !isPV && !inCheck && isQuiet && depth <= 15 &&
			legalCount >= lateMovePruningMargin(depth) {
			continue
		}

		if futilityPrune && isQuiet && legalCount > 0 {
			continue
		}

		if !p.DoMove(m, board.AllMoves) {
			continue
		}
		legalCount++
		givesCheck := p.IsInCheck()

		newDepth := depth - 1
		var score Value

		if legalCount == 1 {
			score = -s.negamax(p, newDepth, -beta, -alpha, ply+1, m, isPV)
		} else {
			reduction := 0
			if s.useLmr && !givesCheck && isQuiet && depth >= 3 && legalCount >= 4 {
				reduction = baseLmr(depth, legalCount)
				if isPV {
					reduction--
				}
				if reduction < 0 {
					reduction = 0
				}
				if newDepth-reduction < 1 {
					reduction = newDepth - 1
				}
			}

			score = -s.negamax(p, newDepth-reduction, -alpha-1, -alpha, ply+1, m, false)
			if score > alpha && reduction > 0 {
				score = -s.negamax(p, newDepth, -alpha-1, -alpha, ply+1, m, false)
			}
			if score > alpha && score < beta {
				score = -s.negamax(p, newDepth, -beta, -alpha, ply+1, m, true)
			}
		}

		p.UndoMove(m)
		if s.stopped {
			return 0
		}

		if isQuiet {
			triedQuiets = append(triedQuiets, m)
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
			}
		}

		if alpha >= beta {
			s.tables.UpdateOnCutoff(p.SideToMove(), depth, ply, m, victimClass, previousMove, triedQuiets)
			break
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -ValueMate + Value(ply)
		}
		return drawScore(s.contempt, p.SideToMove())
	}

	if s.useTT {
		flag := tt.FlagExact
		if best <= alphaOrig {
			flag = tt.FlagAlpha
		} else if best >= beta {
			flag = tt.FlagBeta
		}
		s.tt.Store(p.ZobristKey(), depth, ply, best, flag, bestMove)
	}

	return best
}

// drawScore applies the contempt setting: a positive contempt value makes
// a draw score -contempt for whichever side is to move at the drawn node.
// side is not consulted and material is not considered, so the side whose
// move reaches the draw sees it as +contempt.
func drawScore(contempt int, side Color) Value {
	return -Value(contempt)
}

func hasNonPawnMaterial(p *board.Position) bool {
	side := p.SideToMove()
	for pt := Knight; pt <= Queen; pt++ {
		if p.PiecesBb(side, pt) != BbZero {
			return true
		}
	}
	return false
}
