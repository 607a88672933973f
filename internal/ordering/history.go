// Package ordering holds the search's move-ordering heuristics: killer
// moves, history and butterfly counters, counter-moves, and
// capture-history. The per-node move scoring and sorting that reads these
// tables lives in the search package.
package ordering

import (
	. "github.com/elinde/goknight/internal/bitboard"
)

// Tables bundles the search-global aging heuristic tables. Lifetime is one
// engine process; values are halved at the start of each new search rather
// than cleared, so long-lived trends survive across moves within a game.
type Tables struct {
	History      [ColorLength][SqLength][SqLength]int32
	Butterfly    [ColorLength][SqLength][SqLength]int32
	CounterMove  [PieceLength][SqLength]Move
	CaptureHist  [PieceLength][SqLength][PtLength]int32

	Killers [MaxPly][2]Move
}

// NewTables returns a freshly zeroed heuristic set.
func NewTables() *Tables {
	return &Tables{}
}

// Age halves every aging table; called once at the start of each search
// (iterative deepening's first step) so stale information fades without
// being discarded outright.
func (t *Tables) Age() {
	for c := Color(0); c < ColorLength; c++ {
		for f := Square(0); f < SqLength; f++ {
			for to := Square(0); to < SqLength; to++ {
				t.History[c][f][to] /= 2
				t.Butterfly[c][f][to] /= 2
			}
		}
	}
	for pc := Piece(0); pc < PieceLength; pc++ {
		for to := Square(0); to < SqLength; to++ {
			for v := PieceType(0); v < PtLength; v++ {
				t.CaptureHist[pc][to][v] /= 2
			}
		}
	}
}

// ClearKillers resets the per-ply killer table; used on ucinewgame and at
// the start of every new search (killers from a previous search's tree
// carry no information about this one).
func (t *Tables) ClearKillers() {
	for i := range t.Killers {
		t.Killers[i] = [2]Move{}
	}
}

// AddKiller shifts m into the first killer slot for ply, demoting the
// previous first killer to second, if m isn't already the first killer.
func (t *Tables) AddKiller(ply int, m Move) {
	if t.Killers[ply][0] == m {
		return
	}
	t.Killers[ply][1] = t.Killers[ply][0]
	t.Killers[ply][0] = m
}

// IsKiller reports whether m is either killer move recorded for ply.
func (t *Tables) IsKiller(ply int, m Move) bool {
	return t.Killers[ply][0] == m || t.Killers[ply][1] == m
}

const historyClamp = 16000

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UpdateOnCutoff credits the move that caused a beta cutoff and applies a
// malus to every quiet move tried earlier at this node (so moves ordered
// badly relative to the eventual cutoff get pushed down next time).
func (t *Tables) UpdateOnCutoff(side Color, depth int, ply int, cutoff Move, victimClass PieceType, previousMove Move, triedQuiets []Move) {
	bonus := int32(depth * depth)
	if cutoff.IsQuiet() {
		t.AddKiller(ply, cutoff)
		from, to := cutoff.From(), cutoff.To()
		t.History[side][from][to] = clamp32(t.History[side][from][to]+bonus, -historyClamp, historyClamp)
		t.Butterfly[side][from][to] = clamp32(t.Butterfly[side][from][to]+bonus, -historyClamp, historyClamp)
		if previousMove != MoveNone {
			t.CounterMove[previousMove.MovingPiece()][previousMove.To()] = cutoff
		}
	} else if cutoff.IsCapture() {
		t.CaptureHist[cutoff.MovingPiece()][cutoff.To()][victimClass] += int32(depth*depth) * 4
	}

	malus := -bonus / 2
	for _, m := range triedQuiets {
		if m == cutoff || !m.IsQuiet() {
			continue
		}
		from, to := m.From(), m.To()
		t.History[side][from][to] = clamp32(t.History[side][from][to]+malus, -historyClamp, historyClamp)
	}
}

// QuietScore is the ordering score for a quiet (non-capture, non-promotion)
// move: clamp(history + butterfly/4).
func (t *Tables) QuietScore(side Color, m Move) int32 {
	from, to := m.From(), m.To()
	score := t.History[side][from][to] + t.Butterfly[side][from][to]/4
	return clamp32(score, -historyClamp, historyClamp)
}

// CaptureHistoryScore returns the capture-history bonus for a capturing
// move, indexed [attacker piece][to][victim class] per the reconciled
// indexing scheme.
func (t *Tables) CaptureHistoryScore(m Move, victim PieceType) int32 {
	return t.CaptureHist[m.MovingPiece()][m.To()][victim]
}

// CounterMoveFor returns the recorded counter-move reply to previousMove,
// or MoveNone.
func (t *Tables) CounterMoveFor(previousMove Move) Move {
	if previousMove == MoveNone {
		return MoveNone
	}
	return t.CounterMove[previousMove.MovingPiece()][previousMove.To()]
}
