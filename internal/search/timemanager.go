package search

import (
	"time"

	"github.com/elinde/goknight/internal/board"
	. "github.com/elinde/goknight/internal/bitboard"
)

// TimeManager turns a Limits struct plus the current position into a soft
// and hard stop budget for the move about to be searched.
type TimeManager struct {
	Soft time.Duration
	Hard time.Duration
	// NoLimit is true for infinite/ponder searches: only an explicit stop
	// message ends the search.
	NoLimit bool
}

func gamePhaseScore(p *board.Position) int {
	n := p.PiecesBb(White, Knight).PopCount() + p.PiecesBb(Black, Knight).PopCount()
	b := p.PiecesBb(White, Bishop).PopCount() + p.PiecesBb(Black, Bishop).PopCount()
	r := p.PiecesBb(White, Rook).PopCount() + p.PiecesBb(Black, Rook).PopCount()
	q := p.PiecesBb(White, Queen).PopCount() + p.PiecesBb(Black, Queen).PopCount()
	return n + b + 2*r + 4*q
}

// Plan computes the time budget for the next move to search, per spec
// §4.12: movetime mode subtracts a fixed safety margin; time-per-move mode
// derives an expected-moves-remaining estimate from movestogo or game
// phase, then caps and trims by a safety buffer.
func Plan(l *Limits, p *board.Position) TimeManager {
	if l.Infinite || l.Ponder {
		return TimeManager{NoLimit: true}
	}

	if l.MoveTime > 0 {
		budget := l.MoveTime - 50*time.Millisecond
		if budget < 10*time.Millisecond {
			budget = 10 * time.Millisecond
		}
		return TimeManager{Soft: budget, Hard: budget}
	}

	if !l.TimeControl {
		return TimeManager{NoLimit: true}
	}

	var myTime, myInc time.Duration
	if p.SideToMove() == White {
		myTime, myInc = l.WhiteTime, l.WhiteInc
	} else {
		myTime, myInc = l.BlackTime, l.BlackInc
	}

	phase := gamePhaseScore(p)
	expectedMoves := l.MovesToGo
	if expectedMoves <= 0 {
		expectedMoves = phase + 20
		if expectedMoves < 15 {
			expectedMoves = 15
		}
		if expectedMoves > 50 {
			expectedMoves = 50
		}
	}

	base := myTime / time.Duration(expectedMoves)
	base += myInc * 4 / 5
	if phase > 16 {
		base = time.Duration(float64(base) * 1.1)
	}

	var capFraction time.Duration
	switch {
	case myTime > 60*time.Second:
		capFraction = myTime / 5
	case myTime > 10*time.Second:
		capFraction = myTime / 6
	case myTime > 3*time.Second:
		capFraction = myTime / 8
	default:
		capFraction = myTime / 10
	}
	if base > capFraction {
		base = capFraction
	}

	var safety time.Duration
	switch {
	case myTime < time.Second:
		safety = 5 * time.Millisecond
	case myTime < 3*time.Second:
		safety = 10 * time.Millisecond
	default:
		safety = 30 * time.Millisecond
	}
	base -= safety
	if base < 10*time.Millisecond {
		base = 10 * time.Millisecond
	}

	return TimeManager{Soft: base, Hard: base}
}
