package search

import (
	"time"

	. "github.com/elinde/goknight/internal/bitboard"
)

// Limits carries the caller's search-control parameters from a single `go`
// command.
type Limits struct {
	Infinite bool
	Ponder   bool

	Depth int // 0 = unbounded
	Nodes uint64
	Mate  int
	SearchMoves MoveSlice

	TimeControl bool
	WhiteTime   time.Duration
	BlackTime   time.Duration
	WhiteInc    time.Duration
	BlackInc    time.Duration
	MoveTime    time.Duration
	MovesToGo   int
}

// NewLimits returns an empty Limits (infinite search until Depth/MoveTime
// etc are set).
func NewLimits() *Limits {
	return &Limits{}
}
