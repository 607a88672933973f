package movegen

import (
	"testing"

	"github.com/elinde/goknight/internal/board"
	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPositionHasTwentyLegalMoves(t *testing.T) {
	p := board.NewPosition()
	var ms MoveSlice
	GenLegalMoves(p, &ms)
	assert.Equal(t, 20, ms.Len())
}

// perft is the standard move-generation correctness test: count leaf nodes
// at a given depth and compare against known-correct values.
func perft(p *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ms MoveSlice
	GenPseudoLegalMoves(p, &ms)
	var nodes uint64
	for i := 0; i < ms.Len(); i++ {
		m := ms[i]
		if !p.DoMove(m, board.AllMoves) {
			continue
		}
		nodes += perft(p, depth-1)
		p.UndoMove(m)
	}
	return nodes
}

func TestPerftStartPosition(t *testing.T) {
	p := board.NewPosition()
	// well-known perft results for the initial position.
	assert.EqualValues(t, 20, perft(p, 1))
	assert.EqualValues(t, 400, perft(p, 2))
	assert.EqualValues(t, 8902, perft(p, 3))
}

func TestPerftStartPositionDepthSix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	p := board.NewPosition()
	assert.EqualValues(t, 119060324, perft(p, 6))
}

func TestPerftKiwipete(t *testing.T) {
	p, err := board.NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.EqualValues(t, 48, perft(p, 1))
	assert.EqualValues(t, 2039, perft(p, 2))
}

func TestPerftKiwipeteDepthFive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	p, err := board.NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.EqualValues(t, 193690690, perft(p, 5))
}

func TestCastlingGeneratedWhenLegal(t *testing.T) {
	p, err := board.NewPositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	var ms MoveSlice
	GenLegalMoves(p, &ms)
	found := false
	for i := 0; i < ms.Len(); i++ {
		if ms[i].IsCastle() && ms[i].From() == SqE1 && ms[i].To() == SqG1 {
			found = true
		}
	}
	assert.True(t, found, "kingside castle must be among legal moves")
}

func TestCastlingBlockedThroughCheck(t *testing.T) {
	// The black bishop on h3 attacks f1, the square the king crosses when
	// castling kingside, so e1g1 must not be generated.
	p, err := board.NewPositionFromFEN("r3k2r/8/8/8/8/7b/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	var ms MoveSlice
	GenLegalMoves(p, &ms)
	for i := 0; i < ms.Len(); i++ {
		if ms[i].IsCastle() {
			assert.NotEqual(t, SqG1, ms[i].To(), "castling through an attacked square must be illegal")
		}
	}
}

func TestHasLegalMoveDetectsStalemate(t *testing.T) {
	// classic stalemate position: black king a8, white king c7, white queen b6.
	p, err := board.NewPositionFromFEN("k7/2K5/1Q6/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.False(t, HasLegalMove(p))
	assert.False(t, p.IsInCheck())
}
