package board

import (
	"testing"

	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPositionFENRoundTrip(t *testing.T) {
	p, err := NewPositionFromFEN(StartFEN)
	require.NoError(t, err)
	assert.Equal(t, StartFEN, p.String())
}

func TestStartPositionMaterial(t *testing.T) {
	p := NewPosition()
	assert.Equal(t, 8, p.PiecesBb(White, Pawn).PopCount())
	assert.Equal(t, 8, p.PiecesBb(Black, Pawn).PopCount())
	assert.Equal(t, 1, p.PiecesBb(White, King).PopCount())
	assert.Equal(t, SqE1, p.KingSquare(White))
	assert.Equal(t, SqE8, p.KingSquare(Black))
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	p := NewPosition()
	m := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	require.True(t, p.DoMove(m, AllMoves))

	clone := p.Clone()
	require.True(t, clone.DoMove(NewMove(SqE7, SqE5, BlackPawn, PtNone, false, true, false, false), AllMoves))

	assert.NotEqual(t, p.ZobristKey(), clone.ZobristKey())
	assert.Equal(t, PieceNone, p.PieceAt(SqE5))
	assert.Equal(t, BlackPawn, clone.PieceAt(SqE5))
}

func TestBitboardPartitionInvariant(t *testing.T) {
	p := NewPosition()
	var union Bitboard
	for c := Color(0); c < ColorLength; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.PiecesBb(c, pt)
			assert.Zero(t, bb&union, "piece bitboards must not overlap")
			union |= bb
		}
	}
	assert.Equal(t, p.OccupiedAll(), union)
}

func TestZobristIncrementalMatchesRecompute(t *testing.T) {
	p := NewPosition()
	moves := []struct{ from, to Square }{
		{SqE2, SqE4}, {SqE7, SqE5}, {SqG1, SqF3}, {SqB8, SqC6},
	}
	for _, mv := range moves {
		piece := p.PieceAt(mv.from)
		m := NewMove(mv.from, mv.to, piece, PtNone, p.PieceAt(mv.to) != PieceNone, false, false, false)
		ok := p.DoMove(m, AllMoves)
		require.True(t, ok)
		before := p.ZobristKey()
		after := p.RecomputeKey()
		assert.Equal(t, before, after, "incremental key must match a full rebuild")
	}
}

func TestDoUndoMoveRoundTrip(t *testing.T) {
	p := NewPosition()
	keyBefore := p.ZobristKey()
	fenBefore := p.String()

	m := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	ok := p.DoMove(m, AllMoves)
	require.True(t, ok)
	assert.NotEqual(t, keyBefore, p.ZobristKey())

	p.UndoMove(m)
	assert.Equal(t, keyBefore, p.ZobristKey())
	assert.Equal(t, fenBefore, p.String())
}

func TestEnPassantCapture(t *testing.T) {
	p, err := NewPositionFromFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	require.NoError(t, err)
	m := NewMove(SqD4, SqE3, BlackPawn, PtNone, true, false, true, false)
	ok := p.DoMove(m, AllMoves)
	require.True(t, ok)
	assert.Equal(t, PieceNone, p.PieceAt(SqE4), "captured pawn must be removed")
	assert.Equal(t, BlackPawn, p.PieceAt(SqE3))
}

func TestCastleRightsClearedByRookMove(t *testing.T) {
	p, err := NewPositionFromFEN("r3k3/8/8/8/8/8/8/R3K3 w Qq - 0 1")
	require.NoError(t, err)
	m := NewMove(SqA1, SqB1, WhiteRook, PtNone, false, false, false, false)
	ok := p.DoMove(m, AllMoves)
	require.True(t, ok)
	assert.Zero(t, p.CastleRightsMask()&WhiteQueenside)
	assert.NotZero(t, p.CastleRightsMask()&BlackQueenside)
}

func TestIsAttackedByRook(t *testing.T) {
	p, err := NewPositionFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, p.IsAttacked(SqD1, White))
	assert.False(t, p.IsAttacked(SqB2, White))
}

func TestRepetitionDetection(t *testing.T) {
	p := NewPosition()
	seq := []struct{ from, to Square; piece Piece }{
		{SqG1, SqF3, WhiteKnight}, {SqG8, SqF6, BlackKnight},
		{SqF3, SqG1, WhiteKnight}, {SqF6, SqG8, BlackKnight},
		{SqG1, SqF3, WhiteKnight}, {SqG8, SqF6, BlackKnight},
	}
	for _, mv := range seq {
		m := NewMove(mv.from, mv.to, mv.piece, PtNone, false, false, false, false)
		require.True(t, p.DoMove(m, AllMoves))
	}
	// Only two total occurrences of the current key (ply2 and ply6) so far —
	// threefold repetition requires a third occurrence, not a second.
	assert.False(t, p.IsRepetition())

	more := []struct{ from, to Square; piece Piece }{
		{SqF3, SqG1, WhiteKnight}, {SqF6, SqG8, BlackKnight},
		{SqG1, SqF3, WhiteKnight}, {SqG8, SqF6, BlackKnight},
	}
	for _, mv := range more {
		m := NewMove(mv.from, mv.to, mv.piece, PtNone, false, false, false, false)
		require.True(t, p.DoMove(m, AllMoves))
	}
	// Now the current key has occurred at ply 2, 6, and 10 — true threefold.
	assert.True(t, p.IsRepetition())
}
