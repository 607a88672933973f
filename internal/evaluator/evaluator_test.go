package evaluator

import (
	"testing"

	"github.com/elinde/goknight/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPositionIsBalanced(t *testing.T) {
	e := New()
	p := board.NewPosition()
	assert.Zero(t, e.Evaluate(p), "symmetric starting position must evaluate to exactly zero")
}

func TestExtraQueenIsWinning(t *testing.T) {
	e := New()
	p, err := board.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	assert.Greater(t, int(e.Evaluate(p)), 800)
}

func TestEvaluationFlipsWithSideToMove(t *testing.T) {
	e := New()
	white, err := board.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	black, err := board.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, e.Evaluate(white), -e.Evaluate(black))
}

func TestPawnCacheConsistentAcrossCalls(t *testing.T) {
	e := New()
	p, err := board.NewPositionFromFEN("4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1")
	require.NoError(t, err)
	first := e.Evaluate(p)
	second := e.Evaluate(p)
	assert.Equal(t, first, second)
}
