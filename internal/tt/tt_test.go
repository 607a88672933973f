package tt

import (
	"testing"

	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/stretchr/testify/assert"
)

func TestStoreAndProbeExact(t *testing.T) {
	table := New(1)
	key := uint64(0x1234)
	m := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	table.Store(key, 4, 0, 150, FlagExact, m)

	v := table.Probe(key, 4, 0, -ValueMate, ValueMate)
	assert.Equal(t, Value(150), v)
	assert.Equal(t, m, table.ProbeMove(key))
}

func TestProbeMissReturnsNotFound(t *testing.T) {
	table := New(1)
	v := table.Probe(0xdeadbeef, 4, 0, -ValueMate, ValueMate)
	assert.Equal(t, Value(NotFound), v)
}

func TestProbeRespectsBoundFlags(t *testing.T) {
	table := New(1)
	key := uint64(0x5678)
	table.Store(key, 6, 0, 100, FlagAlpha, MoveNone)
	// an upper bound of 100 lies above alpha=50, so it cannot produce a cutoff.
	v := table.Probe(key, 6, 0, 50, ValueMate)
	assert.Equal(t, Value(NotFound), v)
}

func TestMateScoreIsPlyAdjusted(t *testing.T) {
	table := New(1)
	key := uint64(0x9999)
	mateScore := ValueMate - 3
	table.Store(key, 10, 2, mateScore, FlagExact, MoveNone)
	// probing from a different ply must not return the raw stored score
	// verbatim for actual mate distances; the round trip at the same ply
	// must still be exact.
	v := table.Probe(key, 10, 2, -ValueMate, ValueMate)
	assert.Equal(t, mateScore, v)
	// two plies deeper, the same mate is two plies further from the root.
	assert.Equal(t, mateScore-2, table.Probe(key, 10, 4, -ValueMate, ValueMate))
}

func TestStoreKeepsMoveOnSameKeyRestore(t *testing.T) {
	table := New(1)
	m1 := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	table.Store(1, 4, 0, 10, FlagExact, m1)
	assert.Equal(t, m1, table.ProbeMove(1))

	// a deeper re-store of the same key without a move keeps the previous
	// move: it's still a useful hash-move hint for ordering even though
	// this particular re-search didn't produce a new one.
	table.Store(1, 6, 0, 20, FlagExact, MoveNone)
	assert.Equal(t, m1, table.ProbeMove(1))
}

func TestStoreOnDifferentKeyDoesNotInheritStaleMove(t *testing.T) {
	table := New(1)
	m1 := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	table.Store(1, 4, 0, 10, FlagExact, m1)

	// find a second key that maps to the same slot as key 1 by scanning
	// nearby keys against the table's internal size (power-of-two mask),
	// then overwrite that slot with a deeper entry and no move.
	for k := uint64(2); k < 1<<20; k++ {
		table.Store(k, 10, 0, 30, FlagExact, MoveNone)
		if table.ProbeMove(1) != m1 {
			// slot got reused for key k; the stale move from key 1 must
			// not have survived onto k's own entry.
			assert.Equal(t, MoveNone, table.ProbeMove(k))
			return
		}
	}
}
