package ordering

import (
	"testing"

	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/stretchr/testify/assert"
)

func TestAddKillerShiftsSlots(t *testing.T) {
	tables := NewTables()
	m1 := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	m2 := NewMove(SqD2, SqD4, WhitePawn, PtNone, false, true, false, false)

	tables.AddKiller(5, m1)
	tables.AddKiller(5, m2)

	assert.Equal(t, m2, tables.Killers[5][0])
	assert.Equal(t, m1, tables.Killers[5][1])
	assert.True(t, tables.IsKiller(5, m1))
	assert.True(t, tables.IsKiller(5, m2))
}

func TestUpdateOnCutoffCreditsQuietMove(t *testing.T) {
	tables := NewTables()
	cutoff := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	tables.UpdateOnCutoff(White, 4, 0, cutoff, PtNone, MoveNone, nil)

	assert.Equal(t, cutoff, tables.Killers[0][0])
	assert.Greater(t, tables.QuietScore(White, cutoff), int32(0))
}

func TestUpdateOnCutoffAppliesMalusToEarlierQuiets(t *testing.T) {
	tables := NewTables()
	earlier := NewMove(SqD2, SqD4, WhitePawn, PtNone, false, true, false, false)
	cutoff := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)

	tables.UpdateOnCutoff(White, 4, 1, cutoff, PtNone, MoveNone, []Move{earlier, cutoff})

	assert.Less(t, tables.QuietScore(White, earlier), int32(0))
}

func TestAgeHalvesHistory(t *testing.T) {
	tables := NewTables()
	m := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	tables.UpdateOnCutoff(White, 8, 0, m, PtNone, MoveNone, nil)
	before := tables.QuietScore(White, m)
	tables.Age()
	after := tables.QuietScore(White, m)
	assert.Less(t, after, before)
}

func TestCounterMoveRecordedAndRetrieved(t *testing.T) {
	tables := NewTables()
	prev := NewMove(SqD2, SqD4, WhitePawn, PtNone, false, true, false, false)
	reply := NewMove(SqD7, SqD5, BlackPawn, PtNone, false, true, false, false)
	tables.UpdateOnCutoff(Black, 4, 1, reply, PtNone, prev, nil)
	assert.Equal(t, reply, tables.CounterMoveFor(prev))
}
