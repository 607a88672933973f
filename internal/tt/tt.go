// Package tt implements the engine's direct-mapped transposition table:
// one bucket per masked key, depth-preferred replacement, and mate-score
// distance adjustment on store/read so that mate scores found at different
// plies from different search paths remain comparable once cached.
package tt

import (
	"math/bits"

	. "github.com/elinde/goknight/internal/bitboard"
)

// Flag records whether a stored score is exact or a bound, per the usual
// alpha-beta cutoff classification.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagExact
	FlagAlpha // upper bound: true score <= stored value
	FlagBeta  // lower bound: true score >= stored value
)

// mateThreshold: any score whose absolute value is at least this close to
// ValueMate is treated as ply-relative and gets adjusted on store/probe.
const mateThreshold = ValueMate - 100

// Entry is one transposition table slot.
type Entry struct {
	Key   uint64
	Depth int16
	Flag  Flag
	Score Value
	Move  Move
}

const entrySize = 24 // bytes, approximate slot footprint incl. padding

// Table is a direct-mapped transposition table sized to the nearest
// power-of-two number of entries that fits the configured megabyte budget.
type Table struct {
	entries []Entry
	mask    uint64
}

// New creates a table sized to sizeMb megabytes.
func New(sizeMb int) *Table {
	t := &Table{}
	t.Resize(sizeMb)
	return t
}

// Resize reallocates the table for a new megabyte budget and clears it.
// Only safe to call between searches.
func (t *Table) Resize(sizeMb int) {
	if sizeMb < 1 {
		sizeMb = 1
	}
	bytes := uint64(sizeMb) * 1024 * 1024
	numEntries := bytes / entrySize
	if numEntries == 0 {
		numEntries = 1
	}
	pow2 := uint64(1) << uint(bits.Len64(numEntries)-1)
	t.entries = make([]Entry, pow2)
	t.mask = pow2 - 1
}

// Clear zeroes all entries, used on ucinewgame and resize.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
}

func (t *Table) slot(key uint64) *Entry {
	return &t.entries[key&t.mask]
}

// scoreToTT adjusts an absolute (root-relative) mate score into a
// ply-relative one before storing, so that it is comparable regardless of
// which ply the node that found it sits at.
func scoreToTT(score Value, ply int) Value {
	if score >= mateThreshold {
		return score + Value(ply)
	}
	if score <= -mateThreshold {
		return score - Value(ply)
	}
	return score
}

// scoreFromTT is the inverse of scoreToTT, applied when reading a stored
// score back out at a (possibly different) ply.
func scoreFromTT(score Value, ply int) Value {
	if score >= mateThreshold {
		return score - Value(ply)
	}
	if score <= -mateThreshold {
		return score + Value(ply)
	}
	return score
}

// NotFound is returned by Probe when no usable entry exists.
const NotFound = ValueNone

// Probe looks up key; if the stored entry matches and was computed at
// depth >= the requested depth, returns a ply-adjusted, alpha/beta-capped
// score. Otherwise returns NotFound.
func (t *Table) Probe(key uint64, depth, ply int, alpha, beta Value) Value {
	e := t.slot(key)
	if e.Key != key || int(e.Depth) < depth {
		return NotFound
	}
	score := scoreFromTT(e.Score, ply)
	switch e.Flag {
	case FlagExact:
		return score
	case FlagAlpha:
		if score <= alpha {
			return alpha
		}
	case FlagBeta:
		if score >= beta {
			return beta
		}
	}
	return NotFound
}

// ProbeMove returns the stored best move for key regardless of depth, for
// move ordering purposes, or MoveNone if the key isn't present.
func (t *Table) ProbeMove(key uint64) Move {
	e := t.slot(key)
	if e.Key != key {
		return MoveNone
	}
	return e.Move
}

// Store writes an entry for key, subject to depth-preferred replacement:
// always write an empty slot or a matching key, otherwise only overwrite
// when the new search went at least as deep as what's stored.
func (t *Table) Store(key uint64, depth, ply int, score Value, flag Flag, move Move) {
	e := t.slot(key)
	if e.Key != 0 && e.Key != key && int(e.Depth) > depth {
		return
	}
	sameKey := e.Key == key
	e.Key = key
	e.Depth = int16(depth)
	e.Flag = flag
	e.Score = scoreToTT(score, ply)
	if move != MoveNone {
		e.Move = move
	} else if !sameKey {
		e.Move = MoveNone
	}
}
