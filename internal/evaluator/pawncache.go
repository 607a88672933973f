package evaluator

import (
	"math/bits"

	. "github.com/elinde/goknight/internal/bitboard"
)

// pawnCache is a direct-mapped cache keyed by the combined pawn occupancy
// of both colors, avoiding recomputation of pawn-structure terms across
// the many search nodes that share the same pawn shape. Modeled on the
// teacher's dedicated pawn-hash table; kept as a dependency-free array
// rather than an external cache library since the access pattern is a
// single synchronous lookup on the evaluation hot path (see DESIGN.md).
type pawnCache struct {
	entries []pawnCacheEntry
	mask    uint64
}

type pawnCacheEntry struct {
	key       uint64
	valid     bool
	midValue  int32
	endValue  int32
}

func newPawnCache(size int) *pawnCache {
	pow2 := uint64(1) << uint(bits.Len64(uint64(size))-1)
	return &pawnCache{entries: make([]pawnCacheEntry, pow2), mask: pow2 - 1}
}

func pawnKey(white, black Bitboard) uint64 {
	return uint64(white)*0x9E3779B97F4A7C15 ^ uint64(black)
}

func (c *pawnCache) get(white, black Bitboard, midgame bool) (int32, bool) {
	key := pawnKey(white, black)
	e := &c.entries[key&c.mask]
	if !e.valid || e.key != key {
		return 0, false
	}
	if midgame {
		return e.midValue, true
	}
	return e.endValue, true
}

func (c *pawnCache) put(white, black Bitboard, midgame bool, value int32) {
	key := pawnKey(white, black)
	e := &c.entries[key&c.mask]
	if e.key != key {
		*e = pawnCacheEntry{key: key}
	}
	e.valid = true
	if midgame {
		e.midValue = value
	} else {
		e.endValue = value
	}
}
