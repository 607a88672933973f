package attacks

import (
	. "github.com/elinde/goknight/internal/bitboard"
)

// magicEntry holds the precomputed lookup machinery for one square and one
// slider type: the relevant-occupancy mask, the discovered magic multiplier,
// the shift to apply after multiplication, and the flat attack table it
// indexes into.
type magicEntry struct {
	mask    Bitboard
	magic   Bitboard
	shift   uint
	attacks []Bitboard
}

func (m *magicEntry) index(occupied Bitboard) uint {
	occ := occupied & m.mask
	occ *= m.magic
	return uint(occ >> m.shift)
}

var (
	bishopMagics [SqLength]magicEntry
	rookMagics   [SqLength]magicEntry
)

var bishopDirs = [4]Direction{Northeast, Northwest, Southeast, Southwest}
var rookDirs = [4]Direction{North, South, East, West}

// fileStep returns the file change (+1, -1 or 0) of one step in direction d.
func fileStep(d Direction) int {
	switch d {
	case East, Northeast, Southeast:
		return 1
	case West, Northwest, Southwest:
		return -1
	}
	return 0
}

// slidingAttack traces rays in the given directions from sq across the
// given occupancy, stopping at (and including) the first blocker. Only
// used at startup to build reference tables; never on the search hot path.
func slidingAttack(dirs [4]Direction, sq Square, occupied Bitboard) Bitboard {
	var attack Bitboard
	for _, d := range dirs {
		step := fileStep(d)
		s := sq
		for {
			prevFile := s.FileOf()
			next := s.To(d)
			if !next.IsValid() {
				break
			}
			if step != 0 && int(next.FileOf())-int(prevFile) != step {
				break
			}
			s = next
			attack.PushSquare(s)
			if occupied.Has(s) {
				break
			}
		}
	}
	return attack
}

// edgeMask returns the board-edge squares excluded from the relevant-blocker
// mask for sq: reaching an edge never changes where the ray stops mattering,
// except the edge in the direction of travel itself which is handled by
// slidingAttack's inclusive stop.
func edgeMask(sq Square) Bitboard {
	return ((RankMask[Rank8] | RankMask[Rank1]) &^ sq.RankOf().Bb()) |
		((FileMask[FileA] | FileMask[FileH]) &^ sq.FileOf().Bb())
}

type xorshiftPrng struct{ s uint64 }

func newPrng(seed uint64) *xorshiftPrng { return &xorshiftPrng{s: seed} }

func (r *xorshiftPrng) rand64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// sparseRand draws a value with roughly 1/8 of its bits set on average,
// which converges to a working magic multiplier far faster than a uniform
// draw.
func (r *xorshiftPrng) sparseRand() uint64 {
	return r.rand64() & r.rand64() & r.rand64()
}

var magicSeeds = [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

// initMagics discovers, for every square, a multiplier such that multiplying
// any subset of the relevant-blocker mask by it and shifting right produces
// a collision-free index into a dense attack table — the "fancy magic
// bitboard" technique.
func initMagics(entries *[SqLength]magicEntry, dirs [4]Direction) {
	var occupancy [4096]Bitboard
	var reference [4096]Bitboard
	var epoch [4096]int

	table := make([]Bitboard, 0, SqLength*4096)

	for sq := Square(0); sq < SqLength; sq++ {
		e := &entries[sq]
		e.mask = slidingAttack(dirs, sq, BbZero) &^ edgeMask(sq)
		e.shift = uint(64 - e.mask.PopCount())

		size := 0
		var b Bitboard
		for {
			occupancy[size] = b
			reference[size] = slidingAttack(dirs, sq, b)
			size++
			b = (b - e.mask) & e.mask
			if b == 0 {
				break
			}
		}

		offset := len(table)
		table = table[:offset+size]
		e.attacks = table[offset : offset+size]

		rng := newPrng(magicSeeds[sq.RankOf()])
		cnt := 0
		for i := 0; i < size; {
			var candidate Bitboard
			for {
				candidate = Bitboard(rng.sparseRand())
				if ((candidate * e.mask) >> 56).PopCount() < 6 {
					break
				}
			}
			e.magic = candidate
			cnt++
			for i = 0; i < size; i++ {
				idx := e.index(occupancy[i])
				if epoch[idx] < cnt {
					epoch[idx] = cnt
					e.attacks[idx] = reference[i]
				} else if e.attacks[idx] != reference[i] {
					break
				}
			}
		}
	}
}

func initSliders() {
	initMagics(&bishopMagics, bishopDirs)
	initMagics(&rookMagics, rookDirs)
}

// GetBishopAttacks returns the bishop attack set from sq given the full
// board occupancy.
func GetBishopAttacks(sq Square, occupied Bitboard) Bitboard {
	e := &bishopMagics[sq]
	return e.attacks[e.index(occupied)]
}

// GetRookAttacks returns the rook attack set from sq given the full board
// occupancy.
func GetRookAttacks(sq Square, occupied Bitboard) Bitboard {
	e := &rookMagics[sq]
	return e.attacks[e.index(occupied)]
}

// GetQueenAttacks is the union of bishop and rook attacks from sq.
func GetQueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return GetBishopAttacks(sq, occupied) | GetRookAttacks(sq, occupied)
}

// GetAttacksBb dispatches to the correct attack table for a piece type.
// Pawn is deliberately excluded: pawn attacks depend on color, not just
// square, so callers use GetPawnAttacks directly.
func GetAttacksBb(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Knight:
		return GetKnightAttacks(sq)
	case King:
		return GetKingAttacks(sq)
	case Bishop:
		return GetBishopAttacks(sq, occupied)
	case Rook:
		return GetRookAttacks(sq, occupied)
	case Queen:
		return GetQueenAttacks(sq, occupied)
	}
	return BbZero
}

func init() {
	initLeapers()
	initSliders()
}
