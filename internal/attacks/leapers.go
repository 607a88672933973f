// Package attacks builds, once at process startup, the full set of attack
// lookup tables the engine needs: direct tables for pawns/knights/kings and
// magic-bitboard tables for bishops/rooks (queen is their union). All
// tables are immutable after init and may be read freely from any
// goroutine without locking.
package attacks

import (
	. "github.com/elinde/goknight/internal/bitboard"
)

var (
	pawnAttacks  [ColorLength][SqLength]Bitboard
	knightAttacks [SqLength]Bitboard
	kingAttacks   [SqLength]Bitboard
)

// not-file masks prevent horizontal wrap-around when shifting bits across
// the board edges.
var (
	notFileA  = ^FileMask[FileA]
	notFileH  = ^FileMask[FileH]
	notFileAB = notFileA & ^FileMask[FileB]
	notFileGH = notFileH & ^FileMask[FileG]
)

func initLeapers() {
	for s := Square(0); s < SqLength; s++ {
		single := s.Bb()

		// pawn attacks: one diagonal step forward for the given color.
		pawnAttacks[White][s] = ((single & notFileA) >> 9) | ((single & notFileH) >> 7)
		pawnAttacks[Black][s] = ((single & notFileA) << 7) | ((single & notFileH) << 9)

		// knight: eight L-shaped jumps, masked against wrap by file count.
		var k Bitboard
		k |= (single & notFileA) >> 17
		k |= (single & notFileH) >> 15
		k |= (single & notFileAB) >> 10
		k |= (single & notFileGH) >> 6
		k |= (single & notFileGH) << 10
		k |= (single & notFileAB) << 6
		k |= (single & notFileA) << 15
		k |= (single & notFileH) << 17
		knightAttacks[s] = k

		// king: eight one-step neighbors.
		var kg Bitboard
		kg |= (single & notFileA) >> 9
		kg |= single >> 8
		kg |= (single & notFileH) >> 7
		kg |= (single & notFileA) >> 1
		kg |= (single & notFileH) << 1
		kg |= (single & notFileA) << 7
		kg |= single << 8
		kg |= (single & notFileH) << 9
		kingAttacks[s] = kg
	}
}

// GetPawnAttacks returns the squares attacked by a pawn of color c on sq.
func GetPawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// GetKnightAttacks returns the knight attack set from sq.
func GetKnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// GetKingAttacks returns the king attack set from sq.
func GetKingAttacks(sq Square) Bitboard { return kingAttacks[sq] }
