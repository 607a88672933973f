// Package zobrist holds the random key tables used to compute a position's
// Zobrist fingerprint, and the deterministic generator that seeds them so
// that independent builds of the engine agree on the same keys for the
// same position (required for cross-process TT/repetition agreement).
package zobrist

import "github.com/elinde/goknight/internal/bitboard"

// PieceKey[piece][square], SideKey, CastleKey[mask 0..15], EnPassantKey[square].
var (
	PieceKey     [bitboard.PieceLength][bitboard.SqLength]uint64
	SideKey      uint64
	CastleKey    [16]uint64
	EnPassantKey [bitboard.SqLength]uint64
)

// seed is the fixed starting state for the key generator; any deterministic
// seed works as long as every build uses the same one.
const seed uint64 = 1070372

type xorshift64 struct {
	state uint64
}

func newGenerator(s uint64) *xorshift64 {
	return &xorshift64{state: s}
}

// next produces the next 64-bit pseudo-random value via xorshift64*.
func (g *xorshift64) next() uint64 {
	g.state ^= g.state >> 12
	g.state ^= g.state << 25
	g.state ^= g.state >> 27
	return g.state * 2685821657736338717
}

func init() {
	gen := newGenerator(seed)
	for p := 0; p < bitboard.PieceLength; p++ {
		for s := 0; s < bitboard.SqLength; s++ {
			PieceKey[p][s] = gen.next()
		}
	}
	SideKey = gen.next()
	for m := 0; m < 16; m++ {
		CastleKey[m] = gen.next()
	}
	for s := 0; s < bitboard.SqLength; s++ {
		EnPassantKey[s] = gen.next()
	}
}
