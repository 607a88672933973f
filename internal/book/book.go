// Package book implements the engine's opening book: a table mapping a
// position's Zobrist key to one or more candidate moves with relative
// weights, loaded from a small binary file format. Unlike the teacher's
// openingbook package (which parses SIMPLE/SAN/PGN game-database text
// formats), the book contract here only needs position-keyed move lookup,
// so the on-disk format is a flat binary table read with encoding/binary.
package book

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/rand"
	"os"

	"github.com/elinde/goknight/internal/logging"
	. "github.com/elinde/goknight/internal/bitboard"
)

var log = logging.GetLog("book")

// entry is one candidate reply recorded for a position.
type entry struct {
	move   Move
	weight uint32
}

// Book maps a Zobrist key to its recorded candidate moves.
type Book struct {
	positions map[uint64][]entry
}

// magic is the 4-byte file signature written at the start of every book
// file, guarding against loading an unrelated binary by accident.
const magic = uint32(0x676b6231) // "gkb1"

// Load reads a book file in the engine's binary format:
//
//	uint32 magic
//	uint32 entryCount
//	entryCount * { uint64 zobristKey, uint32 move, uint32 weight }
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var gotMagic, count uint32
	if err := binary.Read(r, binary.LittleEndian, &gotMagic); err != nil {
		return nil, err
	}
	if gotMagic != magic {
		return nil, errInvalidFormat
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	b := &Book{positions: make(map[uint64][]entry, count)}
	for i := uint32(0); i < count; i++ {
		var key uint64
		var mv, weight uint32
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &mv); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &weight); err != nil {
			return nil, err
		}
		b.positions[key] = append(b.positions[key], entry{move: Move(mv), weight: weight})
	}

	log.Infof("opening book loaded: %d positions from %s", len(b.positions), path)
	return b, nil
}

type formatError string

func (e formatError) Error() string { return string(e) }

const errInvalidFormat = formatError("book: invalid file signature")

// Probe returns a candidate move for the given Zobrist key, selected by
// weighted random choice among the recorded replies, and whether any
// reply was found at all.
func (b *Book) Probe(zobristKey uint64) (Move, bool) {
	if b == nil {
		return MoveNone, false
	}
	candidates, ok := b.positions[zobristKey]
	if !ok || len(candidates) == 0 {
		return MoveNone, false
	}

	total := uint32(0)
	for _, c := range candidates {
		total += c.weight
	}
	if total == 0 {
		return candidates[0].move, true
	}

	pick := uint32(rand.Intn(int(total)))
	for _, c := range candidates {
		if pick < c.weight {
			return c.move, true
		}
		pick -= c.weight
	}
	return candidates[len(candidates)-1].move, true
}
