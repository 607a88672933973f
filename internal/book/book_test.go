package book

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestBook(t *testing.T, entries map[uint64][][2]uint32) string {
	t.Helper()
	var buf bytes.Buffer
	count := uint32(0)
	for _, es := range entries {
		count += uint32(len(es))
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, magic))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, count))
	for key, es := range entries {
		for _, e := range es {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, key))
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, e[0]))
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, e[1]))
		}
	}

	path := filepath.Join(t.TempDir(), "test.gkb")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoadAndProbeSingleCandidate(t *testing.T) {
	m := NewMove(SqE2, SqE4, WhitePawn, PtNone, false, true, false, false)
	path := writeTestBook(t, map[uint64][][2]uint32{
		0xabc: {{uint32(m), 100}},
	})

	b, err := Load(path)
	require.NoError(t, err)

	got, found := b.Probe(0xabc)
	assert.True(t, found)
	assert.Equal(t, m, got)
}

func TestProbeMissingKeyReturnsFalse(t *testing.T) {
	path := writeTestBook(t, map[uint64][][2]uint32{})
	b, err := Load(path)
	require.NoError(t, err)

	_, found := b.Probe(0x1)
	assert.False(t, found)
}

func TestLoadRejectsBadSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gkb")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestNilBookProbeIsSafe(t *testing.T) {
	var b *Book
	_, found := b.Probe(0x1)
	assert.False(t, found)
}
