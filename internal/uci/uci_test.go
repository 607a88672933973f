package uci

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/config"
	"github.com/elinde/goknight/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	config.Setup()
	var buf bytes.Buffer
	p, err := board.NewPositionFromFEN(board.StartFEN)
	require.NoError(t, err)
	h := &Handler{
		in:       bufio.NewScanner(strings.NewReader("")),
		out:      bufio.NewWriter(&buf),
		pos:      p,
		searcher: search.NewSearcher(),
	}
	return h, &buf
}

func TestUciCommandAnnouncesIdentity(t *testing.T) {
	h, buf := newTestHandler(t)
	quit := h.handle("uci")
	assert.False(t, quit)
	_ = h.out.Flush()
	out := buf.String()
	assert.Contains(t, out, "id name goknight")
	assert.Contains(t, out, "uciok")
}

func TestIsReadyRespondsReadyOk(t *testing.T) {
	h, buf := newTestHandler(t)
	h.handle("isready")
	_ = h.out.Flush()
	assert.Contains(t, buf.String(), "readyok")
}

func TestQuitStopsTheLoop(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.True(t, h.handle("quit"))
}

func TestPositionCommandWithMoves(t *testing.T) {
	h, _ := newTestHandler(t)
	h.handle("position startpos moves e2e4 e7e5")
	assert.NotEqual(t, board.StartFEN, h.pos.String())
}

func TestPositionCommandWithFEN(t *testing.T) {
	h, _ := newTestHandler(t)
	fen := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	h.handle("position fen " + fen)
	assert.Equal(t, fen, h.pos.String())
}

func TestSetOptionUpdatesConfig(t *testing.T) {
	h, _ := newTestHandler(t)
	h.handle("setoption name Hash value 128")
	assert.Equal(t, 128, config.Settings.Search.TTSizeMb)
}

func TestParseSetOptionMultiWordName(t *testing.T) {
	name, value, ok := parseSetOption([]string{"setoption", "name", "Clear", "Hash", "value", "true"})
	assert.True(t, ok)
	assert.Equal(t, "Clear Hash", name)
	assert.Equal(t, "true", value)
}

func TestGoAndStopRoundTrip(t *testing.T) {
	h, buf := newTestHandler(t)
	h.handle("go infinite")

	require.Eventually(t, func() bool { return h.searcher.IsSearching() }, time.Second, time.Millisecond)
	h.handle("stop")
	h.searcher.WaitWhileSearching()

	_ = h.out.Flush()
	assert.Contains(t, buf.String(), "bestmove")
}

func TestGoRejectsOverlappingSearch(t *testing.T) {
	h, buf := newTestHandler(t)
	h.handle("go infinite")
	require.Eventually(t, func() bool { return h.searcher.IsSearching() }, time.Second, time.Millisecond)

	h.handle("go infinite")
	_ = h.out.Flush()
	assert.Contains(t, buf.String(), "already running")

	h.handle("stop")
	h.searcher.WaitWhileSearching()
}

func TestPonderhitActivatesTimeControl(t *testing.T) {
	h, buf := newTestHandler(t)
	h.handle("go ponder wtime 5000 btime 5000")
	require.Eventually(t, func() bool { return h.searcher.IsSearching() }, time.Second, time.Millisecond)

	h.handle("ponderhit")

	require.Eventually(t, func() bool {
		_ = h.out.Flush()
		return strings.Contains(buf.String(), "bestmove")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewGameWaitsOutRunningSearch(t *testing.T) {
	h, _ := newTestHandler(t)
	h.handle("go infinite")
	require.Eventually(t, func() bool { return h.searcher.IsSearching() }, time.Second, time.Millisecond)

	h.handle("ucinewgame")
	assert.False(t, h.searcher.IsSearching())
}
