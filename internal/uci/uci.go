// Package uci implements the engine's line-oriented UCI protocol handler:
// uci, isready, ucinewgame, position, go, stop, ponderhit, setoption, quit
// on input; info/bestmove on output. Modeled directly on the teacher's
// internal/uci/uci.go: a bufio.Scanner/Writer loop dispatching on the
// first whitespace-separated token of each line.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/book"
	"github.com/elinde/goknight/internal/config"
	"github.com/elinde/goknight/internal/logging"
	"github.com/elinde/goknight/internal/movegen"
	"github.com/elinde/goknight/internal/search"
	. "github.com/elinde/goknight/internal/bitboard"
)

var out = message.NewPrinter(language.English)
var log = logging.GetLog("uci")

const engineName = "goknight"
const engineAuthor = "the goknight contributors"

// Handler owns one UCI session's state: the current position, the search
// engine instance, and the input/output streams. Search itself runs on a
// dedicated goroutine per `go` command so `stop` can be processed while a
// search is in flight.
type Handler struct {
	in  *bufio.Scanner
	out *bufio.Writer

	pos      *board.Position
	searcher *search.Searcher
	book     *book.Book
	ownBook  bool
}

// NewHandler builds a Handler reading from stdin and writing to stdout.
func NewHandler() *Handler {
	pos, _ := board.NewPositionFromFEN(board.StartFEN)
	return &Handler{
		in:       bufio.NewScanner(os.Stdin),
		out:      bufio.NewWriter(os.Stdout),
		pos:      pos,
		searcher: search.NewSearcher(),
		ownBook:  config.Settings.UCI.OwnBook,
	}
}

// Loop reads and dispatches commands until "quit" or EOF.
func (h *Handler) Loop() {
	for h.in.Scan() {
		if h.handle(h.in.Text()) {
			return
		}
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// handle processes a single line, returning true if "quit" was received.
func (h *Handler) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	log.Debugf("<< %s", line)
	tokens := whitespace.Split(line, -1)

	switch tokens[0] {
	case "quit":
		return true
	case "uci":
		h.uciCommand()
	case "isready":
		h.send("readyok")
	case "ucinewgame":
		h.newGameCommand()
	case "setoption":
		h.setOptionCommand(tokens)
	case "position":
		h.positionCommand(tokens)
	case "go":
		h.goCommand(tokens)
	case "stop":
		h.searcher.Stop()
	case "ponderhit":
		h.searcher.PonderHit()
	default:
		log.Warningf("unknown command: %s", line)
	}
	return false
}

func (h *Handler) uciCommand() {
	h.send(fmt.Sprintf("id name %s", engineName))
	h.send(fmt.Sprintf("id author %s", engineAuthor))
	for _, line := range OptionLines() {
		h.send(line)
	}
	h.send("uciok")
}

func (h *Handler) newGameCommand() {
	// Stop and wait out any in-flight search before replacing pos/searcher —
	// the search goroutine holds its own Clone()d position, but the old
	// Searcher must finish before we drop our reference to it, matching the
	// teacher's NewGame, which calls StopSearch first for the same reason.
	h.searcher.Stop()
	h.searcher.WaitWhileSearching()
	h.pos, _ = board.NewPositionFromFEN(board.StartFEN)
	h.searcher = search.NewSearcher()
}

func (h *Handler) setOptionCommand(tokens []string) {
	name, value, ok := parseSetOption(tokens)
	if !ok {
		h.sendInfoString("malformed setoption command")
		return
	}
	if err := ApplyOption(name, value); err != nil {
		h.sendInfoString(err.Error())
		return
	}
	if name == "OwnBook" {
		h.ownBook = config.Settings.UCI.OwnBook
	}
	if name == "BookFile" && config.Settings.UCI.OwnBook {
		b, err := book.Load(config.Settings.UCI.BookFile)
		if err != nil {
			log.Warningf("could not load book file %q: %v", config.Settings.UCI.BookFile, err)
		} else {
			h.book = b
		}
	}
}

// parseSetOption extracts the name and value from "setoption name X value Y".
func parseSetOption(tokens []string) (name, value string, ok bool) {
	if len(tokens) < 3 || tokens[1] != "name" {
		return "", "", false
	}
	i := 2
	var nameParts []string
	for i < len(tokens) && tokens[i] != "value" {
		nameParts = append(nameParts, tokens[i])
		i++
	}
	name = strings.Join(nameParts, " ")
	if i < len(tokens) && tokens[i] == "value" {
		value = strings.Join(tokens[i+1:], " ")
	}
	return name, value, name != ""
}

func (h *Handler) positionCommand(tokens []string) {
	if len(tokens) < 2 {
		h.sendInfoString("malformed position command")
		return
	}

	i := 1
	fen := board.StartFEN
	switch tokens[1] {
	case "startpos":
		i = 2
	case "fen":
		i = 2
		var b strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			b.WriteString(tokens[i])
			b.WriteByte(' ')
			i++
		}
		if strings.TrimSpace(b.String()) != "" {
			fen = strings.TrimSpace(b.String())
		}
	default:
		h.sendInfoString(out.Sprintf("malformed position command: %v", tokens))
		return
	}

	p, err := board.NewPositionFromFEN(fen)
	if err != nil {
		h.sendInfoString(out.Sprintf("invalid fen %q: %v", fen, err))
		return
	}
	h.pos = p

	if i < len(tokens) && tokens[i] == "moves" {
		i++
		for ; i < len(tokens); i++ {
			m := moveFromUci(h.pos, tokens[i])
			if !m.IsValid() {
				h.sendInfoString(out.Sprintf("invalid move %q", tokens[i]))
				return
			}
			h.pos.DoMove(m, board.AllMoves)
		}
	}
}

// moveFromUci resolves a coordinate-notation move string ("e2e4", "e7e8q")
// against the position's legal moves; the engine never trusts a GUI-supplied
// move without verifying it is actually legal here.
func moveFromUci(p *board.Position, s string) Move {
	var ms MoveSlice
	movegen.GenLegalMoves(p, &ms)
	for i := 0; i < ms.Len(); i++ {
		if ms[i].StringUci() == s {
			return ms[i]
		}
	}
	return MoveNone
}

func (h *Handler) goCommand(tokens []string) {
	if h.searcher.IsSearching() {
		h.sendInfoString("go received while a search is already running; ignored")
		return
	}

	limits := parseGoLimits(tokens)

	if h.ownBook && h.book != nil && !limits.Ponder {
		if m, found := h.book.Probe(h.pos.ZobristKey()); found {
			h.send(fmt.Sprintf("bestmove %s", m.StringUci()))
			return
		}
	}

	// The search goroutine gets its own copy of the position: h.pos may be
	// reassigned by a later "position"/"ucinewgame" command while this
	// search is still in flight, and nothing here synchronizes such
	// reassignment with the goroutine's reads.
	posCopy := h.pos.Clone()

	h.searcher.Info = &infoWriter{h: h}
	go func() {
		result := h.searcher.Search(posCopy, limits)
		if result.Ponder != MoveNone {
			h.send(fmt.Sprintf("bestmove %s ponder %s", result.BestMove.StringUci(), result.Ponder.StringUci()))
		} else {
			h.send(fmt.Sprintf("bestmove %s", result.BestMove.StringUci()))
		}
	}()
}

// infoWriter adapts the search package's plain "info ..." lines to the
// handler's logged send() so every outbound line is mirrored to the log.
type infoWriter struct {
	h *Handler
}

func (w *infoWriter) Write(p []byte) (int, error) {
	w.h.send(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func parseGoLimits(tokens []string) *search.Limits {
	limits := search.NewLimits()
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "infinite":
			limits.Infinite = true
			i++
		case "ponder":
			limits.Ponder = true
			i++
		case "depth":
			i++
			limits.Depth = atoiOrZero(tokens, i)
			i++
		case "nodes":
			i++
			n, _ := strconv.ParseUint(safeTok(tokens, i), 10, 64)
			limits.Nodes = n
			i++
		case "mate":
			i++
			limits.Mate = atoiOrZero(tokens, i)
			i++
		case "movetime":
			i++
			ms := atoiOrZero(tokens, i)
			limits.MoveTime = time.Duration(ms) * time.Millisecond
			limits.TimeControl = true
			i++
		case "wtime":
			i++
			limits.WhiteTime = time.Duration(atoiOrZero(tokens, i)) * time.Millisecond
			limits.TimeControl = true
			i++
		case "btime":
			i++
			limits.BlackTime = time.Duration(atoiOrZero(tokens, i)) * time.Millisecond
			limits.TimeControl = true
			i++
		case "winc":
			i++
			limits.WhiteInc = time.Duration(atoiOrZero(tokens, i)) * time.Millisecond
			i++
		case "binc":
			i++
			limits.BlackInc = time.Duration(atoiOrZero(tokens, i)) * time.Millisecond
			i++
		case "movestogo":
			i++
			limits.MovesToGo = atoiOrZero(tokens, i)
			i++
		default:
			i++
		}
	}
	return limits
}

func safeTok(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return "0"
	}
	return tokens[i]
}

func atoiOrZero(tokens []string, i int) int {
	v, err := strconv.Atoi(safeTok(tokens, i))
	if err != nil {
		return 0
	}
	return v
}

func (h *Handler) sendInfoString(s string) {
	h.send("info string " + s)
	log.Warning(s)
}

func (h *Handler) send(s string) {
	log.Debugf(">> %s", s)
	_, _ = h.out.WriteString(s + "\n")
	_ = h.out.Flush()
}
