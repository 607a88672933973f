package search

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/elinde/goknight/internal/board"
	"github.com/elinde/goknight/internal/config"
	"github.com/elinde/goknight/internal/evaluator"
	"github.com/elinde/goknight/internal/logging"
	"github.com/elinde/goknight/internal/movegen"
	"github.com/elinde/goknight/internal/ordering"
	"github.com/elinde/goknight/internal/tt"
	. "github.com/elinde/goknight/internal/bitboard"
)

var log = logging.GetLog("search")

// Result is the outcome of a completed (or stopped) iterative-deepening
// search: the best move found and its score.
//
// PV and Ponder are never populated: negamax does not collect a principal
// variation, so Ponder is always MoveNone and PV always nil. BestMove,
// Score, Depth and Nodes are the populated fields.
type Result struct {
	BestMove Move
	Ponder   Move
	Score    Value
	Depth    int
	Nodes    uint64
	PV       []Move
}

// Searcher owns one search's mutable state: node counter, cancellation
// flag, heuristic tables, transposition table, and evaluator. A Searcher
// is reused across moves within a game so its tables and TT persist.
type Searcher struct {
	tt     *tt.Table
	tables *ordering.Tables
	eval   *evaluator.Evaluator

	useTT              bool
	useNullMove        bool
	useLmr             bool
	useLmp             bool
	useFutility        bool
	useRazoring        bool
	useReverseFutility bool
	useAspiration      bool
	contempt           int

	nodes   uint64
	stopped bool
	stop    atomic.Bool

	// Deadlines are read from negamax's goroutine and may be rewritten by
	// PonderHit from the UCI handler's goroutine while a search is in
	// flight, so they're atomics rather than plain time.Time/bool fields.
	hasDeadline      atomic.Bool
	hardDeadlineNano atomic.Int64
	softDeadlineNano atomic.Int64

	// activeLimits/activePosition let PonderHit recompute a time budget for
	// the search already in progress without touching Searcher's other
	// mutable state.
	activeLimits   atomic.Pointer[Limits]
	activePosition atomic.Pointer[board.Position]

	nodeLimit uint64

	// isRunning is held for the duration of Search, serializing access to
	// this Searcher the way the teacher's StartSearch/StopSearch pair does
	// with its own isRunning semaphore: a second Search call blocks (or, via
	// IsSearching, can be detected and refused) rather than racing the first
	// call's node counter and heuristic tables.
	isRunning *semaphore.Weighted

	Info io.Writer
}

// NewSearcher builds a Searcher from the current global config.
func NewSearcher() *Searcher {
	c := config.Settings.Search
	return &Searcher{
		tt:                 tt.New(c.TTSizeMb),
		tables:             ordering.NewTables(),
		eval:               evaluator.New(),
		useTT:              c.UseTranspositionTable,
		useNullMove:        c.UseNullMove,
		useLmr:             c.UseLmr,
		useLmp:             c.UseLmp,
		useFutility:        c.UseFutility,
		useRazoring:        c.UseRazoring,
		useReverseFutility: c.UseReverseFutility,
		useAspiration:      c.UseAspiration,
		contempt:           c.Contempt,
		isRunning:          semaphore.NewWeighted(1),
	}
}

// Stop requests cooperative cancellation of the in-progress search; negamax
// checks it every 2048 nodes and quiescence at every node, rather than via
// preemption.
func (s *Searcher) Stop() {
	s.stop.Store(true)
}

// IsSearching reports whether a search is currently in flight.
func (s *Searcher) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until any in-flight search has finished.
func (s *Searcher) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.Background(), 1)
	s.isRunning.Release(1)
}

// PonderHit converts an in-flight, unbounded ponder search into one with a
// timed budget equal to what would have been allocated had this move been
// searched normally (spec §5): it recomputes Plan() from the original
// limits with Ponder cleared and installs the resulting deadlines.
// A no-op if no ponder search is running, or if the recomputed plan has no
// limit (for example when Infinite was also set).
func (s *Searcher) PonderHit() {
	limits := s.activeLimits.Load()
	pos := s.activePosition.Load()
	if limits == nil || pos == nil || !limits.Ponder {
		return
	}
	if !s.IsSearching() {
		return
	}
	timed := *limits
	timed.Ponder = false
	tm := Plan(&timed, pos)
	now := time.Now()
	if tm.NoLimit {
		return
	}
	s.hardDeadlineNano.Store(now.Add(tm.Hard).UnixNano())
	s.softDeadlineNano.Store(now.Add(tm.Soft).UnixNano())
	s.hasDeadline.Store(true)
}

func (s *Searcher) shouldStop() bool {
	if s.stop.Load() {
		s.stopped = true
		return true
	}
	if s.hasDeadline.Load() {
		if hard := s.hardDeadlineNano.Load(); hard != 0 && time.Now().UnixNano() >= hard {
			s.stopped = true
			return true
		}
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.stopped = true
		return true
	}
	return false
}

// Search runs iterative deepening from p's position to the depth/time
// bound described by limits, writing UCI "info" lines to s.Info as each
// iteration completes, and returns the final Result.
func (s *Searcher) Search(p *board.Position, limits *Limits) Result {
	if !s.isRunning.TryAcquire(1) {
		log.Warning("Search called while another search is already running on this Searcher")
		return Result{}
	}
	defer s.isRunning.Release(1)

	s.stop.Store(false)
	s.stopped = false
	s.nodes = 0
	s.nodeLimit = limits.Nodes
	s.tables.Age()
	s.tables.ClearKillers()
	s.activeLimits.Store(limits)
	s.activePosition.Store(p)

	tm := Plan(limits, p)
	if !tm.NoLimit {
		start := time.Now()
		s.hardDeadlineNano.Store(start.Add(tm.Hard).UnixNano())
		s.softDeadlineNano.Store(start.Add(tm.Soft).UnixNano())
		s.hasDeadline.Store(true)
	} else {
		s.hasDeadline.Store(false)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = MaxPly - 1
	}

	var ms MoveSlice
	movegen.GenLegalMoves(p, &ms)
	if ms.Len() == 0 {
		s.hasDeadline.Store(false)
		s.activeLimits.Store(nil)
		s.activePosition.Store(nil)
		return Result{}
	}

	result := Result{BestMove: ms[0]}
	startTime := time.Now()

	var score Value
	for depth := 1; depth <= maxDepth; depth++ {
		var iterScore Value
		var iterMove Move
		iterScore, iterMove = s.searchRoot(p, depth, score)
		if s.stopped {
			break
		}
		score = iterScore
		result.BestMove = iterMove
		result.Score = score
		result.Depth = depth
		result.Nodes = s.nodes

		if s.Info != nil {
			elapsed := time.Since(startTime)
			nps := uint64(0)
			if elapsed > 0 {
				nps = uint64(float64(s.nodes) / elapsed.Seconds())
			}
			fmt.Fprintf(s.Info, "info depth %d score cp %d nodes %d nps %d time %d pv %s\n",
				depth, score, s.nodes, nps, elapsed.Milliseconds(), iterMove.StringUci())
		}

		if s.hasDeadline.Load() {
			if soft := s.softDeadlineNano.Load(); soft != 0 && time.Now().UnixNano() >= soft {
				break
			}
		}
		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}
	}

	s.hasDeadline.Store(false)
	s.activeLimits.Store(nil)
	s.activePosition.Store(nil)
	log.Debugf("search finished: depth=%d nodes=%d score=%d move=%s", result.Depth, result.Nodes, result.Score, result.BestMove.StringUci())
	return result
}

// searchRoot runs one iterative-deepening iteration at depth, using an
// aspiration window seeded from the previous iteration's score when
// enabled, widening on fail-high/fail-low.
func (s *Searcher) searchRoot(p *board.Position, depth int, prevScore Value) (Value, Move) {
	var ms MoveSlice
	movegen.GenLegalMoves(p, &ms)
	hashMove := s.tt.ProbeMove(p.ZobristKey())

	alpha, beta := Value(-ValueMate), Value(ValueMate)
	delta := aspirationDelta
	if s.useAspiration && depth >= 4 {
		alpha = prevScore - delta
		beta = prevScore + delta
	}

	for {
		best := Value(-ValueMate)
		bestMove := ms[0]
		a := alpha

		scored := orderMoves(p, ms, 0, hashMove, MoveNone, s.tables)
		for _, sm := range scored {
			m := sm.move
			if !p.DoMove(m, board.AllMoves) {
				continue
			}
			score := -s.negamax(p, depth-1, -beta, -a, 1, m, true)
			p.UndoMove(m)
			if s.stopped {
				return best, bestMove
			}
			if score > best {
				best = score
				bestMove = m
			}
			if best > a {
				a = best
			}
		}

		if !s.useAspiration || depth < 4 || (best > alpha && best < beta) {
			return best, bestMove
		}

		delta *= 2
		if best <= alpha {
			alpha = best - delta
			if alpha < -ValueMate {
				alpha = -ValueMate
			}
		}
		if best >= beta {
			beta = best + delta
			if beta > ValueMate {
				beta = ValueMate
			}
		}
	}
}
