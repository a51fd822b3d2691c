// Package search implements iterative-deepening alpha-beta search with
// aspiration windows, principal-variation search, reverse futility
// pruning, late-move reductions, and killer/history move ordering, on top
// of the position and move-generation types in internal/chess and
// internal/movegen.
package search

import (
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/hailam/chessplay/internal/chess"
	"github.com/hailam/chessplay/internal/movegen"
)

// Search bound constants.
const (
	Infinity      = 30000
	MateScore     = 29000
	MateThreshold = MateScore - MaxPly
	MaxPly        = 128
)

// Tunables for reverse futility pruning and late-move reduction, named
// directly after §4.K's pseudocode.
const (
	rfpMaxDepth = 6
	rfpMargin   = 80

	lmrOffset = -0.25
	lmrScale  = 2.25

	nmpMinDepth = 3
	nmpBaseR    = 3
	nmpDepthDiv = 6
)

// pvTable tracks the principal variation found at each ply, updated by
// concatenation whenever a child search raises alpha.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]chess.Move
}

// Result is the outcome of a completed (or partially completed, if
// cancelled) search.
type Result struct {
	BestMove chess.Move
	Score    int
	PV       []chess.Move
	Depth    int
	Nodes    uint64
}

// Info is a snapshot of search progress, reported once per completed
// iterative-deepening iteration via Engine.OnInfo.
type Info struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	HashFull int
	PV       []chess.Move
}

// Engine drives a single-threaded iterative-deepening search over one
// board at a time. It owns the transposition table and heuristic tables
// across the lifetime of a game, clearing the heuristics (not the TT)
// at the start of each new search root.
type Engine struct {
	tt *TranspositionTable
	h  *Heuristics

	board *chess.Board
	nodes uint64
	stop  atomic.Bool

	pv pvTable

	tm      *TimeManager
	limits  UCILimits
	started time.Time

	// OnInfo, if set, is called once per completed iteration with the
	// current search progress, formatted for UCI "info" output by the
	// caller.
	OnInfo func(Info)
}

// NewEngine creates an Engine with a transposition table sized ttSizeMB
// megabytes.
func NewEngine(ttSizeMB int) *Engine {
	return &Engine{
		tt: NewTranspositionTable(ttSizeMB),
		h:  NewHeuristics(),
		tm: NewTimeManager(),
	}
}

// Stop requests that the current search return as soon as possible.
func (e *Engine) Stop() { e.stop.Store(true) }

// Nodes returns the number of nodes visited by the most recent search.
func (e *Engine) Nodes() uint64 { return e.nodes }

// Search runs iterative deepening from b up to limits, returning the best
// move found by the last fully completed iteration.
func (e *Engine) Search(b *chess.Board, limits UCILimits, ply int) Result {
	e.board = b
	e.nodes = 0
	e.stop.Store(false)
	e.h.Clear()
	e.tt.NewSearch()
	e.limits = limits
	e.started = time.Now()
	e.tm.Init(limits, b.SideToMove, ply)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}

	var result Result
	prevScore := 0
	fails := 0
	stability, changes := 0, 0

	for depth := 1; depth <= maxDepth; depth++ {
		if e.shouldStop(depth) {
			break
		}

		alpha, beta := -Infinity, Infinity
		if depth > 4 && prevScore > -MateThreshold && prevScore < MateThreshold {
			margin := windowSize(depth)
			alpha, beta = prevScore-margin, prevScore+margin
		}

		var score int
		for {
			score = e.alphabeta(depth, alpha, beta, 0, true)
			if e.stop.Load() {
				break
			}
			if score <= alpha && alpha > -Infinity {
				margin := windowSize(depth) << uint(fails+1)
				fails++
				alpha = prevScore - margin
				if alpha < -Infinity || fails > 4 {
					alpha = -Infinity
				}
				continue
			}
			if score >= beta && beta < Infinity {
				margin := windowSize(depth) << uint(fails+1)
				fails++
				beta = prevScore + margin
				if beta > Infinity || fails > 4 {
					beta = Infinity
				}
				continue
			}
			break
		}

		if e.stop.Load() && depth > 1 {
			break
		}

		prevScore = score
		fails = 0

		newBest := e.pv.moves[0][0]
		if depth > 1 {
			if newBest == result.BestMove {
				stability++
				changes = 0
			} else {
				changes++
				stability = 0
			}
			if changes > 0 {
				e.tm.AdjustForInstability(changes)
			} else {
				e.tm.AdjustForStability(stability)
			}
		}

		result = Result{
			BestMove: newBest,
			Score:    score,
			PV:       e.currentPV(),
			Depth:    depth,
			Nodes:    e.nodes,
		}

		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth:    depth,
				Score:    score,
				Nodes:    e.nodes,
				Time:     time.Since(e.started),
				HashFull: e.tt.HashFull(),
				PV:       result.PV,
			})
		} else {
			log.Printf("[search] depth=%d score=%d nodes=%d nps=%.0f pv=%v",
				depth, score, e.nodes, e.nps(), result.PV)
		}

		if e.tm.PastOptimum() {
			break
		}
	}

	return result
}

func windowSize(depth int) int {
	w := 40 - depth
	if w < 10 {
		w = 10
	}
	return w
}

func (e *Engine) nps() float64 {
	elapsed := time.Since(e.started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(e.nodes) / elapsed
}

func (e *Engine) shouldStop(depth int) bool {
	if e.stop.Load() {
		return true
	}
	if e.limits.Nodes > 0 && e.nodes >= e.limits.Nodes {
		return true
	}
	return depth > 1 && e.tm.ShouldStop()
}

func (e *Engine) currentPV() []chess.Move {
	n := e.pv.length[0]
	pv := make([]chess.Move, n)
	copy(pv, e.pv.moves[0][:n])
	return pv
}

// alphabeta implements §4.K's pseudocode. isPV marks whether this node is
// on the principal variation (the root call and the first child of every
// subsequent PV node); it gates reverse futility pruning and the
// early-move reduction exemption.
func (e *Engine) alphabeta(depth, alpha, beta, ply int, isPV bool) int {
	e.pv.length[ply] = ply

	if e.nodes&2047 == 0 && (e.stop.Load() || (e.limits.Nodes > 0 && e.nodes >= e.limits.Nodes) ||
		(ply > 0 && e.tm.ShouldStop())) {
		e.stop.Store(true)
		return 0
	}
	e.nodes++

	if ply > 0 && movegen.IsDraw(e.board) {
		return 0
	}

	if depth <= 0 {
		return e.quiescence(alpha, beta, ply)
	}

	var ttMove chess.Move
	if entry, ok := e.tt.Probe(e.board.Hash); ok {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth && ply > 0 {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	inCheck := e.board.InCheck()

	if !isPV && !inCheck && depth <= rfpMaxDepth {
		s := Evaluate(e.board)
		if s-rfpMargin*depth >= beta {
			return s
		}
	}

	if !isPV && !inCheck && depth >= nmpMinDepth && beta < MateThreshold && e.board.HasNonPawnMaterial() {
		r := nmpBaseR + depth/nmpDepthDiv
		ep, hash := e.board.MakeNullMove()
		score := -e.alphabeta(depth-1-r, -beta, -beta+1, ply+1, false)
		e.board.UnmakeNullMove(ep, hash)
		if e.stop.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := movegen.Generate(e.board)
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := scoreMoves(e.board, moves, e.h, ply, ttMove)

	bestScore := -Infinity
	bestMove := chess.NoMove
	flag := TTUpperBound
	legalCount := 0

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		m := moves.Get(i)

		if err := e.board.MakeMove(m); err != nil {
			e.board.UnmakeMove(m)
			continue
		}
		legalCount++

		reduction := 0
		tactical := m.IsCapture() || m.IsPromotion()
		if !tactical && !inCheck && !(isPV && i < 2) {
			reduction = lmrReduction(depth, i+1)
			if reduction > depth-1 {
				reduction = depth - 1
			}
			if reduction < 0 {
				reduction = 0
			}
		}

		var score int
		if i == 0 {
			score = -e.alphabeta(depth-1, -beta, -alpha, ply+1, isPV)
		} else {
			score = -e.alphabeta(depth-1-reduction, -alpha-1, -alpha, ply+1, false)
			if reduction > 0 && score > alpha {
				score = -e.alphabeta(depth-1, -alpha-1, -alpha, ply+1, false)
			}
			if score > alpha && score < beta {
				score = -e.alphabeta(depth-1, -beta, -alpha, ply+1, true)
			}
		}

		e.board.UnmakeMove(m)

		if e.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m

			if score > alpha {
				alpha = score
				flag = TTExact

				e.pv.moves[ply][ply] = m
				for j := ply + 1; j < e.pv.length[ply+1]; j++ {
					e.pv.moves[ply][j] = e.pv.moves[ply+1][j]
				}
				e.pv.length[ply] = e.pv.length[ply+1]
			}
		}

		if alpha >= beta {
			if !tactical {
				e.h.UpdateKiller(m, ply)
				e.h.UpdateHistory(e.board.SideToMove, m, depth, true)
				for j := 0; j < i; j++ {
					other := moves.Get(j)
					if !other.IsCapture() && !other.IsPromotion() {
						e.h.UpdateHistory(e.board.SideToMove, other, depth, false)
					}
				}
			}
			flag = TTLowerBound
			break
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	e.tt.Store(e.board.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence resolves tactical sequences beyond the nominal search
// horizon: stand pat, then try only captures and promotions until none
// improve on alpha.
func (e *Engine) quiescence(alpha, beta, ply int) int {
	e.nodes++

	if ply >= MaxPly {
		return Evaluate(e.board)
	}

	standPat := Evaluate(e.board)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := movegen.GenerateTactical(e.board)
	scores := scoreMoves(e.board, moves, e.h, ply, chess.NoMove)

	for i := 0; i < moves.Len(); i++ {
		pickMove(moves, scores, i)
		m := moves.Get(i)

		if err := e.board.MakeMove(m); err != nil {
			e.board.UnmakeMove(m)
			continue
		}

		score := -e.quiescence(-beta, -alpha, ply+1)
		e.board.UnmakeMove(m)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// lmrReduction computes the late-move reduction for the n-th (1-based)
// move considered at a given depth, per §4.K.
func lmrReduction(depth, n int) int {
	if depth < 2 || n < 2 {
		return 0
	}
	r := lmrOffset + math.Log(float64(depth))*math.Log(float64(n))/lmrScale
	if r < 0 {
		return 0
	}
	return int(r)
}
