package search

import (
	"time"

	"github.com/hailam/chessplay/internal/chess"
)

// UCILimits is the set of time- and depth-control parameters a UCI "go"
// command can specify.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime: remaining clock time per side
	Inc       [2]time.Duration // winc, binc: increment awarded per move
	MovesToGo int              // moves remaining until the next time control, 0 = sudden death
	MoveTime  time.Duration    // fixed per-move time, overrides the clock-based budget
	Depth     int              // hard depth cap
	Nodes     uint64           // hard node-count cap
	Infinite  bool             // ignore all budgets until Stop is called
	Ponder    bool             // search during the opponent's clock
}

// TimeManager converts a UCILimits into a per-move time budget and tracks
// elapsed time against it. The budget has two levels: optimumTime is when
// the engine would like to stop (it may run past this to finish a PV
// change), maximumTime is a hard ceiling enforced regardless.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager returns an unconfigured TimeManager; Init must be called
// before any other method.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// noLimitTime stands in for "effectively unbounded" in infinite/depth-only
// searches, where only Stop() or a node/depth cap should end the search.
const noLimitTime = time.Hour

// Init computes the time budget for one move: us is the side to move and
// ply is the current game ply, used to taper the moves-to-go estimate in
// sudden-death games.
func (tm *TimeManager) Init(limits UCILimits, us chess.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.optimumTime = noLimitTime
		tm.maximumTime = noLimitTime
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]
	movesToGo := estimateMovesToGo(limits.MovesToGo, ply)

	budget := timeLeft/time.Duration(movesToGo) + (inc*3)/4
	if ply < openingPlyCutoff {
		budget = budget * openingBudgetNumerator / openingBudgetDenominator
	}

	tm.optimumTime = clampDuration(budget, minSearchTime, timeLeft)
	tm.maximumTime = clampDuration(maxBudgetFor(tm.optimumTime, timeLeft), minMaximumTime, hardCeiling(timeLeft))
}

const (
	openingPlyCutoff          = 8
	openingBudgetNumerator    = 17
	openingBudgetDenominator  = 20 // 0.85x during the first few moves, leaving a buffer
	maxBudgetMultiplier       = 5
	remainingTimeShareForMax  = 4  // up to 1/4 of the clock on any single move
	hardCeilingPercentOf100   = 95 // never touch the last 5% of the clock
	minSearchTime             = 10 * time.Millisecond
	minMaximumTime            = 50 * time.Millisecond
)

// estimateMovesToGo returns the explicit moves-to-go if given, otherwise a
// curve that assumes 45 moves remain at the start and tapers down as
// the game lengthens, bottoming out at a floor so the budget never shrinks
// to a sliver late in a long sudden-death game.
func estimateMovesToGo(given, ply int) int {
	if given > 0 {
		return given
	}
	estimate := 45 - ply/3
	if estimate < 12 {
		return 12
	}
	if estimate > 45 {
		return 45
	}
	return estimate
}

func maxBudgetFor(optimum, timeLeft time.Duration) time.Duration {
	fromOptimum := optimum * maxBudgetMultiplier
	fromClock := timeLeft / remainingTimeShareForMax
	if fromOptimum < fromClock {
		return fromOptimum
	}
	return fromClock
}

func hardCeiling(timeLeft time.Duration) time.Duration {
	return timeLeft * hardCeilingPercentOf100 / 100
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// Elapsed returns the time spent since Init.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the soft target for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard ceiling for this move.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop reports whether the hard ceiling has been reached.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum reports whether the soft target has been reached.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// stabilityFactor maps consecutive same-best-move iterations to a
// percentage applied to the current optimum time: a best move that keeps
// recurring is unlikely to change again, so later iterations are cut
// short to save clock for moves that need it. The search applies it after
// every iteration, so successive reductions compound.
func stabilityFactor(stability int) int {
	switch {
	case stability >= 6:
		return 40
	case stability >= 4:
		return 60
	case stability >= 2:
		return 80
	default:
		return 100
	}
}

// AdjustForStability shrinks the optimum time once the best move has held
// across several consecutive iterations.
func (tm *TimeManager) AdjustForStability(stability int) {
	tm.optimumTime = tm.optimumTime * time.Duration(stabilityFactor(stability)) / 100
}

// instabilityFactor is the inverse of stabilityFactor: a best move that
// keeps flipping between iterations gets more time, capped by maximumTime.
func instabilityFactor(changes int) int {
	switch {
	case changes >= 4:
		return 200
	case changes >= 2:
		return 150
	default:
		return 100
	}
}

// AdjustForInstability grows the optimum time (never past the hard
// ceiling) when the best move keeps changing between iterations.
func (tm *TimeManager) AdjustForInstability(changes int) {
	extended := tm.optimumTime * time.Duration(instabilityFactor(changes)) / 100
	if extended > tm.maximumTime {
		extended = tm.maximumTime
	}
	tm.optimumTime = extended
}
