package search

import "github.com/hailam/chessplay/internal/chess"

// MaxHistory bounds the history score magnitude so it can never swamp the
// MVV/LVA band in ordering.
const MaxHistory = 400000

// Heuristics holds the killer-move and history tables used to order quiet
// moves. Both are cleared once per search root, not between iterative-
// deepening iterations of that search.
type Heuristics struct {
	killers [MaxPly][2]chess.Move
	history [2][6][64]int // [side][piece][to]
}

// NewHeuristics returns a zeroed heuristics set.
func NewHeuristics() *Heuristics {
	return &Heuristics{}
}

// Clear resets killers and history for a new search root.
func (h *Heuristics) Clear() {
	for i := range h.killers {
		h.killers[i][0] = chess.NoMove
		h.killers[i][1] = chess.NoMove
	}
	for s := range h.history {
		for p := range h.history[s] {
			for t := range h.history[s][p] {
				h.history[s][p][t] = 0
			}
		}
	}
}

// Killer1, Killer2 return the two killer moves stored for ply.
func (h *Heuristics) Killer1(ply int) chess.Move { return h.killers[ply][0] }
func (h *Heuristics) Killer2(ply int) chess.Move { return h.killers[ply][1] }

// UpdateKiller records m as the newest killer at ply, shifting the
// previous slot-0 killer down, unless m is already the top killer.
func (h *Heuristics) UpdateKiller(m chess.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

// History returns the history score for a quiet move by a given side.
func (h *Heuristics) History(side chess.Color, m chess.Move) int {
	return h.history[side][m.MovingPiece()][m.To()]
}

// UpdateHistory applies a depth*depth bonus (or penalty) to a quiet move,
// clamped to ±MaxHistory. Called both for the move that caused the
// cutoff (bonus) and for quiet moves tried before it that didn't
// (penalty), per the ordering feedback loop.
func (h *Heuristics) UpdateHistory(side chess.Color, m chess.Move, depth int, good bool) {
	bonus := depth * depth
	slot := &h.history[side][m.MovingPiece()][m.To()]
	if good {
		*slot += bonus
	} else {
		*slot -= bonus
	}
	if *slot > MaxHistory {
		*slot = MaxHistory
	}
	if *slot < -MaxHistory {
		*slot = -MaxHistory
	}
}
