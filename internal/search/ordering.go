package search

import "github.com/hailam/chessplay/internal/chess"

// Ordering score bands, highest first. Bands never overlap so a move's
// tier alone determines its relative order; the formula within a tier
// only breaks ties inside it.
const (
	ttMoveScore  = 1 << 30
	captureBase  = 1 << 20
	killer1Score = 1 << 19
	killer2Score = killer1Score - 1
)

// scoreMoves assigns an ordering score to every move in ml, per §4.J:
// TT move first, then captures/promotions by MVV/LVA, then killers, then
// quiets by history.
func scoreMoves(b *chess.Board, ml *chess.MoveList, h *Heuristics, ply int, ttMove chess.Move) []int {
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		scores[i] = scoreMove(b, ml.Get(i), h, ply, ttMove)
	}
	return scores
}

func scoreMove(b *chess.Board, m chess.Move, h *Heuristics, ply int, ttMove chess.Move) int {
	if m == ttMove {
		return ttMoveScore
	}

	if m.IsCapture() || m.IsPromotion() {
		victim := chess.Pawn
		if m.IsCapture() {
			victim = m.CapturedPiece()
		}
		attacker := m.MovingPiece()
		score := captureBase + 8*int(victim) - int(attacker)
		if m.IsPromotion() {
			score += chess.PieceValue[m.PromotionPiece()]
		}
		return score
	}

	if m == h.Killer1(ply) {
		return killer1Score
	}
	if m == h.Killer2(ply) {
		return killer2Score
	}

	return h.History(b.SideToMove, m)
}

// pickMove finds the best-scoring move at or after index and swaps it
// into index, the incremental selection sort described in §4.J: it never
// sorts more of the list than the search actually examines.
func pickMove(ml *chess.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
