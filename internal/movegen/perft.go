package movegen

import "github.com/hailam/chessplay/internal/chess"

// Perft counts the leaf nodes reachable from b at the given depth, the
// standard move-generator correctness check: the counts at each depth
// from the standard starting position and a handful of tricky
// positions are well known, so a mismatch pinpoints a generation bug.
func Perft(b *chess.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := Generate(b)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := b.MakeMove(m); err != nil {
			b.UnmakeMove(m)
			continue
		}
		nodes += Perft(b, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}

// Divide runs Perft one ply deep on every legal move and returns the
// per-move leaf counts, the standard way of isolating which branch of
// a failing perft disagrees with a reference engine.
func Divide(b *chess.Board, depth int) map[chess.Move]uint64 {
	result := make(map[chess.Move]uint64)
	if depth < 1 {
		return result
	}

	moves := Generate(b)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := b.MakeMove(m); err != nil {
			b.UnmakeMove(m)
			continue
		}
		result[m] = Perft(b, depth-1)
		b.UnmakeMove(m)
	}
	return result
}
