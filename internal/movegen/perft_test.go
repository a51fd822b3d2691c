package movegen

import (
	"testing"

	"github.com/hailam/chessplay/internal/chess"
)

// TestPerftStartingPosition counts leaf nodes from the standard starting
// position at increasing depth, the standard move-generator correctness
// oracle.
func TestPerftStartingPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// Depth 5 (4,865,609) is correct but slow; enable for thorough runs.
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			b := chess.NewBoard()
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete exercises castling, en passant, and promotions all at
// once from the well-known Kiwipete position.
func TestPerftKiwipete(t *testing.T) {
	b, err := chess.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// Depth 4 (4,085,603) is correct but slow; enable for thorough runs.
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 exercises en-passant edge cases with sparse material.
func TestPerftPosition3(t *testing.T) {
	b, err := chess.ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		// Depth 6 (11,030,083) is correct but slow; enable for thorough runs.
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition4 exercises the black-to-move castling and promotion
// edge cases missed by the white-centric positions above.
func TestPerftPosition4(t *testing.T) {
	b, err := chess.ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
		// Depth 5 (15,833,292) is correct but slow; enable for thorough runs.
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin verifies that an en passant capture is rejected
// when it would expose the king to a horizontal pin along the vacated
// rank, the classic case a naive "is the capture square attacked" check
// misses.
func TestPerftEnPassantPin(t *testing.T) {
	b, err := chess.ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := Generate(b)
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsEnPassant() {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 94},
	}
	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestLegalMovesAreActuallyLegal checks, across a handful of positions,
// that no generated move leaves its own king in check.
func TestLegalMovesAreActuallyLegal(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		moves := Generate(b)
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			mover := b.SideToMove
			if err := b.MakeMove(m); err != nil {
				t.Fatalf("MakeMove(%v) in %q: %v", m, fen, err)
			}
			inCheck := b.IsSquareAttacked(b.KingSquare[mover], mover.Other())
			b.UnmakeMove(m)
			if inCheck {
				t.Errorf("generated move %v in %q leaves %v in check", m, fen, mover)
			}
		}
	}
}
