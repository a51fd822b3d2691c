package search

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/chess"
)

func searchPosition(t *testing.T, fen string, depth int) Result {
	t.Helper()
	b, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	e := NewEngine(16)
	return e.Search(b, UCILimits{Depth: depth}, 0)
}

// TestMateInOne checks that a one-move mate is found and scored above the
// mate threshold at a shallow depth.
func TestMateInOne(t *testing.T) {
	// Black to move: Qd8-h4 is mate against the fool's-mate setup.
	const fen = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	b, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e := NewEngine(16)
	result := e.Search(b, UCILimits{Depth: 2}, 0)

	if result.Score < MateThreshold {
		t.Fatalf("score = %d, want >= MateThreshold (%d)", result.Score, MateThreshold)
	}
	if result.BestMove.String() != "d8h4" {
		t.Errorf("bestmove = %v, want d8h4 (Qh4#)", result.BestMove)
	}
}

// TestSearchIsDeterministic checks that two searches of the same position
// to the same depth with fresh engines return identical results.
func TestSearchIsDeterministic(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	first := searchPosition(t, fen, 4)
	second := searchPosition(t, fen, 4)

	if first.BestMove != second.BestMove {
		t.Errorf("bestmove differs across runs: %v vs %v", first.BestMove, second.BestMove)
	}
	if first.Score != second.Score {
		t.Errorf("score differs across runs: %d vs %d", first.Score, second.Score)
	}
	if first.Nodes != second.Nodes {
		t.Errorf("node count differs across runs: %d vs %d", first.Nodes, second.Nodes)
	}
}

// TestTranspositionTableRoundTrip checks that a stored entry is returned
// unchanged by Probe, and that a shallower result doesn't clobber a
// deeper one from the same generation.
func TestTranspositionTableRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	const hash = uint64(0x1234567890ABCDEF)
	move := chess.NewMove(chess.E2, chess.E4, chess.Pawn, chess.NoPieceType, chess.NoPieceType, chess.DoublePawnPush)

	tt.Store(hash, 8, 123, TTExact, move)
	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatalf("Probe after Store: not found")
	}
	if entry.BestMove != move || int(entry.Score) != 123 || int(entry.Depth) != 8 || entry.Flag != TTExact {
		t.Errorf("round-trip entry = %+v, want move=%v score=123 depth=8 flag=Exact", entry, move)
	}

	tt.Store(hash, 3, 999, TTLowerBound, chess.NoMove)
	entry, ok = tt.Probe(hash)
	if !ok {
		t.Fatalf("Probe after shallow store: not found")
	}
	if int(entry.Depth) != 8 {
		t.Errorf("shallower same-generation store overwrote deeper entry: depth = %d, want 8", entry.Depth)
	}

	tt.NewSearch()
	tt.Store(hash, 3, 999, TTLowerBound, chess.NoMove)
	entry, _ = tt.Probe(hash)
	if int(entry.Depth) != 3 {
		t.Errorf("new-generation store didn't overwrite: depth = %d, want 3", entry.Depth)
	}
}

// TestTranspositionTableClampsOutOfRangeSize checks that a zero or
// negative TT size is clamped to a usable table rather than rejected.
func TestTranspositionTableClampsOutOfRangeSize(t *testing.T) {
	tt := NewTranspositionTable(0)
	if len(tt.entries) == 0 {
		t.Fatal("NewTranspositionTable(0) produced an empty table")
	}

	tt = NewTranspositionTable(-5)
	if len(tt.entries) == 0 {
		t.Fatal("NewTranspositionTable(-5) produced an empty table")
	}
}

// TestMateScoreAdjustRoundTrips checks that adjusting a mate score into
// and back out of TT storage is the identity for a variety of plies.
func TestMateScoreAdjustRoundTrips(t *testing.T) {
	for _, ply := range []int{0, 1, 5, 20} {
		for _, score := range []int{MateScore - 3, -MateScore + 3, 0, 150, -150} {
			stored := AdjustScoreToTT(score, ply)
			back := AdjustScoreFromTT(stored, ply)
			if back != score {
				t.Errorf("ply=%d score=%d: round-trip = %d", ply, score, back)
			}
		}
	}
}

// TestEvaluateIsSymmetric checks that Evaluate returns the same score for
// a position and its color-flipped mirror image (side to move flipped
// too), a sanity property any tapered, side-relative evaluation must
// satisfy.
func TestEvaluateIsSymmetric(t *testing.T) {
	b, err := chess.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	score := Evaluate(b)

	mirror, err := chess.ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	mirrorScore := Evaluate(mirror)

	if score != mirrorScore {
		t.Errorf("Evaluate(position) = %d, Evaluate(color-flipped mirror) = %d, want equal", score, mirrorScore)
	}
}

// TestEngineStopHalts checks that requesting a stop during an infinite
// search causes Search to return promptly rather than running forever.
func TestEngineStopHalts(t *testing.T) {
	b := chess.NewBoard()
	e := NewEngine(16)

	done := make(chan struct{})
	go func() {
		e.Search(b, UCILimits{Infinite: true}, 0)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	e.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Search did not return within 2s of Stop()")
	}
}
