package uci

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/chess"
	"github.com/hailam/chessplay/internal/search"
)

func TestParsePositionStartpos(t *testing.T) {
	b, err := ParsePosition([]string{"startpos"})
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if got := b.ToFEN(); got != chess.StartFEN {
		t.Errorf("ToFEN() = %q, want %q", got, chess.StartFEN)
	}
}

func TestParsePositionStartposWithMoves(t *testing.T) {
	b, err := ParsePosition([]string{"startpos", "moves", "e2e4", "e7e5", "g1f3"})
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if b.SideToMove != chess.Black {
		t.Errorf("side to move = %v, want Black", b.SideToMove)
	}
}

func TestParsePositionFEN(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b, err := ParsePosition([]string{"fen", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R", "w", "KQkq", "-", "0", "1"})
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if got := b.ToFEN(); got != fen {
		t.Errorf("ToFEN() = %q, want %q", got, fen)
	}
}

func TestParsePositionRejectsIllegalMove(t *testing.T) {
	if _, err := ParsePosition([]string{"startpos", "moves", "e2e5"}); err == nil {
		t.Error("expected an error for an illegal move, got nil")
	}
}

func TestGoLimitsParsesTimeControls(t *testing.T) {
	limits := GoLimits([]string{"wtime", "60000", "btime", "55000", "winc", "1000", "binc", "1000", "movestogo", "20"})

	if limits.Time[chess.White] != 60*time.Second {
		t.Errorf("wtime = %v, want 60s", limits.Time[chess.White])
	}
	if limits.Time[chess.Black] != 55*time.Second {
		t.Errorf("btime = %v, want 55s", limits.Time[chess.Black])
	}
	if limits.Inc[chess.White] != time.Second {
		t.Errorf("winc = %v, want 1s", limits.Inc[chess.White])
	}
	if limits.MovesToGo != 20 {
		t.Errorf("movestogo = %d, want 20", limits.MovesToGo)
	}
}

func TestGoLimitsParsesDepthAndInfinite(t *testing.T) {
	limits := GoLimits([]string{"depth", "10"})
	if limits.Depth != 10 {
		t.Errorf("depth = %d, want 10", limits.Depth)
	}

	limits = GoLimits([]string{"infinite"})
	if !limits.Infinite {
		t.Error("infinite = false, want true")
	}
}

func TestFormatBestMoveFallsBackWhenIllegal(t *testing.T) {
	b := chess.NewBoard()
	got := FormatBestMove(b, chess.NoMove)
	if got == "bestmove 0000" {
		t.Error("FormatBestMove fell back to 0000 on the starting position, which has legal moves")
	}
}

func TestFormatBestMoveNoLegalMoves(t *testing.T) {
	// Textbook king+queen stalemate: black to move has zero legal moves.
	b, err := chess.ParseFEN("k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := FormatBestMove(b, chess.NoMove); got != "bestmove 0000" {
		t.Errorf("FormatBestMove on a stalemate position, got %q, want \"bestmove 0000\"", got)
	}
}

func TestFormatInfoMateScore(t *testing.T) {
	info := search.Info{Depth: 3, Score: search.MateScore - 1, Nodes: 1000, Time: 10 * time.Millisecond}
	line := FormatInfo(info)
	if want := "score mate 1"; !contains(line, want) {
		t.Errorf("FormatInfo(%+v) = %q, want it to contain %q", info, line, want)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
