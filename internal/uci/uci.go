// Package uci provides the position-setup and result-formatting glue a
// UCI driver needs: parsing "position" command arguments into a board,
// parsing "go" time-control arguments into search limits, and formatting
// search.Info/bestmove for UCI output. The command loop and protocol
// dispatcher that would read stdin and call these functions are treated
// as an external collaborator and are not part of this package.
package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessplay/internal/chess"
	"github.com/hailam/chessplay/internal/movegen"
	"github.com/hailam/chessplay/internal/search"
)

// ParsePosition applies a UCI "position" command's arguments (the part
// after the literal "position" token) and returns the resulting board.
// Accepted forms:
//
//	startpos
//	startpos moves e2e4 e7e5
//	fen <fen>
//	fen <fen> moves e2e4
func ParsePosition(args []string) (*chess.Board, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty position command")
	}

	var b *chess.Board
	var moveStart int

	switch args[0] {
	case "startpos":
		b = chess.NewBoard()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		parsed, err := chess.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			return nil, fmt.Errorf("invalid fen: %w", err)
		}
		b = parsed
		moveStart = fenEnd
	default:
		return nil, fmt.Errorf("unrecognized position command: %s", args[0])
	}

	for i := moveStart; i < len(args); i++ {
		if args[i] == "moves" {
			continue
		}
		legal := movegen.Generate(b)
		m, err := chess.ParseMove(args[i], legal.Slice())
		if err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i-moveStart, args[i], err)
		}
		if err := b.MakeMove(m); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i-moveStart, args[i], err)
		}
	}

	return b, nil
}

// GoLimits parses a UCI "go" command's arguments (the part after the
// literal "go" token) into search.UCILimits.
func GoLimits(args []string) search.UCILimits {
	var limits search.UCILimits

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				limits.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[chess.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[chess.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[chess.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Inc[chess.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return limits
}

// FormatInfo renders a search.Info as a UCI "info ..." line (without the
// leading "info " keyword or trailing newline), converting scores near
// the mate bound to "score mate N".
func FormatInfo(info search.Info) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	switch {
	case info.Score > search.MateScore-search.MaxPly:
		mateIn := (search.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case info.Score < -search.MateScore+search.MaxPly:
		mateIn := -(search.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))

	if len(info.PV) > 0 {
		moves := make([]string, len(info.PV))
		for i, m := range info.PV {
			moves[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(moves, " "))
	}

	return strings.Join(parts, " ")
}

// FormatBestMove renders a move as a UCI "bestmove ..." line, falling
// back to the legal moves of b when m is not legal there (the usual
// reason being a cancelled search that never completed a root move), and
// to "0000" when b has no legal moves at all.
func FormatBestMove(b *chess.Board, m chess.Move) string {
	legal := movegen.Generate(b)
	if m == chess.NoMove || !legal.Contains(m) {
		if legal.Len() == 0 {
			return "bestmove 0000"
		}
		m = legal.Get(0)
	}
	return "bestmove " + m.String()
}
