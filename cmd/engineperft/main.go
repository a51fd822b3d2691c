// Command engineperft runs a perft node count (optionally broken down
// move by move with -divide) from a position given on the command line,
// the standard way of regression-testing a move generator against known
// node counts.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/hailam/chessplay/internal/movegen"
	"github.com/hailam/chessplay/internal/uci"
)

func main() {
	depth := flag.Int("depth", 5, "perft depth")
	fen := flag.String("fen", "", "FEN to start from (default: standard starting position)")
	moves := flag.String("moves", "", "space-separated UCI moves to apply before counting")
	divide := flag.Bool("divide", false, "report per-move leaf counts instead of just the total")
	flag.Parse()

	var posArgs []string
	if *fen == "" {
		posArgs = append(posArgs, "startpos")
	} else {
		posArgs = append(posArgs, "fen")
		posArgs = append(posArgs, strings.Fields(*fen)...)
	}
	if *moves != "" {
		posArgs = append(posArgs, "moves")
		posArgs = append(posArgs, strings.Fields(*moves)...)
	}

	b, err := uci.ParsePosition(posArgs)
	if err != nil {
		log.Fatalf("[engineperft] %v", err)
	}

	start := time.Now()

	if *divide {
		counts := movegen.Divide(b, *depth)
		keys := make([]string, 0, len(counts))
		byKey := make(map[string]uint64, len(counts))
		var total uint64
		for m, n := range counts {
			s := m.String()
			keys = append(keys, s)
			byKey[s] = n
			total += n
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %d\n", k, byKey[k])
		}
		fmt.Printf("\nTotal: %d\n", total)
		printRate(total, time.Since(start))
		return
	}

	nodes := movegen.Perft(b, *depth)
	fmt.Printf("Nodes: %d\n", nodes)
	printRate(nodes, time.Since(start))
}

func printRate(nodes uint64, elapsed time.Duration) {
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
