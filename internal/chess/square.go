package chess

import "fmt"

// Square is one of the 64 board squares, numbered a1=0 through h8=63 in
// little-endian rank-file order: square = rank*8 + file.
type Square uint8

// Square constants for all 64 squares, plus the NoSquare sentinel used
// for "no en-passant target" and similarly absent-square cases.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// squareNames is indexed directly by Square for String, avoiding a
// byte-arithmetic format call on the hot path (perft and move printing
// both call this a lot).
var squareNames = [64]string{
	"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1",
	"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2",
	"a3", "b3", "c3", "d3", "e3", "f3", "g3", "h3",
	"a4", "b4", "c4", "d4", "e4", "f4", "g4", "h4",
	"a5", "b5", "c5", "d5", "e5", "f5", "g5", "h5",
	"a6", "b6", "c6", "d6", "e6", "f6", "g6", "h6",
	"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7",
	"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8",
}

// File returns the square's file, 0 (a) through 7 (h).
func (sq Square) File() int {
	return int(sq) % 8
}

// Rank returns the square's rank, 0 (rank 1) through 7 (rank 8).
func (sq Square) Rank() int {
	return int(sq) / 8
}

// String returns algebraic notation ("e4"), or "-" for NoSquare.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return squareNames[sq]
}

// NewSquare builds a Square from a 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("chess: not a square: %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// IsValid reports whether sq is one of the 64 real board squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror flips a square across the board's horizontal midline, mapping
// White's perspective to Black's and back.
func (sq Square) Mirror() Square {
	return NewSquare(sq.File(), 7-sq.Rank())
}

// RelativeRank returns sq's rank as seen by c: rank 0 is always that
// color's back rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
