package chess

import "testing"

// TestFENRoundTrip checks that parsing a position and re-emitting its FEN
// reproduces the original string for a set of representative positions.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.ToFEN(); got != fen {
			t.Errorf("ToFEN() round-trip = %q, want %q", got, fen)
		}
	}
}

// TestParseFENRejectsInconsistentPlacement checks that ParseFEN reports an
// error when the castling or en-passant fields claim something the piece
// placement doesn't back up, instead of silently accepting a contradictory
// position.
func TestParseFENRejectsInconsistentPlacement(t *testing.T) {
	cases := []string{
		// White kingside castling claimed, but the king isn't on e1.
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BKR w KQkq - 0 1",
		// White queenside castling claimed, but the a1 rook is missing.
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/1NBQKBNR w KQkq - 0 1",
		// Black kingside castling claimed, but the h8 rook is missing.
		"rnbqkbn1/pppppppp/7r/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		// En passant on e6 claimed, but there's no black pawn on e5.
		"rnbqkbnr/pppp1ppp/4p3/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		// En passant square not on rank 3 or 6.
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e4 0 1",
	}
	for _, fen := range cases {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): want error, got nil", fen)
		}
	}
}

// TestMakeUnmakeRestoresBoard checks that making then unmaking every legal
// move from a handful of positions restores the board bit-for-bit,
// including the Zobrist hash.
func TestMakeUnmakeRestoresBoard(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := b.ToFEN()
		beforeHash := b.Hash

		moves := legalMovesForTest(b)
		for _, m := range moves {
			b.MakeMove(m)
			b.UnmakeMove(m)

			if got := b.ToFEN(); got != before {
				t.Fatalf("unmake(make(%v)) FEN = %q, want %q", m, got, before)
			}
			if b.Hash != beforeHash {
				t.Fatalf("unmake(make(%v)) hash = %x, want %x", m, b.Hash, beforeHash)
			}
		}
	}
}

// TestMakeUnmakeNullMoveRestoresBoard checks that MakeNullMove/
// UnmakeNullMove flip the side to move and clear en passant without
// otherwise disturbing the position, and that unmaking restores both
// exactly, including the hash.
func TestMakeUnmakeNullMoveRestoresBoard(t *testing.T) {
	fens := []string{
		StartFEN,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := b.ToFEN()
		beforeHash := b.Hash
		beforeSide := b.SideToMove

		ep, hash := b.MakeNullMove()
		if b.SideToMove == beforeSide {
			t.Fatalf("MakeNullMove(%q): side to move unchanged", fen)
		}
		if b.EnPassant != NoSquare {
			t.Fatalf("MakeNullMove(%q): en passant not cleared", fen)
		}

		b.UnmakeNullMove(ep, hash)
		if got := b.ToFEN(); got != before {
			t.Fatalf("UnmakeNullMove(%q) FEN = %q, want %q", fen, got, before)
		}
		if b.Hash != beforeHash {
			t.Fatalf("UnmakeNullMove(%q) hash = %x, want %x", fen, b.Hash, beforeHash)
		}
	}
}

// TestZobristIncrementalMatchesScratch checks that the hash maintained
// incrementally by MakeMove equals the hash recomputed from scratch via
// ComputeHash after every move in a short line.
func TestZobristIncrementalMatchesScratch(t *testing.T) {
	b := NewBoard()
	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"}

	for _, s := range line {
		moves := legalMovesForTest(b)
		m, err := ParseMove(s, moves)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		if err := b.MakeMove(m); err != nil {
			t.Fatalf("MakeMove(%v): %v", m, err)
		}
		if got, want := b.Hash, b.ComputeHash(); got != want {
			t.Errorf("after %s: incremental hash %x != scratch hash %x", s, got, want)
		}
	}
}

// TestBetweenSymmetric checks that the squares strictly between a and b
// are the same regardless of argument order, and that the endpoints
// themselves are excluded.
func TestBetweenSymmetric(t *testing.T) {
	pairs := [][2]Square{{A1, H8}, {A1, A8}, {D4, D4}, {B2, G7}, {H1, A1}}
	for _, p := range pairs {
		a, bSq := p[0], p[1]
		fwd := Between(a, bSq)
		rev := Between(bSq, a)
		if fwd != rev {
			t.Errorf("Between(%v,%v)=%v, Between(%v,%v)=%v, want equal", a, bSq, fwd, bSq, a, rev)
		}
		if fwd&SquareBB(a) != 0 || fwd&SquareBB(bSq) != 0 {
			t.Errorf("Between(%v,%v)=%v includes an endpoint", a, bSq, fwd)
		}
	}
}

// TestMoveEncodingRoundTrip checks that every field packed into a Move by
// NewMove is recovered unchanged by its accessors.
func TestMoveEncodingRoundTrip(t *testing.T) {
	m := NewMove(E2, E4, Pawn, NoPieceType, NoPieceType, DoublePawnPush)
	if m.From() != E2 || m.To() != E4 || m.MovingPiece() != Pawn || m.Type() != DoublePawnPush {
		t.Errorf("round-trip mismatch: from=%v to=%v piece=%v type=%v", m.From(), m.To(), m.MovingPiece(), m.Type())
	}

	promo := NewMove(B7, A8, Pawn, Rook, Queen, CapturePromotion)
	if promo.From() != B7 || promo.To() != A8 || promo.CapturedPiece() != Rook || promo.PromotionPiece() != Queen {
		t.Errorf("promotion round-trip mismatch: %+v", promo)
	}
	if !promo.IsCapture() || !promo.IsPromotion() {
		t.Errorf("capture-promotion move not classified as both: %v", promo.Type())
	}
}

// legalMovesForTest generates legal moves without importing movegen,
// avoiding an import cycle (movegen depends on chess): it tries pawn
// single and double pushes and captures plus every other piece's attack
// pattern, then filters by MakeMove's own legality check. It does not
// generate castling or en-passant moves. This is slower than
// movegen.Generate but package-local and sufficient for exercising
// make/unmake and hashing.
func legalMovesForTest(b *Board) []Move {
	var out []Move
	us := b.SideToMove
	for pt := Pawn; pt <= King; pt++ {
		bb := b.Pieces[us][pt]
		for bb != 0 {
			from := bb.PopLSB()
			targets := pseudoTargets(b, us, pt, from)
			for targets != 0 {
				to := targets.PopLSB()
				mt := Quiet
				captured := NoPieceType
				if !b.IsEmpty(to) {
					mt = Capture
					captured = b.PieceAt(to).Type()
				} else if pt == Pawn && abs(to.Rank()-from.Rank()) == 2 {
					mt = DoublePawnPush
				}
				if pt == Pawn && to.Rank() == 0 || pt == Pawn && to.Rank() == 7 {
					for _, promo := range []PieceType{Queen, Rook, Bishop, Knight} {
						pmt := Promotion
						if mt == Capture {
							pmt = CapturePromotion
						}
						m := NewMove(from, to, pt, captured, promo, pmt)
						if tryMove(b, m) {
							out = append(out, m)
						}
					}
					continue
				}
				m := NewMove(from, to, pt, captured, NoPieceType, mt)
				if tryMove(b, m) {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

func pseudoTargets(b *Board, us Color, pt PieceType, from Square) Bitboard {
	occupied := b.AllOccupied
	switch pt {
	case Pawn:
		pushes := PawnPushes(from, us) &^ occupied
		startRank := 1
		if us == Black {
			startRank = 6
		}
		if pushes != 0 && from.Rank() == startRank {
			pushes |= PawnPushes(pushes.LSB(), us) &^ occupied
		}
		caps := PawnAttacks(from, us) & b.Occupied[us.Other()]
		return pushes | caps
	case Knight:
		return KnightAttacks(from) &^ b.Occupied[us]
	case Bishop:
		return BishopAttacks(from, occupied) &^ b.Occupied[us]
	case Rook:
		return RookAttacks(from, occupied) &^ b.Occupied[us]
	case Queen:
		return QueenAttacks(from, occupied) &^ b.Occupied[us]
	case King:
		return KingAttacks(from) &^ b.Occupied[us]
	}
	return 0
}

func tryMove(b *Board, m Move) bool {
	if err := b.MakeMove(m); err != nil {
		b.UnmakeMove(m)
		return false
	}
	b.UnmakeMove(m)
	return true
}
