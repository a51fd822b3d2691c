package chess

import "errors"

// ErrIllegalMove is returned by MakeMove when the move leaves its own king
// in check. The caller must still call UnmakeMove to restore the board;
// MakeMove always applies the move before checking legality, per §4.F.
var ErrIllegalMove = errors.New("chess: move leaves mover in check")

// MakeMove applies m, pushing a boardState snapshot onto the history stack
// so UnmakeMove can restore it. It performs a full incremental Zobrist
// update, clears/sets the en-passant target, adjusts castling rights,
// updates the half-move clock and full-move number, flips the side to
// move, and recomputes Checkers. If the side that just moved is left in
// check, it returns ErrIllegalMove; the move is still applied and must be
// unmade by the caller.
func (b *Board) MakeMove(m Move) error {
	us := b.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pt := m.MovingPiece()

	st := boardState{
		move:           m,
		castlingRights: b.CastlingRights,
		enPassant:      b.EnPassant,
		halfMoveClock:  b.HalfMoveClock,
		hash:           b.Hash,
		pawnKey:        b.PawnKey,
		checkers:       b.Checkers,
	}
	b.history = append(b.history, st)

	b.Hash ^= ZobristSideToMove()
	b.Hash ^= ZobristCastling(b.CastlingRights)
	if b.EnPassant != NoSquare {
		b.Hash ^= ZobristEnPassant(b.EnPassant.File())
	}
	b.EnPassant = NoSquare

	switch {
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.removePiece(capSq)
		b.Hash ^= ZobristPiece(them, Pawn, capSq)
		b.PawnKey ^= ZobristPiece(them, Pawn, capSq)
	case m.IsCapture():
		captured := m.CapturedPiece()
		b.removePiece(to)
		b.Hash ^= ZobristPiece(them, captured, to)
		if captured == Pawn {
			b.PawnKey ^= ZobristPiece(them, captured, to)
		}
	}

	b.movePiece(from, to)
	b.Hash ^= ZobristPiece(us, pt, from)
	b.Hash ^= ZobristPiece(us, pt, to)
	if pt == Pawn {
		b.PawnKey ^= ZobristPiece(us, Pawn, from)
		b.PawnKey ^= ZobristPiece(us, Pawn, to)
	}

	if m.IsPromotion() {
		promo := m.PromotionPiece()
		b.Pieces[us][Pawn] &^= SquareBB(to)
		b.Pieces[us][promo] |= SquareBB(to)
		b.Hash ^= ZobristPiece(us, Pawn, to)
		b.Hash ^= ZobristPiece(us, promo, to)
		b.PawnKey ^= ZobristPiece(us, Pawn, to)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(from, to)
		b.movePiece(rookFrom, rookTo)
		b.Hash ^= ZobristPiece(us, Rook, rookFrom)
		b.Hash ^= ZobristPiece(us, Rook, rookTo)
	}

	if pt == King {
		if us == White {
			b.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			b.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		b.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		b.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		b.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		b.CastlingRights &^= BlackKingSideCastle
	}
	b.Hash ^= ZobristCastling(b.CastlingRights)

	if pt == Pawn && m.IsDoublePush() {
		epSq := Square((int(from) + int(to)) / 2)
		b.EnPassant = epSq
		b.Hash ^= ZobristEnPassant(epSq.File())
	}

	if pt == Pawn || m.IsCapture() {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}
	if us == Black {
		b.FullMoveNumber++
	}

	b.SideToMove = them
	b.UpdateCheckers()

	if b.IsSquareAttacked(b.KingSquare[us], them) {
		return ErrIllegalMove
	}
	return nil
}

// UnmakeMove reverses the most recent MakeMove. m must be the same move
// just applied; it is passed explicitly (rather than read back from
// history) to match the caller's own loop variable and avoid a second
// decode.
func (b *Board) UnmakeMove(m Move) {
	n := len(b.history)
	st := b.history[n-1]
	b.history = b.history[:n-1]

	them := b.SideToMove
	us := them.Other()
	from, to := m.From(), m.To()

	b.CastlingRights = st.castlingRights
	b.EnPassant = st.enPassant
	b.HalfMoveClock = st.halfMoveClock
	b.Hash = st.hash
	b.PawnKey = st.pawnKey
	b.Checkers = st.checkers
	b.SideToMove = us

	if us == Black {
		b.FullMoveNumber--
	}

	if m.IsPromotion() {
		promo := m.PromotionPiece()
		b.Pieces[us][promo] &^= SquareBB(to)
		b.Pieces[us][Pawn] |= SquareBB(to)
	}

	b.movePiece(to, from)

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(from, to)
		b.movePiece(rookTo, rookFrom)
	}

	if m.IsEnPassant() {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.setPiece(NewPiece(Pawn, them), capSq)
	} else if m.IsCapture() {
		b.setPiece(NewPiece(m.CapturedPiece(), them), to)
	}
}

func castleRookSquares(kingFrom, kingTo Square) (from, to Square) {
	if kingTo > kingFrom {
		return NewSquare(7, kingFrom.Rank()), NewSquare(5, kingFrom.Rank())
	}
	return NewSquare(0, kingFrom.Rank()), NewSquare(3, kingFrom.Rank())
}

// MakeNullMove passes the turn without moving a piece, used by the search
// package's null-move pruning. Returns the ply snapshot; see UnmakeNullMove.
func (b *Board) MakeNullMove() (ep Square, hash uint64) {
	ep, hash = b.EnPassant, b.Hash
	if b.EnPassant != NoSquare {
		b.Hash ^= ZobristEnPassant(b.EnPassant.File())
	}
	b.EnPassant = NoSquare
	b.SideToMove = b.SideToMove.Other()
	b.Hash ^= ZobristSideToMove()
	b.UpdateCheckers()
	return
}

// UnmakeNullMove restores state saved by MakeNullMove.
func (b *Board) UnmakeNullMove(ep Square, hash uint64) {
	b.EnPassant = ep
	b.Hash = hash
	b.SideToMove = b.SideToMove.Other()
	b.UpdateCheckers()
}
