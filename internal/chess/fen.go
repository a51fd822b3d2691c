package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a Board. A malformed field, a wrong
// square count on a rank, a missing/duplicated king, or castling/en-
// passant inconsistent with the placement all yield a ParseError.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := &Board{EnPassant: NoSquare, FullMoveNumber: 1}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(b, parts[2]); err != nil {
		return nil, err
	}
	if err := checkCastlingConsistency(b); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		b.EnPassant = sq
		if err := checkEnPassantConsistency(b); err != nil {
			return nil, err
		}
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		b.HalfMoveClock = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		b.FullMoveNumber = fmn
	}

	b.updateOccupied()
	b.findKings()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.KingSquare[White] == NoSquare || b.KingSquare[Black] == NoSquare {
		return nil, fmt.Errorf("invalid FEN: missing king")
	}
	b.Hash = b.ComputeHash()
	b.PawnKey = b.ComputePawnKey()
	b.UpdateCheckers()
	return b, nil
}

func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				b.setPiece(piece, NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}
	return nil
}

func parseCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		b.CastlingRights = NoCastling
		return nil
	}
	for _, c := range castling {
		switch c {
		case 'K':
			b.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			b.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			b.CastlingRights |= BlackKingSideCastle
		case 'q':
			b.CastlingRights |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return nil
}

// checkCastlingConsistency rejects a claimed castling right whose king or
// rook isn't on the square that right presupposes; parseCastlingRights only
// checks that the KQkq letters are well formed, not that the placement
// backs them up.
func checkCastlingConsistency(b *Board) error {
	type requirement struct {
		right  CastlingRights
		king   Piece
		kingSq Square
		rook   Piece
		rookSq Square
	}
	requirements := [...]requirement{
		{WhiteKingSideCastle, WhiteKing, E1, WhiteRook, H1},
		{WhiteQueenSideCastle, WhiteKing, E1, WhiteRook, A1},
		{BlackKingSideCastle, BlackKing, E8, BlackRook, H8},
		{BlackQueenSideCastle, BlackKing, E8, BlackRook, A8},
	}
	for _, req := range requirements {
		if b.CastlingRights&req.right == 0 {
			continue
		}
		if b.PieceAt(req.kingSq) != req.king {
			return fmt.Errorf("invalid FEN: castling right %s claimed without king on %s", req.right, req.kingSq)
		}
		if b.PieceAt(req.rookSq) != req.rook {
			return fmt.Errorf("invalid FEN: castling right %s claimed without rook on %s", req.right, req.rookSq)
		}
	}
	return nil
}

// checkEnPassantConsistency rejects an en-passant target square that
// doesn't sit one square in front of a pawn of the side that just moved:
// a target on rank 6 requires a black pawn on the same file on rank 5,
// and a target on rank 3 requires a white pawn on the same file on rank 4.
func checkEnPassantConsistency(b *Board) error {
	sq := b.EnPassant
	var pawn Piece
	var pawnSq Square
	switch sq.Rank() {
	case 2:
		pawn = WhitePawn
		pawnSq = NewSquare(sq.File(), 3)
	case 5:
		pawn = BlackPawn
		pawnSq = NewSquare(sq.File(), 4)
	default:
		return fmt.Errorf("invalid FEN: en passant square %s is not on rank 3 or 6", sq)
	}
	if b.PieceAt(pawnSq) != pawn {
		return fmt.Errorf("invalid FEN: en passant square %s claimed without %s on %s", sq, pawn, pawnSq)
	}
	return nil
}

// ToFEN emits the six standard FEN fields.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.PieceAt(NewSquare(file, rank))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if b.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(b.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(b.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.FullMoveNumber))
	return sb.String()
}

// ComputeHash recomputes the Zobrist hash from scratch; used to verify the
// incrementally maintained Hash field matches (invariant 5 of §3).
func (b *Board) ComputeHash() uint64 {
	var hash uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= ZobristPiece(c, pt, sq)
			}
		}
	}
	if b.SideToMove == Black {
		hash ^= ZobristSideToMove()
	}
	hash ^= ZobristCastling(b.CastlingRights)
	if b.EnPassant != NoSquare {
		hash ^= ZobristEnPassant(b.EnPassant.File())
	}
	return hash
}

// ComputePawnKey recomputes the pawn-only hash from scratch.
func (b *Board) ComputePawnKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		bb := b.Pieces[c][Pawn]
		for bb != 0 {
			key ^= ZobristPiece(c, Pawn, bb.PopLSB())
		}
	}
	return key
}
