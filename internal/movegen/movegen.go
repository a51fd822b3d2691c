// Package movegen enumerates legal chess moves from a board position.
//
// Generation follows the pin/check-mask algorithm: compute the king
// square, the checkers attacking it, and the pieces pinned against it;
// derive a check mask restricting non-king moves to squares that resolve
// any single check; restrict pinned pieces further to the ray between
// king and pinner; and generate king moves against attacks recomputed
// with the king removed from occupancy so it cannot "retreat" along a
// slider's own ray.
package movegen

import (
	"github.com/hailam/chessplay/internal/chess"
)

// Generate returns every legal move available to the side to move.
func Generate(b *chess.Board) *chess.MoveList {
	ml := &chess.MoveList{}
	generate(b, ml, false)
	return ml
}

// GenerateTactical returns only captures, en-passant captures, and
// promotions — the move set quiescence search examines.
func GenerateTactical(b *chess.Board) *chess.MoveList {
	ml := &chess.MoveList{}
	generate(b, ml, true)
	return ml
}

func generate(b *chess.Board, ml *chess.MoveList, tacticalOnly bool) {
	us := b.SideToMove
	them := us.Other()
	ksq := b.KingSquare[us]
	checkers := b.Checkers
	occupied := b.AllOccupied

	generateKingMoves(b, ml, us, them, ksq, occupied, tacticalOnly)

	if checkers.PopCount() >= 2 {
		// Double check: only the king can move.
		return
	}

	checkMask := chess.Universe
	if checkers != 0 {
		checkerSq := checkers.LSB()
		checkMask = chess.SquareBB(checkerSq)
		if isSlider(b, checkerSq) {
			checkMask |= chess.Between(ksq, checkerSq)
		}
	}

	pinRay := pinnedRays(b, us, ksq)

	generatePieceMoves(b, ml, us, chess.Knight, checkMask, pinRay, occupied, tacticalOnly)
	generatePieceMoves(b, ml, us, chess.Bishop, checkMask, pinRay, occupied, tacticalOnly)
	generatePieceMoves(b, ml, us, chess.Rook, checkMask, pinRay, occupied, tacticalOnly)
	generatePieceMoves(b, ml, us, chess.Queen, checkMask, pinRay, occupied, tacticalOnly)
	generatePawnMoves(b, ml, us, them, checkMask, pinRay, occupied, tacticalOnly)

	if checkers == 0 {
		generateCastling(b, ml, us, ksq)
	}
}

func isSlider(b *chess.Board, sq chess.Square) bool {
	p := b.PieceAt(sq)
	t := p.Type()
	return t == chess.Bishop || t == chess.Rook || t == chess.Queen
}

// pinnedRays maps each pinned square (of the side to move) to the full
// line through the king and the pinning slider: the only squares a pinned
// piece may legally move to.
func pinnedRays(b *chess.Board, us chess.Color, ksq chess.Square) map[chess.Square]chess.Bitboard {
	them := us.Other()
	rays := make(map[chess.Square]chess.Bitboard, 4)

	snipers := chess.RookAttacks(ksq, 0) & (b.Pieces[them][chess.Rook] | b.Pieces[them][chess.Queen])
	for snipers != 0 {
		sniperSq := snipers.PopLSB()
		blockers := chess.Between(sniperSq, ksq) & b.AllOccupied
		if blockers.PopCount() == 1 && blockers&b.Occupied[us] != 0 {
			rays[blockers.LSB()] = chess.Line(ksq, sniperSq)
		}
	}
	snipers = chess.BishopAttacks(ksq, 0) & (b.Pieces[them][chess.Bishop] | b.Pieces[them][chess.Queen])
	for snipers != 0 {
		sniperSq := snipers.PopLSB()
		blockers := chess.Between(sniperSq, ksq) & b.AllOccupied
		if blockers.PopCount() == 1 && blockers&b.Occupied[us] != 0 {
			rays[blockers.LSB()] = chess.Line(ksq, sniperSq)
		}
	}
	return rays
}

func pieceAttacks(pt chess.PieceType, sq chess.Square, occupied chess.Bitboard) chess.Bitboard {
	switch pt {
	case chess.Knight:
		return chess.KnightAttacks(sq)
	case chess.Bishop:
		return chess.BishopAttacks(sq, occupied)
	case chess.Rook:
		return chess.RookAttacks(sq, occupied)
	case chess.Queen:
		return chess.QueenAttacks(sq, occupied)
	default:
		return 0
	}
}

func generatePieceMoves(b *chess.Board, ml *chess.MoveList, us chess.Color, pt chess.PieceType, checkMask chess.Bitboard, pinRay map[chess.Square]chess.Bitboard, occupied chess.Bitboard, tacticalOnly bool) {
	them := us.Other()
	pieces := b.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		targets := pieceAttacks(pt, from, occupied) &^ b.Occupied[us] & checkMask
		if ray, pinned := pinRay[from]; pinned {
			targets &= ray
		}
		for targets != 0 {
			to := targets.PopLSB()
			if b.Occupied[them]&chess.SquareBB(to) != 0 {
				ml.Add(chess.NewMove(from, to, pt, b.PieceAt(to).Type(), chess.NoPieceType, chess.Capture))
			} else if !tacticalOnly {
				ml.Add(chess.NewMove(from, to, pt, chess.NoPieceType, chess.NoPieceType, chess.Quiet))
			}
		}
	}
}

var promoPieces = [4]chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

func addPromotions(ml *chess.MoveList, from, to chess.Square, captured chess.PieceType) {
	mt := chess.Promotion
	if captured != chess.NoPieceType {
		mt = chess.CapturePromotion
	}
	for _, promo := range promoPieces {
		ml.Add(chess.NewMove(from, to, chess.Pawn, captured, promo, mt))
	}
}

func generatePawnMoves(b *chess.Board, ml *chess.MoveList, us, them chess.Color, checkMask chess.Bitboard, pinRay map[chess.Square]chess.Bitboard, occupied chess.Bitboard, tacticalOnly bool) {
	pawns := b.Pieces[us][chess.Pawn]
	promoRank := chess.Rank8
	startRank := chess.Rank2
	if us == chess.Black {
		promoRank = chess.Rank1
		startRank = chess.Rank7
	}

	for pawns != 0 {
		from := pawns.PopLSB()
		ray, pinned := pinRay[from]

		// Captures (incl. promotion captures).
		attacks := chess.PawnAttacks(from, us) & b.Occupied[them]
		targets := attacks & checkMask
		if pinned {
			targets &= ray
		}
		for targets != 0 {
			to := targets.PopLSB()
			captured := b.PieceAt(to).Type()
			if chess.SquareBB(to)&promoRank != 0 {
				addPromotions(ml, from, to, captured)
			} else {
				ml.Add(chess.NewMove(from, to, chess.Pawn, captured, chess.NoPieceType, chess.Capture))
			}
		}

		// En passant.
		if b.EnPassant != chess.NoSquare && chess.PawnAttacks(from, us)&chess.SquareBB(b.EnPassant) != 0 {
			to := b.EnPassant
			capSq := to - 8
			if us == chess.Black {
				capSq = to + 8
			}
			resolvesCheck := checkMask&(chess.SquareBB(to)|chess.SquareBB(capSq)) != 0 || checkMask == chess.Universe
			if resolvesCheck && (!pinned || ray&chess.SquareBB(to) != 0) && enPassantSafe(b, us, them, from, to, capSq) {
				ml.Add(chess.NewMove(from, to, chess.Pawn, chess.Pawn, chess.NoPieceType, chess.EnPassant))
			}
		}

		// Single and double pushes; tactical generation keeps only
		// push promotions.
		push := chess.PawnPushes(from, us) &^ occupied
		if tacticalOnly && push&promoRank == 0 {
			continue
		}
		if push != 0 {
			to := push.LSB()
			allowed := chess.SquareBB(to) & checkMask
			if pinned {
				allowed &= ray
			}
			if allowed != 0 {
				if chess.SquareBB(to)&promoRank != 0 {
					addPromotions(ml, from, to, chess.NoPieceType)
				} else {
					ml.Add(chess.NewMove(from, to, chess.Pawn, chess.NoPieceType, chess.NoPieceType, chess.Quiet))
				}
			}
			if chess.SquareBB(from)&startRank != 0 {
				double := chess.PawnPushes(to, us) &^ occupied
				if double != 0 {
					to2 := double.LSB()
					allowed2 := chess.SquareBB(to2) & checkMask
					if pinned {
						allowed2 &= ray
					}
					if allowed2 != 0 {
						ml.Add(chess.NewMove(from, to2, chess.Pawn, chess.NoPieceType, chess.NoPieceType, chess.DoublePawnPush))
					}
				}
			}
		}
	}
}

// enPassantSafe handles the rare case where capturing en passant exposes
// the king to a rook/queen sliding along the vacated rank: simulate both
// pawns removed (and the capturing pawn relocated) and check whether a
// rook or queen now attacks the king along that rank.
func enPassantSafe(b *chess.Board, us, them chess.Color, from, to, capSq chess.Square) bool {
	ksq := b.KingSquare[us]
	occ := b.AllOccupied
	occ &^= chess.SquareBB(from)
	occ &^= chess.SquareBB(capSq)
	occ |= chess.SquareBB(to)
	attackers := chess.RookAttacks(ksq, occ) & (b.Pieces[them][chess.Rook] | b.Pieces[them][chess.Queen])
	return attackers == 0
}

func generateKingMoves(b *chess.Board, ml *chess.MoveList, us, them chess.Color, ksq chess.Square, occupied chess.Bitboard, tacticalOnly bool) {
	occWithoutKing := occupied &^ chess.SquareBB(ksq)
	targets := chess.KingAttacks(ksq) &^ b.Occupied[us]
	for targets != 0 {
		to := targets.PopLSB()
		if b.AttackersByColor(to, them, occWithoutKing) != 0 {
			continue
		}
		if b.Occupied[them]&chess.SquareBB(to) != 0 {
			ml.Add(chess.NewMove(ksq, to, chess.King, b.PieceAt(to).Type(), chess.NoPieceType, chess.Capture))
		} else if !tacticalOnly {
			ml.Add(chess.NewMove(ksq, to, chess.King, chess.NoPieceType, chess.NoPieceType, chess.Quiet))
		}
	}
}

func generateCastling(b *chess.Board, ml *chess.MoveList, us chess.Color, ksq chess.Square) {
	them := us.Other()
	rank := 0
	if us == chess.Black {
		rank = 7
	}
	if b.InCheck() {
		return
	}

	if b.CastlingRights.CanCastle(us, true) {
		f1 := chess.NewSquare(5, rank)
		f2 := chess.NewSquare(6, rank)
		if b.IsEmpty(f1) && b.IsEmpty(f2) &&
			!b.IsSquareAttacked(ksq, them) && !b.IsSquareAttacked(f1, them) && !b.IsSquareAttacked(f2, them) {
			ml.Add(chess.NewMove(ksq, f2, chess.King, chess.NoPieceType, chess.NoPieceType, chess.Castle))
		}
	}
	if b.CastlingRights.CanCastle(us, false) {
		d1 := chess.NewSquare(3, rank)
		c1 := chess.NewSquare(2, rank)
		b1 := chess.NewSquare(1, rank)
		if b.IsEmpty(d1) && b.IsEmpty(c1) && b.IsEmpty(b1) &&
			!b.IsSquareAttacked(ksq, them) && !b.IsSquareAttacked(d1, them) && !b.IsSquareAttacked(c1, them) {
			ml.Add(chess.NewMove(ksq, c1, chess.King, chess.NoPieceType, chess.NoPieceType, chess.Castle))
		}
	}
}

// HasLegalMoves reports whether the side to move has at least one legal
// move. It generates the full legal move list and checks its length.
func HasLegalMoves(b *chess.Board) bool {
	return Generate(b).Len() > 0
}

// IsCheckmate reports checkmate: in check with zero legal moves.
func IsCheckmate(b *chess.Board) bool {
	return b.InCheck() && !HasLegalMoves(b)
}

// IsStalemate reports stalemate: not in check with zero legal moves.
func IsStalemate(b *chess.Board) bool {
	return !b.InCheck() && !HasLegalMoves(b)
}

// IsDraw reports the rules-level draws movegen/make-unmake can see without
// search context: fifty-move rule, threefold repetition, and insufficient
// material. Stalemate is a search-level terminal condition (spec.md §4.G).
func IsDraw(b *chess.Board) bool {
	if b.HalfMoveClock >= 100 {
		return true
	}
	if b.IsRepetition() {
		return true
	}
	return b.IsInsufficientMaterial()
}
