package chess

import "fmt"

// MoveType tags the semantic category of an encoded Move.
type MoveType uint8

const (
	Quiet MoveType = iota
	DoublePawnPush
	EnPassant
	Castle
	Promotion
	CapturePromotion
	Capture
)

func (mt MoveType) String() string {
	switch mt {
	case Quiet:
		return "Quiet"
	case DoublePawnPush:
		return "DoublePawnPush"
	case EnPassant:
		return "EnPassant"
	case Castle:
		return "Castle"
	case Promotion:
		return "Promotion"
	case CapturePromotion:
		return "CapturePromotion"
	case Capture:
		return "Capture"
	default:
		return "Unknown"
	}
}

// IsCapture reports whether the move type removes an enemy piece.
func (mt MoveType) IsCapture() bool {
	return mt == Capture || mt == CapturePromotion || mt == EnPassant
}

// Move is a from-square(6) to-square(6) moving-piece(3) captured-piece(3)
// promotion-piece(3) move-type(3) packed encoding. Two moves are equal iff
// their encoded values are. The score used for ordering is never part of
// the encoding; it is carried alongside in a parallel slice.
type Move uint32

// NoMove is the zero value, used as "no move" (e.g. empty PV slot, bestmove
// when no legal move exists -> UCI "0000").
const NoMove Move = 0

const (
	fromShift   = 0
	toShift     = 6
	pieceShift  = 12
	capShift    = 15
	promoShift  = 18
	typeShift   = 21
	sixBitMask  = 0x3F
	threeBitMsk = 0x7
)

// NewMove packs a move's fields into its 32-bit encoding.
func NewMove(from, to Square, moving, captured, promotion PieceType, mt MoveType) Move {
	return Move(uint32(from)&sixBitMask) |
		Move(uint32(to)&sixBitMask)<<toShift |
		Move(uint32(moving)&threeBitMsk)<<pieceShift |
		Move(uint32(captured)&threeBitMsk)<<capShift |
		Move(uint32(promotion)&threeBitMsk)<<promoShift |
		Move(uint32(mt)&threeBitMsk)<<typeShift
}

func (m Move) From() Square           { return Square((m >> fromShift) & sixBitMask) }
func (m Move) To() Square             { return Square((m >> toShift) & sixBitMask) }
func (m Move) MovingPiece() PieceType { return PieceType((m >> pieceShift) & threeBitMsk) }
func (m Move) CapturedPiece() PieceType {
	return PieceType((m >> capShift) & threeBitMsk)
}
func (m Move) PromotionPiece() PieceType {
	return PieceType((m >> promoShift) & threeBitMsk)
}
func (m Move) Type() MoveType { return MoveType((m >> typeShift) & threeBitMsk) }

func (m Move) IsCapture() bool    { return m.Type().IsCapture() }
func (m Move) IsPromotion() bool  { return m.Type() == Promotion || m.Type() == CapturePromotion }
func (m Move) IsCastle() bool     { return m.Type() == Castle }
func (m Move) IsEnPassant() bool  { return m.Type() == EnPassant }
func (m Move) IsDoublePush() bool { return m.Type() == DoublePawnPush }
func (m Move) IsQuiet() bool      { return m.Type() == Quiet || m.Type() == DoublePawnPush }

// String returns the UCI long-algebraic form: from-square, to-square, and
// an optional lowercase promotion letter.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.PromotionPiece().Char())
	}
	return s
}

// ParseMove resolves a UCI long-algebraic string against a generated move
// list, since only the board position disambiguates castling notation and
// supplies the moving/captured-piece fields the wire format omits.
func ParseMove(s string, candidates []Move) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	var promo PieceType = NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	for _, cand := range candidates {
		if cand.From() == from && cand.To() == to {
			if cand.IsPromotion() && cand.PromotionPiece() != promo {
				continue
			}
			if !cand.IsPromotion() && promo != NoPieceType {
				continue
			}
			return cand, nil
		}
	}
	return NoMove, fmt.Errorf("illegal or unknown move: %s", s)
}

// MaxMoves is the MoveList capacity: the richest reachable legal position
// has 218 legal moves; 256 leaves comfortable margin.
const MaxMoves = 256

// MoveList is a fixed-capacity ordered sequence of moves. Pushing beyond
// capacity is a programmer error (see Capacity in the error taxonomy).
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move. Panics if the list is already at capacity.
func (ml *MoveList) Add(m Move) {
	if ml.count >= MaxMoves {
		panic("chess: move list capacity exceeded")
	}
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int        { return ml.count }
func (ml *MoveList) Get(i int) Move  { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m appears in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the populated prefix as a plain slice (for convenience in
// callers outside the hot path; search/ordering code should index directly).
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
