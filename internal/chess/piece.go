package chess

// Color is the side a piece or player belongs to.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

var colorNames = [...]string{"White", "Black"}

// String returns the color name.
func (c Color) String() string {
	if c > Black {
		return "NoColor"
	}
	return colorNames[c]
}

// PieceType is a chess piece's kind, independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

// String returns the piece type name.
func (pt PieceType) String() string {
	if pt > King {
		return "None"
	}
	return pieceTypeNames[pt]
}

const pieceTypeChars = "pnbrqk "

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt > NoPieceType {
		return ' '
	}
	return pieceTypeChars[pt]
}

// PieceValue is the material value of each piece type, in centipawns,
// indexed by PieceType (NoPieceType's slot is 0 and never read in a
// material sum).
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece packs a PieceType and a Color into one value: the low three
// bits hold the type, the next bit the color, so White/Black pieces of
// the same type differ by a single flipped bit rather than by a fixed
// offset of 6.
type Piece uint8

const pieceColorBit = Piece(1) << 3

const (
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | pieceColorBit
	BlackKnight Piece = Piece(Knight) | pieceColorBit
	BlackBishop Piece = Piece(Bishop) | pieceColorBit
	BlackRook   Piece = Piece(Rook) | pieceColorBit
	BlackQueen  Piece = Piece(Queen) | pieceColorBit
	BlackKing   Piece = Piece(King) | pieceColorBit
	NoPiece     Piece = Piece(NoPieceType)
)

// NewPiece builds a Piece from a PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	if c == Black {
		return Piece(pt) | pieceColorBit
	}
	return Piece(pt)
}

// Type returns the piece's PieceType.
func (p Piece) Type() PieceType {
	pt := PieceType(p &^ pieceColorBit)
	if pt > King {
		return NoPieceType
	}
	return pt
}

// Color returns the piece's Color.
func (p Piece) Color() Color {
	if p.Type() == NoPieceType {
		return NoColor
	}
	if p&pieceColorBit != 0 {
		return Black
	}
	return White
}

const pieceChars = "PNBRQK" + "pnbrqk"

// String returns the FEN character for the piece, uppercase for White
// and lowercase for Black.
func (p Piece) String() string {
	pt, c := p.Type(), p.Color()
	if pt == NoPieceType {
		return " "
	}
	idx := int(pt)
	if c == Black {
		idx += 6
	}
	return string(pieceChars[idx])
}

// PieceFromChar converts a FEN piece character to a Piece.
func PieceFromChar(c byte) Piece {
	for i := 0; i < len(pieceChars); i++ {
		if pieceChars[i] == c {
			pt := PieceType(i % 6)
			if i < 6 {
				return NewPiece(pt, White)
			}
			return NewPiece(pt, Black)
		}
	}
	return NoPiece
}

// Value returns the piece's material value in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
