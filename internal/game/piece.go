package game

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	Black Color = iota
	White
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Kind is a piece type.
type Kind uint8

// Piece kinds. Zero is reserved so that the empty square encodes as 0.
const (
	Pawn Kind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Letter returns the uppercase letter used for the kind in notation.
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	panic(fmt.Sprintf("game: invalid piece kind %d", uint8(k)))
}

// Piece is a packed square value: 0b000MCKKK where K is the kind, C the color
// and M the has-moved flag.
type Piece uint8

// Empty marks an unoccupied square.
const Empty Piece = 0

const (
	kindMask Piece = 0b0000_0111
	colorBit Piece = 0b0000_1000
	movedBit Piece = 0b0001_0000
)

// NewPiece packs a piece value.
func NewPiece(c Color, k Kind, moved bool) Piece {
	p := Piece(k) & kindMask
	if c == White {
		p |= colorBit
	}
	if moved {
		p |= movedBit
	}
	return p
}

// IsEmpty reports whether p is the empty-square sentinel.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Color returns the piece color. The empty square reports Black.
func (p Piece) Color() Color {
	if p&colorBit != 0 {
		return White
	}
	return Black
}

// Kind returns the piece kind. It panics on bits outside the six kinds, which
// only happens on a corrupted board.
func (p Piece) Kind() Kind {
	k := Kind(p & kindMask)
	if k < Pawn || k > King {
		panic(fmt.Sprintf("game: invalid piece kind bits %03b in %#x", uint8(k), uint8(p)))
	}
	return k
}

// HasMoved reports whether the piece has moved since the start of the game.
func (p Piece) HasMoved() bool {
	return p&movedBit != 0
}

// WithMoved returns p with the has-moved flag set to moved.
func (p Piece) WithMoved(moved bool) Piece {
	if moved {
		return p | movedBit
	}
	return p &^ movedBit
}

// Is reports whether p is a piece of color c and kind k.
func (p Piece) Is(c Color, k Kind) bool {
	return p != Empty && p.Color() == c && Kind(p&kindMask) == k
}

// Char returns the position-string character for p.
func (p Piece) Char() byte {
	if p == Empty {
		return '.'
	}
	ch := p.Kind().Letter()
	if p.Color() == Black {
		ch += 'a' - 'A'
	}
	return ch
}

func (p Piece) String() string {
	if p == Empty {
		return "Empty"
	}
	s := p.Color().String() + " " + p.Kind().String()
	if p.HasMoved() {
		s += " (moved)"
	}
	return s
}

// pieceFromChar decodes a position-string character. ok is false for anything
// outside prnbqkPRNBQK; '.' is handled by the caller.
func pieceFromChar(ch byte) (p Piece, ok bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	var k Kind
	switch ch {
	case 'P':
		k = Pawn
	case 'N':
		k = Knight
	case 'B':
		k = Bishop
	case 'R':
		k = Rook
	case 'Q':
		k = Queen
	case 'K':
		k = King
	default:
		return Empty, false
	}
	return NewPiece(color, k, false), true
}
