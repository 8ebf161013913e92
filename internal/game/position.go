package game

import (
	"errors"
	"fmt"
	"strings"
)

// PositionLength is the length of an encoded position: 64 squares, four
// castling flags, the en-passant file and the side to move.
const PositionLength = 64 + 4 + 1 + 1

// StartPosition is the encoded standard starting position.
const StartPosition = "rnbqkbnr" +
	"pppppppp" +
	"........" +
	"........" +
	"........" +
	"........" +
	"PPPPPPPP" +
	"RNBQKBNR" +
	"ttttfw"

// ErrInvalidPosition is wrapped by every position decode error.
var ErrInvalidPosition = errors.New("invalid position")

// DecodePosition parses an encoded position. Has-moved flags are inferred from
// where the pieces stand.
func DecodePosition(s string) (*Board, error) {
	if len(s) != PositionLength {
		return nil, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidPosition, PositionLength, len(s))
	}

	b := &Board{}
	for i := 0; i < 64; i++ {
		ch := s[i]
		if ch == '.' {
			continue
		}
		p, ok := pieceFromChar(ch)
		if !ok {
			return nil, fmt.Errorf("%w: invalid piece %q at index %d", ErrInvalidPosition, ch, i)
		}
		b.Squares[i/8][i%8] = p
	}
	b.markMoved()

	for i, right := range castlingOrder {
		switch ch := s[64+i]; ch {
		case 't':
			b.Castling |= right
		case 'f':
		default:
			return nil, fmt.Errorf("%w: invalid castling flag %q at index %d", ErrInvalidPosition, ch, 64+i)
		}
	}

	switch ch := s[68]; {
	case ch == 'f':
	case ch >= '0' && ch <= '7':
		b.SetEnPassantFile(int(ch - '0'))
	default:
		return nil, fmt.Errorf("%w: invalid en passant file %q", ErrInvalidPosition, ch)
	}

	switch ch := s[69]; ch {
	case 'b':
		b.SideToMove = Black
	case 'w':
		b.SideToMove = White
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrInvalidPosition, ch)
	}

	if err := b.checkFlags(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return b, nil
}

// checkFlags rejects castling rights and en-passant files the pieces on the
// board could not have produced.
func (b *Board) checkFlags() error {
	for to, e := range castleTable {
		if !b.CanCastle(e.right) {
			continue
		}
		c := Black
		if e.king.Rank == backRank(White) {
			c = White
		}
		if !b.Get(e.king).Is(c, King) || !b.Get(e.rookFrom).Is(c, Rook) {
			return fmt.Errorf("castling to %s without king and rook on their home squares", to)
		}
	}

	file, ok := b.EnPassantFile()
	if !ok {
		return nil
	}
	them := b.SideToMove.Opposite()
	start := Sq(file, pawnRank(them))
	skipped := Sq(file, pawnRank(them)+forward(them))
	landed := Sq(file, pawnRank(them)+2*forward(them))
	if !b.Get(landed).Is(them, Pawn) {
		return fmt.Errorf("en passant on file %c without a %s pawn on %s", 'a'+file, them, landed)
	}
	if !b.Get(skipped).IsEmpty() || !b.Get(start).IsEmpty() {
		return fmt.Errorf("en passant on file %c but %s or %s is occupied", 'a'+file, skipped, start)
	}
	return nil
}

// Position encodes the board as a position string.
func (b *Board) Position() string {
	var sb strings.Builder
	sb.Grow(PositionLength)

	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sb.WriteByte(b.Squares[r][f].Char())
		}
	}
	for _, right := range castlingOrder {
		if b.CanCastle(right) {
			sb.WriteByte('t')
		} else {
			sb.WriteByte('f')
		}
	}
	if file, ok := b.EnPassantFile(); ok {
		sb.WriteByte(byte('0' + file))
	} else {
		sb.WriteByte('f')
	}
	if b.SideToMove == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	return sb.String()
}

// LegalPositions decodes s and returns the position reached by each legal
// move, in generation order.
func LegalPositions(s string) ([]string, error) {
	b, err := DecodePosition(s)
	if err != nil {
		return nil, err
	}

	moves := b.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for _, a := range moves {
		b.Apply(a)
		out = append(out, b.Position())
		b.Undo(a)
	}
	return out, nil
}

// PositionState decodes s and classifies it.
func PositionState(s string) (State, error) {
	b, err := DecodePosition(s)
	if err != nil {
		return State{}, err
	}
	return b.ClassifyState(), nil
}
