package game

import (
	"fmt"
	"strings"
)

// String returns the algebraic name of the square, e.g. "e4". Rank 0 is "8".
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return string([]byte{byte('a' + s.File), byte('8' - s.Rank)})
}

// ParseSquare converts algebraic notation (e.g., "e4") to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0]) - 'a'
	rank := '8' - int(s[1])
	if !inBounds(file, rank) {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	return Square{File: file, Rank: rank}, nil
}

// String returns the action in coordinate notation: origin, destination and
// a lowercase promotion letter ("e7e8q"). Castles are written as the king's
// two-square move.
func (a Action) String() string {
	s := a.From.String() + a.To.String()
	if a.IsPromotion() {
		s += strings.ToLower(string(a.Promoted.Kind().Letter()))
	}
	return s
}

// SAN returns standard algebraic notation for a, which must be legal on b.
// b is unchanged on return.
func (b *Board) SAN(a Action) string {
	var notation strings.Builder

	// Castling
	if a.Type == Castle {
		if a.To.File == 6 {
			notation.WriteString("O-O")
		} else {
			notation.WriteString("O-O-O")
		}
		b.writeCheckSuffix(&notation, a)
		return notation.String()
	}

	kind := a.mover.Kind()

	// Piece letter (not for pawns)
	if kind != Pawn {
		notation.WriteByte(kind.Letter())
	}

	// Disambiguation for pieces that could move to the same square
	if kind != Pawn && kind != King {
		needFile, needRank := b.needsDisambiguation(a)
		if needFile {
			notation.WriteByte(byte('a' + a.From.File))
		}
		if needRank {
			notation.WriteByte(byte('8' - a.From.Rank))
		}
	}

	// Pawn captures include file
	if kind == Pawn && a.IsCapture() {
		notation.WriteByte(byte('a' + a.From.File))
	}

	if a.IsCapture() {
		notation.WriteByte('x')
	}

	notation.WriteString(a.To.String())

	if a.IsPromotion() {
		notation.WriteByte('=')
		notation.WriteByte(a.Promoted.Kind().Letter())
	}

	b.writeCheckSuffix(&notation, a)
	return notation.String()
}

// writeCheckSuffix appends "#" or "+" when a mates or checks.
func (b *Board) writeCheckSuffix(sb *strings.Builder, a Action) {
	b.Apply(a)
	defer b.Undo(a)

	if !b.IsInCheck(b.SideToMove) {
		return
	}
	if b.HasLegalMove() {
		sb.WriteByte('+')
	} else {
		sb.WriteByte('#')
	}
}

// needsDisambiguation reports whether the origin file or rank must be written
// because another piece of the same kind can legally reach the same square.
// The file is preferred; the rank is used when the file is shared.
func (b *Board) needsDisambiguation(a Action) (needFile, needRank bool) {
	var ambiguous, sameFile, sameRank bool
	for _, other := range b.GenerateLegalMoves() {
		if other.To != a.To || other.From == a.From || !other.mover.Is(a.mover.Color(), a.mover.Kind()) {
			continue
		}
		ambiguous = true
		if other.From.File == a.From.File {
			sameFile = true
		}
		if other.From.Rank == a.From.Rank {
			sameRank = true
		}
	}
	if !ambiguous {
		return false, false
	}
	if !sameFile {
		return true, false
	}
	if !sameRank {
		return false, true
	}
	return true, true
}
