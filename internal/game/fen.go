package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position in FEN.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every FEN parse error.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string into a Board. The move clocks are validated but
// not kept, and has-moved flags are inferred as for position strings. The
// clocks may be omitted.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 4 && len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	board := &Board{}

	// Piece placement. FEN lists rank 8 first, which is our rank 0.
	rows := strings.Split(parts[0], "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}
	for r, row := range rows {
		file := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromChar(c)
			if !ok {
				return nil, fmt.Errorf("%w: invalid piece %q", ErrInvalidFEN, c)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: rank %q is too long", ErrInvalidFEN, row)
			}
			board.Squares[r][file] = p
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %q does not cover 8 files", ErrInvalidFEN, row)
		}
	}
	board.markMoved()

	// Active color
	switch parts[1] {
	case "w":
		board.SideToMove = White
	case "b":
		board.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid active color %q", ErrInvalidFEN, parts[1])
	}

	// Castling rights
	if parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			switch parts[2][i] {
			case 'K':
				board.Castling |= WhiteKingside
			case 'Q':
				board.Castling |= WhiteQueenside
			case 'k':
				board.Castling |= BlackKingside
			case 'q':
				board.Castling |= BlackQueenside
			default:
				return nil, fmt.Errorf("%w: invalid castling rights %q", ErrInvalidFEN, parts[2])
			}
		}
	}

	// En passant square
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square: %v", ErrInvalidFEN, err)
		}
		them := board.SideToMove.Opposite()
		if sq.Rank != pawnRank(them)+forward(them) {
			return nil, fmt.Errorf("%w: en passant square %s is on the wrong rank", ErrInvalidFEN, parts[3])
		}
		board.SetEnPassantFile(sq.File)
	}

	// Half-move clock and full move number
	if len(parts) == 6 {
		if n, err := strconv.Atoi(parts[4]); err != nil || n < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidFEN, parts[4])
		}
		if n, err := strconv.Atoi(parts[5]); err != nil || n < 1 {
			return nil, fmt.Errorf("%w: invalid full move number %q", ErrInvalidFEN, parts[5])
		}
	}

	if err := board.checkFlags(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return board, nil
}

// FEN converts the board to FEN. Clocks are not tracked and are written as
// "0 1".
func (b *Board) FEN() string {
	var sb strings.Builder

	// Piece placement
	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			piece := b.Squares[r][f]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	// Active color
	if b.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	// Castling rights
	castling := ""
	if b.CanCastle(WhiteKingside) {
		castling += "K"
	}
	if b.CanCastle(WhiteQueenside) {
		castling += "Q"
	}
	if b.CanCastle(BlackKingside) {
		castling += "k"
	}
	if b.CanCastle(BlackQueenside) {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	// En passant
	sb.WriteByte(' ')
	if file, ok := b.EnPassantFile(); ok {
		them := b.SideToMove.Opposite()
		sb.WriteString(Sq(file, pawnRank(them)+forward(them)).String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteString(" 0 1")
	return sb.String()
}
