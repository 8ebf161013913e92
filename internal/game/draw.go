package game

// DrawReason represents the reason for a draw
type DrawReason string

const (
	DrawByStalemate            DrawReason = "stalemate"
	DrawByThreefoldRepetition  DrawReason = "threefold_repetition"
	DrawByInsufficientMaterial DrawReason = "insufficient_material"
)

// IsInsufficientMaterial checks if neither player can checkmate (FIDE rules)
// Returns true for:
// - King vs King
// - King + Bishop vs King
// - King + Knight vs King
// - King + Bishop vs King + Bishop (same color squares)
func (b *Board) IsInsufficientMaterial() bool {
	var minors [2][]Kind
	var bishopShade [2][]bool // true = light square

	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			piece := b.Squares[r][f]
			if piece.IsEmpty() {
				continue
			}
			c := piece.Color()
			switch k := piece.Kind(); k {
			case King:
			case Knight, Bishop:
				minors[c] = append(minors[c], k)
				if k == Bishop {
					// a1 is (0,7), a dark square.
					bishopShade[c] = append(bishopShade[c], (r+f)%2 == 0)
				}
			default:
				// Pawns, rooks and queens can always mate.
				return false
			}
		}
	}

	white, black := minors[White], minors[Black]
	switch {
	case len(white) == 0 && len(black) == 0:
		return true
	case len(white) == 0 && len(black) == 1, len(black) == 0 && len(white) == 1:
		return true
	case len(white) == 1 && len(black) == 1 && white[0] == Bishop && black[0] == Bishop:
		return bishopShade[White][0] == bishopShade[Black][0]
	}
	return false
}

// AutomaticDraw reports whether the position is drawn without any claim:
// stalemate or insufficient material.
func (b *Board) AutomaticDraw() (DrawReason, bool) {
	if b.IsInsufficientMaterial() {
		return DrawByInsufficientMaterial, true
	}
	if !b.IsInCheck(b.SideToMove) && !b.HasLegalMove() {
		return DrawByStalemate, true
	}
	return "", false
}

// CountRepetitions counts how many times position occurs in history. Position
// strings carry the side to move, castling rights and en-passant file, so
// equal strings are repetitions in the FIDE sense.
func CountRepetitions(history []string, position string) int {
	count := 0
	for _, pos := range history {
		if pos == position {
			count++
		}
	}
	return count
}

// IsThreefoldRepetition checks if position has occurred 3+ times in history
func IsThreefoldRepetition(history []string, position string) bool {
	return CountRepetitions(history, position) >= 3
}

// DisplayText returns a human-readable description of the draw reason
func (r DrawReason) DisplayText() string {
	switch r {
	case DrawByStalemate:
		return "Draw by stalemate"
	case DrawByThreefoldRepetition:
		return "Draw by threefold repetition"
	case DrawByInsufficientMaterial:
		return "Draw by insufficient material"
	default:
		return "Draw"
	}
}
