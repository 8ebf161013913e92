package game

import "fmt"

// SquareIsAttacked reports whether any piece of color by attacks sq. Pawns
// attack their forward diagonals whether or not anything stands there.
func (b *Board) SquareIsAttacked(sq Square, by Color) bool {
	// Pawns of by sit one rank behind sq from their own point of view.
	for _, df := range [2]int{-1, 1} {
		from := sq.offset(df, -forward(by))
		if from.OnBoard() && b.Get(from).Is(by, Pawn) {
			return true
		}
	}

	for _, off := range knightOffsets {
		from := sq.offset(off[0], off[1])
		if from.OnBoard() && b.Get(from).Is(by, Knight) {
			return true
		}
	}

	for _, off := range kingOffsets {
		from := sq.offset(off[0], off[1])
		if from.OnBoard() && b.Get(from).Is(by, King) {
			return true
		}
	}

	return b.rayAttacked(sq, by, rookDirs, Rook) || b.rayAttacked(sq, by, bishopDirs, Bishop)
}

// rayAttacked walks each direction from sq to the first piece and reports
// whether it is a slider of kind (or a queen) belonging to by.
func (b *Board) rayAttacked(sq Square, by Color, dirs [][2]int, kind Kind) bool {
	for _, d := range dirs {
		for dist := 1; dist < 8; dist++ {
			from := sq.offset(d[0]*dist, d[1]*dist)
			if !from.OnBoard() {
				break
			}
			p := b.Get(from)
			if p.IsEmpty() {
				continue
			}
			if p.Is(by, kind) || p.Is(by, Queen) {
				return true
			}
			break
		}
	}
	return false
}

// IsInCheck reports whether c's king is attacked. A board without a king of
// that color is never in check.
func (b *Board) IsInCheck(c Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return b.SquareIsAttacked(king, c.Opposite())
}

// GenerateLegalMoves returns the pseudo-legal moves that do not leave the
// mover's king attacked, in generation order. Each candidate is applied,
// tested and undone on b, so b is unchanged on return.
func (b *Board) GenerateLegalMoves() []Action {
	moves := b.GeneratePseudoLegal()
	legal := moves[:0]
	for _, a := range moves {
		if b.isLegal(a) {
			legal = append(legal, a)
		}
	}
	return legal
}

// HasLegalMove reports whether the side to move has any legal move.
func (b *Board) HasLegalMove() bool {
	for _, a := range b.GeneratePseudoLegal() {
		if b.isLegal(a) {
			return true
		}
	}
	return false
}

func (b *Board) isLegal(a Action) bool {
	mover := b.SideToMove
	if a.Type == Castle {
		// The king may not castle out of or through check.
		e := castleFor(a.To)
		them := mover.Opposite()
		if b.SquareIsAttacked(e.king, them) || b.SquareIsAttacked(e.transit, them) {
			return false
		}
	}

	b.Apply(a)
	inCheck := b.IsInCheck(mover)
	b.Undo(a)
	return !inCheck
}

// Status is the coarse game state of a position.
type Status uint8

const (
	Playing Status = iota
	Check
	Checkmate
	Stalemate
)

// State is a classified position. Color is the side to move, which is the
// side in check or mated; it is meaningless for Playing and Stalemate.
type State struct {
	Status Status
	Color  Color
}

// String returns the host-facing state name: Playing, CheckBlack, CheckWhite,
// CheckmateBlack, CheckmateWhite or Stalemate.
func (s State) String() string {
	switch s.Status {
	case Playing:
		return "Playing"
	case Check:
		return "Check" + s.Color.String()
	case Checkmate:
		return "Checkmate" + s.Color.String()
	case Stalemate:
		return "Stalemate"
	}
	return fmt.Sprintf("Status(%d)", uint8(s.Status))
}

// IsTerminal reports whether the game is over.
func (s State) IsTerminal() bool {
	return s.Status == Checkmate || s.Status == Stalemate
}

// ClassifyState reports whether the side to move is playing normally, in
// check, checkmated or stalemated.
func (b *Board) ClassifyState() State {
	us := b.SideToMove
	inCheck := b.IsInCheck(us)
	hasMove := b.HasLegalMove()

	switch {
	case inCheck && hasMove:
		return State{Status: Check, Color: us}
	case inCheck:
		return State{Status: Checkmate, Color: us}
	case !hasMove:
		return State{Status: Stalemate}
	}
	return State{Status: Playing}
}
