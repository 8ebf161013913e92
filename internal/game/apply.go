package game

import "fmt"

// Apply plays a on the board in place. It moves the pieces, marks them as
// moved, drops castling rights touched by the move, sets the en-passant file
// after a double push (clearing it otherwise) and passes the turn.
//
// a must have been generated from the current board; Undo(a) restores it
// exactly. Apply and its Undo must not be interleaved with other mutations.
func (b *Board) Apply(a Action) {
	switch a.Type {
	case Move, PawnDoubleMove, Capture:
		b.Set(a.To, b.Get(a.From).WithMoved(true))
		b.Set(a.From, Empty)
	case EnPassant:
		b.Set(a.To, b.Get(a.From).WithMoved(true))
		b.Set(a.From, Empty)
		b.Set(Sq(a.To.File, a.From.Rank), Empty)
	case Castle:
		e := castleFor(a.To)
		king, rook := b.Get(e.king), b.Get(e.rookFrom)
		b.Set(e.king, Empty)
		b.Set(e.rookFrom, Empty)
		b.Set(a.To, king.WithMoved(true))
		b.Set(e.rookTo, rook.WithMoved(true))
	case Promotion, PromotionCapture:
		b.Set(a.To, a.Promoted.WithMoved(true))
		b.Set(a.From, Empty)
	default:
		panic(fmt.Sprintf("game: apply of unknown action type %d", uint8(a.Type)))
	}

	b.Castling &^= rightsLost(a.From) | rightsLost(a.To)
	if a.Type == PawnDoubleMove {
		b.SetEnPassantFile(a.From.File)
	} else {
		b.ClearEnPassant()
	}
	b.ToggleSideToMove()
}

// Undo reverts an Apply(a) made on this board.
func (b *Board) Undo(a Action) {
	switch a.Type {
	case Move, PawnDoubleMove, Promotion:
		b.Set(a.From, a.mover)
		b.Set(a.To, Empty)
	case Capture, PromotionCapture:
		b.Set(a.From, a.mover)
		b.Set(a.To, a.Captured)
	case EnPassant:
		b.Set(a.From, a.mover)
		b.Set(a.To, Empty)
		b.Set(Sq(a.To.File, a.From.Rank), NewPiece(a.mover.Color().Opposite(), Pawn, true))
	case Castle:
		e := castleFor(a.To)
		rook := b.Get(e.rookTo)
		b.Set(a.To, Empty)
		b.Set(e.rookTo, Empty)
		b.Set(e.king, a.mover)
		b.Set(e.rookFrom, rook.WithMoved(false))
	default:
		panic(fmt.Sprintf("game: undo of unknown action type %d", uint8(a.Type)))
	}

	b.Castling = a.prevCastling
	b.enPassant = a.prevEnPassant
	b.ToggleSideToMove()
}

// newAction builds an action of type t from the current board, recording the
// state Undo needs.
func (b *Board) newAction(t ActionType, from, to Square) Action {
	return Action{
		Type:          t,
		From:          from,
		To:            to,
		mover:         b.Get(from),
		prevCastling:  b.Castling,
		prevEnPassant: b.enPassant,
	}
}
