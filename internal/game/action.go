package game

import "fmt"

// ActionType tags the variant an Action holds.
type ActionType uint8

const (
	Move ActionType = iota
	PawnDoubleMove
	Capture
	EnPassant
	Castle
	Promotion
	PromotionCapture
)

func (t ActionType) String() string {
	switch t {
	case Move:
		return "Move"
	case PawnDoubleMove:
		return "PawnDoubleMove"
	case Capture:
		return "Capture"
	case EnPassant:
		return "EnPassant"
	case Castle:
		return "Castle"
	case Promotion:
		return "Promotion"
	case PromotionCapture:
		return "PromotionCapture"
	}
	return fmt.Sprintf("ActionType(%d)", uint8(t))
}

// Action is one ply. Which fields are meaningful depends on Type:
//
//	Move, PawnDoubleMove  From, To
//	Capture               From, To, Captured
//	EnPassant             From, To (the captured pawn sits on To.File, From.Rank)
//	Castle                To is the king destination, From the king origin
//	Promotion             From, To, Promoted
//	PromotionCapture      From, To, Captured, Promoted
//
// Each action also records the mover and the castling and en-passant state
// of the board it was generated from, so Undo never needs board history.
// Actions are comparable values.
type Action struct {
	Type     ActionType
	From     Square
	To       Square
	Captured Piece
	Promoted Piece

	mover         Piece
	prevCastling  CastlingRights
	prevEnPassant uint8
}

// IsCapture reports whether the action removes an enemy piece.
func (a Action) IsCapture() bool {
	switch a.Type {
	case Capture, EnPassant, PromotionCapture:
		return true
	}
	return false
}

// IsPromotion reports whether the action promotes a pawn.
func (a Action) IsPromotion() bool {
	return a.Type == Promotion || a.Type == PromotionCapture
}

// castleEntry describes one of the four castles, keyed by king destination.
type castleEntry struct {
	king     Square // king origin
	transit  Square // square the king crosses
	rookFrom Square
	rookTo   Square
	right    CastlingRights
}

var castleTable = map[Square]castleEntry{
	{File: 2, Rank: 0}: {king: Sq(4, 0), transit: Sq(3, 0), rookFrom: Sq(0, 0), rookTo: Sq(3, 0), right: BlackQueenside},
	{File: 6, Rank: 0}: {king: Sq(4, 0), transit: Sq(5, 0), rookFrom: Sq(7, 0), rookTo: Sq(5, 0), right: BlackKingside},
	{File: 2, Rank: 7}: {king: Sq(4, 7), transit: Sq(3, 7), rookFrom: Sq(0, 7), rookTo: Sq(3, 7), right: WhiteQueenside},
	{File: 6, Rank: 7}: {king: Sq(4, 7), transit: Sq(5, 7), rookFrom: Sq(7, 7), rookTo: Sq(5, 7), right: WhiteKingside},
}

// castleFor looks up the castle landing the king on to. Any other
// destination means a bad Castle action was built.
func castleFor(to Square) castleEntry {
	e, ok := castleTable[to]
	if !ok {
		panic(fmt.Sprintf("game: invalid castle destination %v", to))
	}
	return e
}

// castleDestinations lists c's king destinations, kingside first.
func castleDestinations(c Color) [2]Square {
	r := backRank(c)
	return [2]Square{Sq(6, r), Sq(2, r)}
}

// rightsLost returns the castling rights cleared when a piece leaves or lands
// on sq.
func rightsLost(sq Square) CastlingRights {
	switch sq {
	case Sq(4, 0):
		return BlackQueenside | BlackKingside
	case Sq(0, 0):
		return BlackQueenside
	case Sq(7, 0):
		return BlackKingside
	case Sq(4, 7):
		return WhiteQueenside | WhiteKingside
	case Sq(0, 7):
		return WhiteQueenside
	case Sq(7, 7):
		return WhiteKingside
	}
	return NoCastling
}
