package game

// Square is a board coordinate. Rank 0 is Black's back rank and rank 7 is
// White's, so files read left to right and ranks top to bottom in the
// position string.
type Square struct {
	File int
	Rank int
}

// Sq is shorthand for Square{File: file, Rank: rank}.
func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

// OnBoard reports whether s lies within the 8x8 grid.
func (s Square) OnBoard() bool {
	return inBounds(s.File, s.Rank)
}

func (s Square) offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

func inBounds(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	BlackQueenside CastlingRights = 1 << iota
	BlackKingside
	WhiteQueenside
	WhiteKingside

	NoCastling  CastlingRights = 0
	AllCastling                = BlackQueenside | BlackKingside | WhiteQueenside | WhiteKingside
)

// castlingOrder is the order the flags appear in a position string.
var castlingOrder = [4]CastlingRights{BlackQueenside, BlackKingside, WhiteQueenside, WhiteKingside}

// Has reports whether every flag in r is set.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r
}

// Board is the mutable game aggregate: squares, side to move, castling rights
// and the en-passant file. It is a plain value; copying it clones it.
type Board struct {
	Squares    [8][8]Piece // [rank][file]
	SideToMove Color
	Castling   CastlingRights

	// enPassant is the target file plus one, zero when unset.
	enPassant uint8
}

// backRank returns the home rank of c's pieces.
func backRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// pawnRank returns the starting rank of c's pawns.
func pawnRank(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// forward is the rank delta of c's pawn pushes.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

var backRankOrder = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position with White to move.
func NewBoard() *Board {
	b := &Board{SideToMove: White, Castling: AllCastling}
	for f := 0; f < 8; f++ {
		b.Squares[0][f] = NewPiece(Black, backRankOrder[f], false)
		b.Squares[1][f] = NewPiece(Black, Pawn, false)
		b.Squares[6][f] = NewPiece(White, Pawn, false)
		b.Squares[7][f] = NewPiece(White, backRankOrder[f], false)
	}
	return b
}

// Get returns the piece on sq.
func (b *Board) Get(sq Square) Piece {
	return b.Squares[sq.Rank][sq.File]
}

// Set places p on sq without any validation.
func (b *Board) Set(sq Square, p Piece) {
	b.Squares[sq.Rank][sq.File] = p
}

// CanCastle reports whether the castling right r is set.
func (b *Board) CanCastle(r CastlingRights) bool {
	return b.Castling.Has(r)
}

// SetCastle sets or clears the castling right r.
func (b *Board) SetCastle(r CastlingRights, on bool) {
	if on {
		b.Castling |= r
	} else {
		b.Castling &^= r
	}
}

// EnPassantFile returns the file a pawn may capture onto en passant.
func (b *Board) EnPassantFile() (int, bool) {
	if b.enPassant == 0 {
		return 0, false
	}
	return int(b.enPassant) - 1, true
}

// SetEnPassantFile marks file as the en-passant target file.
func (b *Board) SetEnPassantFile(file int) {
	b.enPassant = uint8(file) + 1
}

// ClearEnPassant removes the en-passant target.
func (b *Board) ClearEnPassant() {
	b.enPassant = 0
}

// ToggleSideToMove hands the move to the other color. Apply and Undo call it
// once per ply; callers should not.
func (b *Board) ToggleSideToMove() {
	b.SideToMove = b.SideToMove.Opposite()
}

// Clone returns an independent copy of b.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// KingSquare locates c's king.
func (b *Board) KingSquare(c Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b.Squares[r][f].Is(c, King) {
				return Square{File: f, Rank: r}, true
			}
		}
	}
	return Square{}, false
}

// inferMoved reports whether a piece found on sq must have moved. The
// position string and FEN carry no per-piece history, so pawns, kings and
// rooks count as unmoved only on their starting squares.
func inferMoved(p Piece, sq Square) bool {
	c := p.Color()
	switch p.Kind() {
	case Pawn:
		return sq.Rank != pawnRank(c)
	case King:
		return sq != Sq(4, backRank(c))
	case Rook:
		return sq.Rank != backRank(c) || (sq.File != 0 && sq.File != 7)
	}
	return false
}

// markMoved applies inferMoved to every piece on the board.
func (b *Board) markMoved() {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b.Squares[r][f]
			if p.IsEmpty() {
				continue
			}
			b.Squares[r][f] = p.WithMoved(inferMoved(p, Sq(f, r)))
		}
	}
}
