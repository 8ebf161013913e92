package game

var bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var queenDirs = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var knightOffsets = [][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
var kingOffsets = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {0, 1}, {0, -1}, {-1, 0}, {1, 0}}

// promotionKinds is the order promotions are emitted in.
var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

// GeneratePseudoLegal returns every move of the side to move that obeys piece
// geometry and blocking, without regard to king safety. Squares are scanned
// rank by rank, files ascending, so the result is deterministic.
func (b *Board) GeneratePseudoLegal() []Action {
	moves := make([]Action, 0, 64)
	us := b.SideToMove

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := b.Squares[rank][file]
			if piece.IsEmpty() || piece.Color() != us {
				continue
			}

			from := Sq(file, rank)
			switch piece.Kind() {
			case Pawn:
				moves = b.appendPawnMoves(moves, from, piece)
			case Knight:
				moves = b.appendStepMoves(moves, from, us, knightOffsets)
			case Bishop:
				moves = b.appendSlidingMoves(moves, from, us, bishopDirs)
			case Rook:
				moves = b.appendSlidingMoves(moves, from, us, rookDirs)
			case Queen:
				moves = b.appendSlidingMoves(moves, from, us, queenDirs)
			case King:
				moves = b.appendStepMoves(moves, from, us, kingOffsets)
				moves = b.appendCastles(moves, from, piece)
			}
		}
	}

	return moves
}

// appendTarget adds a Move onto an empty square or a Capture onto an enemy
// piece. It reports whether the square was empty, so sliders know to keep
// walking the ray.
func (b *Board) appendTarget(moves []Action, from, to Square, us Color) ([]Action, bool) {
	target := b.Get(to)
	if target.IsEmpty() {
		return append(moves, b.newAction(Move, from, to)), true
	}
	if target.Color() != us {
		a := b.newAction(Capture, from, to)
		a.Captured = target
		moves = append(moves, a)
	}
	return moves, false
}

func (b *Board) appendStepMoves(moves []Action, from Square, us Color, offsets [][2]int) []Action {
	for _, off := range offsets {
		to := from.offset(off[0], off[1])
		if !to.OnBoard() {
			continue
		}
		moves, _ = b.appendTarget(moves, from, to, us)
	}
	return moves
}

func (b *Board) appendSlidingMoves(moves []Action, from Square, us Color, dirs [][2]int) []Action {
	for _, d := range dirs {
		for dist := 1; dist < 8; dist++ {
			to := from.offset(d[0]*dist, d[1]*dist)
			if !to.OnBoard() {
				break
			}
			var empty bool
			moves, empty = b.appendTarget(moves, from, to, us)
			if !empty {
				break
			}
		}
	}
	return moves
}

func (b *Board) appendPawnMoves(moves []Action, from Square, pawn Piece) []Action {
	us := pawn.Color()
	dir := forward(us)
	promoRank := backRank(us.Opposite())

	// Pushes
	one := from.offset(0, dir)
	if one.OnBoard() && b.Get(one).IsEmpty() {
		if one.Rank == promoRank {
			moves = b.appendPromotions(moves, from, one, Empty)
		} else {
			moves = append(moves, b.newAction(Move, from, one))
			two := from.offset(0, 2*dir)
			if !pawn.HasMoved() && two.OnBoard() && b.Get(two).IsEmpty() {
				moves = append(moves, b.newAction(PawnDoubleMove, from, two))
			}
		}
	}

	// Diagonal captures
	for _, df := range [2]int{-1, 1} {
		to := from.offset(df, dir)
		if !to.OnBoard() {
			continue
		}
		target := b.Get(to)
		if target.IsEmpty() || target.Color() == us {
			continue
		}
		if to.Rank == promoRank {
			moves = b.appendPromotions(moves, from, to, target)
			continue
		}
		a := b.newAction(Capture, from, to)
		a.Captured = target
		moves = append(moves, a)
	}

	// En passant: the enemy pawn double-stepped past us onto our rank.
	if file, ok := b.EnPassantFile(); ok {
		them := us.Opposite()
		if from.Rank == pawnRank(them)+2*forward(them) && abs(from.File-file) == 1 {
			to := Sq(file, from.Rank+dir)
			if b.Get(Sq(file, from.Rank)).Is(them, Pawn) && b.Get(to).IsEmpty() {
				moves = append(moves, b.newAction(EnPassant, from, to))
			}
		}
	}

	return moves
}

// appendPromotions emits one promotion per promotable kind. A non-empty
// captured piece makes them PromotionCaptures.
func (b *Board) appendPromotions(moves []Action, from, to Square, captured Piece) []Action {
	t := Promotion
	if !captured.IsEmpty() {
		t = PromotionCapture
	}
	us := b.Get(from).Color()
	for _, k := range promotionKinds {
		a := b.newAction(t, from, to)
		a.Captured = captured
		a.Promoted = NewPiece(us, k, true)
		moves = append(moves, a)
	}
	return moves
}

// appendCastles adds castles whose right is set, whose king and rook are
// unmoved and whose in-between squares are empty. Attacked squares are left
// to the legality filter.
func (b *Board) appendCastles(moves []Action, from Square, king Piece) []Action {
	us := king.Color()
	if king.HasMoved() || from != Sq(4, backRank(us)) {
		return moves
	}

	for _, to := range castleDestinations(us) {
		e := castleFor(to)
		if !b.CanCastle(e.right) {
			continue
		}
		rook := b.Get(e.rookFrom)
		if !rook.Is(us, Rook) || rook.HasMoved() {
			continue
		}
		if !b.rankClear(from.Rank, e.king.File, e.rookFrom.File) {
			continue
		}
		moves = append(moves, b.newAction(Castle, from, to))
	}
	return moves
}

// rankClear reports whether every square strictly between two files on rank
// is empty.
func (b *Board) rankClear(rank, fileA, fileB int) bool {
	lo, hi := fileA, fileB
	if lo > hi {
		lo, hi = hi, lo
	}
	for f := lo + 1; f < hi; f++ {
		if !b.Squares[rank][f].IsEmpty() {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
