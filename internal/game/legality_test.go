package game

import (
	"slices"
	"testing"
)

func TestSquareIsAttackedByPawns(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{"d5", White, true},
		{"f5", White, true},
		{"e5", White, false},
		{"c4", Black, true},
		{"e4", Black, true},
		{"d4", Black, false},
		{"e3", White, false},
	}
	for _, tt := range tests {
		if got := b.SquareIsAttacked(mustSquare(t, tt.sq), tt.by); got != tt.want {
			t.Errorf("SquareIsAttacked(%s, %v) = %v, want %v", tt.sq, tt.by, got, tt.want)
		}
	}
}

func TestSquareIsAttackedBySliders(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/1b6/8/3P4/R3K3 w - - 0 1")
	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{"a8", White, true},  // rook up the open a-file
		{"d1", White, true},  // rook along the first rank
		{"f1", White, true},  // king
		{"e1", Black, false}, // bishop blocked by d2
		{"d2", Black, true},
		{"a3", Black, true},
		{"h4", Black, false},
	}
	for _, tt := range tests {
		if got := b.SquareIsAttacked(mustSquare(t, tt.sq), tt.by); got != tt.want {
			t.Errorf("SquareIsAttacked(%s, %v) = %v, want %v", tt.sq, tt.by, got, tt.want)
		}
	}
}

func TestIsInCheckWithoutKing(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/8/8/r7 w - - 0 1")
	if b.IsInCheck(White) {
		t.Fatal("board without a white king reported check")
	}
}

func TestCheckSymmetry(t *testing.T) {
	fens := append([]string{
		"4k3/8/8/8/8/8/8/4K2r w - - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}, reversibilityFENs...)
	for _, fen := range fens {
		b := mustFEN(t, fen)
		for _, c := range []Color{White, Black} {
			king, ok := b.KingSquare(c)
			if !ok {
				t.Fatalf("%s: no %v king", fen, c)
			}
			if b.IsInCheck(c) != b.SquareIsAttacked(king, c.Opposite()) {
				t.Fatalf("%s: IsInCheck(%v) disagrees with SquareIsAttacked", fen, c)
			}
		}
	}
}

func TestLegalMovesAreSafePseudoLegalMoves(t *testing.T) {
	for _, fen := range reversibilityFENs {
		b := mustFEN(t, fen)
		pseudo := b.GeneratePseudoLegal()
		legal := b.GenerateLegalMoves()
		mover := b.SideToMove

		for _, a := range legal {
			if !slices.Contains(pseudo, a) {
				t.Fatalf("%s: legal move %v is not pseudo-legal", fen, a)
			}
			b.Apply(a)
			if b.IsInCheck(mover) {
				t.Fatalf("%s: legal move %v leaves the king in check", fen, a)
			}
			b.Undo(a)
		}
		for _, a := range pseudo {
			if slices.Contains(legal, a) || a.Type == Castle {
				continue
			}
			b.Apply(a)
			if !b.IsInCheck(mover) {
				t.Fatalf("%s: rejected move %v does not leave the king in check", fen, a)
			}
			b.Undo(a)
		}
	}
}

func TestGenerateLegalMovesLeavesBoard(t *testing.T) {
	b := mustFEN(t, kiwipeteFEN)
	before := *b
	b.GenerateLegalMoves()
	b.ClassifyState()
	if *b != before {
		t.Fatal("move generation modified the board")
	}
}

func TestTerminalStatesHaveNoMoves(t *testing.T) {
	tests := []struct {
		fen  string
		want State
	}{
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", State{Status: Checkmate, Color: White}},
		{"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", State{Status: Checkmate, Color: Black}},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", State{Status: Stalemate}},
	}
	for _, tt := range tests {
		b := mustFEN(t, tt.fen)
		if got := b.ClassifyState(); got != tt.want {
			t.Errorf("%s: ClassifyState() = %v, want %v", tt.fen, got, tt.want)
		}
		if n := len(b.GenerateLegalMoves()); n != 0 {
			t.Errorf("%s: %d legal moves in a terminal position", tt.fen, n)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{Status: Playing}, "Playing"},
		{State{Status: Check, Color: Black}, "CheckBlack"},
		{State{Status: Check, Color: White}, "CheckWhite"},
		{State{Status: Checkmate, Color: Black}, "CheckmateBlack"},
		{State{Status: Checkmate, Color: White}, "CheckmateWhite"},
		{State{Status: Stalemate}, "Stalemate"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
