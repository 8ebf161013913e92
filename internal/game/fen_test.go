package game

import (
	"errors"
	"testing"
)

func TestParseFENStart(t *testing.T) {
	b := mustFEN(t, StartFEN)
	if *b != *NewBoard() {
		t.Fatal("ParseFEN(StartFEN) differs from NewBoard")
	}
	if got := b.Position(); got != StartPosition {
		t.Fatalf("Position() = %q, want %q", got, StartPosition)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		kiwipeteFEN,
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 1",
		"4k3/4p3/8/8/4P3/8/8/4K3 b - e3 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/8/8/8/8/8/8/K6k b - - 0 1",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Errorf("FEN round trip: got %q want %q", got, fen)
		}
	}
}

func TestParseFENWithoutClocks(t *testing.T) {
	b := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	if *b != *NewBoard() {
		t.Fatal("four-field FEN differs from the start position")
	}
}

func TestParseFENEnPassant(t *testing.T) {
	b := mustFEN(t, "4k3/4p3/8/8/4P3/8/8/4K3 b - e3 0 1")
	if file, ok := b.EnPassantFile(); !ok || file != 4 {
		t.Fatalf("EnPassantFile() = %d, %v; want 4, true", file, ok)
	}
	if b.SideToMove != Black {
		t.Fatal("side to move should be black")
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"short rank", "7/8/8/8/8/8/8/8 w - - 0 1"},
		{"long rank", "9/8/8/8/8/8/8/8 w - - 0 1"},
		{"overflowing pieces", "8p/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad piece", "x7/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad color", "8/8/8/8/8/8/8/8 x - - 0 1"},
		{"bad castling", "8/8/8/8/8/8/8/8 w KX - 0 1"},
		{"bad en passant", "8/8/8/8/8/8/8/8 w - z9 0 1"},
		{"en passant wrong rank", "8/8/8/8/8/8/8/8 w - e3 0 1"},
		{"bad clock", "8/8/8/8/8/8/8/8 w - - x 1"},
		{"bad move number", "8/8/8/8/8/8/8/8 w - - 0 0"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"en passant without pawn", "4k3/8/8/8/8/8/8/4K3 w - d6 0 1"},
		{"en passant start square occupied", "4k3/3p4/8/3p4/8/8/8/4K3 w - d6 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Fatalf("ParseFEN(%q) error = %v, want ErrInvalidFEN", tt.fen, err)
			}
		})
	}
}
