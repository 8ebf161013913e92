package game

import "testing"

func TestSquareString(t *testing.T) {
	tests := []struct {
		sq   Square
		want string
	}{
		{Sq(0, 7), "a1"},
		{Sq(4, 4), "e4"},
		{Sq(7, 0), "h8"},
		{Sq(3, 2), "d6"},
	}
	for _, tt := range tests {
		if got := tt.sq.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.sq, got, tt.want)
		}
		back, err := ParseSquare(tt.want)
		if err != nil || back != tt.sq {
			t.Errorf("ParseSquare(%q) = %v, %v", tt.want, back, err)
		}
	}
}

func TestParseSquareErrors(t *testing.T) {
	for _, s := range []string{"", "e", "e44", "i1", "a0", "a9", "E4"} {
		if _, err := ParseSquare(s); err == nil {
			t.Errorf("ParseSquare(%q) should fail", s)
		}
	}
}

func TestActionString(t *testing.T) {
	b := mustFEN(t, "1r2k2r/P7/8/8/8/8/8/R3K2R w KQk - 0 1")
	want := map[string]bool{"e1g1": false, "e1c1": false, "a7a8q": false, "a7a8n": false, "a7b8r": false}
	for _, a := range b.GenerateLegalMoves() {
		if _, ok := want[a.String()]; ok {
			want[a.String()] = true
		}
	}
	for s, found := range want {
		if !found {
			t.Errorf("no legal move prints as %s", s)
		}
	}
}

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "d8h4", "Qh4#"},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 1", "e5d6", "exd6"},
		{"promotion check", "7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8q", "a8=Q+"},
		{"underpromotion", "7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8n", "a8=N"},
		{"promotion capture", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8r", "axb8=R+"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"rook capture", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "h1h8", "Rxh8+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustFEN(t, tt.fen)
			before := *b
			var found bool
			for _, a := range b.GenerateLegalMoves() {
				if a.String() != tt.move {
					continue
				}
				found = true
				if got := b.SAN(a); got != tt.want {
					t.Fatalf("SAN(%s) = %q, want %q", tt.move, got, tt.want)
				}
			}
			if !found {
				t.Fatalf("%s is not legal", tt.move)
			}
			if *b != before {
				t.Fatal("SAN modified the board")
			}
		})
	}
}
