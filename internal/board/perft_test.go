package board

import "testing"

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64 // indexed by depth-1
	}{
		{"start", StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []uint64{48, 2039, 97862}},
		{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []uint64{14, 191, 2812, 43238}},
		{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
		{"castle-checks", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
		{"ep-pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tc.nodes {
				if got := Perft(pos, i+1); got != want {
					t.Errorf("perft(%d) = %d, want %d", i+1, got, want)
				}
			}
		})
	}
}

// The rook on h4 pins both pawns against the king along the fourth rank.
func TestEnPassantHorizontalPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v should be illegal", m)
		}
	}
}

func TestMakeUnmakeRestores(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := *pos
	for _, m := range pos.GenerateLegalMoves().Slice() {
		undo := pos.MakeMove(m)
		if pos.Hash != pos.computeHash() {
			t.Errorf("%v: incremental hash %016x, recomputed %016x", m, pos.Hash, pos.computeHash())
		}
		pos.UnmakeMove(m, undo)
		if *pos != before {
			t.Fatalf("%v: position not restored", m)
		}
	}

	undo := pos.MakeMove(PassMove)
	if pos.SideToMove != Black || pos.Hash != pos.computeHash() {
		t.Errorf("pass did not hand the move over cleanly")
	}
	pos.UnmakeMove(PassMove, undo)
	if *pos != before {
		t.Fatal("pass not restored")
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	} {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}

	if _, err := ParseFEN("8/8/8/8/8/8/8/8 w - - 0 1"); err == nil {
		t.Error("expected an error for a board without kings")
	}
}

func TestSAN(t *testing.T) {
	pos := NewPosition()
	moves := []Move{
		NewMove(E2, E4, Pawn),
		NewMove(E7, E5, Pawn),
		NewMove(G1, F3, Knight),
	}
	got := SANLine(pos, moves)
	want := []string{"e4", "e5", "Nf3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
