package board

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Result
	}{
		// Rook on the back rank, pawns block the king's escape.
		{"back-rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", Win(White)},
		// The king can take the checking rook.
		{"escape by capture", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", Result{Outcome: Ongoing}},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Result{Outcome: Draw}},
		{"fifty moves", "7k/8/8/8/8/8/R7/K7 w - - 100 80", Result{Outcome: Draw}},
		{"bare kings", "7k/8/8/8/8/8/8/K7 w - - 0 1", Result{Outcome: Draw}},
		{"lone knight", "7k/8/8/8/8/8/8/KN6 w - - 0 1", Result{Outcome: Draw}},
		{"rook is enough", "7k/8/8/8/8/8/8/KR6 w - - 0 1", Result{Outcome: Ongoing}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.Resolve(pos.GenerateLegalMoves()); got != tc.want {
				t.Errorf("Resolve() = %v, want %v", got, tc.want)
			}
		})
	}
}
