package engine

import "testing"

func TestNeighborsClippedAtEdges(t *testing.T) {
	b := NewBoard(9)

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"corner", Position{0, 0}, 2},
		{"edge", Position{4, 0}, 3},
		{"center", Position{4, 4}, 4},
		{"far corner", Position{8, 8}, 2},
	}
	for _, tt := range tests {
		got := b.Neighbors(tt.pos)
		if len(got) != tt.want {
			t.Errorf("%s: Neighbors(%v) returned %d positions, want %d", tt.name, tt.pos, len(got), tt.want)
		}
		for _, n := range got {
			if !b.InBounds(n) {
				t.Errorf("%s: neighbor %v is out of bounds", tt.name, n)
			}
		}
	}
}

func TestGetOutOfRangeReturnsOffboard(t *testing.T) {
	b := NewBoard(9)
	for _, p := range []Position{{-1, 0}, {0, -1}, {9, 0}, {0, 9}, {100, 100}} {
		if got := b.Get(p); got != Offboard {
			t.Errorf("Get(%v) = %v, want Offboard", p, got)
		}
	}
}

func TestGroupAtEmptyPoint(t *testing.T) {
	b := NewBoard(9)
	g := b.GroupAt(Position{4, 4})
	if len(g.Stones) != 0 {
		t.Fatalf("group at empty point has %d stones, want 0", len(g.Stones))
	}
}

func TestGroupAtFloodFill(t *testing.T) {
	b := NewBoard(9)
	// An L of black stones with a white stone touching it diagonally,
	// which must not join the group.
	for _, p := range []Position{{2, 2}, {2, 3}, {2, 4}, {3, 4}} {
		b.set(p, Black)
	}
	b.set(Position{3, 3}, White)

	g := b.GroupAt(Position{2, 3})
	if g.Color != Black {
		t.Fatalf("group color = %v, want black", g.Color)
	}
	if len(g.Stones) != 4 {
		t.Fatalf("group has %d stones, want 4", len(g.Stones))
	}
	// Liberties: (2,1) (1,2) (1,3) (1,4) (2,5) (3,5) (4,4); (3,3) is white.
	if len(g.Liberties) != 7 {
		t.Fatalf("group has %d liberties, want 7", len(g.Liberties))
	}
	if _, ok := g.Liberties[Position{3, 3}]; ok {
		t.Error("occupied point (3,3) counted as a liberty")
	}
}

func TestGroupLibertiesInCorner(t *testing.T) {
	b := NewBoard(9)
	b.set(Position{0, 0}, Black)
	b.set(Position{1, 0}, White)

	g := b.GroupAt(Position{0, 0})
	if len(g.Stones) != 1 || len(g.Liberties) != 1 {
		t.Fatalf("corner stone: %d stones / %d liberties, want 1/1", len(g.Stones), len(g.Liberties))
	}
	if _, ok := g.Liberties[Position{0, 1}]; !ok {
		t.Error("expected (0,1) to be the remaining liberty")
	}
}

func TestGridIsACopy(t *testing.T) {
	b := NewBoard(9)
	b.set(Position{1, 1}, Black)
	grid := b.Grid()
	grid[1][1] = White
	if b.Get(Position{1, 1}) != Black {
		t.Fatal("mutating Grid() result changed the board")
	}
}
