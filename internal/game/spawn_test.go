package game

import "testing"

func TestSpawnChoosesAmongEmptyCells(t *testing.T) {
	b := boardFrom(t, Grid{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	})

	rng := &queueRandom{values: []int{3}}
	s := NewSpawner(rng, 2)

	cell, ok := s.Spawn(b)
	if !ok {
		t.Fatal("Spawn() should succeed on a board with empty cells")
	}

	// Empty cells in row-major order: (0,1) (0,3) (1,0) (1,2) ...
	if cell != (Cell{Row: 1, Col: 2}) {
		t.Errorf("Spawn() placed tile at %v, want (1,2)", cell)
	}
	if b.Get(1, 2) != 2 {
		t.Errorf("spawned value = %d, want 2", b.Get(1, 2))
	}
	if len(rng.calls) != 1 || rng.calls[0] != 8 {
		t.Errorf("Intn calls = %v, want a single draw over 8 empty cells", rng.calls)
	}
}

func TestSpawnFullBoard(t *testing.T) {
	b := boardFrom(t, Grid{{2, 4}, {8, 16}})
	rng := &queueRandom{}

	if _, ok := NewSpawner(rng, 2).Spawn(b); ok {
		t.Error("Spawn() on a full board should report false")
	}
	if len(rng.calls) != 0 {
		t.Error("Spawn() on a full board should not draw a random number")
	}
	if !b.Grid().Equal(Grid{{2, 4}, {8, 16}}) {
		t.Error("Spawn() on a full board must not change it")
	}
}

func TestSpawnFillsBoardWithoutRetries(t *testing.T) {
	b, _ := NewBoard(3, 3)
	rng := &queueRandom{values: []int{100, 100, 100, 100, 100, 100, 100, 100, 100}}
	s := NewSpawner(rng, 2)

	for i := range 9 {
		if _, ok := s.Spawn(b); !ok {
			t.Fatalf("Spawn() #%d failed with %d empty cells", i+1, len(EmptyCells(b)))
		}
	}
	if HasEmptyCell(b) {
		t.Error("nine spawns should fill a 3x3 board")
	}
	for i, n := range rng.calls {
		if n != 9-i {
			t.Errorf("draw %d over %d cells, want %d", i, n, 9-i)
		}
	}
}

func TestNewSpawnerRejectsInvalidValue(t *testing.T) {
	if v := NewSpawner(&queueRandom{}, 3).Value(); v != BaseTileValue {
		t.Errorf("Value() = %d, want %d", v, BaseTileValue)
	}
	if v := NewSpawner(&queueRandom{}, 4).Value(); v != 4 {
		t.Errorf("Value() = %d, want 4", v)
	}
}

func TestEmptyCells(t *testing.T) {
	b := boardFrom(t, Grid{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	})

	if n := len(EmptyCells(b)); n != 8 {
		t.Errorf("EmptyCells count = %d, want 8", n)
	}
}
