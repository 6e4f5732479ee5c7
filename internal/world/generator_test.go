package world

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/samdwyer/dungeondepths/internal/rng"
)

var testEnemyTypes = []string{"skeleton", "goblin", "orc"}

func generate(t *testing.T, params Params, seed uint32) *Level {
	t.Helper()
	level, err := NewGenerator(params).Generate(context.Background(), rng.New(seed), testEnemyTypes)
	if err != nil {
		t.Fatalf("Generate(seed=%d) error: %v", seed, err)
	}
	return level
}

func smallParams() Params {
	return Params{Width: 20, Height: 10, MaxRooms: 5, MinRoomSize: 3, MaxRoomSize: 5}
}

func TestGenerateReproducible(t *testing.T) {
	l1 := generate(t, DefaultParams(), 12345)
	l2 := generate(t, DefaultParams(), 12345)

	if !l1.Grid.Equal(l2.Grid) {
		t.Errorf("Grids differ for the same seed:\n%s\n%s", l1.Grid, l2.Grid)
	}
	if len(l1.Rooms) != len(l2.Rooms) {
		t.Fatalf("Room count mismatch: %d != %d", len(l1.Rooms), len(l2.Rooms))
	}
	for i := range l1.Rooms {
		if l1.Rooms[i] != l2.Rooms[i] {
			t.Errorf("Room %d mismatch: %+v != %+v", i, l1.Rooms[i], l2.Rooms[i])
		}
	}
	if len(l1.Spawns) != len(l2.Spawns) {
		t.Fatalf("Spawn count mismatch: %d != %d", len(l1.Spawns), len(l2.Spawns))
	}
	for i := range l1.Spawns {
		if l1.Spawns[i] != l2.Spawns[i] {
			t.Errorf("Spawn %d mismatch: %+v != %+v", i, l1.Spawns[i], l2.Spawns[i])
		}
	}
}

func TestGenerateSmallMapReproducible(t *testing.T) {
	l1 := generate(t, smallParams(), 12345)
	l2 := generate(t, smallParams(), 12345)

	if len(l1.Rooms) != len(l2.Rooms) {
		t.Fatalf("Room count mismatch: %d != %d", len(l1.Rooms), len(l2.Rooms))
	}
	for i := range l1.Rooms {
		if l1.Rooms[i] != l2.Rooms[i] {
			t.Errorf("Room %d mismatch: %+v != %+v", i, l1.Rooms[i], l2.Rooms[i])
		}
	}
	if !l1.Grid.Equal(l2.Grid) {
		t.Error("Grids differ for the same seed")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	l1 := generate(t, DefaultParams(), 12345)
	l2 := generate(t, DefaultParams(), 54321)

	if l1.Grid.Equal(l2.Grid) {
		t.Error("Levels with different seeds should not be identical")
	}
}

func TestGenerateAllRoomsConnected(t *testing.T) {
	for seed := uint32(0); seed < 50; seed++ {
		for _, params := range []Params{DefaultParams(), smallParams()} {
			level := generate(t, params, seed)
			if !AllRoomsConnected(level.Grid, level.Rooms) {
				t.Fatalf("seed %d %dx%d: rooms not connected\n%s", seed, params.Width, params.Height, level.Grid)
			}

			// Every room center must also reach every other one, not just the first.
			for i := range level.Rooms {
				reached := Reachable(level.Grid, level.Rooms[i].CenterPoint())
				for j := range level.Rooms {
					if !reached.Has(level.Rooms[j].CenterPoint()) {
						t.Fatalf("seed %d: room %d cannot reach room %d", seed, i, j)
					}
				}
			}
		}
	}
}

func TestGenerateSingleStairway(t *testing.T) {
	for seed := uint32(0); seed < 30; seed++ {
		level := generate(t, DefaultParams(), seed)

		if n := level.Grid.CountTiles(TileStairsDown); n != 1 {
			t.Fatalf("seed %d: %d stairways, want 1", seed, n)
		}
		stairs, ok := level.Grid.FindStairs()
		if !ok {
			t.Fatalf("seed %d: no stairway", seed)
		}
		if stairs != level.Stairs() {
			t.Errorf("seed %d: stairs at %v, want last room center %v", seed, stairs, level.Stairs())
		}
		if !Reachable(level.Grid, level.Start()).Has(stairs) {
			t.Errorf("seed %d: stairs unreachable from start", seed)
		}
	}
}

func TestGenerateBorderIsWall(t *testing.T) {
	level := generate(t, DefaultParams(), 7)
	g := level.Grid
	for x := 0; x < g.Width; x++ {
		if g.GetTile(x, 0) != TileWall || g.GetTile(x, g.Height-1) != TileWall {
			t.Fatalf("border tile at column %d is not wall", x)
		}
	}
	for y := 0; y < g.Height; y++ {
		if g.GetTile(0, y) != TileWall || g.GetTile(g.Width-1, y) != TileWall {
			t.Fatalf("border tile at row %d is not wall", y)
		}
	}
}

func TestGenerateRoomsDoNotOverlap(t *testing.T) {
	level := generate(t, DefaultParams(), 99)
	for i := range level.Rooms {
		for j := i + 1; j < len(level.Rooms); j++ {
			if level.Rooms[i].Intersects(level.Rooms[j]) {
				t.Errorf("rooms %d and %d overlap: %+v %+v", i, j, level.Rooms[i], level.Rooms[j])
			}
		}
	}
}

func TestGenerateEnemyPlacement(t *testing.T) {
	known := map[string]bool{"goblin": true, "orc": true, "skeleton": true}

	for seed := uint32(0); seed < 30; seed++ {
		level := generate(t, DefaultParams(), seed)
		start := level.Start()

		if len(level.Spawns) > len(level.Rooms) {
			t.Fatalf("seed %d: %d spawns for %d rooms", seed, len(level.Spawns), len(level.Rooms))
		}

		seen := map[Point]bool{}
		perRoom := map[int]int{}
		for _, s := range level.Spawns {
			if s.Point == start {
				t.Errorf("seed %d: enemy on start tile", seed)
			}
			if seen[s.Point] {
				t.Errorf("seed %d: two enemies at %v", seed, s.Point)
			}
			seen[s.Point] = true
			if !known[s.EnemyID] {
				t.Errorf("seed %d: unknown enemy type %q", seed, s.EnemyID)
			}
			if !level.Grid.IsPassable(s.X, s.Y) {
				t.Errorf("seed %d: enemy at %v is not on floor", seed, s.Point)
			}
			for i, room := range level.Rooms {
				if room.Contains(s.X, s.Y) {
					perRoom[i]++
				}
			}
		}
		for i, n := range perRoom {
			if n > 1 {
				t.Errorf("seed %d: room %d has %d enemies\n%s", seed, i, n, spew.Sdump(level.Spawns))
			}
		}
	}
}

func TestGenerateEnemyTypeOrderIrrelevant(t *testing.T) {
	a, err := NewGenerator(DefaultParams()).Generate(context.Background(), rng.New(5), []string{"orc", "goblin", "skeleton"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(DefaultParams()).Generate(context.Background(), rng.New(5), []string{"skeleton", "orc", "goblin"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Spawns {
		if a.Spawns[i] != b.Spawns[i] {
			t.Fatalf("spawn %d depends on catalog order: %+v != %+v", i, a.Spawns[i], b.Spawns[i])
		}
	}
}

func TestGenerateNoEnemyTypes(t *testing.T) {
	level, err := NewGenerator(DefaultParams()).Generate(context.Background(), rng.New(1), nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(level.Spawns) != 0 {
		t.Errorf("Generate() with no enemy types placed %d enemies", len(level.Spawns))
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"tiny map", Params{Width: 2, Height: 2, MaxRooms: 1, MinRoomSize: 2, MaxRoomSize: 2}},
		{"no rooms", Params{Width: 20, Height: 20, MaxRooms: 0, MinRoomSize: 3, MaxRoomSize: 5}},
		{"room size one", Params{Width: 20, Height: 20, MaxRooms: 3, MinRoomSize: 1, MaxRoomSize: 5}},
		{"inverted sizes", Params{Width: 20, Height: 20, MaxRooms: 3, MinRoomSize: 6, MaxRoomSize: 5}},
		{"room wider than map", Params{Width: 10, Height: 30, MaxRooms: 3, MinRoomSize: 3, MaxRoomSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := rng.New(1)
			_, err := NewGenerator(tt.params).Generate(context.Background(), src, nil)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Generate() error = %v, want ErrInvalidParams", err)
			}
			if src.Draws() != 0 {
				t.Errorf("rejected params consumed %d draws", src.Draws())
			}
		})
	}
}

func TestGenerateRetriesContinueStream(t *testing.T) {
	gen := NewGenerator(smallParams())

	// Each attempt allocates a fresh grid; reject everything in the first two.
	attempts := 0
	var lastGrid *Grid
	gen.connected = func(g *Grid, rooms []Room) bool {
		if g != lastGrid {
			attempts++
			lastGrid = g
		}
		return attempts > 2 && AllRoomsConnected(g, rooms)
	}

	src := rng.New(12345)
	level, err := gen.Generate(context.Background(), src, testEnemyTypes)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if level.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", level.Attempts)
	}

	// A first-attempt success from the same seed must differ: the retry
	// draws from the continuing stream rather than re-seeding.
	plain := generate(t, smallParams(), 12345)
	if level.Draws <= plain.Draws {
		t.Errorf("retried generation drew %d values, plain drew %d", level.Draws, plain.Draws)
	}
	if !AllRoomsConnected(level.Grid, level.Rooms) {
		t.Error("retried level is not connected")
	}
}

func TestGenerateExhausted(t *testing.T) {
	gen := NewGenerator(smallParams())
	gen.MaxAttempts = 3
	gen.connected = func(*Grid, []Room) bool { return false }

	level, err := gen.Generate(context.Background(), rng.New(1), testEnemyTypes)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Generate() error = %v, want ErrGenerationExhausted", err)
	}
	if level != nil {
		t.Error("Generate() returned a partial level on exhaustion")
	}
}

func TestGenerateWithCache(t *testing.T) {
	cache, err := NewLevelCache(8)
	if err != nil {
		t.Fatalf("NewLevelCache() error: %v", err)
	}
	defer cache.Close()

	gen := NewGenerator(DefaultParams())
	gen.Cache = cache

	plainSrc := rng.New(777)
	plain, err := NewGenerator(DefaultParams()).Generate(context.Background(), plainSrc, testEnemyTypes)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		src := rng.New(777)
		level, err := gen.Generate(context.Background(), src, testEnemyTypes)
		if err != nil {
			t.Fatalf("cached Generate() #%d error: %v", i, err)
		}
		if !level.Grid.Equal(plain.Grid) {
			t.Errorf("cached Generate() #%d grid differs from uncached", i)
		}
		if src.Draws() != plainSrc.Draws() {
			t.Errorf("cached Generate() #%d left source at %d draws, want %d", i, src.Draws(), plainSrc.Draws())
		}

		// Callers own their copy.
		level.Grid.SetTile(1, 1, TileStairsDown)
	}
}
