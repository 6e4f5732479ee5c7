package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeondepths/internal/rng"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
)

const (
	// Default map dimensions
	DefaultWidth  = 80
	DefaultHeight = 45

	DefaultMaxRooms    = 30
	DefaultMinRoomSize = 6
	DefaultMaxRoomSize = 10

	// enemyPlacementTries is how many positions are drawn per room before
	// the room is left empty.
	enemyPlacementTries = 5
)

var (
	// ErrInvalidParams is returned when the map parameters cannot produce a room.
	ErrInvalidParams = errors.New("world: invalid generation parameters")
	// ErrGenerationExhausted is returned when MaxAttempts is set and no
	// connected map was produced within it.
	ErrGenerationExhausted = errors.New("world: generation exhausted")
)

// Params controls map size and room placement.
type Params struct {
	Width       int
	Height      int
	MaxRooms    int
	MinRoomSize int
	MaxRoomSize int
}

// DefaultParams returns the stock 80x45 layout.
func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MaxRooms:    DefaultMaxRooms,
		MinRoomSize: DefaultMinRoomSize,
		MaxRoomSize: DefaultMaxRoomSize,
	}
}

// Validate checks that every draw the generator makes has a non-empty range
// and that every room center lands on carved floor.
func (p Params) Validate() error {
	switch {
	case p.Width < 3 || p.Height < 3:
		return fmt.Errorf("%w: map %dx%d is too small", ErrInvalidParams, p.Width, p.Height)
	case p.MaxRooms < 1:
		return fmt.Errorf("%w: max rooms %d", ErrInvalidParams, p.MaxRooms)
	case p.MinRoomSize < 2:
		return fmt.Errorf("%w: min room size %d leaves no interior", ErrInvalidParams, p.MinRoomSize)
	case p.MinRoomSize > p.MaxRoomSize:
		return fmt.Errorf("%w: room size range [%d, %d]", ErrInvalidParams, p.MinRoomSize, p.MaxRoomSize)
	case p.MaxRoomSize > p.Width-1 || p.MaxRoomSize > p.Height-1:
		return fmt.Errorf("%w: room size %d does not fit %dx%d", ErrInvalidParams, p.MaxRoomSize, p.Width, p.Height)
	}
	return nil
}

// Spawn is an enemy placement produced by the generator.
type Spawn struct {
	Point
	EnemyID string
}

// Level is the output of one successful generation.
type Level struct {
	Grid     *Grid
	Rooms    []Room
	Spawns   []Spawn
	Attempts int   // attempts taken, including the successful one
	Draws    int64 // values drawn from the source during generation
}

// Start returns the player start tile: the first room's center, or the grid
// center when there are no rooms.
func (l *Level) Start() Point {
	if len(l.Rooms) > 0 {
		return l.Rooms[0].CenterPoint()
	}
	return Point{l.Grid.Width / 2, l.Grid.Height / 2}
}

// Stairs returns the stairway position, which is always the last room's center.
func (l *Level) Stairs() Point {
	return l.Rooms[len(l.Rooms)-1].CenterPoint()
}

// Clone returns a deep copy of the level.
func (l *Level) Clone() *Level {
	return &Level{
		Grid:     l.Grid.Clone(),
		Rooms:    append([]Room(nil), l.Rooms...),
		Spawns:   append([]Spawn(nil), l.Spawns...),
		Attempts: l.Attempts,
		Draws:    l.Draws,
	}
}

// Generator builds connected room-and-corridor maps.
type Generator struct {
	Params Params

	// MaxAttempts caps the regenerate-until-connected loop. Zero means no cap,
	// which is the reproducible behaviour; a cap only changes the outcome for
	// parameter sets that never converge.
	MaxAttempts int

	// Cache, when set, memoises levels by source position and parameters.
	Cache *LevelCache

	// connected is the acceptance test for an attempt; nil means AllRoomsConnected.
	connected func(*Grid, []Room) bool
}

// NewGenerator creates a generator with no attempt cap.
func NewGenerator(params Params) *Generator {
	return &Generator{Params: params}
}

// Generate draws a connected level from src. enemyTypes is the set of enemy
// ids to draw from; order does not matter, it is sorted before drawing.
// An empty set places no enemies.
//
// The source is consumed: on return its stream position is past every draw
// generation made, including those of failed attempts.
func (g *Generator) Generate(ctx context.Context, src *rng.Source, enemyTypes []string) (*Level, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.generate")
	defer span.End()

	if err := g.Params.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	types := append([]string(nil), enemyTypes...)
	sort.Strings(types)

	var key string
	if g.Cache != nil {
		key = g.Cache.key(src, g.Params, types)
		if cached, ok := g.Cache.get(key); ok {
			src.Advance(cached.Draws)
			span.SetAttributes(attribute.Bool("world.cache_hit", true))
			return cached, nil
		}
	}

	startTime := time.Now()
	startDraws := src.Draws()

	var grid *Grid
	var rooms []Room
	attempts := 0
	for {
		attempts++
		if g.MaxAttempts > 0 && attempts > g.MaxAttempts {
			err := fmt.Errorf("%w: no connected map after %d attempts", ErrGenerationExhausted, g.MaxAttempts)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		var ok bool
		grid, rooms, ok = g.attempt(src)
		if ok {
			break
		}
	}

	stairs := rooms[len(rooms)-1].CenterPoint()
	grid.SetTile(stairs.X, stairs.Y, TileStairsDown)

	spawns := placeEnemies(src, rooms, types)

	level := &Level{
		Grid:     grid,
		Rooms:    rooms,
		Spawns:   spawns,
		Attempts: attempts,
		Draws:    src.Draws() - startDraws,
	}

	if g.Cache != nil {
		g.Cache.put(key, level)
	}

	span.SetAttributes(
		attribute.Int64("world.seed", int64(src.Seed())),
		attribute.Int("world.width", g.Params.Width),
		attribute.Int("world.height", g.Params.Height),
		attribute.Int("world.room_count", len(rooms)),
		attribute.Int("world.enemy_count", len(spawns)),
		attribute.Int("world.attempts", attempts),
		attribute.Int64("world.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return level, nil
}

// attempt runs one pass of room placement. It succeeds when the rooms placed
// by the time the placement loop is exhausted are all connected.
func (g *Generator) attempt(src *rng.Source) (*Grid, []Room, bool) {
	p := g.Params
	grid := NewGrid(p.Width, p.Height)
	rooms := make([]Room, 0, p.MaxRooms)
	connected := false
	check := g.connected
	if check == nil {
		check = AllRoomsConnected
	}

	for i := 0; i < p.MaxRooms; i++ {
		w := src.MustIntInRange(p.MinRoomSize, p.MaxRoomSize)
		h := src.MustIntInRange(p.MinRoomSize, p.MaxRoomSize)
		x := src.MustIntInRange(0, p.Width-w-1)
		y := src.MustIntInRange(0, p.Height-h-1)

		room := NewRoom(x, y, w, h)
		if overlapsAny(room, rooms) {
			continue
		}

		CarveRoom(grid, room)
		if len(rooms) > 0 {
			prev := rooms[len(rooms)-1].CenterPoint()
			horizontalFirst := src.MustIntInRange(0, 1) == 1
			CarveCorridor(grid, prev, room.CenterPoint(), horizontalFirst)
		}
		rooms = append(rooms, room)

		connected = check(grid, rooms)
	}

	return grid, rooms, connected && len(rooms) > 0
}

func overlapsAny(room Room, rooms []Room) bool {
	for _, other := range rooms {
		if room.Intersects(other) {
			return true
		}
	}
	return false
}

// placeEnemies puts at most one enemy in each room, never on the start tile
// and never on top of another enemy.
func placeEnemies(src *rng.Source, rooms []Room, types []string) []Spawn {
	if len(types) == 0 || len(rooms) == 0 {
		return nil
	}

	start := rooms[0].CenterPoint()
	occupied := mapset.New[Point]()
	spawns := make([]Spawn, 0, len(rooms))

	for _, room := range rooms {
		for try := 0; try < enemyPlacementTries; try++ {
			p := Point{
				X: src.MustIntInRange(room.X1+1, room.X2-1),
				Y: src.MustIntInRange(room.Y1+1, room.Y2-1),
			}
			if p == start || occupied.Has(p) {
				continue
			}

			id, err := rng.Choice(src, types)
			if err != nil {
				// types is non-empty, so this cannot happen
				panic(err)
			}
			occupied.Put(p)
			spawns = append(spawns, Spawn{Point: p, EnemyID: id})
			break
		}
	}
	return spawns
}
