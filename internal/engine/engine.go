// Package engine holds the live session: the current level, the player and
// enemy roster, the seed lineage and the kill ledger.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeondepths/internal/combat"
	"github.com/samdwyer/dungeondepths/internal/entity"
	"github.com/samdwyer/dungeondepths/internal/gamedata"
	"github.com/samdwyer/dungeondepths/internal/rng"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
	"github.com/samdwyer/dungeondepths/internal/world"
)

// Combat resolves a bump into an enemy. The engine applies the outcome:
// a defeated enemy is removed and recorded in the ledger.
type Combat interface {
	Resolve(ctx context.Context, player *entity.Player, enemy *entity.Enemy) combat.Result
}

// Config wires the engine's collaborators. Registry is required.
type Config struct {
	Registry *gamedata.EnemyRegistry

	// Procgen supplies per-depth parameters; nil uses world.DefaultParams.
	Procgen *gamedata.Procgen

	// MaxAttempts caps generation retries; zero is unbounded.
	MaxAttempts int
	Cache       *world.LevelCache

	// Combat defaults to combat.Melee.
	Combat Combat
	Logger logrus.FieldLogger
}

// MoveResult describes what a move did. A move that changed nothing is not an error.
type MoveResult struct {
	Moved          bool
	Attacked       bool
	EnemyDefeated  bool
	PlayerDefeated bool
	Message        string
}

// DescendResult describes a descend request.
type DescendResult struct {
	Descended bool
	Depth     int
	Message   string
}

// View is a read-only picture of the session for renderers.
type View struct {
	Depth   int
	Seed    uint32
	Grid    *world.Grid
	Player  *entity.Player
	Enemies []*entity.Enemy
}

// Engine is a single-player dungeon session. It is not safe for concurrent use.
type Engine struct {
	id      string
	cfg     Config
	log     logrus.FieldLogger
	lineage *Lineage
	ledger  *Ledger

	depth   int
	src     *rng.Source
	level   *world.Level
	player  *entity.Player
	enemies []*entity.Enemy
}

// New starts a session at depth 1 from master seed and places a fresh
// player at the start room's center.
func New(ctx context.Context, seed uint32, cfg Config) (*Engine, error) {
	e, err := newEngine(cfg, NewLineage(seed), NewLedger())
	if err != nil {
		return nil, err
	}

	e.player = entity.NewPlayer(0, 0)
	if err := e.EnterDepth(ctx, 1); err != nil {
		return nil, err
	}
	e.log.WithField("seed", seed).Info("new session")
	return e, nil
}

// State is everything needed to rebuild a session without its map.
type State struct {
	Seed    uint32
	Lineage map[int]uint32
	Depth   int
	Player  *entity.Player
	Enemies []*entity.Enemy
	Kills   map[int][]world.Point
}

// Restore rebuilds a session from saved state. The current depth's map is
// regenerated from its lineage seed; the generated enemies are discarded and
// st.Enemies is used as the roster. Lineage and kills are taken verbatim.
func Restore(ctx context.Context, st State, cfg Config) (*Engine, error) {
	if st.Depth < 1 {
		return nil, fmt.Errorf("engine: depth %d, depths start at 1", st.Depth)
	}
	if st.Player == nil {
		return nil, fmt.Errorf("engine: no player")
	}

	e, err := newEngine(cfg, RestoreLineage(st.Seed, st.Lineage), RestoreLedger(st.Kills))
	if err != nil {
		return nil, err
	}

	level, src, err := e.generate(ctx, st.Depth)
	if err != nil {
		return nil, err
	}
	e.depth = st.Depth
	e.level = level
	e.src = src
	e.player = st.Player
	e.enemies = append([]*entity.Enemy{}, st.Enemies...)

	e.log.WithFields(logrus.Fields{"seed": st.Seed, "depth": st.Depth}).Info("session restored")
	return e, nil
}

func newEngine(cfg Config, lineage *Lineage, ledger *Ledger) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("engine: no enemy registry")
	}
	if cfg.Combat == nil {
		cfg.Combat = combat.Melee{}
	}

	id := uuid.NewString()
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Engine{
		id:      id,
		cfg:     cfg,
		log:     logger.WithField("session", id),
		lineage: lineage,
		ledger:  ledger,
	}, nil
}

// ParamsForDepth returns the generation parameters used at depth.
func (e *Engine) ParamsForDepth(depth int) world.Params {
	if e.cfg.Procgen == nil {
		return world.DefaultParams()
	}
	return e.cfg.Procgen.ParamsForDepth(depth)
}

// generate builds the map for depth from a fresh source on its lineage seed.
// An unvisited depth's seed is only allocated once generation succeeds.
func (e *Engine) generate(ctx context.Context, depth int) (*world.Level, *rng.Source, error) {
	seed, ok := e.lineage.Lookup(depth)
	if !ok {
		seed = DeriveSeed(e.lineage.Master(), depth)
	}
	src := rng.New(seed)
	gen := world.NewGenerator(e.ParamsForDepth(depth))
	gen.MaxAttempts = e.cfg.MaxAttempts
	gen.Cache = e.cfg.Cache

	level, err := gen.Generate(ctx, src, e.cfg.Registry.IDs())
	if err != nil {
		return nil, nil, fmt.Errorf("generate depth %d: %w", depth, err)
	}
	if !ok {
		e.lineage.SeedFor(depth)
	}
	return level, src, nil
}

// EnterDepth regenerates depth from its lineage seed, drops every enemy the
// ledger records as killed there, and moves the player to the start tile.
// Unvisited depths get a seed allocated first.
func (e *Engine) EnterDepth(ctx context.Context, depth int) error {
	if depth < 1 {
		return fmt.Errorf("engine: depth %d, depths start at 1", depth)
	}

	level, src, err := e.generate(ctx, depth)
	if err != nil {
		return err
	}

	enemies := make([]*entity.Enemy, 0, len(level.Spawns))
	for _, s := range level.Spawns {
		def := e.cfg.Registry.GetByID(s.EnemyID)
		if def == nil {
			return fmt.Errorf("engine: generator chose unknown enemy type %q", s.EnemyID)
		}
		enemies = append(enemies, entity.NewEnemyFromDef(def, s.X, s.Y))
	}

	e.depth = depth
	e.level = level
	e.src = src
	e.enemies = e.ledger.Apply(depth, enemies)

	start := level.Start()
	e.player.SetPosition(start.X, start.Y)

	e.log.WithFields(logrus.Fields{
		"depth":    depth,
		"seed":     src.Seed(),
		"rooms":    len(level.Rooms),
		"enemies":  len(e.enemies),
		"removed":  len(enemies) - len(e.enemies),
		"attempts": level.Attempts,
	}).Debug("entered depth")
	return nil
}

// MovePlayer moves the player by (dx, dy). Bumping into a live enemy starts
// combat instead of moving; bumping into a wall does nothing.
func (e *Engine) MovePlayer(ctx context.Context, dx, dy int) MoveResult {
	x, y := e.player.X+dx, e.player.Y+dy

	if enemy := e.EnemyAt(x, y); enemy != nil {
		r := e.cfg.Combat.Resolve(ctx, e.player, enemy)
		if r.EnemyDefeated || !enemy.IsAlive() {
			e.Kill(enemy)
		}
		return MoveResult{
			Attacked:       true,
			EnemyDefeated:  r.EnemyDefeated || !enemy.IsAlive(),
			PlayerDefeated: r.PlayerDefeated || !e.player.IsAlive(),
			Message:        r.Message,
		}
	}

	if !e.level.Grid.IsPassable(x, y) {
		return MoveResult{}
	}
	e.player.Move(dx, dy)

	if e.level.Grid.GetTile(x, y) == world.TileStairsDown {
		return MoveResult{Moved: true, Message: "There is a staircase down here."}
	}
	return MoveResult{Moved: true}
}

// Descend takes the stairs. Off the stairs it is a rejected action, not an error.
func (e *Engine) Descend(ctx context.Context) (DescendResult, error) {
	if e.level.Grid.GetTile(e.player.X, e.player.Y) != world.TileStairsDown {
		return DescendResult{Depth: e.depth, Message: "You cannot descend here."}, nil
	}

	tracer := telemetry.Tracer("engine")
	ctx, span := tracer.Start(ctx, "engine.descend")
	defer span.End()

	next := e.depth + 1
	span.SetAttributes(
		attribute.String("session.id", e.id),
		attribute.Int("engine.from_depth", e.depth),
		attribute.Int("engine.to_depth", next),
	)

	if err := e.EnterDepth(ctx, next); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DescendResult{Depth: e.depth}, err
	}

	e.log.WithField("depth", next).Info("descended")
	return DescendResult{
		Descended: true,
		Depth:     next,
		Message:   fmt.Sprintf("You descend to depth %d.", next),
	}, nil
}

// Kill removes enemy from the roster and records its position in the ledger
// for the current depth.
func (e *Engine) Kill(enemy *entity.Enemy) {
	for i, other := range e.enemies {
		if other == enemy {
			e.enemies = append(e.enemies[:i], e.enemies[i+1:]...)
			break
		}
	}
	e.ledger.RecordKill(e.depth, world.Point{X: enemy.X, Y: enemy.Y})
	e.log.WithFields(logrus.Fields{
		"depth": e.depth,
		"enemy": enemy.ID,
		"x":     enemy.X,
		"y":     enemy.Y,
	}).Debug("enemy killed")
}

// EnemyAt returns the live enemy at (x, y), or nil.
func (e *Engine) EnemyAt(x, y int) *entity.Enemy {
	for _, enemy := range e.enemies {
		if enemy.At(x, y) && enemy.IsAlive() {
			return enemy
		}
	}
	return nil
}

// Snapshot returns the current view. The pointers are shared with the engine.
func (e *Engine) Snapshot() View {
	return View{
		Depth:   e.depth,
		Seed:    e.src.Seed(),
		Grid:    e.level.Grid,
		Player:  e.player,
		Enemies: e.enemies,
	}
}

// ID returns the session id.
func (e *Engine) ID() string { return e.id }

// Seed returns the master seed.
func (e *Engine) Seed() uint32 { return e.lineage.Master() }

// Depth returns the current depth.
func (e *Engine) Depth() int { return e.depth }

// Lineage returns the level seed lineage.
func (e *Engine) Lineage() *Lineage { return e.lineage }

// Ledger returns the kill ledger.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Source returns the current depth's random source.
func (e *Engine) Source() *rng.Source { return e.src }

// Level returns the current level.
func (e *Engine) Level() *world.Level { return e.level }

// Grid returns the current map.
func (e *Engine) Grid() *world.Grid { return e.level.Grid }

// Player returns the player.
func (e *Engine) Player() *entity.Player { return e.player }

// Enemies returns the current roster.
func (e *Engine) Enemies() []*entity.Enemy { return e.enemies }

// Registry returns the enemy catalog the engine was built with.
func (e *Engine) Registry() *gamedata.EnemyRegistry { return e.cfg.Registry }
