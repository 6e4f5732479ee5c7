package save

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/dungeondepths/internal/engine"
	"github.com/samdwyer/dungeondepths/internal/entity"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
	"github.com/samdwyer/dungeondepths/internal/world"
)

// Encode captures e and marshals it.
func Encode(e *engine.Engine) ([]byte, error) {
	return FromEngine(e).Encode()
}

// Load decodes data and rebuilds the session it describes.
func Load(ctx context.Context, data []byte, cfg engine.Config) (*engine.Engine, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Rebuild(ctx, f, cfg)
}

// Rebuild turns a decoded fragment into a session. Saved enemies are
// rehydrated from cfg.Registry; an id missing from the catalog fails with
// ErrUnknownEnemyType and no engine is returned.
func Rebuild(ctx context.Context, f *Fragment, cfg engine.Config) (*engine.Engine, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("save: no enemy registry")
	}

	enemies := make([]*entity.Enemy, 0, len(f.Enemies))
	for _, rec := range f.Enemies {
		def := cfg.Registry.GetByID(rec.EnemyID)
		if def == nil {
			return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrUnknownEnemyType, rec.EnemyID, rec.X, rec.Y)
		}
		enemy := &entity.Enemy{X: rec.X, Y: rec.Y, HP: rec.HP}
		enemy.Hydrate(def)
		enemies = append(enemies, enemy)
	}

	kills := make(map[int][]world.Point, len(f.Deltas))
	for _, depth := range f.DeltaDepths() {
		delta := f.Deltas[fmt.Sprint(depth)]
		points := make([]world.Point, 0, len(delta.KilledEnemies))
		for _, p := range delta.KilledEnemies {
			points = append(points, world.Point{X: p.X, Y: p.Y})
		}
		kills[depth] = points
	}

	return engine.Restore(ctx, engine.State{
		Seed:    f.Seed,
		Lineage: f.LevelSeedMap(),
		Depth:   f.CurrentDepth,
		Player:  f.Player.toPlayer(),
		Enemies: enemies,
		Kills:   kills,
	}, cfg)
}

func (r PlayerRecord) toPlayer() *entity.Player {
	p := entity.NewPlayer(r.X, r.Y)
	if r.MaxHP != nil {
		p.MaxHP = *r.MaxHP
	}
	if r.Attack != nil {
		p.Attack = *r.Attack
	}
	if r.Defense != nil {
		p.Defense = *r.Defense
	}
	p.HP = r.HP
	if p.HP > p.MaxHP {
		p.MaxHP = p.HP
	}
	p.Inventory = append([]string{}, r.Inventory...)
	return p
}

// Manager saves sessions to and loads them from a Store.
type Manager struct {
	store  Store
	engine engine.Config
	log    logrus.FieldLogger
}

// NewManager creates a manager. cfg is used to rebuild loaded sessions.
func NewManager(store Store, cfg engine.Config, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Manager{store: store, engine: cfg, log: logger}
}

// Save writes e to slot.
func (m *Manager) Save(ctx context.Context, slot string, e *engine.Engine) error {
	tracer := telemetry.Tracer("save")
	ctx, span := tracer.Start(ctx, "save.write")
	defer span.End()
	span.SetAttributes(
		attribute.String("save.slot", slot),
		attribute.String("session.id", e.ID()),
		attribute.Int("save.depth", e.Depth()),
	)

	data, err := Encode(e)
	if err != nil {
		return fail(span, err)
	}
	if err := m.store.Write(ctx, slot, data); err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.Int("save.bytes", len(data)))

	m.log.WithFields(logrus.Fields{"slot": slot, "depth": e.Depth(), "session": e.ID()}).Info("game saved")
	return nil
}

// Load reads slot and rebuilds its session.
func (m *Manager) Load(ctx context.Context, slot string) (*engine.Engine, error) {
	tracer := telemetry.Tracer("save")
	ctx, span := tracer.Start(ctx, "save.load")
	defer span.End()
	span.SetAttributes(attribute.String("save.slot", slot))

	data, err := m.store.Read(ctx, slot)
	if err != nil {
		return nil, fail(span, err)
	}
	e, err := Load(ctx, data, m.engine)
	if err != nil {
		m.log.WithField("slot", slot).WithError(err).Warn("load failed")
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("save.depth", e.Depth()))
	m.log.WithFields(logrus.Fields{"slot": slot, "depth": e.Depth(), "session": e.ID()}).Info("game loaded")
	return e, nil
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
