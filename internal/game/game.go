package game

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeondepths/internal/engine"
	"github.com/samdwyer/dungeondepths/internal/save"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
	"github.com/samdwyer/dungeondepths/internal/ui"
)

// Game runs the input loop for one engine session.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	engine   *engine.Engine
	saves    *save.Manager
	slot     string
	log      logrus.FieldLogger

	state   State
	message string
	running bool
}

// New creates a game over an existing session. saves may be nil, which
// disables the save and load keys.
func New(screen *ui.Screen, eng *engine.Engine, saves *save.Manager, slot string, logger logrus.FieldLogger) *Game {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		engine:   eng,
		saves:    saves,
		slot:     slot,
		log:      logger,
		state:    StatePlaying,
		message:  "Welcome to the dungeon. Find the stairs (>).",
		running:  true,
	}
}

// Engine returns the current session, which changes after a load.
func (g *Game) Engine() *engine.Engine { return g.engine }

// State returns the current state.
func (g *Game) State() State { return g.state }

// Message returns the last message shown.
func (g *Game) Message() string { return g.message }

// Run executes the main game loop until the player quits or is defeated.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.run")
	span.SetAttributes(
		attribute.String("session.id", g.engine.ID()),
		attribute.Int64("game.seed", int64(g.engine.Seed())),
	)
	defer span.End()

	for g.running {
		g.renderer.Render(g.engine.Snapshot(), g.message)
		g.handleInput(ctx)
	}
	if g.state == StateDefeated {
		g.renderer.Render(g.engine.Snapshot(), g.message)
	}

	span.SetAttributes(
		attribute.Int("game.final_depth", g.engine.Depth()),
		attribute.String("game.final_state", g.state.String()),
	)
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// screen finalized
		g.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	}

	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
		g.running = false
		return
	}
	if g.state == StateDefeated {
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		g.tryMove(ctx, 1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			g.tryMove(ctx, 0, -1)
		case 'j':
			g.tryMove(ctx, 0, 1)
		case 'h':
			g.tryMove(ctx, -1, 0)
		case 'l':
			g.tryMove(ctx, 1, 0)
		case '>':
			g.descend(ctx)
		case 'S':
			g.save(ctx)
		case 'L':
			g.load(ctx)
		}
	}
}

// tryMove attempts to move the player by the given delta.
func (g *Game) tryMove(ctx context.Context, dx, dy int) {
	r := g.engine.MovePlayer(ctx, dx, dy)
	g.message = r.Message
	if r.PlayerDefeated {
		g.state = StateDefeated
		g.running = false
		g.log.WithFields(logrus.Fields{
			"session": g.engine.ID(),
			"depth":   g.engine.Depth(),
		}).Info("player defeated")
	}
}

func (g *Game) descend(ctx context.Context) {
	r, err := g.engine.Descend(ctx)
	if err != nil {
		g.log.WithError(err).Error("descend failed")
		g.message = "The stairs are blocked: " + err.Error()
		return
	}
	g.message = r.Message
}

func (g *Game) save(ctx context.Context) {
	if g.saves == nil {
		g.message = "Saving is disabled."
		return
	}
	if err := g.saves.Save(ctx, g.slot, g.engine); err != nil {
		g.log.WithError(err).Error("save failed")
		g.message = "Save failed: " + err.Error()
		return
	}
	g.message = "Game saved."
}

func (g *Game) load(ctx context.Context) {
	if g.saves == nil {
		g.message = "Loading is disabled."
		return
	}
	eng, err := g.saves.Load(ctx, g.slot)
	switch {
	case errors.Is(err, save.ErrSlotNotFound):
		g.message = "No saved game."
	case err != nil:
		g.log.WithError(err).Error("load failed")
		g.message = "Load failed: " + err.Error()
	default:
		g.engine = eng
		g.state = StatePlaying
		g.message = "Game loaded."
		if !eng.Player().IsAlive() {
			g.state = StateDefeated
			g.running = false
			g.message = "That save belongs to a fallen adventurer."
		}
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
