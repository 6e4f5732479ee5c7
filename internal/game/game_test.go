package game

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeondepths/internal/engine"
	"github.com/samdwyer/dungeondepths/internal/gamedata"
	"github.com/samdwyer/dungeondepths/internal/save"
	"github.com/samdwyer/dungeondepths/internal/ui"
)

func newTestGame(t *testing.T, withSaves bool) (*Game, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(100, 50)

	cfg := engine.Config{Registry: gamedata.MustLoadEnemyRegistry()}
	eng, err := engine.New(context.Background(), 12345, cfg)
	if err != nil {
		t.Fatalf("engine.New() error: %v", err)
	}

	var saves *save.Manager
	if withSaves {
		store, err := save.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		saves = save.NewManager(store, cfg, nil)
	}
	return New(ui.NewScreenFrom(sim), eng, saves, "save", nil), sim
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestQuitKeys(t *testing.T) {
	tests := []*tcell.EventKey{
		key('q'),
		key('Q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
	}

	for _, ev := range tests {
		g, _ := newTestGame(t, false)
		g.handleKeyEvent(context.Background(), ev)
		if g.running {
			t.Errorf("key %v did not stop the game", ev.Name())
		}
	}
}

func TestDescendKeyOffStairs(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.handleKeyEvent(context.Background(), key('>'))

	if g.Engine().Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", g.Engine().Depth())
	}
	if g.Message() != "You cannot descend here." {
		t.Errorf("Message() = %q", g.Message())
	}
}

func TestDescendKeyOnStairs(t *testing.T) {
	g, _ := newTestGame(t, false)
	stairs := g.Engine().Level().Stairs()
	g.Engine().Player().SetPosition(stairs.X, stairs.Y)

	g.handleKeyEvent(context.Background(), key('>'))

	if g.Engine().Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", g.Engine().Depth())
	}
}

func TestSaveAndLoadKeys(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGame(t, true)

	g.handleKeyEvent(ctx, key('L'))
	if g.Message() != "No saved game." {
		t.Errorf("Message() = %q, want no saved game", g.Message())
	}

	g.handleKeyEvent(ctx, key('S'))
	if g.Message() != "Game saved." {
		t.Fatalf("Message() = %q, want saved", g.Message())
	}
	x, y := g.Engine().Player().Position()

	g.Engine().Player().SetPosition(1, 1)
	before := g.Engine()
	g.handleKeyEvent(ctx, key('L'))
	if g.Message() != "Game loaded." {
		t.Fatalf("Message() = %q, want loaded", g.Message())
	}
	if g.Engine() == before {
		t.Error("load should replace the session")
	}
	if gx, gy := g.Engine().Player().Position(); gx != x || gy != y {
		t.Errorf("loaded player at (%d,%d), want (%d,%d)", gx, gy, x, y)
	}
}

func TestSaveDisabled(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.handleKeyEvent(context.Background(), key('S'))
	if g.Message() != "Saving is disabled." {
		t.Errorf("Message() = %q", g.Message())
	}
}

func TestDefeatedIgnoresMovement(t *testing.T) {
	g, _ := newTestGame(t, false)
	g.state = StateDefeated
	x, y := g.Engine().Player().Position()

	for _, r := range []rune{'h', 'j', 'k', 'l'} {
		g.handleKeyEvent(context.Background(), key(r))
	}

	if gx, gy := g.Engine().Player().Position(); gx != x || gy != y {
		t.Errorf("defeated player moved to (%d,%d)", gx, gy)
	}
}

// standNextToBrute puts the player, at 1 HP, just left of the first enemy
// and makes that enemy strong enough to survive a hit and kill back.
func standNextToBrute(g *Game) {
	enemy := g.Engine().Enemies()[0]
	enemy.HP = 1000
	enemy.Attack = 50

	player := g.Engine().Player()
	player.HP = 1
	player.SetPosition(enemy.X-1, enemy.Y)
}

func TestDefeatEndsGame(t *testing.T) {
	g, _ := newTestGame(t, false)
	standNextToBrute(g)

	g.handleKeyEvent(context.Background(), key('l'))

	if g.State() != StateDefeated {
		t.Fatalf("State() = %v, want defeated", g.State())
	}
	if g.running {
		t.Error("defeat did not stop the game")
	}
	if g.Message() == "" {
		t.Error("defeat left no message")
	}
}

func TestRunStopsOnDefeat(t *testing.T) {
	g, sim := newTestGame(t, false)
	standNextToBrute(g)
	sim.InjectKey(tcell.KeyRight, 0, tcell.ModNone)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.State() != StateDefeated {
		t.Errorf("State() = %v, want defeated", g.State())
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	g, sim := newTestGame(t, false)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.running {
		t.Error("Run() returned while still running")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StatePlaying, "playing"},
		{StateDefeated, "defeated"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
