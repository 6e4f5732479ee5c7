package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeondepths/internal/engine"
	"github.com/samdwyer/dungeondepths/internal/world"
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the map, enemies, player, a status line and message.
func (r *Renderer) Render(view engine.View, message string) {
	r.screen.Clear()

	grid := view.Grid
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			tile := grid.GetTile(x, y)
			r.screen.SetContent(x, y, tile.Rune(), tileStyle(tile))
		}
	}

	for _, enemy := range view.Enemies {
		if !enemy.IsAlive() {
			continue
		}
		style := tcell.StyleDefault.Foreground(enemy.Color())
		r.screen.SetContent(enemy.X, enemy.Y, enemy.Symbol(), style)
	}

	playerStyle := tcell.StyleDefault.
		Foreground(tcell.ColorYellow).
		Bold(true)
	r.screen.SetContent(view.Player.X, view.Player.Y, view.Player.Symbol, playerStyle)

	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.DrawText(0, grid.Height, StatusLine(view), text)
	if message != "" {
		r.screen.DrawText(0, grid.Height+1, message, text)
	}

	r.screen.Show()
}

// tileStyle returns the appropriate style for a tile type.
func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileStairsDown:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// StatusLine summarises depth, HP and seed.
func StatusLine(view engine.View) string {
	p := view.Player
	return fmt.Sprintf("Depth %d  HP %d/%d  Seed %d", view.Depth, p.HP, p.MaxHP, view.Seed)
}
