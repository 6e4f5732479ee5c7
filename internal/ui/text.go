package ui

import (
	"strings"

	"github.com/samdwyer/dungeondepths/internal/engine"
)

// RenderText draws the view as plain text: one line per map row, enemies
// over tiles and the player over everything, followed by the status line.
func RenderText(view engine.View) string {
	grid := view.Grid
	rows := make([][]rune, grid.Height)
	for y := range rows {
		rows[y] = make([]rune, grid.Width)
		for x := range rows[y] {
			rows[y][x] = grid.GetTile(x, y).Rune()
		}
	}

	for _, enemy := range view.Enemies {
		if enemy.IsAlive() && grid.InBounds(enemy.X, enemy.Y) {
			rows[enemy.Y][enemy.X] = enemy.Symbol()
		}
	}
	if p := view.Player; p != nil && grid.InBounds(p.X, p.Y) {
		rows[p.Y][p.X] = p.Symbol
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	if view.Player != nil {
		b.WriteString(StatusLine(view))
		b.WriteByte('\n')
	}
	return b.String()
}
