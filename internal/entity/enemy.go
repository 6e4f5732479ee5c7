package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeondepths/internal/gamedata"
)

// Enemy represents a hostile creature in the dungeon. Name, Attack and
// Defense come from the catalog entry; only ID, position and HP are saved.
type Enemy struct {
	Def       *gamedata.EnemyDef
	ID        string // Catalog enemy type id
	Name      string
	X, Y      int
	HP, MaxHP int
	Attack    int
	Defense   int
}

// NewEnemyFromDef creates a full-health enemy from a catalog definition.
func NewEnemyFromDef(def *gamedata.EnemyDef, x, y int) *Enemy {
	e := &Enemy{X: x, Y: y}
	e.Hydrate(def)
	e.HP = def.HP
	return e
}

// Hydrate copies the catalog-derived fields from def without touching HP or position.
func (e *Enemy) Hydrate(def *gamedata.EnemyDef) {
	e.Def = def
	e.ID = def.ID
	e.Name = def.Name
	e.MaxHP = def.HP
	e.Attack = def.Attack
	e.Defense = def.Defense
}

// Position returns the enemy's current x, y coordinates.
func (e *Enemy) Position() (int, int) {
	return e.X, e.Y
}

// At reports whether the enemy stands on (x, y).
func (e *Enemy) At(x, y int) bool {
	return e.X == x && e.Y == y
}

// IsAlive returns true if the enemy has HP remaining.
func (e *Enemy) IsAlive() bool { return e.HP > 0 }

// TakeDamage reduces HP and returns actual damage taken.
func (e *Enemy) TakeDamage(amount int) int {
	return takeDamage(&e.HP, amount)
}

// Symbol returns the display glyph.
func (e *Enemy) Symbol() rune {
	if e.Def != nil {
		return e.Def.GlyphRune()
	}
	return '?'
}

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// GetName returns the enemy's display name.
func (e *Enemy) GetName() string { return e.Name }

// GetAttack returns attack stat.
func (e *Enemy) GetAttack() int { return e.Attack }

// GetDefense returns defense stat.
func (e *Enemy) GetDefense() int { return e.Defense }
