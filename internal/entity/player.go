// Package entity provides the player and enemy records.
package entity

const (
	// Default player stats for a new run.
	DefaultPlayerHP      = 30
	DefaultPlayerAttack  = 5
	DefaultPlayerDefense = 2
)

// Player is the adventurer. HP never drops below zero.
type Player struct {
	X, Y      int
	HP, MaxHP int
	Attack    int
	Defense   int
	Inventory []string // item ids, in pickup order
	Symbol    rune
}

// NewPlayer creates a player with default stats at the given position.
func NewPlayer(x, y int) *Player {
	return &Player{
		X:         x,
		Y:         y,
		HP:        DefaultPlayerHP,
		MaxHP:     DefaultPlayerHP,
		Attack:    DefaultPlayerAttack,
		Defense:   DefaultPlayerDefense,
		Inventory: []string{},
		Symbol:    '@',
	}
}

// Move updates the player position by the given delta.
func (p *Player) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// SetPosition places the player at (x, y).
func (p *Player) SetPosition(x, y int) {
	p.X = x
	p.Y = y
}

// Position returns the current x, y coordinates.
func (p *Player) Position() (int, int) {
	return p.X, p.Y
}

// IsAlive returns true if the player has HP remaining.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// TakeDamage reduces HP and returns actual damage taken.
func (p *Player) TakeDamage(amount int) int {
	return takeDamage(&p.HP, amount)
}

// Heal restores HP up to MaxHP and returns the amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if p.HP+actual > p.MaxHP {
		actual = p.MaxHP - p.HP
	}
	p.HP += actual
	return actual
}

// AddItem appends an item id to the inventory.
func (p *Player) AddItem(id string) {
	p.Inventory = append(p.Inventory, id)
}

func takeDamage(hp *int, amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > *hp {
		actual = *hp
	}
	*hp -= actual
	return actual
}

// GetName returns the player's display name.
func (p *Player) GetName() string { return "You" }

// GetAttack returns attack stat.
func (p *Player) GetAttack() int { return p.Attack }

// GetDefense returns defense stat.
func (p *Player) GetDefense() int { return p.Defense }
