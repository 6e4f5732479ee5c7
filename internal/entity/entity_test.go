package entity

import (
	"testing"

	"github.com/samdwyer/dungeondepths/internal/gamedata"
)

func TestPlayerDamageFloorsAtZero(t *testing.T) {
	p := NewPlayer(3, 4)

	tests := []struct {
		amount  int
		taken   int
		hp      int
		isAlive bool
	}{
		{0, 0, 30, true},
		{-5, 0, 30, true},
		{12, 12, 18, true},
		{100, 18, 0, false},
		{5, 0, 0, false},
	}

	for _, tt := range tests {
		if got := p.TakeDamage(tt.amount); got != tt.taken {
			t.Errorf("TakeDamage(%d) = %d, want %d", tt.amount, got, tt.taken)
		}
		if p.HP != tt.hp {
			t.Errorf("after TakeDamage(%d) HP = %d, want %d", tt.amount, p.HP, tt.hp)
		}
		if p.IsAlive() != tt.isAlive {
			t.Errorf("after TakeDamage(%d) IsAlive() = %v, want %v", tt.amount, p.IsAlive(), tt.isAlive)
		}
	}
}

func TestPlayerHealCapped(t *testing.T) {
	p := NewPlayer(0, 0)
	p.HP = 25
	if got := p.Heal(10); got != 5 {
		t.Errorf("Heal(10) = %d, want 5", got)
	}
	if p.HP != p.MaxHP {
		t.Errorf("HP = %d, want %d", p.HP, p.MaxHP)
	}
}

func TestPlayerMove(t *testing.T) {
	p := NewPlayer(10, 10)
	p.Move(1, -1)
	if x, y := p.Position(); x != 11 || y != 9 {
		t.Errorf("Position() = (%d,%d), want (11,9)", x, y)
	}
	p.AddItem("torch")
	if len(p.Inventory) != 1 || p.Inventory[0] != "torch" {
		t.Errorf("Inventory = %v, want [torch]", p.Inventory)
	}
}

func TestNewEnemyFromDef(t *testing.T) {
	def := &gamedata.EnemyDef{ID: "orc", Name: "Orc", Glyph: "o", Color: "#C0392B", HP: 14, Attack: 5, Defense: 1}
	e := NewEnemyFromDef(def, 7, 8)

	if e.ID != "orc" || e.Name != "Orc" || e.HP != 14 || e.MaxHP != 14 || e.Attack != 5 || e.Defense != 1 {
		t.Errorf("NewEnemyFromDef() = %+v", e)
	}
	if !e.At(7, 8) || e.At(8, 7) {
		t.Error("At() does not match position")
	}
	if e.Symbol() != 'o' {
		t.Errorf("Symbol() = %c, want o", e.Symbol())
	}
}

func TestEnemyHydrateKeepsHP(t *testing.T) {
	def := &gamedata.EnemyDef{ID: "goblin", Name: "Goblin", HP: 8, Attack: 3}
	e := &Enemy{X: 1, Y: 2, HP: 3, ID: "goblin"}
	e.Hydrate(def)

	if e.HP != 3 {
		t.Errorf("Hydrate() changed HP to %d", e.HP)
	}
	if e.Name != "Goblin" || e.Attack != 3 || e.MaxHP != 8 {
		t.Errorf("Hydrate() = %+v", e)
	}
}
