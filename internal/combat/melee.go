// Package combat provides the default bump-to-attack melee resolution.
package combat

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeondepths/internal/entity"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
)

// Combatant is anything that can trade blows.
type Combatant interface {
	GetName() string
	GetAttack() int
	GetDefense() int
	TakeDamage(amount int) int
	IsAlive() bool
}

var (
	_ Combatant = (*entity.Player)(nil)
	_ Combatant = (*entity.Enemy)(nil)
)

// Result is the outcome of one exchange of blows.
type Result struct {
	DamageDealt    int // by the player
	DamageTaken    int // by the player
	EnemyDefeated  bool
	PlayerDefeated bool
	Message        string
}

// Melee resolves an exchange: the player strikes, and a surviving enemy strikes back.
type Melee struct{}

// Damage is attack minus defense, never less than 1.
func Damage(attack, defense int) int {
	damage := attack - defense
	if damage < 1 {
		damage = 1
	}
	return damage
}

// Strike applies one blow from attacker to defender and returns the damage dealt.
func Strike(attacker, defender Combatant) int {
	return defender.TakeDamage(Damage(attacker.GetAttack(), defender.GetDefense()))
}

// Resolve runs one exchange between the player and enemy.
func (Melee) Resolve(ctx context.Context, player *entity.Player, enemy *entity.Enemy) Result {
	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.exchange")
	defer span.End()

	var r Result
	r.DamageDealt = Strike(player, enemy)
	if !enemy.IsAlive() {
		r.EnemyDefeated = true
		r.Message = fmt.Sprintf("You hit the %s for %d. The %s dies!", enemy.GetName(), r.DamageDealt, enemy.GetName())
	} else {
		r.DamageTaken = Strike(enemy, player)
		r.PlayerDefeated = !player.IsAlive()
		r.Message = fmt.Sprintf("You hit the %s for %d. It hits you for %d.", enemy.GetName(), r.DamageDealt, r.DamageTaken)
		if r.PlayerDefeated {
			r.Message += " You die..."
		}
	}

	span.SetAttributes(
		attribute.String("enemy", enemy.ID),
		attribute.Int("damage_dealt", r.DamageDealt),
		attribute.Int("damage_taken", r.DamageTaken),
		attribute.Bool("enemy_defeated", r.EnemyDefeated),
		attribute.Bool("player_defeated", r.PlayerDefeated),
	)
	return r
}
