// Package save persists sessions as compact fragments: seeds, lineage,
// player, enemy roster and kill ledger. The map itself is never stored; it
// is regenerated from the lineage on load.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/samdwyer/dungeondepths/internal/engine"
)

// Version is written into every fragment.
const Version = 1

var (
	// ErrMalformedSave is returned when a fragment is missing required
	// fields or holds values that cannot describe a session.
	ErrMalformedSave = errors.New("save: malformed save")
	// ErrUnknownEnemyType is returned when a saved enemy's type id is not in
	// the catalog supplied to Load.
	ErrUnknownEnemyType = errors.New("save: unknown enemy type")
)

// Fragment is the persisted form of a session.
type Fragment struct {
	Version      int                   `json:"version,omitempty"`
	Seed         uint32                `json:"seed"`
	LevelSeeds   map[string]uint32     `json:"level_seeds"`
	CurrentDepth int                   `json:"current_depth"`
	Player       PlayerRecord          `json:"player"`
	Enemies      []EnemyRecord         `json:"enemies"`
	Deltas       map[string]DepthDelta `json:"deltas"`
}

// PlayerRecord is the saved player. The stat fields are optional; absent
// values fall back to the defaults for a new player.
type PlayerRecord struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	HP        int      `json:"hp"`
	Inventory []string `json:"inventory"`
	MaxHP     *int     `json:"max_hp,omitempty"`
	Attack    *int     `json:"attack,omitempty"`
	Defense   *int     `json:"defense,omitempty"`
}

// EnemyRecord is a saved enemy: position, type id and current HP only.
type EnemyRecord struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	EnemyID string `json:"enemy_id"`
	HP      int    `json:"hp"`
}

// DepthDelta is the ledger entry for one depth.
type DepthDelta struct {
	KilledEnemies []PointRecord `json:"killed_enemies"`
}

// PointRecord is a saved coordinate.
type PointRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FromEngine captures e as a fragment.
func FromEngine(e *engine.Engine) *Fragment {
	p := e.Player()
	maxHP, attack, defense := p.MaxHP, p.Attack, p.Defense

	f := &Fragment{
		Version:      Version,
		Seed:         e.Seed(),
		LevelSeeds:   make(map[string]uint32, e.Lineage().Len()),
		CurrentDepth: e.Depth(),
		Player: PlayerRecord{
			X:         p.X,
			Y:         p.Y,
			HP:        p.HP,
			Inventory: append([]string{}, p.Inventory...),
			MaxHP:     &maxHP,
			Attack:    &attack,
			Defense:   &defense,
		},
		Enemies: make([]EnemyRecord, 0, len(e.Enemies())),
		Deltas:  make(map[string]DepthDelta),
	}

	for depth, seed := range e.Lineage().Seeds() {
		f.LevelSeeds[strconv.Itoa(depth)] = seed
	}
	for _, enemy := range e.Enemies() {
		f.Enemies = append(f.Enemies, EnemyRecord{X: enemy.X, Y: enemy.Y, EnemyID: enemy.ID, HP: enemy.HP})
	}
	for _, depth := range e.Ledger().Depths() {
		killed := e.Ledger().Killed(depth)
		delta := DepthDelta{KilledEnemies: make([]PointRecord, 0, len(killed))}
		for _, pt := range killed {
			delta.KilledEnemies = append(delta.KilledEnemies, PointRecord{X: pt.X, Y: pt.Y})
		}
		f.Deltas[strconv.Itoa(depth)] = delta
	}
	return f
}

// Encode marshals the fragment as indented JSON.
func (f *Fragment) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a fragment. Every required field must be
// present; any problem fails the whole decode with ErrMalformedSave.
func Decode(data []byte) (*Fragment, error) {
	if err := checkRequired(data); err != nil {
		return nil, err
	}

	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fragment) validate() error {
	if f.Version > Version {
		return fmt.Errorf("%w: version %d is newer than %d", ErrMalformedSave, f.Version, Version)
	}
	if f.CurrentDepth < 1 {
		return fmt.Errorf("%w: current_depth %d", ErrMalformedSave, f.CurrentDepth)
	}
	for key := range f.LevelSeeds {
		if _, err := parseDepth(key, "level_seeds"); err != nil {
			return err
		}
	}
	if _, ok := f.LevelSeeds[strconv.Itoa(f.CurrentDepth)]; !ok {
		return fmt.Errorf("%w: no level seed for current depth %d", ErrMalformedSave, f.CurrentDepth)
	}
	for key := range f.Deltas {
		if _, err := parseDepth(key, "deltas"); err != nil {
			return err
		}
	}
	if f.Player.HP < 0 {
		return fmt.Errorf("%w: player hp %d", ErrMalformedSave, f.Player.HP)
	}
	return nil
}

// LevelSeedMap returns level_seeds keyed by depth.
func (f *Fragment) LevelSeedMap() map[int]uint32 {
	out := make(map[int]uint32, len(f.LevelSeeds))
	for key, seed := range f.LevelSeeds {
		depth, _ := strconv.Atoi(key)
		out[depth] = seed
	}
	return out
}

// DeltaDepths returns the depths with ledger entries, ascending.
func (f *Fragment) DeltaDepths() []int {
	depths := make([]int, 0, len(f.Deltas))
	for key := range f.Deltas {
		depth, _ := strconv.Atoi(key)
		depths = append(depths, depth)
	}
	sort.Ints(depths)
	return depths
}

func parseDepth(key, field string) (int, error) {
	depth, err := strconv.Atoi(key)
	if err != nil || depth < 1 || strconv.Itoa(depth) != key {
		return 0, fmt.Errorf("%w: %s key %q is not a depth", ErrMalformedSave, field, key)
	}
	return depth, nil
}

// checkRequired walks the raw document and fails on the first missing field.
func checkRequired(data []byte) error {
	top, err := object(data, "save")
	if err != nil {
		return err
	}
	if err := require(top, "save", "seed", "level_seeds", "current_depth", "player", "enemies", "deltas"); err != nil {
		return err
	}

	player, err := object(top["player"], "player")
	if err != nil {
		return err
	}
	if err := require(player, "player", "x", "y", "hp", "inventory"); err != nil {
		return err
	}

	var enemies []json.RawMessage
	if err := json.Unmarshal(top["enemies"], &enemies); err != nil {
		return fmt.Errorf("%w: enemies: %v", ErrMalformedSave, err)
	}
	for i, raw := range enemies {
		where := fmt.Sprintf("enemies[%d]", i)
		enemy, err := object(raw, where)
		if err != nil {
			return err
		}
		if err := require(enemy, where, "x", "y", "enemy_id", "hp"); err != nil {
			return err
		}
	}

	var deltas map[string]json.RawMessage
	if err := json.Unmarshal(top["deltas"], &deltas); err != nil {
		return fmt.Errorf("%w: deltas: %v", ErrMalformedSave, err)
	}
	for key, raw := range deltas {
		where := "deltas." + key
		delta, err := object(raw, where)
		if err != nil {
			return err
		}
		if err := require(delta, where, "killed_enemies"); err != nil {
			return err
		}
		var points []json.RawMessage
		if err := json.Unmarshal(delta["killed_enemies"], &points); err != nil {
			return fmt.Errorf("%w: %s.killed_enemies: %v", ErrMalformedSave, where, err)
		}
		for i, rawPoint := range points {
			pw := fmt.Sprintf("%s.killed_enemies[%d]", where, i)
			point, err := object(rawPoint, pw)
			if err != nil {
				return err
			}
			if err := require(point, pw, "x", "y"); err != nil {
				return err
			}
		}
	}
	return nil
}

func object(raw json.RawMessage, where string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSave, where, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrMalformedSave, where)
	}
	return obj, nil
}

func require(obj map[string]json.RawMessage, where string, keys ...string) error {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%w: %s: missing %q", ErrMalformedSave, where, k)
		}
	}
	return nil
}
