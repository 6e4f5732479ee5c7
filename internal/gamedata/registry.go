package gamedata

import (
	"errors"
	"sort"
)

// EnemyRegistry holds loaded enemy definitions keyed by id.
type EnemyRegistry struct {
	enemies []EnemyDef
	byID    map[string]*EnemyDef
	ids     []string
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	registry := &EnemyRegistry{
		enemies: enemies,
		byID:    make(map[string]*EnemyDef, len(enemies)),
		ids:     make([]string, 0, len(enemies)),
	}
	for i := range enemies {
		registry.byID[enemies[i].ID] = &enemies[i]
		registry.ids = append(registry.ids, enemies[i].ID)
	}
	sort.Strings(registry.ids)
	return registry
}

// LoadEnemyRegistry loads the embedded catalog and builds its enemy registry.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	content, err := LoadContent("")
	if err != nil {
		return nil, err
	}
	if len(content.Enemies) == 0 {
		return nil, errors.New("no enemies loaded from content.json")
	}
	return content.EnemyRegistry(), nil
}

// MustLoadEnemyRegistry loads a registry, panicking on error.
func MustLoadEnemyRegistry() *EnemyRegistry {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// EnemyRegistry builds a registry over the catalog's enemies.
func (c *Content) EnemyRegistry() *EnemyRegistry {
	return NewEnemyRegistry(c.Enemies)
}

// ItemRegistry builds a registry over the catalog's items.
func (c *Content) ItemRegistry() *ItemRegistry {
	return NewItemRegistry(c.Items)
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	return r.byID[id]
}

// IDs returns every enemy id in sorted order. This is the order the
// generator draws enemy types from.
func (r *EnemyRegistry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// All returns all enemy definitions.
func (r *EnemyRegistry) All() []EnemyDef {
	return r.enemies
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// =============================================================================
// ItemRegistry
// =============================================================================

// ItemRegistry holds loaded item definitions keyed by id.
type ItemRegistry struct {
	items map[string]*ItemDef
	all   []ItemDef
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	registry := &ItemRegistry{
		items: make(map[string]*ItemDef, len(items)),
		all:   items,
	}
	for i := range items {
		registry.items[items[i].ID] = &items[i]
	}
	return registry
}

// GetByID returns the item definition with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id string) *ItemDef {
	return r.items[id]
}

// Count returns the number of items in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.all)
}
