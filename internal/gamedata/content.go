package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeondepths/data"
)

// EnemyDef defines an enemy type from the content catalog.
type EnemyDef struct {
	ID      string `json:"id"`      // Unique identifier (e.g., "goblin")
	Name    string `json:"name"`    // Display name (e.g., "Goblin")
	Glyph   string `json:"glyph"`   // Single character for rendering (e.g., "g")
	Color   string `json:"color"`   // Hex color code (e.g., "#00FF00")
	HP      int    `json:"hp"`      // Base hit points
	Attack  int    `json:"attack"`  // Base attack power
	Defense int    `json:"defense"` // Base defense value
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color, white when unset.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseColor(e.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// ItemDef defines an item from the content catalog.
type ItemDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Content is the parsed content catalog.
type Content struct {
	Items   []ItemDef  `json:"items"`
	Enemies []EnemyDef `json:"enemies"`
}

// LoadContent loads the catalog from path, or the embedded default when path is empty.
// Both the items and enemies lists must be present.
func LoadContent(path string) (*Content, error) {
	fsys, name := source(path, data.ContentFile)
	content, err := Load[Content](fsys, name)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// MustLoadContent loads the embedded catalog, panicking on error.
func MustLoadContent() *Content {
	content := MustLoad[Content](data.FS(), data.ContentFile)
	return &content
}

func (c *Content) requiredKeys() []string {
	return []string{"items", "enemies"}
}

func (c *Content) validate() error {
	seen := make(map[string]bool, len(c.Enemies))
	for _, e := range c.Enemies {
		if e.ID == "" {
			return fmt.Errorf("enemy %q has no id", e.Name)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate enemy id %q", e.ID)
		}
		if e.HP < 1 {
			return fmt.Errorf("enemy %q has hp %d", e.ID, e.HP)
		}
		if e.Color != "" {
			if _, err := ParseColor(e.Color); err != nil {
				return fmt.Errorf("enemy %q: %w", e.ID, err)
			}
		}
		seen[e.ID] = true
	}

	seen = make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("item %q has no id", it.Name)
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}
