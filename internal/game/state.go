// Package game provides the interactive loop around an engine session.
package game

// State represents the current game state.
type State int

const (
	// StatePlaying accepts movement, stairs and save/load keys.
	StatePlaying State = iota
	// StateDefeated is entered when the player dies; only quitting is possible.
	StateDefeated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}
