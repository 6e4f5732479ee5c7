// Package ui draws a session: a tcell renderer for play and a plain-text
// renderer for dumps and tests.
package ui

import "github.com/gdamore/tcell/v2"

// Screen is the subset of tcell the game uses. Writes outside the current
// terminal size are dropped.
type Screen struct {
	screen tcell.Screen
}

// NewScreen initializes the terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}, nil
}

// NewScreenFrom wraps an initialized tcell screen, such as a simulation screen.
func NewScreenFrom(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks for the next event; nil once the screen is closed.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

func (s *Screen) Clear() { s.screen.Clear() }

func (s *Screen) Show() { s.screen.Show() }

func (s *Screen) Sync() { s.screen.Sync() }

// SetContent writes one cell, ignoring positions off screen.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	w, h := s.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.screen.SetContent(x, y, r, nil, style)
}

// DrawText writes text on row y starting at column x, clipped at the right edge.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, style)
	}
}
