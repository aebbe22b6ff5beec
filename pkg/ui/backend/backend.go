// Package backend defines the terminal device the runtime renders to and
// reads input from. The tcell package drives real terminals; sim drives a
// simulated screen for tests.
package backend

import (
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal. Safe to call more than once.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y).
	SetContent(x, y int, mainc rune, comb []rune, style compositor.Style)

	// Show flushes pending cells to the terminal.
	Show()

	// Sync forces a full redraw on the next Show.
	Sync()

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available. It returns nil once
	// the backend has been finalized.
	PollEvent() terminal.Event

	// PostEvent injects an event into the input stream.
	PostEvent(ev terminal.Event) error
}
