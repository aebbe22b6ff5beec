// Package terminal provides the raw event types fed into the dispatch loop.
package terminal

import (
	"strconv"
	"strings"
	"time"
)

// Event represents a raw stimulus: input, timer, resize or quit signal.
// Events are immutable values.
type Event interface {
	eventMarker()
}

// QuitEvent asks the runtime to terminate.
type QuitEvent struct{}

func (QuitEvent) eventMarker() {}

// KeyEvent represents a key press, repeat or release.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods ModMask
	Kind KeyKind
}

func (KeyEvent) eventMarker() {}

// IsInterrupt reports whether the event is the Ctrl+C chord.
func (e KeyEvent) IsInterrupt() bool {
	return e.Key == KeyRune && (e.Rune == 'c' || e.Rune == 'C') && e.Mods.Has(ModCtrl)
}

// Matches reports whether the event is the rune r with exactly mods held.
func (e KeyEvent) Matches(r rune, mods ModMask) bool {
	return e.Key == KeyRune && e.Rune == r && e.Mods == mods
}

func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Mods.Has(ModCtrl) {
		b.WriteString("Ctrl+")
	}
	if e.Mods.Has(ModAlt) {
		b.WriteString("Alt+")
	}
	if e.Mods.Has(ModShift) {
		b.WriteString("Shift+")
	}
	if e.Key == KeyRune {
		b.WriteRune(e.Rune)
	} else {
		b.WriteString(e.Key.String())
	}
	return b.String()
}

// MouseEvent represents a mouse input event in cell coordinates.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Mods   ModMask
}

func (MouseEvent) eventMarker() {}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// AppTickEvent is the application heartbeat.
type AppTickEvent struct {
	Time time.Time
}

func (AppTickEvent) eventMarker() {}

// RenderTickEvent requests a render pass.
type RenderTickEvent struct {
	Time time.Time
}

func (RenderTickEvent) eventMarker() {}

// ErrorEvent reports an input stream failure.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) eventMarker() {}

// PasteEvent represents bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// FocusEvent reports the terminal window gaining or losing focus.
type FocusEvent struct {
	Gained bool
}

func (FocusEvent) eventMarker() {}

// ModMask is a set of held modifier keys.
type ModMask uint8

const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta

	ModNone ModMask = 0
)

// Has reports whether all of m are held.
func (mask ModMask) Has(m ModMask) bool {
	return mask&m == m
}

// KeyKind distinguishes presses from repeats and releases.
type KeyKind uint8

const (
	KeyPress KeyKind = iota
	KeyRepeat
	KeyRelease
)

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// Key represents special keys. Printable input, including control chords
// such as Ctrl+C, arrives as KeyRune with the rune and modifiers set.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyEscape:    "Esc",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}
