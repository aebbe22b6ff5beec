// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/backend"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Options configure terminal features enabled at Init.
type Options struct {
	Mouse bool
	Paste bool
	Focus bool
}

// DefaultOptions enables every input feature.
func DefaultOptions() Options {
	return Options{Mouse: true, Paste: true, Focus: true}
}

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	opts   Options
	fini   sync.Once

	// Bracketed paste state
	inPaste     bool
	pasteBuffer strings.Builder
}

// quitSignal marks an interrupt posted for QuitEvent.
type quitSignal struct{}

// New creates a backend on the process terminal.
func New(opts Options) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBackendInit, "failed to open terminal")
	}
	return &Backend{screen: screen, opts: opts}, nil
}

// NewWithScreen creates a backend with an existing tcell screen.
func NewWithScreen(screen tcell.Screen, opts Options) *Backend {
	return &Backend{screen: screen, opts: opts}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBackendInit, "failed to initialize terminal")
	}
	if b.opts.Mouse {
		b.screen.EnableMouse()
	}
	if b.opts.Paste {
		b.screen.EnablePaste()
	}
	if b.opts.Focus {
		b.screen.EnableFocus()
	}
	b.screen.HideCursor()
	return nil
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.fini.Do(b.screen.Fini)
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style compositor.Style) {
	b.screen.SetContent(x, y, mainc, comb, ConvertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := ConvertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event. Only resize and quit events can be posted
// to a real terminal.
func (b *Backend) PostEvent(ev terminal.Event) error {
	var tev tcell.Event
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		tev = tcell.NewEventResize(e.Width, e.Height)
	case terminal.QuitEvent:
		tev = tcell.NewEventInterrupt(quitSignal{})
	default:
		return errors.Newf(errors.ErrCodeInvalidInput, "cannot post %T to a terminal", ev)
	}
	return b.screen.PostEvent(tev)
}

// ConvertStyle converts compositor.Style to tcell.Style.
func ConvertStyle(s compositor.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(ConvertColor(s.FG)).
		Background(ConvertColor(s.BG))

	if s.Has(compositor.AttrBold) {
		style = style.Bold(true)
	}
	if s.Has(compositor.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Has(compositor.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Has(compositor.AttrDim) {
		style = style.Dim(true)
	}
	if s.Has(compositor.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Has(compositor.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

// ConvertColor converts compositor.Color to tcell.Color.
func ConvertColor(c compositor.Color) tcell.Color {
	switch c.Mode {
	case compositor.ColorMode16, compositor.ColorMode256:
		return tcell.PaletteColor(int(c.Value & 0xFF))
	case compositor.ColorModeRGB:
		return tcell.NewHexColor(int32(c.Value & 0xFFFFFF))
	default:
		return tcell.ColorDefault
	}
}

// ConvertEvent converts a tcell event to terminal.Event. Unknown events
// return nil.
func ConvertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKeyEvent(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: convertMouseButton(e.Buttons()),
			Action: convertMouseAction(e.Buttons()),
			Mods:   convertMods(e.Modifiers()),
		}
	case *tcell.EventFocus:
		return terminal.FocusEvent{Gained: e.Focused}
	case *tcell.EventError:
		return terminal.ErrorEvent{Err: errors.Wrap(e, errors.ErrCodeInputStream, "terminal input error")}
	case *tcell.EventInterrupt:
		if _, ok := e.Data().(quitSignal); ok {
			return terminal.QuitEvent{}
		}
		return nil
	default:
		return nil
	}
}

func convertKeyEvent(e *tcell.EventKey) terminal.KeyEvent {
	mods := convertMods(e.Modifiers())
	k := e.Key()

	if key, ok := keyTable[k]; ok {
		r := e.Rune()
		if key == terminal.KeyRune && mods.Has(terminal.ModCtrl) {
			r = unicode.ToLower(r)
		}
		return terminal.KeyEvent{Key: key, Rune: r, Mods: mods}
	}
	// Remaining control keys become the letter plus Ctrl.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return terminal.KeyEvent{
			Key:  terminal.KeyRune,
			Rune: rune('a' + (k - tcell.KeyCtrlA)),
			Mods: mods | terminal.ModCtrl,
		}
	}
	return terminal.KeyEvent{Key: terminal.KeyNone, Mods: mods}
}

var keyTable = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

func convertMods(m tcell.ModMask) terminal.ModMask {
	var out terminal.ModMask
	if m&tcell.ModShift != 0 {
		out |= terminal.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= terminal.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= terminal.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= terminal.ModMeta
	}
	return out
}

// convertMouseButton converts tcell button mask to terminal.MouseButton.
func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

// convertMouseAction determines the mouse action from button state.
func convertMouseAction(buttons tcell.ButtonMask) terminal.MouseAction {
	if buttons == tcell.ButtonNone {
		return terminal.MouseRelease
	}
	return terminal.MousePress
}

var _ backend.Backend = (*Backend)(nil)
