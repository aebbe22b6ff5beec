// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/backend"
	"github.com/odvcencio/octyl/pkg/ui/backend/tcell"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// DefaultQueueSize bounds the number of injected events awaiting PollEvent.
const DefaultQueueSize = 256

// Backend is a testable backend. Output goes to tcell's simulation screen;
// input comes from injected events only.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex

	events chan terminal.Event
	closed chan struct{}
	once   sync.Once
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen, tcell.Options{}),
		screen:  screen,
		events:  make(chan terminal.Event, DefaultQueueSize),
		closed:  make(chan struct{}),
	}
}

// Init initializes the simulation screen at the configured size.
func (s *Backend) Init() error {
	s.mu.Lock()
	w, h := s.screen.Size()
	s.mu.Unlock()
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w > 0 && h > 0 {
		s.screen.SetSize(w, h)
	}
	return nil
}

// Fini closes the input stream and finalizes the screen.
func (s *Backend) Fini() {
	s.CloseInput()
	s.Backend.Fini()
}

// Size returns the simulated dimensions.
func (s *Backend) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.Size()
}

// Resize changes the simulation screen size.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(width, height)
}

// PollEvent returns the next injected event, or nil once the input
// stream has been closed.
func (s *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-s.events:
		return ev
	case <-s.closed:
		return nil
	}
}

// PostEvent injects an event. It fails when the queue is full or the
// input stream is closed.
func (s *Backend) PostEvent(ev terminal.Event) error {
	select {
	case <-s.closed:
		return errors.New(errors.ErrCodeQueueClosed, "simulated input closed")
	default:
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return errors.New(errors.ErrCodeQueueClosed, "simulated input full")
	}
}

// CloseInput ends the input stream. PollEvent returns nil afterwards, the
// same as a terminal whose input has been torn down.
func (s *Backend) CloseInput() {
	s.once.Do(func() { close(s.closed) })
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune, mods terminal.ModMask) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r, Mods: mods})
}

// InjectKeyRune injects a regular character keypress.
func (s *Backend) InjectKeyRune(r rune) {
	s.InjectKey(terminal.KeyRune, r, terminal.ModNone)
}

// InjectKeyString injects a string as a sequence of key events.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKeyRune(r)
	}
}

// InjectCtrl injects a Ctrl chord, e.g. InjectCtrl('c') for an interrupt.
func (s *Backend) InjectCtrl(r rune) {
	s.InjectKey(terminal.KeyRune, r, terminal.ModCtrl)
}

// InjectMouse injects a mouse event.
func (s *Backend) InjectMouse(x, y int, button terminal.MouseButton, act terminal.MouseAction) {
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: button, Action: act})
}

// InjectResize resizes the screen and injects the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.Resize(width, height)
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// InjectError injects an input stream error.
func (s *Backend) InjectError(err error) {
	_ = s.PostEvent(terminal.ErrorEvent{Err: err})
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	return s.captureLocked(0, 0, w, h, true)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureLocked(x, y, w, h, false)
}

func (s *Backend) captureLocked(x, y, w, h int, comb bool) string {
	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, cs, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			if comb {
				for _, c := range cs {
					line.WriteRune(c)
				}
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (mainc rune, comb []rune, style compositor.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, c, tcStyle, _ := s.screen.GetContent(x, y)
	return m, c, convertTcellStyle(tcStyle)
}

// FindText searches for text on the screen and returns its position.
func (s *Backend) FindText(text string) (x, y int) {
	lines := strings.Split(s.Capture(), "\n")
	for row, line := range lines {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

// convertTcellStyle converts tcellv2.Style to compositor.Style.
func convertTcellStyle(ts tcellv2.Style) compositor.Style {
	fg, bg, attrs := ts.Decompose()
	style := compositor.DefaultStyle().
		WithFG(convertTcellColor(fg)).
		WithBG(convertTcellColor(bg))

	if attrs&tcellv2.AttrBold != 0 {
		style = style.With(compositor.AttrBold)
	}
	if attrs&tcellv2.AttrItalic != 0 {
		style = style.With(compositor.AttrItalic)
	}
	if attrs&tcellv2.AttrUnderline != 0 {
		style = style.With(compositor.AttrUnderline)
	}
	if attrs&tcellv2.AttrDim != 0 {
		style = style.With(compositor.AttrDim)
	}
	if attrs&tcellv2.AttrReverse != 0 {
		style = style.With(compositor.AttrReverse)
	}
	if attrs&tcellv2.AttrStrikeThrough != 0 {
		style = style.With(compositor.AttrStrikethrough)
	}
	return style
}

// convertTcellColor converts tcellv2.Color to compositor.Color.
func convertTcellColor(tc tcellv2.Color) compositor.Color {
	if tc == tcellv2.ColorDefault {
		return compositor.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return compositor.RGB(uint8(r), uint8(g), uint8(b))
	}
	idx := uint8(tc & 0xFF)
	if idx < 16 {
		return compositor.Color{Mode: compositor.ColorMode16, Value: uint32(idx)}
	}
	return compositor.Color256(idx)
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)
