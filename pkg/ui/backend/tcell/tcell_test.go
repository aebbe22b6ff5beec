package tcell

import (
	stderrors "errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

func TestConvertEvent_Keys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want terminal.KeyEvent
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), terminal.KeyEvent{Key: terminal.KeyEnter}},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), terminal.KeyEvent{Key: terminal.KeyBackspace}},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl), terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'p', Mods: terminal.ModCtrl}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModAlt), terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'b', Mods: terminal.ModAlt}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ConvertEvent(tc.ev).(terminal.KeyEvent)
			require.True(t, ok)
			assert.Equal(t, tc.want.Key, got.Key)
			assert.True(t, got.Mods.Has(tc.want.Mods), "mods %v", got.Mods)
			if tc.want.Key == terminal.KeyRune {
				assert.Equal(t, tc.want.Rune, got.Rune)
			}
		})
	}
}

func TestConvertEvent_CtrlCIsInterrupt(t *testing.T) {
	got, ok := ConvertEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)).(terminal.KeyEvent)
	require.True(t, ok)
	assert.True(t, got.IsInterrupt())
}

func TestConvertEvent_Other(t *testing.T) {
	assert.Equal(t, terminal.ResizeEvent{Width: 100, Height: 40}, ConvertEvent(tcell.NewEventResize(100, 40)))
	assert.Equal(t, terminal.FocusEvent{Gained: true}, ConvertEvent(tcell.NewEventFocus(true)))
	assert.Equal(t, terminal.QuitEvent{}, ConvertEvent(tcell.NewEventInterrupt(quitSignal{})))
	assert.Nil(t, ConvertEvent(tcell.NewEventInterrupt("other")))

	mouse := ConvertEvent(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModShift))
	assert.Equal(t, terminal.MouseEvent{X: 3, Y: 4, Button: terminal.MouseLeft, Action: terminal.MousePress, Mods: terminal.ModShift}, mouse)

	release := ConvertEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone)).(terminal.MouseEvent)
	assert.Equal(t, terminal.MouseRelease, release.Action)

	errEv, ok := ConvertEvent(tcell.NewEventError(stderrors.New("tty gone"))).(terminal.ErrorEvent)
	require.True(t, ok)
	assert.True(t, errors.IsCode(errEv.Err, errors.ErrCodeInputStream))
}

func TestConvertStyle(t *testing.T) {
	s := compositor.DefaultStyle().
		WithFG(compositor.ColorRed).
		WithBG(compositor.RGB(0x10, 0x20, 0x30)).
		With(compositor.AttrBold | compositor.AttrUnderline)

	fg, bg, attrs := ConvertStyle(s).Decompose()
	assert.Equal(t, tcell.PaletteColor(int(compositor.ColorRed.Value)), fg)
	assert.Equal(t, tcell.NewHexColor(0x102030), bg)
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.NotZero(t, attrs&tcell.AttrUnderline)
	assert.Zero(t, attrs&tcell.AttrReverse)

	assert.Equal(t, tcell.ColorDefault, ConvertColor(compositor.DefaultStyle().FG))
}

func TestBackend_SimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen, DefaultOptions())
	require.NoError(t, b.Init())
	defer b.Fini()
	screen.SetSize(20, 5)

	b.SetContent(1, 2, 'z', nil, compositor.DefaultStyle())
	b.Show()
	mainc, _, _, _ := screen.GetContent(1, 2)
	assert.Equal(t, 'z', mainc)

	require.NoError(t, b.PostEvent(terminal.QuitEvent{}))
	var got terminal.Event
	for i := 0; i < 5; i++ {
		if got = b.PollEvent(); got == (terminal.QuitEvent{}) {
			break
		}
	}
	assert.Equal(t, terminal.QuitEvent{}, got)

	err := b.PostEvent(terminal.AppTickEvent{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}
