package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/octyl/pkg/config"
	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/backend/sim"
	"github.com/odvcencio/octyl/pkg/ui/layout"
	"github.com/odvcencio/octyl/pkg/ui/runtime"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
	"github.com/odvcencio/octyl/pkg/ui/widgets"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain", stderrors.New("x"), exitFailure},
		{"explicit", withExitCode(stderrors.New("x"), exitUsage), exitUsage},
		{"explicit zero", exitError{err: stderrors.New("x")}, exitFailure},
		{"config", errors.New(errors.ErrCodeConfigInvalid, "bad"), exitUsage},
		{"backend", errors.New(errors.ErrCodeBackendInit, "no tty"), exitBackend},
		{"input", errors.Wrap(stderrors.New("eof"), errors.ErrCodeInputEscalated, "too many"), exitInput},
		{"panic", errors.New(errors.ErrCodeRenderPanic, "boom"), exitPanic},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
	assert.Nil(t, withExitCode(nil, exitUsage))
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "octyl "+version)
}

func TestRun_PrintConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-print-config"}, &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "render_tick_rate")
}

func TestRun_BadFlags(t *testing.T) {
	err := run([]string{"-nope"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, exitUsage, exitCodeForError(err))

	err = run([]string{"extra"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, exitUsage, exitCodeForError(err))
}

func TestRun_Snapshot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-snapshot", "-width", "60", "-height", "8"}, &out, &bytes.Buffer{}))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "\x1b[?25l\x1b[2J\x1b[H"), "first frame is a full redraw")
	assert.Contains(t, s, "octyl")
	assert.Contains(t, s, "ticks")
}

func newTestDemo(t *testing.T) (*demo, *logging.Ring) {
	t.Helper()
	ring := logging.NewRing(10)
	d, err := newDemo(ring, logging.New(ring, slog.LevelInfo, "test"))
	require.NoError(t, err)
	return d, ring
}

func TestDemo_InterceptManagesPalette(t *testing.T) {
	d, _ := newTestDemo(t)
	var posted []action.Action
	d.post = func(a action.Action) error {
		posted = append(posted, a)
		return nil
	}

	assert.False(t, d.intercept(action.Resize(80, 24)), "resize continues to the tree")
	assert.Equal(t, layout.NewRect(0, 0, 80, 24), d.area)

	require.True(t, d.intercept(action.Custom(paletteOpenTag, nil)))
	assert.True(t, d.root.HasFloating(d.paletteID))
	focused, ok := d.root.Focused()
	require.True(t, ok)
	assert.Equal(t, d.paletteID, focused, "opaque palette owns focus")

	require.True(t, d.intercept(action.Custom(widgets.PaletteSelectedTag, action.Text("quit"))))
	assert.False(t, d.root.HasFloating(d.paletteID))
	require.Len(t, posted, 1)
	assert.True(t, posted[0].Equal(action.Quit()))

	d.intercept(action.Custom(paletteOpenTag, nil))
	require.True(t, d.intercept(action.Custom(widgets.PaletteCloseTag, nil)))
	assert.False(t, d.root.HasFloating(d.paletteID))
	assert.False(t, d.intercept(action.Tick()))
}

func TestKeymap(t *testing.T) {
	k := &keymap{}
	assert.True(t, k.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'p', Mods: terminal.ModCtrl}).Is(paletteOpenTag))
	assert.True(t, k.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'q'}).Equal(action.Quit()))
	assert.True(t, k.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'}).IsNoop())

	follow, ok := k.Dispatch(action.Tick())
	require.True(t, ok)
	text, ok := action.As[action.Text](follow, statusTag)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(text), "ticks: 1"))

	_, ok = k.Dispatch(action.Custom("other", nil))
	assert.False(t, ok)
}

func TestDemo_EndToEnd(t *testing.T) {
	d, _ := newTestDemo(t)
	b := sim.New(80, 20)

	cfg := config.Default()
	cfg.AppTickRate = 10 * time.Millisecond
	cfg.RenderTickRate = 5 * time.Millisecond
	cfg.ShutdownGrace = 200 * time.Millisecond

	app, err := runtime.NewApp(runtime.AppConfig{
		Backend:   b,
		Root:      d.root,
		Config:    cfg,
		Intercept: d.intercept,
	})
	require.NoError(t, err)
	d.post = app.Post

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	eventually := func(cond func() bool, msg string) {
		t.Helper()
		require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
	}

	eventually(func() bool { return b.ContainsText("octyl demo") }, "help text rendered")
	eventually(func() bool { return b.ContainsText("ticks:") }, "status label follows ticks")

	b.InjectCtrl('p')
	eventually(func() bool { return b.ContainsText("Commands") }, "palette opened")

	b.InjectKeyString("log")
	b.InjectKey(terminal.KeyEnter, 0, terminal.ModNone)
	eventually(func() bool { return !b.ContainsText("Commands") }, "palette closed after selection")
	eventually(func() bool { return b.ContainsText("hello from the palette") }, "command reached the log pane")

	b.InjectKeyRune('q')
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("demo did not quit")
	}
}
