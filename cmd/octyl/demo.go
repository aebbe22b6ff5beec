package main

import (
	"context"
	"fmt"
	"time"

	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/event"
	"github.com/odvcencio/octyl/pkg/ui/layout"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
	"github.com/odvcencio/octyl/pkg/ui/tree"
	"github.com/odvcencio/octyl/pkg/ui/widgets"
)

const (
	paletteOpenTag action.Tag = "palette.open"
	statusTag      action.Tag = "status"
	loadTag        action.Tag = "load"
)

var paletteItems = []widgets.PaletteItem{
	{ID: "focus.next", Label: "Focus next pane", Shortcut: "Tab"},
	{ID: "focus.prev", Label: "Focus previous pane", Shortcut: "S-Tab"},
	{ID: "log.hello", Label: "Write a log line"},
	{ID: "quit", Label: "Quit", Shortcut: "q"},
}

// keymap is the handler of the root branch. It sees every key that no
// opaque component claims and turns global shortcuts into actions.
type keymap struct {
	component.Base
	ticks int
}

func (k *keymap) HandleKey(ev terminal.KeyEvent) action.Action {
	switch {
	case ev.Matches('p', terminal.ModCtrl):
		return action.Custom(paletteOpenTag, nil)
	case ev.Key == terminal.KeyTab:
		return action.Custom(tree.FocusNextTag, nil)
	case ev.Key == terminal.KeyBacktab:
		return action.Custom(tree.FocusPrevTag, nil)
	case ev.Matches('q', terminal.ModNone):
		return action.Quit()
	}
	return action.Noop()
}

func (k *keymap) Dispatch(a action.Action) (action.Action, bool) {
	if a.Kind() != action.KindTick {
		return action.Noop(), false
	}
	k.ticks++
	return action.Custom(statusTag, action.Text(fmt.Sprintf("ticks: %d  (ctrl+p palette, tab focus, q quit)", k.ticks))), true
}

func (k *keymap) Render(*compositor.View) {}

// demo wires the sample layout: a log pane on the left, a status label, a
// load gauge and help text on the right, and a command palette overlay.
type demo struct {
	root      *tree.Root
	palette   *widgets.Palette
	paletteID component.ID
	area      layout.Rect
	post      func(action.Action) error
	log       *logging.Logger
}

func newDemo(ring *logging.Ring, log *logging.Logger) (*demo, error) {
	reg := component.NewRegistry(component.NewIDAllocator())
	root := tree.NewRoot(reg, log.WithComponent("tree"))

	logID := reg.Register(widgets.NewLogView("log", ring))
	statusID := reg.Register(widgets.NewLabel("starting").Bind(statusTag))
	gaugeID := reg.Register(widgets.NewGauge(widgets.DefaultGaugeStyle()).Bind(loadTag))
	helpID := reg.Register(widgets.NewText("octyl demo\n\nctrl+p  command palette\ntab     next pane\nq       quit"))
	keysID := reg.Register(&keymap{})

	right, err := tree.Branch(layout.Vertical,
		[]*tree.Node{tree.Leaf(statusID), tree.Leaf(gaugeID), tree.Leaf(helpID)},
		[]layout.Constraint{layout.Fixed(1), layout.Fixed(1), layout.Flexible()})
	if err != nil {
		return nil, err
	}
	body, err := tree.Branch(layout.Horizontal,
		[]*tree.Node{tree.Leaf(logID), right},
		[]layout.Constraint{layout.Fixed(30), layout.Flexible()})
	if err != nil {
		return nil, err
	}
	if err := root.Push(tree.Tiled(body.WithHandler(keysID))); err != nil {
		return nil, err
	}

	palette := widgets.NewPalette("Commands", paletteItems)
	return &demo{
		root:      root,
		palette:   palette,
		paletteID: reg.Register(palette),
		post:      func(action.Action) error { return nil },
		log:       log,
	}, nil
}

// intercept handles actions that change the layer stack.
func (d *demo) intercept(a action.Action) bool {
	switch {
	case a.Kind() == action.KindResize:
		w, h := a.Size()
		d.area = layout.NewRect(0, 0, w, h)
		if d.root.RemoveFloating(d.paletteID) {
			d.openPalette()
		}
		return false
	case a.Is(paletteOpenTag):
		d.openPalette()
		return true
	case a.Is(widgets.PaletteCloseTag):
		d.root.RemoveFloating(d.paletteID)
		return true
	case a.Is(widgets.PaletteSelectedTag):
		d.root.RemoveFloating(d.paletteID)
		id, _ := action.As[action.Text](a, widgets.PaletteSelectedTag)
		d.log.Info("palette command", "command", string(id))
		if follow, ok := commandAction(string(id)); ok {
			_ = d.post(follow)
		}
		return true
	}
	return false
}

func (d *demo) openPalette() {
	if d.root.HasFloating(d.paletteID) {
		return
	}
	d.palette.Reset()
	_ = d.root.Push(tree.Floating(d.paletteID, d.palette.Rect(d.area)))
}

func commandAction(id string) (action.Action, bool) {
	switch id {
	case "quit":
		return action.Quit(), true
	case "focus.next":
		return action.Custom(tree.FocusNextTag, nil), true
	case "focus.prev":
		return action.Custom(tree.FocusPrevTag, nil), true
	case "log.hello":
		return action.Custom(widgets.LogTag, action.Text("hello from the palette")), true
	}
	return action.Noop(), false
}

// pulse feeds the load gauge with a triangle wave.
type pulse struct {
	interval time.Duration
}

func (p pulse) Name() string { return "pulse" }

func (p pulse) Run(ctx context.Context, out event.Sender) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	v, step := 0, 5
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		v += step
		if v >= 100 || v <= 0 {
			step = -step
		}
		if err := out.Push(event.FromAction(action.Custom(loadTag, action.Index(v)))); err != nil {
			return nil
		}
	}
}
