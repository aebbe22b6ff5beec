// Package component defines the leaf contract of the UI tree and the arena
// that owns component instances.
package component

import (
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Sink accepts actions emitted outside the dispatch loop, for example from
// a goroutine a component started in Init. Emit fails once the loop has
// shut down.
type Sink interface {
	Emit(a action.Action) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(a action.Action) error

// Emit calls f(a).
func (f SinkFunc) Emit(a action.Action) error { return f(a) }

// Component is a unit of UI behavior.
//
// HandleKey and HandleMouse translate input into actions and must not
// change state; state changes belong in Dispatch, which may return a
// follow-up action for a later loop iteration.
type Component interface {
	// Init is called once before the component first receives input.
	Init(sink Sink) error

	HandleKey(ev terminal.KeyEvent) action.Action
	HandleMouse(ev terminal.MouseEvent) action.Action

	// KeyOpaque and MouseOpaque report whether the component consumes the
	// event kind fully, hiding it from the rest of the focus path.
	KeyOpaque() bool
	MouseOpaque() bool

	Dispatch(a action.Action) (action.Action, bool)

	// Render draws into v, which is clipped to the component's rect.
	Render(v *compositor.View)
}

// Subscriber is implemented by components that want Custom actions whose
// tag falls under one of the returned prefixes, whether or not they are
// on the focus path.
type Subscriber interface {
	Subscriptions() []action.Tag
}

// Base provides the default behavior for every method except Render.
// Embed it and override what you need.
type Base struct{}

func (Base) Init(Sink) error                              { return nil }
func (Base) HandleKey(terminal.KeyEvent) action.Action     { return action.Noop() }
func (Base) HandleMouse(terminal.MouseEvent) action.Action { return action.Noop() }
func (Base) KeyOpaque() bool                               { return false }
func (Base) MouseOpaque() bool                             { return false }
func (Base) Dispatch(action.Action) (action.Action, bool)  { return action.Noop(), false }

// Func is a component whose behavior is supplied by optional callbacks.
// Nil callbacks fall back to the Base defaults.
type Func struct {
	Base
	OnKey      func(terminal.KeyEvent) action.Action
	OnMouse    func(terminal.MouseEvent) action.Action
	OnDispatch func(action.Action) (action.Action, bool)
	OnRender   func(v *compositor.View)
	Opaque     bool
}

func (f *Func) HandleKey(ev terminal.KeyEvent) action.Action {
	if f.OnKey == nil {
		return action.Noop()
	}
	return f.OnKey(ev)
}

func (f *Func) HandleMouse(ev terminal.MouseEvent) action.Action {
	if f.OnMouse == nil {
		return action.Noop()
	}
	return f.OnMouse(ev)
}

func (f *Func) KeyOpaque() bool   { return f.Opaque }
func (f *Func) MouseOpaque() bool { return f.Opaque }

func (f *Func) Dispatch(a action.Action) (action.Action, bool) {
	if f.OnDispatch == nil {
		return action.Noop(), false
	}
	return f.OnDispatch(a)
}

func (f *Func) Render(v *compositor.View) {
	if f.OnRender != nil {
		f.OnRender(v)
	}
}
