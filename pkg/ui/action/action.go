// Package action defines the values flowing between components and the
// dispatch loop.
//
// An Action is a closed set of control variants the loop understands
// (Quit, Tick, RenderTick, Resize, Noop) plus one open variant, Custom,
// identified by a stable dotted Tag and carrying an optional Payload.
// The loop never interprets Custom actions; it only routes them.
package action

import (
	"fmt"
	"reflect"
)

// Kind identifies the variant of an Action.
type Kind int

const (
	KindNoop Kind = iota
	KindQuit
	KindTick
	KindRenderTick
	KindResize
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNoop:
		return "Noop"
	case KindQuit:
		return "Quit"
	case KindTick:
		return "Tick"
	case KindRenderTick:
		return "RenderTick"
	case KindResize:
		return "Resize"
	case KindCustom:
		return "Custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Payload is application data attached to a Custom action.
type Payload interface {
	// Equal reports deep equality with another payload of the same type.
	Equal(other Payload) bool
	// Clone returns an independently owned copy.
	Clone() Payload
}

// Action is an immutable instruction to update state. The zero value is Noop.
type Action struct {
	kind    Kind
	width   int
	height  int
	tag     Tag
	payload Payload
}

// Noop is the action that does nothing.
func Noop() Action { return Action{} }

// Quit asks the loop to shut down.
func Quit() Action { return Action{kind: KindQuit} }

// Tick is the application heartbeat.
func Tick() Action { return Action{kind: KindTick} }

// RenderTick triggers a compositor render pass.
func RenderTick() Action { return Action{kind: KindRenderTick} }

// Resize reports new terminal dimensions.
func Resize(width, height int) Action {
	return Action{kind: KindResize, width: width, height: height}
}

// Custom creates an application-defined action. The payload may be nil.
func Custom(tag Tag, payload Payload) Action {
	return Action{kind: KindCustom, tag: tag, payload: payload}
}

// Kind returns the variant.
func (a Action) Kind() Kind { return a.kind }

// IsNoop reports whether a is Noop.
func (a Action) IsNoop() bool { return a.kind == KindNoop }

// Size returns the dimensions of a Resize action.
func (a Action) Size() (width, height int) { return a.width, a.height }

// Tag returns the tag of a Custom action, empty otherwise.
func (a Action) Tag() Tag { return a.tag }

// Payload returns the payload of a Custom action, nil otherwise.
func (a Action) Payload() Payload { return a.payload }

// Is reports whether a is a Custom action tagged exactly t.
func (a Action) Is(t Tag) bool {
	return a.kind == KindCustom && a.tag == t
}

// Equal compares two actions structurally. Actions of different kinds,
// different tags or different payload types are never equal.
func (a Action) Equal(b Action) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindResize:
		return a.width == b.width && a.height == b.height
	case KindCustom:
		if a.tag != b.tag {
			return false
		}
		if a.payload == nil || b.payload == nil {
			return a.payload == nil && b.payload == nil
		}
		if reflect.TypeOf(a.payload) != reflect.TypeOf(b.payload) {
			return false
		}
		return a.payload.Equal(b.payload)
	default:
		return true
	}
}

// Clone returns a copy whose payload is independently owned.
func (a Action) Clone() Action {
	out := a
	if a.payload != nil {
		out.payload = a.payload.Clone()
	}
	return out
}

func (a Action) String() string {
	switch a.kind {
	case KindResize:
		return fmt.Sprintf("Resize(%d,%d)", a.width, a.height)
	case KindCustom:
		if a.payload == nil {
			return fmt.Sprintf("Custom(%s)", a.tag)
		}
		return fmt.Sprintf("Custom(%s, %v)", a.tag, a.payload)
	default:
		return a.kind.String()
	}
}

// As narrows the payload of a to T when a is a Custom action tagged tag.
func As[T Payload](a Action, tag Tag) (T, bool) {
	var zero T
	if !a.Is(tag) || a.payload == nil {
		return zero, false
	}
	v, ok := a.payload.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Text is a string payload.
type Text string

func (t Text) Equal(other Payload) bool {
	o, ok := other.(Text)
	return ok && o == t
}

func (t Text) Clone() Payload { return t }

// Index is an integer payload, used for selections.
type Index int

func (i Index) Equal(other Payload) bool {
	o, ok := other.(Index)
	return ok && o == i
}

func (i Index) Clone() Payload { return i }
