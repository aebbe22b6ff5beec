package tree

import (
	"log/slog"

	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/layout"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Tags the root handles itself in Dispatch.
const (
	FocusNextTag action.Tag = "focus.next"
	FocusPrevTag action.Tag = "focus.prev"
)

// Root is the ordered layer stack. Later layers draw over earlier ones and
// are offered input first. It is owned by the dispatch loop.
type Root struct {
	reg    *component.Registry
	layers []Layer
	hits   *HitGrid
	log    *logging.Logger
}

// NewRoot creates an empty root over a registry.
func NewRoot(reg *component.Registry, log *logging.Logger) *Root {
	if log == nil {
		log = logging.Discard()
	}
	return &Root{reg: reg, hits: NewHitGrid(0, 0), log: log}
}

// Registry returns the component arena.
func (r *Root) Registry() *component.Registry {
	return r.reg
}

// Init runs Init on components registered since the last call.
func (r *Root) Init(sink component.Sink) error {
	return r.reg.InitPending(sink)
}

// Push adds a layer on top. Tiled trees are validated and floating
// components must be registered.
func (r *Root) Push(l Layer) error {
	if l.IsFloating() {
		if _, err := r.reg.Lookup(l.floating); err != nil {
			return err
		}
	} else if err := l.node.Validate(); err != nil {
		return err
	}
	r.layers = append(r.layers, l)
	return nil
}

// Pop removes the top layer.
func (r *Root) Pop() (Layer, bool) {
	if len(r.layers) == 0 {
		return Layer{}, false
	}
	top := r.layers[len(r.layers)-1]
	r.layers = r.layers[:len(r.layers)-1]
	return top, true
}

// RemoveFloating removes the topmost floating layer showing id.
func (r *Root) RemoveFloating(id component.ID) bool {
	for i := len(r.layers) - 1; i >= 0; i-- {
		if r.layers[i].IsFloating() && r.layers[i].floating == id {
			r.layers = append(r.layers[:i], r.layers[i+1:]...)
			return true
		}
	}
	return false
}

// HasFloating reports whether a floating layer shows id.
func (r *Root) HasFloating(id component.ID) bool {
	for _, l := range r.layers {
		if l.IsFloating() && l.floating == id {
			return true
		}
	}
	return false
}

// Len returns the number of layers.
func (r *Root) Len() int {
	return len(r.layers)
}

// Layer returns layer i, bottom first.
func (r *Root) Layer(i int) (Layer, bool) {
	if i < 0 || i >= len(r.layers) {
		return Layer{}, false
	}
	return r.layers[i], true
}

// Focused returns the leaf owning keyboard focus: the focused leaf of the
// topmost layer with a key-opaque component on its focus path, or of the
// topmost focusable layer when none is opaque. RouteKey offers keys to
// this layer first.
func (r *Root) Focused() (component.ID, bool) {
	if i, _, ok := r.opaqueLayer(func(Layer) bool { return true }, keyOpaque); ok {
		return focusedLeaf(r.layers[i])
	}
	for i := len(r.layers) - 1; i >= 0; i-- {
		if leaf, ok := focusedLeaf(r.layers[i]); ok {
			return leaf, true
		}
	}
	return component.NoID, false
}

func focusedLeaf(l Layer) (component.ID, bool) {
	if l.IsFloating() {
		return l.floating, true
	}
	return l.node.FocusedLeaf()
}

func keyOpaque(c component.Component) bool   { return c.KeyOpaque() }
func mouseOpaque(c component.Component) bool { return c.MouseOpaque() }

// RouteKey offers a key event to the layers.
//
// The topmost layer with a key-opaque component on its focus path owns the
// event outright: the opaque component nearest the root receives it alone
// and its result is final. Without an opaque layer, layers are visited
// topmost first; every component on a layer's focus path receives the
// event and the deepest non-Noop result wins. A non-Noop result ends
// routing, a Noop lets the next layer down try.
func (r *Root) RouteKey(ev terminal.KeyEvent) action.Action {
	return r.route(
		func(Layer) bool { return true },
		keyOpaque,
		func(c component.Component) action.Action { return c.HandleKey(ev) },
	)
}

// RouteMouse routes like RouteKey using mouse opacity. Floating layers
// only see events inside their rect unless they are mouse-opaque. A left
// press over a tiled leaf focuses it first, unless a mouse-opaque layer
// above it owns the pointer.
func (r *Root) RouteMouse(ev terminal.MouseEvent) action.Action {
	visit := func(l Layer) bool {
		if !l.IsFloating() || l.rect.Contains(ev.X, ev.Y) {
			return true
		}
		c, ok := r.reg.Get(l.floating)
		return ok && c.MouseOpaque()
	}
	if ev.Button == terminal.MouseLeft && ev.Action == terminal.MousePress {
		r.focusAt(ev.X, ev.Y, visit)
	}
	return r.route(
		visit,
		mouseOpaque,
		func(c component.Component) action.Action { return c.HandleMouse(ev) },
	)
}

// opaqueLayer finds the topmost visited layer with an opaque component on
// its focus path and returns it with the opaque component nearest the root.
func (r *Root) opaqueLayer(visit func(Layer) bool, opaque func(component.Component) bool) (int, component.Component, bool) {
	for i := len(r.layers) - 1; i >= 0; i-- {
		l := r.layers[i]
		if !visit(l) {
			continue
		}
		for _, c := range r.resolve(l.path()) {
			if opaque(c.comp) {
				return i, c.comp, true
			}
		}
	}
	return -1, nil, false
}

func (r *Root) route(
	visit func(Layer) bool,
	opaque func(component.Component) bool,
	handle func(component.Component) action.Action,
) action.Action {
	if _, c, ok := r.opaqueLayer(visit, opaque); ok {
		return handle(c)
	}

	for i := len(r.layers) - 1; i >= 0; i-- {
		l := r.layers[i]
		if !visit(l) {
			continue
		}
		result := action.Noop()
		for _, c := range r.resolve(l.path()) {
			a := handle(c.comp)
			if a.IsNoop() {
				continue
			}
			if !result.IsNoop() {
				r.log.Debug("shadowed by deeper component",
					slog.String("action", result.String()),
					slog.String("id", c.id.String()))
			}
			result = a
		}
		if !result.IsNoop() {
			return result
		}
	}
	return action.Noop()
}

func (r *Root) focusAt(x, y int, visit func(Layer) bool) {
	id, layer, ok := r.hits.At(x, y)
	if !ok || layer >= len(r.layers) {
		return
	}
	if owner, _, ok := r.opaqueLayer(visit, mouseOpaque); ok && owner > layer {
		return
	}
	if l := r.layers[layer]; !l.IsFloating() {
		l.node.FocusLeaf(id)
	}
}

// FocusNext moves focus to the next leaf of the topmost tiled layer,
// depth-first, wrapping around.
func (r *Root) FocusNext() bool {
	return r.cycleFocus(1)
}

// FocusPrev moves focus to the previous leaf of the topmost tiled layer.
func (r *Root) FocusPrev() bool {
	return r.cycleFocus(-1)
}

func (r *Root) cycleFocus(dir int) bool {
	for i := len(r.layers) - 1; i >= 0; i-- {
		l := r.layers[i]
		if l.IsFloating() {
			continue
		}
		leaves := l.node.Leaves()
		if len(leaves) < 2 {
			return false
		}
		cur, _ := l.node.FocusedLeaf()
		pos := 0
		for j, id := range leaves {
			if id == cur {
				pos = j
				break
			}
		}
		next := leaves[((pos+dir)%len(leaves)+len(leaves))%len(leaves)]
		return l.node.FocusLeaf(next)
	}
	return false
}

// Dispatch applies an action to every focus path, topmost layer first,
// stopping at the first component that returns a follow-up. Custom
// actions then reach subscribers that were not on a focus path, in
// registration order. FocusNextTag and FocusPrevTag are handled here.
func (r *Root) Dispatch(a action.Action) (action.Action, bool) {
	switch {
	case a.Is(FocusNextTag):
		r.FocusNext()
		return action.Noop(), false
	case a.Is(FocusPrevTag):
		r.FocusPrev()
		return action.Noop(), false
	}

	visited := make(map[component.ID]bool)
	for i := len(r.layers) - 1; i >= 0; i-- {
		for _, c := range r.resolve(r.layers[i].path()) {
			if visited[c.id] {
				continue
			}
			visited[c.id] = true
			if follow, ok := c.comp.Dispatch(a); ok {
				return follow, true
			}
		}
	}

	if a.Kind() != action.KindCustom {
		return action.Noop(), false
	}
	for _, id := range r.reg.IDs() {
		if visited[id] {
			continue
		}
		c, _ := r.reg.Get(id)
		sub, ok := c.(component.Subscriber)
		if !ok || !subscribed(sub, a.Tag()) {
			continue
		}
		if follow, ok := c.Dispatch(a); ok {
			return follow, true
		}
	}
	return action.Noop(), false
}

func subscribed(s component.Subscriber, tag action.Tag) bool {
	for _, prefix := range s.Subscriptions() {
		if tag.HasPrefix(prefix) {
			return true
		}
	}
	return false
}

// Draw adds every layer to the frame. Tiled layers are split per their
// branch constraints; floating layers are clipped to their rect.
func (r *Root) Draw(f *compositor.Frame) error {
	w, h := f.Size()
	r.hits.Resize(w, h)
	r.hits.Clear()

	for i, l := range r.layers {
		idx, layer := i, l
		if layer.IsFloating() {
			c, err := r.reg.Lookup(layer.floating)
			if err != nil {
				return err
			}
			f.Floating(layer.rect, compositor.PainterFunc(func(v *compositor.View) {
				c.Render(v)
				r.hits.Add(layer.floating, idx, v.Bounds())
			}))
			continue
		}
		if err := layer.node.Validate(); err != nil {
			return err
		}
		f.Tiled(compositor.PainterFunc(func(v *compositor.View) {
			r.drawNode(layer.node, idx, v)
		}))
	}
	return nil
}

func (r *Root) drawNode(n *Node, layer int, v *compositor.View) {
	if n.IsLeaf() {
		c, ok := r.reg.Get(n.leaf)
		if !ok {
			r.log.Debug("skipping unregistered leaf", slog.String("id", n.leaf.String()))
			return
		}
		c.Render(v)
		r.hits.Add(n.leaf, layer, v.Bounds())
		return
	}
	if len(n.children) == 0 {
		return
	}

	bounds := v.Bounds()
	for i, rect := range layout.Split(bounds, n.direction, n.constraints) {
		rel := layout.Rect{X: rect.X - bounds.X, Y: rect.Y - bounds.Y, Width: rect.Width, Height: rect.Height}
		r.drawNode(n.children[i], layer, v.Sub(rel))
	}
}

type resolved struct {
	id   component.ID
	comp component.Component
}

// resolve looks up path components, skipping unknown IDs with a debug record.
func (r *Root) resolve(ids []component.ID) []resolved {
	out := make([]resolved, 0, len(ids))
	for _, id := range ids {
		c, ok := r.reg.Get(id)
		if !ok {
			r.log.Debug("focus path references unregistered component", slog.String("id", id.String()))
			continue
		}
		out = append(out, resolved{id: id, comp: c})
	}
	return out
}
