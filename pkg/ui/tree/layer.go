package tree

import (
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/layout"
)

// Layer is one entry of the root stack: a tiled tree covering the whole
// area, or a floating component confined to a rect.
type Layer struct {
	node     *Node
	floating component.ID
	rect     layout.Rect
}

// Tiled creates a layer laid out over the full drawing area.
func Tiled(n *Node) Layer {
	return Layer{node: n}
}

// Floating creates an overlay layer drawn inside r after all tiled layers.
func Floating(id component.ID, r layout.Rect) Layer {
	return Layer{floating: id, rect: r}
}

// IsFloating reports whether the layer is an overlay.
func (l Layer) IsFloating() bool {
	return l.node == nil
}

// Node returns the tree of a tiled layer, nil for floating layers.
func (l Layer) Node() *Node {
	return l.node
}

// Component returns the component of a floating layer.
func (l Layer) Component() component.ID {
	return l.floating
}

// Rect returns the rect of a floating layer.
func (l Layer) Rect() layout.Rect {
	return l.rect
}

// path returns the focus path of the layer, root first.
func (l Layer) path() []component.ID {
	if l.IsFloating() {
		return []component.ID{l.floating}
	}
	return l.node.Path()
}
