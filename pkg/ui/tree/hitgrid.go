package tree

import (
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/layout"
)

type hit struct {
	id    component.ID
	layer int
}

// HitGrid maps screen cells to the component drawn there for mouse hit
// testing. Later additions cover earlier ones.
type HitGrid struct {
	width  int
	height int
	cells  []int
	hits   []hit
}

// NewHitGrid creates a new hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	grid := &HitGrid{}
	grid.Resize(width, height)
	return grid
}

// Resize updates the hit grid dimensions.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	size := width * height
	if size <= 0 {
		g.cells = nil
		g.hits = nil
		return
	}
	g.cells = make([]int, size)
	g.Clear()
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = -1
	}
	g.hits = g.hits[:0]
}

// Add records a component of the given layer occupying bounds.
func (g *HitGrid) Add(id component.ID, layer int, bounds layout.Rect) {
	if id == component.NoID || g.width <= 0 || g.height <= 0 {
		return
	}
	bounds = bounds.Intersection(layout.Rect{Width: g.width, Height: g.height})
	if bounds.Empty() {
		return
	}

	idx := len(g.hits)
	g.hits = append(g.hits, hit{id: id, layer: layer})

	for y := bounds.Y; y < bounds.Bottom(); y++ {
		row := y * g.width
		for x := bounds.X; x < bounds.Right(); x++ {
			g.cells[row+x] = idx
		}
	}
}

// At returns the component and layer index at the given screen position.
func (g *HitGrid) At(x, y int) (component.ID, int, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return component.NoID, -1, false
	}
	idx := g.cells[y*g.width+x]
	if idx < 0 || idx >= len(g.hits) {
		return component.NoID, -1, false
	}
	h := g.hits[idx]
	return h.id, h.layer, true
}
