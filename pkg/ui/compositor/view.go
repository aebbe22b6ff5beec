package compositor

import "github.com/odvcencio/octyl/pkg/ui/layout"

// View is a window into a CharBuffer. Coordinates are relative to the
// view's origin, and writes never reach cells outside the view.
type View struct {
	buf    *CharBuffer
	bounds layout.Rect
	clip   layout.Rect
}

// Bounds returns the view rect in buffer coordinates.
func (v *View) Bounds() layout.Rect {
	return v.bounds
}

// Size returns the view dimensions.
func (v *View) Size() (width, height int) {
	return v.bounds.Width, v.bounds.Height
}

// Sub returns a view of r, given relative to v, clipped to v.
func (v *View) Sub(r layout.Rect) *View {
	abs := layout.Rect{X: v.bounds.X + r.X, Y: v.bounds.Y + r.Y, Width: r.Width, Height: r.Height}
	return &View{buf: v.buf, bounds: abs, clip: abs.Intersection(v.clip)}
}

// Get returns the cell at a view-relative position.
func (v *View) Get(x, y int) Cell {
	ax, ay := v.bounds.X+x, v.bounds.Y+y
	if !v.clip.Contains(ax, ay) {
		return EmptyCell()
	}
	return v.buf.Get(ax, ay)
}

// Set places a rune at a view-relative position.
func (v *View) Set(x, y int, r rune, style Style) {
	v.buf.setClipped(v.clip, v.bounds.X+x, v.bounds.Y+y, r, style)
}

// SetString writes a string at a view-relative position and returns the
// number of columns written.
func (v *View) SetString(x, y int, s string, style Style) int {
	return v.buf.setStringClipped(v.clip, v.bounds.X+x, v.bounds.Y+y, s, style)
}

// Fill fills a view-relative rectangle.
func (v *View) Fill(r layout.Rect, ch rune, style Style) {
	abs := layout.Rect{X: v.bounds.X + r.X, Y: v.bounds.Y + r.Y, Width: r.Width, Height: r.Height}
	v.buf.Fill(abs.Intersection(v.clip), ch, style)
}

// Clear blanks the whole view.
func (v *View) Clear(style Style) {
	v.buf.Fill(v.clip, ' ', style)
}

// Box draws a border around the view edge using box-drawing characters.
func (v *View) Box(style Style) {
	w, h := v.Size()
	if w < 2 || h < 2 {
		return
	}

	v.Set(0, 0, '┌', style)
	v.Set(w-1, 0, '┐', style)
	v.Set(0, h-1, '└', style)
	v.Set(w-1, h-1, '┘', style)

	for col := 1; col < w-1; col++ {
		v.Set(col, 0, '─', style)
		v.Set(col, h-1, '─', style)
	}
	for row := 1; row < h-1; row++ {
		v.Set(0, row, '│', style)
		v.Set(w-1, row, '│', style)
	}
}
