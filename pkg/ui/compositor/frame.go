package compositor

import "github.com/odvcencio/octyl/pkg/ui/layout"

// Painter draws into a view.
type Painter interface {
	Paint(v *View)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(v *View)

// Paint calls f(v).
func (f PainterFunc) Paint(v *View) { f(v) }

type floatingLayer struct {
	rect    layout.Rect
	painter Painter
}

// Frame collects the layers of one pass. Tiled layers cover the whole
// frame and paint in order; floating layers paint afterwards, each clipped
// to its own rect.
type Frame struct {
	width    int
	height   int
	tiled    []Painter
	floating []floatingLayer
}

func newFrame(width, height int) *Frame {
	return &Frame{width: width, height: height}
}

// Size returns the frame dimensions.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Area returns the full frame rect.
func (f *Frame) Area() layout.Rect {
	return layout.Rect{Width: f.width, Height: f.height}
}

// Tiled adds a layer occupying the whole frame.
func (f *Frame) Tiled(p Painter) {
	if p != nil {
		f.tiled = append(f.tiled, p)
	}
}

// Floating adds an overlay confined to r.
func (f *Frame) Floating(r layout.Rect, p Painter) {
	if p != nil {
		f.floating = append(f.floating, floatingLayer{rect: r, painter: p})
	}
}

// Layers returns the number of tiled and floating layers added.
func (f *Frame) Layers() (tiled, floating int) {
	return len(f.tiled), len(f.floating)
}

func (f *Frame) paint(buf *CharBuffer) {
	buf.Clear()
	full := buf.Bounds()
	for _, p := range f.tiled {
		p.Paint(buf.View(full))
	}
	for _, l := range f.floating {
		v := buf.View(l.rect)
		if v.clip.Empty() {
			continue
		}
		l.painter.Paint(v)
	}
}
