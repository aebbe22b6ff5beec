package backend

import "github.com/odvcencio/octyl/pkg/ui/compositor"

// Output writes composed buffers to a Backend, touching only changed cells.
type Output struct {
	b Backend
}

// NewOutput creates an output for b.
func NewOutput(b Backend) *Output {
	return &Output{b: b}
}

// Write pushes the cells of cur that differ from prev and shows them.
// A size change clears the screen and forces a full sync.
func (o *Output) Write(prev, cur *compositor.CharBuffer) error {
	changes := compositor.Diff(prev, cur)
	full := compositor.FullRedraw(prev, cur)
	if len(changes) == 0 && !full {
		return nil
	}
	if full {
		o.b.Clear()
	}

	for _, ch := range changes {
		c := ch.Cell
		if c.Continuation() {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		o.b.SetContent(ch.X, ch.Y, r, nil, c.Style)
	}

	if full {
		o.b.Sync()
	}
	o.b.Show()
	return nil
}
