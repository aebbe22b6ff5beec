package compositor

import "fmt"

// SlotState is the render state of one compositor buffer.
type SlotState int

const (
	// NotRendered holds a frame waiting to be painted.
	NotRendered SlotState = iota
	// Rendered holds a painted buffer.
	Rendered
)

func (s SlotState) String() string {
	switch s {
	case NotRendered:
		return "NotRendered"
	case Rendered:
		return "Rendered"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

type slot struct {
	state SlotState
	frame *Frame
	buf   *CharBuffer
}

// Compositor holds exactly two buffers and an active index. Draw writes
// the active slot; Render paints it, hands out a copy and flips.
// It is owned by the dispatch loop and is not safe for concurrent use.
type Compositor struct {
	width  int
	height int
	slots  [2]slot
	active int
	// last is the slot most recently rendered, or -1.
	last int
}

// New creates a compositor with two blank buffers.
func New(width, height int) *Compositor {
	c := &Compositor{}
	c.reset(width, height)
	return c
}

func (c *Compositor) reset(width, height int) {
	c.width = max(0, width)
	c.height = max(0, height)
	for i := range c.slots {
		c.slots[i] = slot{state: NotRendered, buf: NewCharBuffer(c.width, c.height)}
	}
	c.active = 0
	c.last = -1
}

// Size returns the current buffer dimensions.
func (c *Compositor) Size() (width, height int) {
	return c.width, c.height
}

// Active returns the index of the slot the next Draw writes to.
func (c *Compositor) Active() int {
	return c.active
}

// State returns the state of slot i (0 or 1).
func (c *Compositor) State(i int) SlotState {
	return c.slots[i].state
}

// Resize recreates both buffers. Returns false if the size is unchanged.
func (c *Compositor) Resize(width, height int) bool {
	if width == c.width && height == c.height {
		return false
	}
	c.reset(width, height)
	return true
}

// Draw builds a new frame for the active slot. The slot is reset to
// NotRendered whether or not fn succeeds; on error the frame is discarded.
func (c *Compositor) Draw(fn func(f *Frame) error) error {
	s := &c.slots[c.active]
	s.state = NotRendered
	s.frame = nil

	f := newFrame(c.width, c.height)
	if err := fn(f); err != nil {
		return err
	}
	s.frame = f
	return nil
}

// Render paints the active slot, marks it Rendered, flips the active index
// and returns a copy of the painted contents. Without a pending frame the
// slot re-presents the last rendered contents, so consecutive calls with no
// Draw in between return identical buffers.
func (c *Compositor) Render() *CharBuffer {
	s := &c.slots[c.active]
	switch {
	case s.state == NotRendered && s.frame != nil:
		s.frame.paint(s.buf)
	case c.last >= 0 && c.last != c.active:
		s.buf.CopyFrom(c.slots[c.last].buf)
	case c.last < 0:
		s.buf.Clear()
	}
	s.state = Rendered
	s.frame = nil

	out := s.buf.Clone()
	c.last = c.active
	c.active = 1 - c.active
	return out
}
