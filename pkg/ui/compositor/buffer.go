package compositor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/octyl/pkg/ui/layout"
)

// CharBuffer is a fixed-size grid of cells holding one composed frame.
// It is not safe for concurrent use; the compositor hands out copies.
type CharBuffer struct {
	width  int
	height int
	cells  []Cell
}

// NewCharBuffer creates a buffer filled with blank cells.
func NewCharBuffer(width, height int) *CharBuffer {
	width = max(0, width)
	height = max(0, height)
	b := &CharBuffer{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	b.Clear()
	return b
}

// Size returns the buffer dimensions.
func (b *CharBuffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the buffer area as a rect at the origin.
func (b *CharBuffer) Bounds() layout.Rect {
	return layout.Rect{Width: b.width, Height: b.height}
}

// Clear resets every cell to blank.
func (b *CharBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = EmptyCell()
	}
}

// Get returns the cell at the given position, or a blank cell when out of bounds.
func (b *CharBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[y*b.width+x]
}

// SetCell stores a cell verbatim.
func (b *CharBuffer) SetCell(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// Set places a rune at the given position with style.
// Wide runes occupy two cells; the second becomes a continuation cell.
func (b *CharBuffer) Set(x, y int, r rune, style Style) {
	b.setClipped(layout.Rect{Width: b.width, Height: b.height}, x, y, r, style)
}

// setClipped writes r at (x, y) only if the rune fits entirely inside clip.
func (b *CharBuffer) setClipped(clip layout.Rect, x, y int, r rune, style Style) int {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		width = 1 // Control characters, treat as single width
	}
	if !clip.Contains(x, y) || !b.inBounds(x, y) {
		return width
	}
	if width == 2 && (!clip.Contains(x+1, y) || !b.inBounds(x+1, y)) {
		b.put(x, y, Cell{Rune: ' ', Width: 1, Style: style})
		return width
	}

	b.put(x, y, Cell{Rune: r, Width: uint8(width), Style: style})
	if width == 2 {
		b.put(x+1, y, Cell{Rune: 0, Width: 0, Style: style})
	}
	return width
}

// put stores c at (x, y) after blanking the other half of any wide rune
// the write splits, so the neighbouring cell never points at a half that
// is gone. The neighbour may lie outside the caller's clip.
func (b *CharBuffer) put(x, y int, c Cell) {
	i := y*b.width + x
	old := b.cells[i]
	switch {
	case old.Continuation() && !c.Continuation() && x > 0 && b.cells[i-1].Width == 2:
		b.cells[i-1] = Cell{Rune: ' ', Width: 1, Style: b.cells[i-1].Style}
	case old.Width == 2 && x+1 < b.width && b.cells[i+1].Continuation():
		b.cells[i+1] = Cell{Rune: ' ', Width: 1, Style: b.cells[i+1].Style}
	}
	b.cells[i] = c
}

// SetString writes a string starting at position, returns number of columns written.
func (b *CharBuffer) SetString(x, y int, s string, style Style) int {
	return b.setStringClipped(layout.Rect{Width: b.width, Height: b.height}, x, y, s, style)
}

func (b *CharBuffer) setStringClipped(clip layout.Rect, x, y int, s string, style Style) int {
	if y < clip.Y || y >= clip.Bottom() {
		return 0
	}
	col := x
	for _, r := range s {
		if col >= clip.Right() {
			break
		}
		col += b.setClipped(clip, col, y, r, style)
	}
	if col < x {
		return 0
	}
	return min(col, clip.Right()) - x
}

// Fill fills a rectangle with a rune and style, clipped to the buffer.
func (b *CharBuffer) Fill(r layout.Rect, ch rune, style Style) {
	r = r.Intersection(b.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.put(x, y, Cell{Rune: ch, Width: 1, Style: style})
		}
	}
}

// Clone returns an independent copy.
func (b *CharBuffer) Clone() *CharBuffer {
	out := &CharBuffer{
		width:  b.width,
		height: b.height,
		cells:  make([]Cell, len(b.cells)),
	}
	copy(out.cells, b.cells)
	return out
}

// CopyFrom replaces b's contents with src's when the sizes match.
func (b *CharBuffer) CopyFrom(src *CharBuffer) bool {
	if src == nil || src.width != b.width || src.height != b.height {
		return false
	}
	copy(b.cells, src.cells)
	return true
}

// Equal reports whether both buffers have the same size and cells.
func (b *CharBuffer) Equal(other *CharBuffer) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Row returns the text of row y, continuation cells omitted.
func (b *CharBuffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		c := b.cells[y*b.width+x]
		if c.Continuation() {
			continue
		}
		if c.Rune == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Rows returns every row as text.
func (b *CharBuffer) Rows() []string {
	rows := make([]string, b.height)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return rows
}

// View returns a drawing view clipped to r.
func (b *CharBuffer) View(r layout.Rect) *View {
	return &View{buf: b, bounds: r, clip: r.Intersection(b.Bounds())}
}

func (b *CharBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}
