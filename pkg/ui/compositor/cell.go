// Package compositor owns the double-buffered render target: character
// buffers, the frame builder components draw through, the buffer swap, and
// the diff contract used by outputs.
package compositor

// ColorMode defines how a color is represented.
type ColorMode uint8

const (
	// ColorModeDefault uses the terminal default color.
	ColorModeDefault ColorMode = iota
	// ColorMode16 uses basic 16 ANSI colors (0-15).
	ColorMode16
	// ColorMode256 uses the extended 256 color palette.
	ColorMode256
	// ColorModeRGB uses 24-bit true color.
	ColorModeRGB
)

// Color represents a terminal color. The zero value is the terminal default.
type Color struct {
	Mode  ColorMode
	Value uint32 // For 16/256: color index, For RGB: 0xRRGGBB
}

var (
	ColorDefault = Color{}

	ColorBlack   = Color{Mode: ColorMode16, Value: 0}
	ColorRed     = Color{Mode: ColorMode16, Value: 1}
	ColorGreen   = Color{Mode: ColorMode16, Value: 2}
	ColorYellow  = Color{Mode: ColorMode16, Value: 3}
	ColorBlue    = Color{Mode: ColorMode16, Value: 4}
	ColorMagenta = Color{Mode: ColorMode16, Value: 5}
	ColorCyan    = Color{Mode: ColorMode16, Value: 6}
	ColorWhite   = Color{Mode: ColorMode16, Value: 7}
	ColorGray    = Color{Mode: ColorMode16, Value: 8}
)

// Color256 creates a 256-palette color.
func Color256(index uint8) Color {
	return Color{Mode: ColorMode256, Value: uint32(index)}
}

// RGB creates a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorModeRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrikethrough

	AttrNone Attr = 0
)

// Style is the minimal per-cell styling: two colors and attribute flags.
// The zero value is the terminal default.
type Style struct {
	FG    Color
	BG    Color
	Attrs Attr
}

// DefaultStyle returns a style with no colors or attributes.
func DefaultStyle() Style {
	return Style{}
}

// WithFG returns a copy with foreground color set.
func (s Style) WithFG(c Color) Style {
	s.FG = c
	return s
}

// WithBG returns a copy with background color set.
func (s Style) WithBG(c Color) Style {
	s.BG = c
	return s
}

// With returns a copy with the attributes added.
func (s Style) With(a Attr) Style {
	s.Attrs |= a
	return s
}

// Has reports whether all of a are set.
func (s Style) Has(a Attr) bool {
	return s.Attrs&a == a
}

// Cell represents a single character cell on screen.
type Cell struct {
	Rune  rune
	Width uint8 // Display width (1 for most, 2 for CJK, 0 for continuation)
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// Empty returns true if the cell is a space with default style.
func (c Cell) Empty() bool {
	return c == EmptyCell()
}

// Continuation reports whether the cell is the trailing half of a wide rune.
func (c Cell) Continuation() bool {
	return c.Width == 0
}
