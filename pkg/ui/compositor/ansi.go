package compositor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// ANSI escape sequences.
const (
	ANSIEscape      = "\x1b["
	ANSIClearScreen = "\x1b[2J"
	ANSICursorHome  = "\x1b[H"
	ANSICursorHide  = "\x1b[?25l"
	ANSICursorShow  = "\x1b[?25h"
	ANSIReset       = "\x1b[0m"
)

// CursorTo returns ANSI sequence to move cursor to (x, y).
// Coordinates are 0-indexed, but ANSI uses 1-indexed.
func CursorTo(x, y int) string {
	return fmt.Sprintf("\x1b[%d;%dH", y+1, x+1)
}

// ANSIOutput writes buffer diffs to a stream as escape sequences, converting
// colors down to what the profile supports.
type ANSIOutput struct {
	w       io.Writer
	profile termenv.Profile
}

// NewANSIOutput creates an output for w using the given color profile.
func NewANSIOutput(w io.Writer, profile termenv.Profile) *ANSIOutput {
	return &ANSIOutput{w: w, profile: profile}
}

// Profile returns the color profile in use.
func (o *ANSIOutput) Profile() termenv.Profile {
	return o.profile
}

// Write emits the changes between prev and cur. A size change or nil prev
// clears the screen and repaints everything.
func (o *ANSIOutput) Write(prev, cur *CharBuffer) error {
	changes := Diff(prev, cur)
	full := FullRedraw(prev, cur)
	if len(changes) == 0 && !full {
		return nil
	}

	var b strings.Builder
	b.Grow(len(changes) * 4)
	b.WriteString(ANSICursorHide)
	if full {
		b.WriteString(ANSIClearScreen)
		b.WriteString(ANSICursorHome)
	}

	lastX, lastY := -1, -1
	var lastStyle Style
	styleSet := false

	for _, ch := range changes {
		c := ch.Cell
		if c.Continuation() {
			continue
		}
		if ch.Y != lastY || ch.X != lastX+1 {
			b.WriteString(CursorTo(ch.X, ch.Y))
		}
		if !styleSet || c.Style != lastStyle {
			b.WriteString(o.sgr(c.Style))
			lastStyle = c.Style
			styleSet = true
		}
		if c.Rune == 0 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(c.Rune)
		}
		lastX = ch.X + max(1, int(c.Width)) - 1
		lastY = ch.Y
	}
	b.WriteString(ANSIReset)

	if _, err := io.WriteString(o.w, b.String()); err != nil {
		return fmt.Errorf("write ansi frame: %w", err)
	}
	return nil
}

// sgr renders a style as a select-graphic-rendition sequence.
func (o *ANSIOutput) sgr(s Style) string {
	parts := []string{"0"}

	attrs := []struct {
		attr Attr
		code int
	}{
		{AttrBold, 1},
		{AttrDim, 2},
		{AttrItalic, 3},
		{AttrUnderline, 4},
		{AttrReverse, 7},
		{AttrStrikethrough, 9},
	}
	for _, a := range attrs {
		if s.Has(a.attr) {
			parts = append(parts, strconv.Itoa(a.code))
		}
	}

	if seq := o.colorSequence(s.FG, false); seq != "" {
		parts = append(parts, seq)
	}
	if seq := o.colorSequence(s.BG, true); seq != "" {
		parts = append(parts, seq)
	}
	return ANSIEscape + strings.Join(parts, ";") + "m"
}

func (o *ANSIOutput) colorSequence(c Color, bg bool) string {
	var tc termenv.Color
	switch c.Mode {
	case ColorMode16:
		tc = termenv.ANSIColor(c.Value)
	case ColorMode256:
		tc = termenv.ANSI256Color(c.Value)
	case ColorModeRGB:
		tc = termenv.RGBColor(fmt.Sprintf("#%06x", c.Value&0xFFFFFF))
	default:
		if o.profile == termenv.Ascii {
			return ""
		}
		if bg {
			return "49"
		}
		return "39"
	}
	return o.profile.Convert(tc).Sequence(bg)
}
