// Package widgets provides leaf components built on the component contract.
package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
)

// Text is a multi-line text display. Lines longer than the view are
// truncated with an ellipsis.
type Text struct {
	component.Base
	lines []string
	style compositor.Style
}

// NewText creates a new text widget.
func NewText(text string) *Text {
	return &Text{lines: strings.Split(text, "\n")}
}

// SetText updates the displayed text.
func (t *Text) SetText(text string) {
	t.lines = strings.Split(text, "\n")
}

// Text returns the current text.
func (t *Text) Text() string {
	return strings.Join(t.lines, "\n")
}

// WithStyle sets the style and returns the widget for chaining.
func (t *Text) WithStyle(style compositor.Style) *Text {
	t.style = style
	return t
}

// Render draws one line per row.
func (t *Text) Render(v *compositor.View) {
	w, h := v.Size()
	for y := 0; y < h && y < len(t.lines); y++ {
		v.SetString(0, y, truncate(t.lines[y], w), t.style)
	}
}

// Alignment specifies text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Label is a single line of text. A label bound to a tag replaces its text
// with the Text payload of matching Custom actions.
type Label struct {
	component.Base
	text      string
	style     compositor.Style
	alignment Alignment
	bound     action.Tag
}

// NewLabel creates a new label widget.
func NewLabel(text string) *Label {
	return &Label{text: text}
}

// SetText updates the label text.
func (l *Label) SetText(text string) {
	l.text = text
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// WithStyle sets the style and returns for chaining.
func (l *Label) WithStyle(style compositor.Style) *Label {
	l.style = style
	return l
}

// WithAlignment sets alignment and returns for chaining.
func (l *Label) WithAlignment(align Alignment) *Label {
	l.alignment = align
	return l
}

// Bind makes the label follow Custom actions tagged tag.
func (l *Label) Bind(tag action.Tag) *Label {
	l.bound = tag
	return l
}

// Subscriptions implements component.Subscriber.
func (l *Label) Subscriptions() []action.Tag {
	if l.bound == "" {
		return nil
	}
	return []action.Tag{l.bound}
}

// Dispatch updates a bound label.
func (l *Label) Dispatch(a action.Action) (action.Action, bool) {
	if l.bound == "" {
		return action.Noop(), false
	}
	if text, ok := action.As[action.Text](a, l.bound); ok {
		l.text = string(text)
	}
	return action.Noop(), false
}

// Render draws the label on the first row.
func (l *Label) Render(v *compositor.View) {
	w, _ := v.Size()
	text := truncate(l.text, w)
	x := 0
	switch l.alignment {
	case AlignCenter:
		x = (w - runewidth.StringWidth(text)) / 2
	case AlignRight:
		x = w - runewidth.StringWidth(text)
	}
	v.SetString(x, 0, text, l.style)
}

// truncate clips s to width display cells, ending in an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
