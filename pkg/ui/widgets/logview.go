package widgets

import (
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
)

// LogTag is the prefix LogView subscribes to. A Custom action tagged
// LogTag carrying Text is appended to the ring.
const LogTag action.Tag = "log"

// LogView shows the most recent lines of a log ring, newest at the bottom,
// inside a titled border.
type LogView struct {
	component.Base
	ring  *logging.Ring
	title string

	borderStyle compositor.Style
	lineStyle   compositor.Style
}

// NewLogView creates a log pane over ring.
func NewLogView(title string, ring *logging.Ring) *LogView {
	return &LogView{
		ring:        ring,
		title:       title,
		borderStyle: compositor.DefaultStyle().WithFG(compositor.ColorGray),
		lineStyle:   compositor.DefaultStyle(),
	}
}

// Subscriptions implements component.Subscriber.
func (l *LogView) Subscriptions() []action.Tag {
	return []action.Tag{LogTag}
}

// Dispatch appends log actions to the ring.
func (l *LogView) Dispatch(a action.Action) (action.Action, bool) {
	if text, ok := action.As[action.Text](a, LogTag); ok {
		_, _ = l.ring.Write([]byte(string(text) + "\n"))
	}
	return action.Noop(), false
}

// Render draws the border and as many recent lines as fit.
func (l *LogView) Render(v *compositor.View) {
	w, h := v.Size()
	if w < 2 || h < 2 {
		return
	}
	v.Box(l.borderStyle)
	if l.title != "" {
		v.SetString(1, 0, truncate(" "+l.title+" ", w-2), l.borderStyle)
	}

	lines := l.ring.Lines() // newest first
	rows := h - 2
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for i, line := range lines {
		y := h - 2 - i
		v.SetString(1, y, truncate(line, w-2), l.lineStyle)
	}
}
