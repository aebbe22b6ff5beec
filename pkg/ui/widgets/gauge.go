package widgets

import (
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
)

// GaugeThreshold defines a color breakpoint in the gradient.
type GaugeThreshold struct {
	Ratio float64 // Start ratio for this color (0.0-1.0)
	Style compositor.Style
}

// GaugeStyle defines the visual appearance of a gauge.
type GaugeStyle struct {
	FillChar   rune // default '█'
	EmptyChar  rune // default '░'
	Thresholds []GaugeThreshold
	EmptyStyle compositor.Style
}

// DefaultGaugeStyle returns a green, yellow, red gradient.
func DefaultGaugeStyle() GaugeStyle {
	return GaugeStyle{
		FillChar:  '█',
		EmptyChar: '░',
		Thresholds: []GaugeThreshold{
			{Ratio: 0.0, Style: compositor.DefaultStyle().WithFG(compositor.ColorGreen)},
			{Ratio: 0.6, Style: compositor.DefaultStyle().WithFG(compositor.ColorYellow)},
			{Ratio: 0.85, Style: compositor.DefaultStyle().WithFG(compositor.ColorRed)},
		},
		EmptyStyle: compositor.DefaultStyle().WithFG(compositor.ColorGray),
	}
}

// Gauge is a horizontal bar showing a percentage. Bound to a tag, it takes
// its value from the Index payload of matching actions.
type Gauge struct {
	component.Base
	percent int
	style   GaugeStyle
	bound   action.Tag
}

// NewGauge creates a gauge.
func NewGauge(style GaugeStyle) *Gauge {
	return &Gauge{style: style}
}

// Bind makes the gauge follow Custom actions tagged tag.
func (g *Gauge) Bind(tag action.Tag) *Gauge {
	g.bound = tag
	return g
}

// SetPercent sets the value, clamped to 0..100.
func (g *Gauge) SetPercent(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	g.percent = p
}

// Percent returns the current value.
func (g *Gauge) Percent() int {
	return g.percent
}

// Subscriptions implements component.Subscriber.
func (g *Gauge) Subscriptions() []action.Tag {
	if g.bound == "" {
		return nil
	}
	return []action.Tag{g.bound}
}

// Dispatch updates a bound gauge.
func (g *Gauge) Dispatch(a action.Action) (action.Action, bool) {
	if g.bound == "" {
		return action.Noop(), false
	}
	if v, ok := action.As[action.Index](a, g.bound); ok {
		g.SetPercent(int(v))
	}
	return action.Noop(), false
}

// Render draws the bar on the first row.
func (g *Gauge) Render(v *compositor.View) {
	w, _ := v.Size()
	if w <= 0 {
		return
	}
	fill := (w*g.percent + 50) / 100

	fillChar := g.style.FillChar
	if fillChar == 0 {
		fillChar = '█'
	}
	emptyChar := g.style.EmptyChar
	if emptyChar == 0 {
		emptyChar = '░'
	}

	for i := 0; i < w; i++ {
		if i < fill {
			v.Set(i, 0, fillChar, styleForRatio(float64(i)/float64(w), g.style.Thresholds))
		} else {
			v.Set(i, 0, emptyChar, g.style.EmptyStyle)
		}
	}
}

// styleForRatio returns the style of the highest threshold ratio reaches.
func styleForRatio(ratio float64, thresholds []GaugeThreshold) compositor.Style {
	if len(thresholds) == 0 {
		return compositor.DefaultStyle()
	}
	result := thresholds[0].Style
	for _, t := range thresholds {
		if ratio >= t.Ratio {
			result = t.Style
		}
	}
	return result
}
