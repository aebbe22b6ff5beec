package widgets

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/layout"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Palette tags. Selected carries the item ID as Text; Query carries the
// new query as Text; Move carries the selection delta as Index.
const (
	PaletteSelectedTag action.Tag = "palette.selected"
	PaletteCloseTag    action.Tag = "palette.close"
	PaletteQueryTag    action.Tag = "palette.query"
	PaletteMoveTag     action.Tag = "palette.move"
)

// PaletteItem represents a single item in the palette.
type PaletteItem struct {
	ID          string // Unique identifier
	Label       string // Display text
	Description string // Optional secondary text, matched by the filter
	Shortcut    string // Optional keyboard shortcut hint
}

// Palette is a filtering command palette meant for a floating layer. It is
// opaque to keys and mouse so nothing underneath sees input while it is up.
type Palette struct {
	component.Base

	title      string
	prompt     string
	maxVisible int

	items    []PaletteItem
	filtered []PaletteItem
	query    string
	selected int

	borderStyle   compositor.Style
	titleStyle    compositor.Style
	queryStyle    compositor.Style
	itemStyle     compositor.Style
	selectedStyle compositor.Style
	shortcutStyle compositor.Style
}

// NewPalette creates a palette over items.
func NewPalette(title string, items []PaletteItem) *Palette {
	p := &Palette{
		title:         title,
		prompt:        "> ",
		maxVisible:    8,
		items:         items,
		borderStyle:   compositor.DefaultStyle(),
		titleStyle:    compositor.DefaultStyle().With(compositor.AttrBold),
		queryStyle:    compositor.DefaultStyle().With(compositor.AttrBold),
		selectedStyle: compositor.DefaultStyle().With(compositor.AttrReverse),
		shortcutStyle: compositor.DefaultStyle().WithFG(compositor.ColorGray),
	}
	p.updateFiltered()
	return p
}

// SetMaxVisible sets the maximum visible items.
func (p *Palette) SetMaxVisible(n int) {
	if n > 0 {
		p.maxVisible = n
	}
}

// Reset clears the query and selection.
func (p *Palette) Reset() {
	p.query = ""
	p.selected = 0
	p.updateFiltered()
}

// Query returns the current query string.
func (p *Palette) Query() string {
	return p.query
}

// Filtered returns the items matching the query.
func (p *Palette) Filtered() []PaletteItem {
	return p.filtered
}

// SelectedItem returns the currently selected item, or nil if none.
func (p *Palette) SelectedItem() *PaletteItem {
	if p.selected >= 0 && p.selected < len(p.filtered) {
		return &p.filtered[p.selected]
	}
	return nil
}

// Rect returns the palette rect centered in area.
func (p *Palette) Rect(area layout.Rect) layout.Rect {
	w := 60
	if w > area.Width {
		w = area.Width
	}
	h := 4 + p.maxVisible
	if h > area.Height {
		h = area.Height
	}
	return area.Centered(w, h)
}

func (p *Palette) KeyOpaque() bool   { return true }
func (p *Palette) MouseOpaque() bool { return true }

// HandleKey translates keys into palette actions.
func (p *Palette) HandleKey(ev terminal.KeyEvent) action.Action {
	switch ev.Key {
	case terminal.KeyEscape:
		return action.Custom(PaletteCloseTag, nil)
	case terminal.KeyEnter:
		if item := p.SelectedItem(); item != nil {
			return action.Custom(PaletteSelectedTag, action.Text(item.ID))
		}
		return action.Noop()
	case terminal.KeyUp, terminal.KeyBacktab:
		return action.Custom(PaletteMoveTag, action.Index(-1))
	case terminal.KeyDown, terminal.KeyTab:
		return action.Custom(PaletteMoveTag, action.Index(1))
	case terminal.KeyBackspace:
		if p.query == "" {
			return action.Custom(PaletteCloseTag, nil)
		}
		r := []rune(p.query)
		return action.Custom(PaletteQueryTag, action.Text(string(r[:len(r)-1])))
	case terminal.KeyRune:
		if ev.Mods.Has(terminal.ModCtrl) || ev.Mods.Has(terminal.ModAlt) {
			return action.Noop()
		}
		return action.Custom(PaletteQueryTag, action.Text(p.query+string(ev.Rune)))
	}
	return action.Noop()
}

// Dispatch applies query and selection changes.
func (p *Palette) Dispatch(a action.Action) (action.Action, bool) {
	if q, ok := action.As[action.Text](a, PaletteQueryTag); ok {
		p.query = string(q)
		p.updateFiltered()
	}
	if d, ok := action.As[action.Index](a, PaletteMoveTag); ok {
		p.move(int(d))
	}
	return action.Noop(), false
}

func (p *Palette) move(delta int) {
	n := len(p.filtered)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// updateFiltered refilters items based on current query.
func (p *Palette) updateFiltered() {
	if p.query == "" {
		p.filtered = p.items
	} else {
		p.filtered = nil
		q := strings.ToLower(p.query)
		for _, item := range p.items {
			if strings.Contains(strings.ToLower(item.Label), q) ||
				strings.Contains(strings.ToLower(item.Description), q) {
				p.filtered = append(p.filtered, item)
			}
		}
	}

	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 && len(p.filtered) > 0 {
		p.selected = 0
	}
}

// Render draws the palette.
func (p *Palette) Render(v *compositor.View) {
	w, h := v.Size()
	if w < 10 || h < 4 {
		return
	}
	v.Clear(compositor.DefaultStyle())
	v.Box(p.borderStyle)

	title := truncate(" "+p.title+" ", w-2)
	v.SetString((w-runewidth.StringWidth(title))/2, 0, title, p.titleStyle)

	v.SetString(2, 1, truncate(p.prompt+p.query, w-4), p.queryStyle)

	for x := 1; x < w-1; x++ {
		v.Set(x, 2, '─', p.borderStyle)
	}

	rows := h - 4
	if rows > len(p.filtered) {
		rows = len(p.filtered)
	}
	// Keep the selection visible.
	first := 0
	if p.selected >= rows {
		first = p.selected - rows + 1
	}
	for i := 0; i < rows; i++ {
		idx := first + i
		item := p.filtered[idx]
		y := 3 + i

		style := p.itemStyle
		shortcutStyle := p.shortcutStyle
		if idx == p.selected {
			style = p.selectedStyle
			shortcutStyle = style
			v.Fill(layout.NewRect(1, y, w-2, 1), ' ', style)
		}

		maxLabel := w - 4
		if item.Shortcut != "" {
			maxLabel -= runewidth.StringWidth(item.Shortcut) + 1
		}
		v.SetString(2, y, truncate(item.Label, maxLabel), style)
		if item.Shortcut != "" {
			v.SetString(w-2-runewidth.StringWidth(item.Shortcut), y, item.Shortcut, shortcutStyle)
		}
	}

	if len(p.filtered) > rows {
		count := strconv.Itoa(len(p.filtered)) + " results"
		v.SetString(w-2-len(count), h-1, count, p.borderStyle)
	}
}
