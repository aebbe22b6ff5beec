package layout

import "fmt"

// Direction is the axis a branch splits its rect along.
type Direction int

const (
	Horizontal Direction = iota // children side by side, split on width
	Vertical                    // children stacked, split on height
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

type constraintKind int

const (
	kindFixed constraintKind = iota
	kindFlexible
	kindPercentage
)

// Constraint sizes one partition of a split.
type Constraint struct {
	kind  constraintKind
	value int
}

// Fixed reserves exactly n cells.
func Fixed(n int) Constraint {
	return Constraint{kind: kindFixed, value: max(0, n)}
}

// Flexible shares the remaining space with weight 1.
func Flexible() Constraint {
	return Constraint{kind: kindFlexible, value: 1}
}

// Weighted shares the remaining space proportionally to w.
func Weighted(w int) Constraint {
	return Constraint{kind: kindFlexible, value: max(1, w)}
}

// Percentage reserves p percent of the full extent, rounded down.
func Percentage(p int) Constraint {
	return Constraint{kind: kindPercentage, value: min(100, max(0, p))}
}

// IsFlexible reports whether the constraint takes a share of leftover space.
func (c Constraint) IsFlexible() bool {
	return c.kind == kindFlexible
}

func (c Constraint) String() string {
	switch c.kind {
	case kindFixed:
		return fmt.Sprintf("Fixed(%d)", c.value)
	case kindPercentage:
		return fmt.Sprintf("Percentage(%d)", c.value)
	default:
		if c.value == 1 {
			return "Flexible"
		}
		return fmt.Sprintf("Weighted(%d)", c.value)
	}
}

// Sizes resolves constraints against an extent. The result always sums to
// extent (or to 0 when there are no constraints). Fixed and percentage sizes
// are granted in order until space runs out; flexible constraints split what
// is left by weight. The rounding remainder goes to the last flexible
// partition, or to the last partition when none is flexible.
func Sizes(extent int, cs []Constraint) []int {
	sizes := make([]int, len(cs))
	if len(cs) == 0 {
		return sizes
	}
	extent = max(0, extent)

	remaining := extent
	totalWeight := 0
	lastFlex := -1
	for i, c := range cs {
		switch c.kind {
		case kindFlexible:
			totalWeight += c.value
			lastFlex = i
		case kindPercentage:
			sizes[i] = min(remaining, extent*c.value/100)
			remaining -= sizes[i]
		default:
			sizes[i] = min(remaining, c.value)
			remaining -= sizes[i]
		}
	}

	if totalWeight > 0 {
		for i, c := range cs {
			if c.kind != kindFlexible {
				continue
			}
			sizes[i] = remaining * c.value / totalWeight
		}
	}

	used := 0
	for _, s := range sizes {
		used += s
	}
	leftover := extent - used
	if lastFlex >= 0 {
		sizes[lastFlex] += leftover
	} else {
		sizes[len(sizes)-1] += leftover
	}
	return sizes
}

// Split partitions r along dir. The returned rects tile r exactly: no gaps,
// no overlaps, in constraint order.
func Split(r Rect, dir Direction, cs []Constraint) []Rect {
	extent := r.Width
	if dir == Vertical {
		extent = r.Height
	}
	sizes := Sizes(extent, cs)

	rects := make([]Rect, len(sizes))
	offset := 0
	for i, size := range sizes {
		if dir == Vertical {
			rects[i] = Rect{X: r.X, Y: r.Y + offset, Width: r.Width, Height: size}
		} else {
			rects[i] = Rect{X: r.X + offset, Y: r.Y, Width: size, Height: r.Height}
		}
		offset += size
	}
	return rects
}
