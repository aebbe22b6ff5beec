package compositor

// Change is one cell that differs between two buffers.
type Change struct {
	X, Y int
	Cell Cell
}

// Diff returns the positions of cur that differ from prev, in row-major
// order. When prev is nil or the dimensions differ every cell is returned.
func Diff(prev, cur *CharBuffer) []Change {
	if cur == nil {
		return nil
	}
	full := prev == nil || prev.width != cur.width || prev.height != cur.height

	var changes []Change
	if full {
		changes = make([]Change, 0, len(cur.cells))
	}
	for i, c := range cur.cells {
		if !full && prev.cells[i] == c {
			continue
		}
		changes = append(changes, Change{X: i % cur.width, Y: i / cur.width, Cell: c})
	}
	return changes
}

// FullRedraw reports whether Diff(prev, cur) covers the whole buffer
// because the sizes differ.
func FullRedraw(prev, cur *CharBuffer) bool {
	if cur == nil {
		return false
	}
	return prev == nil || prev.width != cur.width || prev.height != cur.height
}
