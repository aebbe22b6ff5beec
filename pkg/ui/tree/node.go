// Package tree arranges components into tiled and floating layers and
// routes input and actions along the focus path.
package tree

import (
	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/component"
	"github.com/odvcencio/octyl/pkg/ui/layout"
)

// Node is a layout unit: a Leaf holding one component, or a Branch
// splitting its rect among ordered children.
//
// A Branch keeps one constraint per child and a focused index that is
// valid whenever it has children. A Branch may carry a handler component
// that sits on the focus path and sees events and actions passing
// through; handlers do not render.
type Node struct {
	leaf        component.ID
	handler     component.ID
	direction   layout.Direction
	children    []*Node
	constraints []layout.Constraint
	focused     int
}

// Leaf wraps a component.
func Leaf(id component.ID) *Node {
	return &Node{leaf: id}
}

// Branch creates a branch. It fails with LAYOUT_INVALID when the number of
// constraints does not match the number of children.
func Branch(dir layout.Direction, children []*Node, constraints []layout.Constraint) (*Node, error) {
	if len(children) != len(constraints) {
		return nil, errors.Newf(errors.ErrCodeLayoutInvalid,
			"branch has %d children but %d constraints", len(children), len(constraints))
	}
	for i, c := range children {
		if c == nil {
			return nil, errors.Newf(errors.ErrCodeLayoutInvalid, "branch child %d is nil", i)
		}
	}
	n := &Node{
		direction:   dir,
		children:    append([]*Node(nil), children...),
		constraints: append([]layout.Constraint(nil), constraints...),
	}
	n.focused = n.firstFocusable()
	return n, nil
}

// MustBranch is Branch that panics on a layout error.
func MustBranch(dir layout.Direction, children []*Node, constraints []layout.Constraint) *Node {
	n, err := Branch(dir, children, constraints)
	if err != nil {
		panic(err)
	}
	return n
}

// WithHandler attaches a handler component to a branch.
func (n *Node) WithHandler(id component.ID) *Node {
	if !n.IsLeaf() {
		n.handler = id
	}
	return n
}

// IsLeaf reports whether n holds a component.
func (n *Node) IsLeaf() bool {
	return n.leaf != component.NoID
}

// Component returns the leaf's component, or NoID for branches.
func (n *Node) Component() component.ID {
	return n.leaf
}

// Handler returns the branch handler, or NoID.
func (n *Node) Handler() component.ID {
	return n.handler
}

// Direction returns the split axis of a branch.
func (n *Node) Direction() layout.Direction {
	return n.direction
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns child i.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Constraints returns a copy of the branch constraints.
func (n *Node) Constraints() []layout.Constraint {
	return append([]layout.Constraint(nil), n.constraints...)
}

// Focused returns the focused child index, or -1 for leaves and empty branches.
func (n *Node) Focused() int {
	if n.IsLeaf() || len(n.children) == 0 {
		return -1
	}
	return n.focused
}

// Append adds a child at the end.
func (n *Node) Append(child *Node, c layout.Constraint) error {
	return n.Insert(len(n.children), child, c)
}

// Insert adds a child at index i. Focus stays on the same child.
func (n *Node) Insert(i int, child *Node, c layout.Constraint) error {
	if n.IsLeaf() {
		return errors.New(errors.ErrCodeLayoutInvalid, "cannot add children to a leaf")
	}
	if child == nil {
		return errors.New(errors.ErrCodeLayoutInvalid, "child is nil")
	}
	if i < 0 || i > len(n.children) {
		return errors.Newf(errors.ErrCodeLayoutInvalid, "insert index %d out of range [0,%d]", i, len(n.children))
	}

	wasEmpty := len(n.children) == 0
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	n.constraints = append(n.constraints, layout.Constraint{})
	copy(n.constraints[i+1:], n.constraints[i:])
	n.constraints[i] = c

	switch {
	case wasEmpty:
		n.focused = n.firstFocusable()
	case i <= n.focused:
		n.focused++
	}
	return nil
}

// Remove detaches child i and returns it. Focus moves to the previous
// child when the focused one is removed.
func (n *Node) Remove(i int) (*Node, error) {
	if n.IsLeaf() {
		return nil, errors.New(errors.ErrCodeLayoutInvalid, "cannot remove children from a leaf")
	}
	if i < 0 || i >= len(n.children) {
		return nil, errors.Newf(errors.ErrCodeLayoutInvalid, "remove index %d out of range [0,%d)", i, len(n.children))
	}

	child := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	n.constraints = append(n.constraints[:i], n.constraints[i+1:]...)

	switch {
	case len(n.children) == 0:
		n.focused = 0
	case i < n.focused:
		n.focused--
	case i == n.focused:
		n.focused = max(0, i-1)
		if !n.children[n.focused].focusable() {
			n.focused = n.firstFocusable()
		}
	}
	return child, nil
}

// SetFocus focuses child i. Children without any leaf cannot take focus.
func (n *Node) SetFocus(i int) error {
	if n.IsLeaf() {
		return errors.New(errors.ErrCodeLayoutInvalid, "leaf has no children to focus")
	}
	if i < 0 || i >= len(n.children) {
		return errors.Newf(errors.ErrCodeLayoutInvalid, "focus index %d out of range [0,%d)", i, len(n.children))
	}
	if !n.children[i].focusable() {
		return errors.Newf(errors.ErrCodeLayoutInvalid, "child %d has no leaf to focus", i)
	}
	n.focused = i
	return nil
}

// FocusNext moves focus to the next focusable child, wrapping around.
// Returns true if focus changed.
func (n *Node) FocusNext() bool {
	return n.step(1)
}

// FocusPrev moves focus to the previous focusable child, wrapping around.
// Returns true if focus changed.
func (n *Node) FocusPrev() bool {
	return n.step(-1)
}

func (n *Node) step(dir int) bool {
	count := len(n.children)
	if n.IsLeaf() || count == 0 {
		return false
	}
	for i := 1; i < count; i++ {
		idx := ((n.focused+dir*i)%count + count) % count
		if n.children[idx].focusable() {
			n.focused = idx
			return true
		}
	}
	return false
}

// FocusedLeaf follows focus down to a leaf. If the focused child holds no
// leaf the first child that does is used instead. Returns false when the
// subtree has no leaves.
func (n *Node) FocusedLeaf() (component.ID, bool) {
	if n.IsLeaf() {
		return n.leaf, true
	}
	child := n.focusedChild()
	if child == nil {
		return component.NoID, false
	}
	return child.FocusedLeaf()
}

// Path returns the components on the focus path, root first: branch
// handlers followed by the focused leaf.
func (n *Node) Path() []component.ID {
	var path []component.ID
	for cur := n; cur != nil; cur = cur.focusedChild() {
		if cur.IsLeaf() {
			path = append(path, cur.leaf)
			break
		}
		if cur.handler != component.NoID {
			path = append(path, cur.handler)
		}
	}
	return path
}

// Leaves returns every leaf component in depth-first order.
func (n *Node) Leaves() []component.ID {
	if n.IsLeaf() {
		return []component.ID{n.leaf}
	}
	var out []component.ID
	for _, c := range n.children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// FocusLeaf points focus at the leaf holding id along every branch on the
// way. Returns false if id is not in the subtree.
func (n *Node) FocusLeaf(id component.ID) bool {
	if n.IsLeaf() {
		return n.leaf == id
	}
	for i, c := range n.children {
		if c.FocusLeaf(id) {
			n.focused = i
			return true
		}
	}
	return false
}

// Validate checks the branch invariants of the whole subtree.
func (n *Node) Validate() error {
	if n.IsLeaf() {
		return nil
	}
	if len(n.children) != len(n.constraints) {
		return errors.Newf(errors.ErrCodeLayoutInvalid,
			"branch has %d children but %d constraints", len(n.children), len(n.constraints))
	}
	if len(n.children) > 0 && (n.focused < 0 || n.focused >= len(n.children)) {
		return errors.Newf(errors.ErrCodeLayoutInvalid,
			"focus index %d out of range [0,%d)", n.focused, len(n.children))
	}
	for _, c := range n.children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) focusedChild() *Node {
	if n.IsLeaf() || len(n.children) == 0 {
		return nil
	}
	if c := n.children[n.focused]; c.focusable() {
		return c
	}
	if i := n.firstFocusable(); n.children[i].focusable() {
		return n.children[i]
	}
	return nil
}

// focusable reports whether the subtree contains a leaf.
func (n *Node) focusable() bool {
	if n.IsLeaf() {
		return true
	}
	for _, c := range n.children {
		if c.focusable() {
			return true
		}
	}
	return false
}

func (n *Node) firstFocusable() int {
	for i, c := range n.children {
		if c.focusable() {
			return i
		}
	}
	return 0
}
