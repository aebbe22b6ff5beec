package component

import (
	"strconv"
	"sync/atomic"

	"github.com/odvcencio/octyl/pkg/errors"
)

// ID identifies a registered component. IDs are never reused.
type ID uint64

// NoID is never allocated.
const NoID ID = 0

func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// IDAllocator hands out monotonically increasing IDs starting at 1.
// Pass one allocator to every registry that must not share IDs; tests
// create their own for deterministic values.
type IDAllocator struct {
	next atomic.Uint64
}

// NewIDAllocator creates an allocator whose first ID is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() ID {
	return ID(a.next.Add(1))
}

// Registry is the arena owning component instances. The tree refers to
// components by ID only. It is owned by the dispatch loop.
type Registry struct {
	ids     *IDAllocator
	items   map[ID]Component
	order   []ID
	pending []ID
}

// NewRegistry creates an empty registry. A nil allocator gets a private one.
func NewRegistry(ids *IDAllocator) *Registry {
	if ids == nil {
		ids = NewIDAllocator()
	}
	return &Registry{ids: ids, items: make(map[ID]Component)}
}

// Register stores c and returns its new ID. Init runs on the next
// InitPending call.
func (r *Registry) Register(c Component) ID {
	id := r.ids.Next()
	r.items[id] = c
	r.order = append(r.order, id)
	r.pending = append(r.pending, id)
	return id
}

// Get looks up a component.
func (r *Registry) Get(id ID) (Component, bool) {
	c, ok := r.items[id]
	return c, ok
}

// Lookup is Get returning a NOT_FOUND error for unknown IDs.
func (r *Registry) Lookup(id ID) (Component, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeNotFound, "component %s not registered", id)
	}
	return c, nil
}

// Remove unmounts a component. Returns false if it was not registered.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	r.order = removeID(r.order, id)
	r.pending = removeID(r.pending, id)
	return true
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.items)
}

// IDs returns registered IDs in registration order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.order...)
}

// InitPending calls Init on every component registered since the last
// call, in registration order. Stops at the first error; components after
// the failing one stay pending.
func (r *Registry) InitPending(sink Sink) error {
	for len(r.pending) > 0 {
		id := r.pending[0]
		r.pending = r.pending[1:]
		if err := r.items[id].Init(sink); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "component init failed").
				WithContext("component", id.String())
		}
	}
	return nil
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
