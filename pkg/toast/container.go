package toast

import "slices"

// ContainerID is the stable DOM id of the container holding live toasts.
const ContainerID = "toastContainer"

// container keeps live toasts in insertion order. Guarded by Manager.mu.
type container struct {
	order []*entry
	byID  map[string]*entry
}

func newContainer() *container {
	return &container{byID: make(map[string]*entry)}
}

func (c *container) push(e *entry) {
	c.order = append(c.order, e)
	c.byID[e.id] = e
}

func (c *container) get(id string) (*entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// remove deletes the toast without reordering the others.
func (c *container) remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	c.order = slices.DeleteFunc(c.order, func(e *entry) bool { return e.id == id })
	return true
}

func (c *container) snapshot() []Toast {
	out := make([]Toast, 0, len(c.order))
	for _, e := range c.order {
		out = append(out, e.snapshot())
	}
	return out
}

func (c *container) all() []*entry {
	return c.order
}
