package review

import "pareto_backend/internal/models"

// Navigator steps through an ordered list of application ids with wraparound.
type Navigator struct {
	ids   []string
	index map[string]int
}

func NewNavigator(apps []models.Application) *Navigator {
	ids := make([]string, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
	}
	return NewNavigatorFromIDs(ids)
}

func NewNavigatorFromIDs(ids []string) *Navigator {
	n := &Navigator{
		ids:   ids,
		index: make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		if _, seen := n.index[id]; !seen {
			n.index[id] = i
		}
	}
	return n
}

func (n *Navigator) Len() int {
	return len(n.ids)
}

// Next returns the id after current, wrapping to the first.
// An id outside the list yields the first element; false only when the list is empty.
func (n *Navigator) Next(current string) (string, bool) {
	if len(n.ids) == 0 {
		return "", false
	}
	i, ok := n.index[current]
	if !ok {
		return n.ids[0], true
	}
	return n.ids[(i+1)%len(n.ids)], true
}

// Prev returns the id before current, wrapping to the last.
// An id outside the list yields the last element.
func (n *Navigator) Prev(current string) (string, bool) {
	if len(n.ids) == 0 {
		return "", false
	}
	i, ok := n.index[current]
	if !ok {
		return n.ids[len(n.ids)-1], true
	}
	return n.ids[(i-1+len(n.ids))%len(n.ids)], true
}

// Position is the zero-based index of id, or -1
func (n *Navigator) Position(id string) int {
	if i, ok := n.index[id]; ok {
		return i
	}
	return -1
}
