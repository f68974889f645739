package viewer

// NoPhoto is the current index of a viewer without photos.
const NoPhoto = -1

// Navigator owns the current photo index.
type Navigator struct {
	current  int
	count    int
	onSelect func(index int)
}

// NewNavigator creates a navigator over count photos. onSelect runs after
// every accepted selection.
func NewNavigator(count int, onSelect func(index int)) *Navigator {
	n := &Navigator{count: count, onSelect: onSelect, current: NoPhoto}
	if count > 0 {
		n.current = 0
	}
	return n
}

// Current returns the selected index, or NoPhoto when there are no photos.
func (n *Navigator) Current() int {
	return n.current
}

// Count returns the number of photos.
func (n *Navigator) Count() int {
	return n.count
}

// Select makes index current and reloads it. Indices outside [0, Count)
// are ignored. Selecting the current index reloads it.
func (n *Navigator) Select(index int) bool {
	if index < 0 || index >= n.count {
		return false
	}
	n.current = index
	if n.onSelect != nil {
		n.onSelect(index)
	}
	return true
}

// Next selects the following photo; no-op on the last one.
func (n *Navigator) Next() bool {
	return n.Select(n.current + 1)
}

// Previous selects the preceding photo; no-op on the first one.
func (n *Navigator) Previous() bool {
	return n.Select(n.current - 1)
}
