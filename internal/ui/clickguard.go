package ui

import "time"

// clickGuardDuration is how long after a drag clicks are suppressed.
const clickGuardDuration = 100 * time.Millisecond

// ClickGuard tells a click from the button release that ends a drag.
type ClickGuard struct {
	deadline time.Time
	moved    bool
}

// Move records pointer movement while the button is held.
func (c *ClickGuard) Move() {
	c.moved = true
}

// DragStart is called on button press.
func (c *ClickGuard) DragStart() {
	c.moved = false
}

// DragEnd is called on button release.
func (c *ClickGuard) DragEnd() {
	c.deadline = time.Now().Add(clickGuardDuration)
}

// Click reports whether a click now should be treated as a click.
func (c *ClickGuard) Click() bool {
	return c.deadline.IsZero() || !c.moved || c.deadline.Before(time.Now())
}
