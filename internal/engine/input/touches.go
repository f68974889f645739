package input

import (
	"slices"

	"github.com/Faultbox/panoview/internal/viewer"
)

// touches tracks active contacts by finger id. Points are reported in
// the order fingers went down.
type touches struct {
	order []int64
	pos   map[int64]viewer.Point
}

func newTouches() *touches {
	return &touches{pos: make(map[int64]viewer.Point)}
}

func (t *touches) down(id int64, p viewer.Point) []viewer.Point {
	if _, ok := t.pos[id]; !ok {
		t.order = append(t.order, id)
	}
	t.pos[id] = p
	return t.points()
}

func (t *touches) move(id int64, p viewer.Point) []viewer.Point {
	if _, ok := t.pos[id]; ok {
		t.pos[id] = p
	}
	return t.points()
}

func (t *touches) up(id int64) []viewer.Point {
	if i := slices.Index(t.order, id); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
		delete(t.pos, id)
	}
	return t.points()
}

func (t *touches) count() int {
	return len(t.order)
}

func (t *touches) points() []viewer.Point {
	pts := make([]viewer.Point, len(t.order))
	for i, id := range t.order {
		pts[i] = t.pos[id]
	}
	return pts
}
