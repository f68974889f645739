// Package ui holds the thumbnail strip model shown along the bottom of the
// viewer: layout, hit testing, active markers and background thumbnail
// loading. Drawing is left to the renderer.
package ui

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"
)

const (
	thumbSpacing = 10
	thumbAspect  = 2 // Equirectangular photos are twice as wide as tall
	loaderCount  = 2
)

// LoadFunc produces a thumbnail image for uri.
type LoadFunc func(ctx context.Context, uri string) (image.Image, error)

// Item is one thumbnail slot as laid out on screen.
type Item struct {
	Index  int
	URI    string
	Rect   image.Rectangle
	Active bool
	Loaded bool
}

// Loaded is a thumbnail decoded in the background, ready for upload.
type Loaded struct {
	Index int
	Image image.Image
}

type thumb struct {
	uri      string
	activate func()
	active   bool
	loaded   bool
}

type thumbnailJob struct {
	index int
	uri   string
}

// Strip is the thumbnail bar. Apart from Start's workers, it is used from
// the main goroutine only.
type Strip struct {
	size    int
	visible bool
	thumbs  []thumb
	log     *zap.Logger

	jobQueue    chan thumbnailJob
	resultQueue chan Loaded
	wg          sync.WaitGroup
	started     bool
}

// NewStrip creates an empty strip with thumbnails size pixels tall.
func NewStrip(size int, log *zap.Logger) *Strip {
	if log == nil {
		log = zap.NewNop()
	}
	return &Strip{
		size:        size,
		visible:     true,
		log:         log,
		resultQueue: make(chan Loaded, 16),
	}
}

// AddThumbnail appends a slot for index. Indices arrive in photo order.
func (s *Strip) AddThumbnail(index int, uri string, onActivate func()) {
	for len(s.thumbs) <= index {
		s.thumbs = append(s.thumbs, thumb{})
	}
	s.thumbs[index] = thumb{uri: uri, activate: onActivate}
	if s.started {
		s.enqueue(index)
	}
}

// SetActive sets the marker of the thumbnail at index.
func (s *Strip) SetActive(index int, active bool) {
	if index < 0 || index >= len(s.thumbs) {
		return
	}
	s.thumbs[index].active = active
}

// Active returns the index carrying the active marker, or -1.
func (s *Strip) Active() int {
	for i, t := range s.thumbs {
		if t.active {
			return i
		}
	}
	return -1
}

// Len returns the number of thumbnails.
func (s *Strip) Len() int {
	return len(s.thumbs)
}

// Visible reports whether the strip is shown.
func (s *Strip) Visible() bool {
	return s.visible && len(s.thumbs) > 0
}

// Toggle shows or hides the strip.
func (s *Strip) Toggle() {
	s.visible = !s.visible
}

// Height returns the screen height the strip covers when visible.
func (s *Strip) Height() int {
	if !s.Visible() {
		return 0
	}
	return s.size + 2*thumbSpacing
}

// Layout places every thumbnail for a screen of the given size. Slots are
// centered; when they overflow the screen the row scrolls so the active
// thumbnail stays centered, clamped to the row ends.
func (s *Strip) Layout(screenW, screenH int) []Item {
	if !s.Visible() {
		return nil
	}

	slotW := s.size * thumbAspect
	step := slotW + thumbSpacing
	total := len(s.thumbs)*step - thumbSpacing

	startX := (screenW - total) / 2
	if total > screenW-2*thumbSpacing {
		active := max(s.Active(), 0)
		startX = screenW/2 - (active*step + slotW/2)
		startX = min(startX, thumbSpacing)
		startX = max(startX, screenW-thumbSpacing-total)
	}
	y := screenH - s.size - thumbSpacing

	items := make([]Item, len(s.thumbs))
	for i, t := range s.thumbs {
		x := startX + i*step
		items[i] = Item{
			Index:  i,
			URI:    t.uri,
			Rect:   image.Rect(x, y, x+slotW, y+s.size),
			Active: t.active,
			Loaded: t.loaded,
		}
	}
	return items
}

// HitTest returns the thumbnail index under (x, y), or -1.
func (s *Strip) HitTest(screenW, screenH, x, y int) int {
	p := image.Pt(x, y)
	for _, it := range s.Layout(screenW, screenH) {
		if p.In(it.Rect) {
			return it.Index
		}
	}
	return -1
}

// Click activates the thumbnail under (x, y) and reports whether one was hit.
func (s *Strip) Click(screenW, screenH, x, y int) bool {
	i := s.HitTest(screenW, screenH, x, y)
	if i < 0 {
		return false
	}
	if a := s.thumbs[i].activate; a != nil {
		a()
	}
	return true
}

// Start launches the background loaders and queues every thumbnail.
// Workers stop when ctx is done.
func (s *Strip) Start(ctx context.Context, load LoadFunc) {
	if s.started {
		return
	}
	s.started = true
	s.jobQueue = make(chan thumbnailJob, len(s.thumbs)+16)

	for i := 0; i < loaderCount; i++ {
		s.wg.Add(1)
		go s.loader(ctx, load)
	}
	for i := range s.thumbs {
		s.enqueue(i)
	}
}

func (s *Strip) enqueue(index int) {
	select {
	case s.jobQueue <- thumbnailJob{index: index, uri: s.thumbs[index].uri}:
	default:
		s.log.Warn("Thumbnail queue full", zap.Int("index", index))
	}
}

// loader is a background worker that decodes thumbnails.
func (s *Strip) loader(ctx context.Context, load LoadFunc) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobQueue:
			img, err := load(ctx, job.uri)
			if err != nil {
				s.log.Warn("Failed to load thumbnail",
					zap.Int("index", job.index),
					zap.String("uri", job.uri),
					zap.Error(err))
				continue
			}
			select {
			case s.resultQueue <- Loaded{Index: job.index, Image: img}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Poll returns the thumbnails decoded since the last call without blocking.
func (s *Strip) Poll() []Loaded {
	var out []Loaded
	for {
		select {
		case res := <-s.resultQueue:
			if res.Index < len(s.thumbs) {
				s.thumbs[res.Index].loaded = true
			}
			out = append(out, res)
		default:
			return out
		}
	}
}

// Wait blocks until the workers have exited. Cancel Start's context first.
func (s *Strip) Wait() {
	s.wg.Wait()
}
