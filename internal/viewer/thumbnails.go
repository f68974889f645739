package viewer

// ThumbnailSync mirrors the current index onto the thumbnail markers.
type ThumbnailSync struct {
	target ThumbnailTarget
	count  int
}

// NewThumbnailSync returns a sync for count thumbnails. target may be nil.
func NewThumbnailSync(target ThumbnailTarget, count int) *ThumbnailSync {
	return &ThumbnailSync{target: target, count: count}
}

// Reflect marks the thumbnail at index active and every other one inactive.
func (t *ThumbnailSync) Reflect(index int) {
	if t.target == nil {
		return
	}
	for i := 0; i < t.count; i++ {
		t.target.SetActive(i, i == index)
	}
}
