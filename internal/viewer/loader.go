package viewer

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
)

// LoadState is the lifecycle of the latest load request.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadPending
	LoadApplied
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadPending:
		return "pending"
	case LoadApplied:
		return "applied"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// LoadRequest identifies one load. Generation grows by one per request.
type LoadRequest struct {
	Index      int
	Generation uint64
}

// LoadResult is what a fetch goroutine posts back.
type LoadResult struct {
	LoadRequest
	Image image.Image
	Err   error
}

// PhotoLoader fetches photos in the background and applies only the result
// of the latest request. Request, Complete, Poll and Await must be called
// from the goroutine that owns the Surface.
type PhotoLoader struct {
	ctx     context.Context
	cancel  context.CancelFunc
	photos  []string
	fetcher Fetcher
	surface Surface
	ind     Indicator
	timeout time.Duration
	log     *zap.Logger

	results chan LoadResult
	latest  uint64
	state   LoadState
	active  Resource
	closed  bool
}

// NewPhotoLoader creates a loader. indicator and log may be nil.
func NewPhotoLoader(ctx context.Context, photos []string, fetcher Fetcher, surface Surface,
	indicator Indicator, timeout time.Duration, log *zap.Logger) *PhotoLoader {
	if indicator == nil {
		indicator = nopIndicator{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &PhotoLoader{
		ctx:     ctx,
		cancel:  cancel,
		photos:  photos,
		fetcher: fetcher,
		surface: surface,
		ind:     indicator,
		timeout: timeout,
		log:     log,
		results: make(chan LoadResult, 4),
	}
}

// Request starts loading photos[index] and returns without waiting.
// The loading indicator is shown before Request returns.
func (l *PhotoLoader) Request(index int) LoadRequest {
	l.latest++
	req := LoadRequest{Index: index, Generation: l.latest}
	if l.closed {
		return req
	}

	l.state = LoadPending
	l.ind.ShowLoading()

	uri := l.photos[index]
	l.log.Debug("Requesting photo",
		zap.Int("index", index),
		zap.Uint64("generation", req.Generation),
		zap.String("uri", uri))

	go l.fetch(req, uri)
	return req
}

func (l *PhotoLoader) fetch(req LoadRequest, uri string) {
	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	img, err := l.fetcher.Fetch(ctx, uri)
	if err == nil && img == nil {
		err = fmt.Errorf("fetch %s: no image", uri)
	}
	l.log.Debug("Fetch finished",
		zap.Uint64("generation", req.Generation),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	select {
	case l.results <- LoadResult{LoadRequest: req, Image: img, Err: err}:
	case <-l.ctx.Done():
	}
}

// Complete applies res if it belongs to the latest request and reports
// whether a new image is now displayed.
func (l *PhotoLoader) Complete(res LoadResult) bool {
	if l.closed {
		return false
	}
	if res.Generation != l.latest {
		l.log.Debug("Dropping stale load result",
			zap.Int("index", res.Index),
			zap.Uint64("generation", res.Generation),
			zap.Uint64("latest", l.latest))
		return false
	}

	if res.Err != nil {
		l.fail(res, res.Err)
		return false
	}

	next, err := l.surface.Upload(res.Image)
	if err != nil {
		l.fail(res, fmt.Errorf("upload: %w", err))
		return false
	}

	prev := l.active
	l.active = next
	l.surface.Show(next)
	if prev != nil {
		prev.Release()
	}

	l.state = LoadApplied
	l.ind.Hide()
	l.log.Info("Photo loaded",
		zap.Int("index", res.Index),
		zap.String("uri", l.photos[res.Index]))
	return true
}

func (l *PhotoLoader) fail(res LoadResult, err error) {
	l.state = LoadFailed
	l.ind.ShowError(LoadErrorMessage)
	l.log.Error("Failed to load photo",
		zap.Int("index", res.Index),
		zap.String("uri", l.photos[res.Index]),
		zap.Error(err))
}

// Poll completes every result that is ready without blocking and returns
// how many it handled.
func (l *PhotoLoader) Poll() int {
	n := 0
	for {
		select {
		case res := <-l.results:
			l.Complete(res)
			n++
		default:
			return n
		}
	}
}

// Await blocks until the next result arrives, completes it and reports
// whether it was applied.
func (l *PhotoLoader) Await(ctx context.Context) (bool, error) {
	if l.closed {
		return false, l.ctx.Err()
	}
	select {
	case res := <-l.results:
		return l.Complete(res), nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-l.ctx.Done():
		return false, l.ctx.Err()
	}
}

// State reports the lifecycle of the latest request.
func (l *PhotoLoader) State() LoadState {
	return l.state
}

// Latest returns the generation of the latest request.
func (l *PhotoLoader) Latest() uint64 {
	return l.latest
}

// Active returns the displayed resource, or nil.
func (l *PhotoLoader) Active() Resource {
	return l.active
}

// Close abandons in-flight fetches and releases the displayed resource.
func (l *PhotoLoader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.cancel()
	if l.active != nil {
		l.surface.Show(nil)
		l.active.Release()
		l.active = nil
	}
}

type nopIndicator struct{}

func (nopIndicator) ShowLoading()     {}
func (nopIndicator) ShowError(string) {}
func (nopIndicator) Hide()            {}
