// Package photo resolves photo identifiers (paths, file:// and http(s)://
// URLs) to decoded images, thumbnails and metadata.
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// maxPhotoBytes caps a single download.
	maxPhotoBytes = 256 << 20
	// MaxPixels caps the declared size of an image before it is decoded.
	MaxPixels = 16384 * 8192
)

// ErrTooLarge is returned for images declaring more pixels than allowed.
var ErrTooLarge = errors.New("image too large")

// Fetcher loads and decodes photos. It is safe for concurrent use.
type Fetcher struct {
	Client *http.Client
	MaxDim int    // Larger images are downscaled to fit; 0 keeps full size
	Cache  *Cache // Remote downloads; nil disables caching
	// MaxPixels rejects larger images before decoding; 0 uses the package MaxPixels
	MaxPixels int
	log       *zap.Logger
}

// NewFetcher creates a fetcher that downscales to maxDim.
func NewFetcher(maxDim int, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{Client: http.DefaultClient, MaxDim: maxDim, log: log}
}

// Fetch reads and decodes uri.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (image.Image, error) {
	data, err := f.Read(ctx, uri)
	if err != nil {
		return nil, err
	}

	if err := checkPixels(uri, data, f.MaxPixels); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", uri, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	scaled := Fit(img, f.MaxDim, f.MaxDim)
	if scaled.Bounds() != b {
		f.log.Debug("Downscaled photo",
			zap.String("uri", uri),
			zap.String("format", format),
			zap.Int("width", b.Dx()),
			zap.Int("height", b.Dy()),
			zap.Int("max", f.MaxDim))
	}
	return scaled, nil
}

// checkPixels reads the image header and rejects images above limit pixels
// without allocating their pixel buffer.
func checkPixels(uri string, data []byte, limit int) error {
	if limit <= 0 {
		limit = MaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", uri, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("decoding %s: invalid size %dx%d", uri, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return fmt.Errorf("%s: %dx%d exceeds %d pixels: %w", uri, cfg.Width, cfg.Height, limit, ErrTooLarge)
	}
	return nil
}

// Read returns the raw bytes behind uri. Remote photos go through the cache.
func (f *Fetcher) Read(ctx context.Context, uri string) ([]byte, error) {
	if f.Cache == nil || !IsRemote(uri) {
		return Read(ctx, f.Client, uri)
	}
	if data, ok := f.Cache.Get(uri); ok {
		f.log.Debug("Cache hit", zap.String("uri", uri), zap.Int("bytes", len(data)))
		return data, nil
	}
	data, err := Read(ctx, f.Client, uri)
	if err != nil {
		return nil, err
	}
	f.Cache.Set(uri, data)
	return data, nil
}

// Thumbnail is the package Thumbnail reading through f.
func (f *Fetcher) Thumbnail(ctx context.Context, uri string, maxW, maxH int) (image.Image, error) {
	data, err := f.Read(ctx, uri)
	if err != nil {
		return nil, err
	}
	return thumbnailFromBytes(uri, data, maxW, maxH)
}

// Read returns the raw bytes behind uri. client may be nil for local files.
func Read(ctx context.Context, client *http.Client, uri string) ([]byte, error) {
	rc, err := Open(ctx, client, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("reading %s: larger than %d bytes", uri, maxPhotoBytes)
	}
	return data, nil
}

// Open opens uri for reading.
func Open(ctx context.Context, client *http.Client, uri string) (io.ReadCloser, error) {
	if IsRemote(uri) {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: unexpected status %s", uri, resp.Status)
		}
		return resp.Body, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := LocalPath(uri)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return file, nil
}

// IsRemote reports whether uri is fetched over HTTP.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// LocalPath converts a file:// URL or plain path to a filesystem path.
func LocalPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", uri, err)
	}
	return u.Path, nil
}
