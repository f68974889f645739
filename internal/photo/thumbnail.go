package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoEmbeddedThumbnail is returned when a photo carries no EXIF thumbnail.
var ErrNoEmbeddedThumbnail = errors.New("no embedded thumbnail")

// EmbeddedThumbnail decodes the JPEG thumbnail stored in the EXIF block of data.
func EmbeddedThumbnail(data []byte) (image.Image, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNoEmbeddedThumbnail
	}

	thumbBytes, err := x.JpegThumbnail()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEmbeddedThumbnail, err)
	}

	img, _, err := image.Decode(bytes.NewReader(thumbBytes))
	return img, err
}

// Thumbnail returns a small rendition of uri fitting within maxW x maxH.
// The EXIF thumbnail is preferred; otherwise the full image is decoded and
// scaled.
func Thumbnail(ctx context.Context, client *http.Client, uri string, maxW, maxH int) (image.Image, error) {
	data, err := Read(ctx, client, uri)
	if err != nil {
		return nil, err
	}
	return thumbnailFromBytes(uri, data, maxW, maxH)
}

func thumbnailFromBytes(uri string, data []byte, maxW, maxH int) (image.Image, error) {
	if img, err := EmbeddedThumbnail(data); err == nil {
		return FitFast(img, maxW, maxH), nil
	}

	if err := checkPixels(uri, data, 0); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", uri, err)
	}
	return FitFast(img, maxW, maxH), nil
}
