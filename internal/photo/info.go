package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Info holds metadata about a photo.
type Info struct {
	URI     string
	Format  string
	Width   int
	Height  int
	Size    int64
	ModTime time.Time // Zero for remote photos
	EXIF    map[string]string
}

// Equirectangular reports whether the image has the 2:1 shape of a full
// spherical panorama.
func (i *Info) Equirectangular() bool {
	return i.Height > 0 && i.Width == 2*i.Height
}

// ReadInfo extracts dimensions and EXIF metadata without decoding pixels.
func ReadInfo(ctx context.Context, client *http.Client, uri string) (*Info, error) {
	data, err := Read(ctx, client, uri)
	if err != nil {
		return nil, err
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image config: %w", err)
	}

	info := &Info{
		URI:    uri,
		Format: format,
		Width:  config.Width,
		Height: config.Height,
		Size:   int64(len(data)),
		EXIF:   make(map[string]string),
	}

	if !IsRemote(uri) {
		if path, err := LocalPath(uri); err == nil {
			if st, err := os.Stat(path); err == nil {
				info.ModTime = st.ModTime()
			}
		}
	}

	// EXIF is optional
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return info, nil
	}

	for name, field := range map[string]exif.FieldName{
		"Camera Make":  exif.Make,
		"Camera Model": exif.Model,
		"Software":     exif.Software,
	} {
		if tag, err := x.Get(field); err == nil {
			if s, err := tag.StringVal(); err == nil && s != "" {
				info.EXIF[name] = s
			}
		}
	}
	if tm, err := x.DateTime(); err == nil {
		info.EXIF["Taken"] = tm.Format(time.RFC3339)
	}
	if fNum, err := x.Get(exif.FNumber); err == nil {
		if numer, denom, err := fNum.Rat2(0); err == nil && denom != 0 {
			info.EXIF["F-Number"] = fmt.Sprintf("f/%.1f", float64(numer)/float64(denom))
		}
	}
	if expTime, err := x.Get(exif.ExposureTime); err == nil {
		if numer, denom, err := expTime.Rat2(0); err == nil {
			info.EXIF["Exposure Time"] = fmt.Sprintf("%d/%d s", numer, denom)
		}
	}
	if lat, long, err := x.LatLong(); err == nil {
		info.EXIF["GPS"] = fmt.Sprintf("%.6f, %.6f", lat, long)
	}

	return info, nil
}
