// Package texture uploads decoded images to OpenGL textures.
package texture

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when uploading an image with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Options controls how an image is uploaded.
type Options struct {
	SRGB    bool // Photo content is sRGB encoded
	Mipmaps bool
	RepeatS bool // Wrap horizontally, for the panorama seam
}

// PhotoOptions are used for panorama textures.
var PhotoOptions = Options{SRGB: true, Mipmaps: true, RepeatS: true}

// ThumbnailOptions are used for strip thumbnails.
var ThumbnailOptions = Options{SRGB: true}

// Texture is a GPU texture. It satisfies viewer.Resource.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// Upload copies img into a new texture. Must run on the GL thread.
func Upload(img image.Image, opts Options) (*Texture, error) {
	rgba := ToRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}
	if limit := MaxSize(); limit > 0 && (w > limit || h > limit) {
		return nil, fmt.Errorf("texture: %dx%d exceeds GPU limit %d", w, h, limit)
	}

	t := &Texture{Width: w, Height: h}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	internal := int32(gl.RGBA8)
	if opts.SRGB {
		internal = gl.SRGB8_ALPHA8
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))

	minFilter := int32(gl.LINEAR)
	if opts.Mipmaps {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	wrapS := int32(gl.CLAMP_TO_EDGE)
	if opts.RepeatS {
		wrapS = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapS)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		t.Release()
		return nil, fmt.Errorf("texture: upload %dx%d failed: GL error 0x%x", w, h, code)
	}
	return t, nil
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Release deletes the GPU texture. Further calls are no-ops.
func (t *Texture) Release() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}

// MaxSize returns the largest texture dimension the GPU accepts.
func MaxSize() int {
	var size int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &size)
	return int(size)
}

// ToRGBA returns img as tightly packed RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
