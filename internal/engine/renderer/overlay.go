package renderer

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/panoview/internal/engine/shader"
	"github.com/Faultbox/panoview/internal/engine/texture"
	"github.com/Faultbox/panoview/internal/ui"
	"github.com/Faultbox/panoview/pkg/math"
)

// Status is what the status bar shows.
type Status int

const (
	StatusNone Status = iota
	StatusLoading
	StatusError
)

type rgba [4]float32

var (
	stripBackground = rgba{0, 0, 0, 0.55}
	placeholder     = rgba{0.25, 0.25, 0.28, 1}
	activeBorder    = rgba{1, 1, 0, 1} // Yellow
	loadingBar      = rgba{0.2, 0.55, 1, 0.9}
	errorBar        = rgba{0.9, 0.15, 0.15, 0.95}
	opaque          = rgba{1, 1, 1, 1}
)

const (
	borderWidth = 3
	statusBarH  = 4
)

// LayoutFunc lays the thumbnail strip out for a window size.
type LayoutFunc func(width, height int) []ui.Item

type overlay struct {
	prog     *shader.Program
	vao, vbo uint32

	winW, winH int // window size in points; overlay coordinates
	layout     LayoutFunc
	thumbs     map[int]*texture.Texture
	status     Status
}

func (o *overlay) init() error {
	var err error
	o.prog, err = shader.New(shader.OverlayVertex, shader.OverlayFragment,
		"uProj", "uTexture", "uColor", "uTextured")
	if err != nil {
		return err
	}
	o.thumbs = make(map[int]*texture.Texture)

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	return nil
}

func (o *overlay) close() {
	for i, t := range o.thumbs {
		t.Release()
		delete(o.thumbs, i)
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
	}
	if o.prog != nil {
		o.prog.Delete()
	}
}

// SetWindowSize sets the overlay coordinate space (window points, which
// differ from drawable pixels on HiDPI displays).
func (o *overlay) SetWindowSize(width, height int) {
	o.winW, o.winH = width, height
}

// SetLayout installs the thumbnail strip layout.
func (o *overlay) SetLayout(layout LayoutFunc) {
	o.layout = layout
}

// SetStatus sets the status bar state.
func (o *overlay) SetStatus(s Status) {
	o.status = s
}

// SetThumbnail uploads the thumbnail image for index, replacing any
// previous one.
func (o *overlay) SetThumbnail(index int, img image.Image) error {
	t, err := texture.Upload(img, texture.ThumbnailOptions)
	if err != nil {
		return err
	}
	if prev := o.thumbs[index]; prev != nil {
		prev.Release()
	}
	o.thumbs[index] = t
	return nil
}

func (o *overlay) draw() {
	if o.winW <= 0 || o.winH <= 0 {
		return
	}
	var items []ui.Item
	if o.layout != nil {
		items = o.layout(o.winW, o.winH)
	}
	if len(items) == 0 && o.status == StatusNone {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	o.prog.Use()
	proj := math.Ortho(0, float32(o.winW), float32(o.winH), 0, -1, 1)
	gl.UniformMatrix4fv(o.prog.Uniform("uProj"), 1, false, proj.Ptr())
	gl.Uniform1i(o.prog.Uniform("uTexture"), 0)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)

	if len(items) > 0 {
		band := stripBand(items, o.winW, o.winH)
		o.fill(band, stripBackground)
		for _, it := range items {
			if !it.Rect.Overlaps(image.Rect(0, 0, o.winW, o.winH)) {
				continue
			}
			if t := o.thumbs[it.Index]; t != nil && it.Loaded {
				o.textured(fitRect(it.Rect, t.Width, t.Height), t)
			} else {
				o.fill(it.Rect, placeholder)
			}
			if it.Active {
				for _, edge := range borderRects(it.Rect, borderWidth) {
					o.fill(edge, activeBorder)
				}
			}
		}
	}

	switch o.status {
	case StatusLoading:
		o.fill(image.Rect(0, 0, o.winW, statusBarH), loadingBar)
	case StatusError:
		o.fill(image.Rect(0, 0, o.winW, 2*statusBarH), errorBar)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

func (o *overlay) fill(r image.Rectangle, c rgba) {
	gl.Uniform1i(o.prog.Uniform("uTextured"), 0)
	o.quad(r, c)
}

func (o *overlay) textured(r image.Rectangle, t *texture.Texture) {
	gl.Uniform1i(o.prog.Uniform("uTextured"), 1)
	t.Bind(0)
	o.quad(r, opaque)
}

func (o *overlay) quad(r image.Rectangle, c rgba) {
	gl.Uniform4f(o.prog.Uniform("uColor"), c[0], c[1], c[2], c[3])
	v := quadVertices(r)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(v)*4, unsafe.Pointer(&v[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// quadVertices returns two triangles covering r as x, y, u, v. Texture v
// runs top to bottom so images need no flip.
func quadVertices(r image.Rectangle) [24]float32 {
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	return [24]float32{
		x0, y0, 0, 0,
		x0, y1, 0, 1,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x1, y0, 1, 0,
	}
}

// fitRect centers a w x h image inside slot, preserving aspect ratio.
func fitRect(slot image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return slot
	}
	sw, sh := slot.Dx(), slot.Dy()
	scale := min(float64(sw)/float64(w), float64(sh)/float64(h))
	fw, fh := int(float64(w)*scale+0.5), int(float64(h)*scale+0.5)
	x := slot.Min.X + (sw-fw)/2
	y := slot.Min.Y + (sh-fh)/2
	return image.Rect(x, y, x+fw, y+fh)
}

// borderRects returns the four edges of r, width px thick, inside r.
func borderRects(r image.Rectangle, width int) [4]image.Rectangle {
	return [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width),
		image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width),
	}
}

// stripBand is the full-width background behind the thumbnails.
func stripBand(items []ui.Item, winW, winH int) image.Rectangle {
	top := winH
	for _, it := range items {
		top = min(top, it.Rect.Min.Y)
	}
	return image.Rect(0, top-borderWidth*3, winW, winH)
}
