// Package renderer draws the panorama sphere and the screen overlay with
// OpenGL. Renderer implements viewer.Surface.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/engine/camera"
	"github.com/Faultbox/panoview/internal/engine/shader"
	"github.com/Faultbox/panoview/internal/engine/sphere"
	"github.com/Faultbox/panoview/internal/engine/texture"
	"github.com/Faultbox/panoview/internal/viewer"
)

// Config holds renderer configuration.
type Config struct {
	Width  int // Drawable size in pixels
	Height int
	MSAA   bool
}

// Renderer handles all OpenGL rendering.
// IMPORTANT: every method must run on the thread that owns the GL context.
type Renderer struct {
	width, height int // drawable pixels
	camera        *camera.Perspective
	log           *zap.Logger

	pano       *shader.Program
	sphereVAO  uint32
	sphereVBO  uint32
	sphereEBO  uint32
	indexCount int32

	overlay
	active *texture.Texture
	loop   func()
}

// New creates a renderer for cam. Must be called after the GL context exists.
func New(cfg Config, cam *camera.Perspective, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{camera: cam, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int("max_texture_size", texture.MaxSize()),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}
	gl.ClearColor(0, 0, 0, 1)

	var err error
	r.pano, err = shader.New(shader.PanoramaVertex, shader.PanoramaFragment, "uViewProj", "uTexture")
	if err != nil {
		return nil, fmt.Errorf("panorama shader: %w", err)
	}
	r.uploadSphere(sphere.Default())

	if err := r.overlay.init(); err != nil {
		r.Close()
		return nil, fmt.Errorf("overlay: %w", err)
	}

	r.SetSize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) uploadSphere(mesh sphere.Mesh) {
	vertices := mesh.Floats()

	gl.GenVertexArrays(1, &r.sphereVAO)
	gl.BindVertexArray(r.sphereVAO)

	gl.GenBuffers(1, &r.sphereVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.sphereVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.sphereEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.sphereEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// UV attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	r.indexCount = int32(len(mesh.Indices))

	r.log.Debug("sphere uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)))
}

// Close cleans up renderer resources. The displayed texture belongs to
// whoever uploaded it.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.overlay.close()
	if r.sphereVAO != 0 {
		gl.DeleteVertexArrays(1, &r.sphereVAO)
	}
	if r.sphereVBO != 0 {
		gl.DeleteBuffers(1, &r.sphereVBO)
	}
	if r.sphereEBO != 0 {
		gl.DeleteBuffers(1, &r.sphereEBO)
	}
	if r.pano != nil {
		r.pano.Delete()
	}
}

// SetSize sets the drawable size in pixels.
func (r *Renderer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the drawable size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// SetAnimationLoop installs the per-frame callback run by Frame.
func (r *Renderer) SetAnimationLoop(frame func()) {
	r.loop = frame
}

// Frame runs the animation loop callback once, or just renders when none
// is installed.
func (r *Renderer) Frame() {
	if r.loop != nil {
		r.loop()
		return
	}
	r.Render()
}

// Upload turns img into a GPU texture.
func (r *Renderer) Upload(img image.Image) (viewer.Resource, error) {
	t, err := texture.Upload(img, texture.PhotoOptions)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Show makes res the displayed photo. nil clears the sphere.
func (r *Renderer) Show(res viewer.Resource) {
	if res == nil {
		r.active = nil
		return
	}
	t, ok := res.(*texture.Texture)
	if !ok {
		r.log.Error("unsupported resource type", zap.String("type", fmt.Sprintf("%T", res)))
		return
	}
	r.active = t
}

// Render draws one frame: the panorama, then the overlay.
func (r *Renderer) Render() {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if r.active != nil && r.active.ID != 0 {
		r.pano.Use()
		vp := r.camera.ViewProjection()
		gl.UniformMatrix4fv(r.pano.Uniform("uViewProj"), 1, false, vp.Ptr())
		gl.Uniform1i(r.pano.Uniform("uTexture"), 0)
		r.active.Bind(0)

		gl.BindVertexArray(r.sphereVAO)
		gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	}

	r.overlay.draw()
}

// ReadPixels reads the current back buffer, bottom row first as GL stores it.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.width, r.height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

var _ viewer.Surface = (*Renderer)(nil)
