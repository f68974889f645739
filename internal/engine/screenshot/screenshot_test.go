package screenshot

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromPixelsFlips(t *testing.T) {
	// 1x2: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}
}

func TestFromPixelsErrors(t *testing.T) {
	if _, err := FromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FromPixels(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "pano")
	fixed := time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	pixels := make([]byte, 4*3*4)
	first, err := c.SavePixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}
	if want := filepath.Join(dir, "pano_2026-03-01_12-30-05.png"); first != want {
		t.Errorf("path = %s, want %s", first, want)
	}

	second, err := c.SavePixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("second SavePixels: %v", err)
	}
	if second == first || filepath.Base(second) != "pano_2026-03-01_12-30-05_1.png" {
		t.Errorf("second shot should not overwrite the first, got %s", second)
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
}
