package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestScaleHotspot(t *testing.T) {
	got, err := ScaleHotspot(Point{X: 120, Y: 80}, 400, 300, 1600, 1200)
	if err != nil {
		t.Fatalf("ScaleHotspot: %v", err)
	}
	if got.X != 480 || got.Y != 320 {
		t.Fatalf("got (%d, %d), want (480, 320)", got.X, got.Y)
	}

	// Rounds to the nearest natural pixel.
	got, err = ScaleHotspot(Point{X: 1, Y: 1}, 3, 3, 10, 10)
	if err != nil {
		t.Fatalf("ScaleHotspot: %v", err)
	}
	if got.X != 3 || got.Y != 3 {
		t.Fatalf("got (%d, %d), want (3, 3)", got.X, got.Y)
	}

	if _, err := ScaleHotspot(Point{}, 0, 300, 1600, 1200); err == nil {
		t.Fatalf("expected error for zero display width")
	}
	if _, err := ScaleHotspot(Point{}, 400, 300, -1, 1200); err == nil {
		t.Fatalf("expected error for negative natural width")
	}
}

func TestCrop(t *testing.T) {
	src := encodeTestPNG(t, 100, 80)

	out, mime, err := Crop(src, image.Rect(10, 10, 60, 50))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("unexpected mime %q", mime)
	}
	w, h, err := Dimensions(out)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 50 || h != 40 {
		t.Fatalf("cropped to %dx%d, want 50x40", w, h)
	}

	if _, _, err := Crop(src, image.Rect(50, 50, 200, 200)); err == nil {
		t.Fatalf("expected error for rect outside bounds")
	}
	if _, _, err := Crop(src, image.Rect(10, 10, 10, 10)); err == nil {
		t.Fatalf("expected error for empty rect")
	}
	if _, _, err := Crop([]byte("not an image"), image.Rect(0, 0, 1, 1)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestScale(t *testing.T) {
	src := encodeTestPNG(t, 100, 80)

	out, _, err := Scale(src, 50, 40)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	w, h, err := Dimensions(out)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 50 || h != 40 {
		t.Fatalf("scaled to %dx%d, want 50x40", w, h)
	}

	if _, _, err := Scale(src, 0, 40); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestDimensions(t *testing.T) {
	src := encodeTestPNG(t, 33, 44)
	w, h, err := Dimensions(src)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 33 || h != 44 {
		t.Fatalf("got %dx%d, want 33x44", w, h)
	}
	if _, _, err := Dimensions([]byte("junk")); err == nil {
		t.Fatalf("expected error for undecodable data")
	}
}
