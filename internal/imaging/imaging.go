package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// ScaleHotspot maps a click in display coordinates onto the image's natural
// resolution using the naturalSize/displaySize ratio per axis. Coordinates
// round to the nearest pixel.
func ScaleHotspot(display Point, displayW, displayH, naturalW, naturalH int) (Point, error) {
	if displayW <= 0 || displayH <= 0 || naturalW <= 0 || naturalH <= 0 {
		return Point{}, fmt.Errorf("imaging: dimensions must be positive")
	}
	return Point{
		X: int(math.Round(float64(display.X) * float64(naturalW) / float64(displayW))),
		Y: int(math.Round(float64(display.Y) * float64(naturalH) / float64(displayH))),
	}, nil
}

// Crop cuts the rectangle out of the encoded image and re-encodes it. The
// rectangle must lie fully inside the image bounds.
func Crop(data []byte, rect image.Rectangle) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}
	if rect.Empty() || !rect.In(src.Bounds()) {
		return nil, "", fmt.Errorf("imaging: crop rect %v outside bounds %v", rect, src.Bounds())
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, rect.Min, xdraw.Src)
	return encodePNG(dst)
}

// Scale resamples the encoded image to the given size with Catmull-Rom
// interpolation.
func Scale(data []byte, width, height int) ([]byte, string, error) {
	if width <= 0 || height <= 0 {
		return nil, "", fmt.Errorf("imaging: target size must be positive")
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return encodePNG(dst)
}

// Dimensions reports the encoded image's natural size without a full decode.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func encodePNG(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}
