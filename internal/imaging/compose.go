// Package imaging implements the overlay compositor: alpha-blending a
// resized hands overlay onto the bottom of a user-supplied photo.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // user photos arrive as JPEG
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned when the base image does not carry
// the three or four color channels the compositor requires.
var ErrUnsupportedFormat = errors.New("unsupported base image format")

// Compose blends overlay onto base and returns a new image with the
// same dimensions as base.
//
// The overlay is resized to the base width preserving its aspect ratio,
// using bilinear interpolation, and aligned with the bottom edge of the
// base. When the resized overlay is taller than the base, its top stays
// at y=0 and the excess bottom rows are cropped. Overlay pixels with
// zero alpha leave the base untouched; all blended pixels come out
// fully opaque.
func Compose(base, overlay image.Image) (*image.NRGBA, error) {
	dst, err := promote(base)
	if err != nil {
		return nil, err
	}

	baseW := dst.Bounds().Dx()
	baseH := dst.Bounds().Dy()

	ov := toNRGBA(overlay)
	ovW := ov.Bounds().Dx()
	ovH := ov.Bounds().Dy()
	if ovW == 0 || ovH == 0 {
		return nil, fmt.Errorf("empty overlay image")
	}

	// Scale to base width, keep aspect.
	aspect := float64(ovW) / float64(ovH)
	newW := baseW
	newH := int(math.Round(float64(newW) / aspect))
	if newH < 1 {
		newH = 1
	}

	resized := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.BiLinear.Scale(resized, resized.Bounds(), ov, ov.Bounds(), xdraw.Src, nil)

	yOffset := 0
	if newH < baseH {
		yOffset = baseH - newH
	}
	rows := newH
	if rows > baseH {
		rows = baseH
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < newW; x++ {
			oi := resized.PixOffset(x, y)
			alpha := resized.Pix[oi+3]
			if alpha == 0 {
				continue
			}
			a := float64(alpha) / 255.0
			bi := dst.PixOffset(x, y+yOffset)
			for c := 0; c < 3; c++ {
				dst.Pix[bi+c] = uint8((1.0-a)*float64(dst.Pix[bi+c]) + a*float64(resized.Pix[oi+c]))
			}
			dst.Pix[bi+3] = 255
		}
	}

	return dst, nil
}

// promote converts base into a straight-alpha NRGBA copy. Three-channel
// sources gain a fully opaque alpha plane; sources without three color
// channels are rejected.
func promote(base image.Image) (*image.NRGBA, error) {
	if base == nil {
		return nil, ErrUnsupportedFormat
	}
	switch base.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return nil, ErrUnsupportedFormat
	}
	b := base.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, ErrUnsupportedFormat
	}
	return toNRGBA(base), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		out := image.NewNRGBA(image.Rect(0, 0, n.Bounds().Dx(), n.Bounds().Dy()))
		draw.Draw(out, out.Bounds(), n, n.Bounds().Min, draw.Src)
		return out
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// EncodePNG serializes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses raw image bytes (any registered format).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
