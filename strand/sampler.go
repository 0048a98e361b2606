package strand

import (
	"errors"
	"image"
	"image/color"
	"math"
)

// ErrImageNotReady is returned when sampling before a source image is loaded.
var ErrImageNotReady = errors.New("strand: image not ready")

// Sample reads the pixel at canvas coordinate (x, y) of img and applies the
// contrast and inversion transforms. Coordinates are relative to img.Bounds().Min
// and must lie inside the image.
func Sample(img image.Image, x, y int, contrast float64, inverted bool) (color.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return color.NRGBA{}, ErrImageNotReady
	}
	o := img.Bounds().Min
	c := color.NRGBAModel.Convert(img.At(o.X+x, o.Y+y)).(color.NRGBA)
	return Adjust(c, contrast, inverted), nil
}

// Adjust applies (channel-128)*contrast+128 per RGB channel, clamped to [0,255],
// then replaces each channel with 255-channel when inverted. Alpha is untouched.
func Adjust(c color.NRGBA, contrast float64, inverted bool) color.NRGBA {
	out := color.NRGBA{
		R: contrastChannel(c.R, contrast),
		G: contrastChannel(c.G, contrast),
		B: contrastChannel(c.B, contrast),
		A: c.A,
	}
	if inverted {
		out.R = 255 - out.R
		out.G = 255 - out.G
		out.B = 255 - out.B
	}
	return out
}

func contrastChannel(v uint8, contrast float64) uint8 {
	return clampByte((float64(v)-128)*contrast + 128)
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
