package texture

import (
	"image"
	"image/color"
	"math"
)

// TileTexture tiles a source texture into a w x h image. Offsets align the
// sampling to a global grid so adjacent regions share one continuous grain.
func TileTexture(src image.Image, w, h int, offsetX, offsetY int) *image.NRGBA {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if width == 0 || height == 0 {
		return dst
	}

	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + mod(offsetY+y, height)
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + mod(offsetX+x, width)
			dst.Set(x, y, src.At(sx, sy))
		}
	}

	return dst
}

// Shade paints a w x h surface in base, modulated by the tiled grain map.
// Grain 128 keeps base; each step away lightens or darkens by strength/128.
func Shade(grain *image.Gray, base color.NRGBA, w, h int, strength float64) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if grain == nil || grain.Bounds().Empty() {
		for i := 0; i < len(dst.Pix); i += 4 {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = base.R, base.G, base.B, 255
		}
		return dst
	}

	strength = clamp01(strength)
	tiled := TileTexture(grain, w, h, 0, 0)

	shade := func(c uint8, k float64) uint8 {
		v := float64(c)
		if k >= 0 {
			v += (255 - v) * k
		} else {
			v += v * k
		}
		return uint8(math.Round(math.Max(0, math.Min(255, v))))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Gray tiles expand to R=G=B.
			k := (float64(tiled.NRGBAAt(x, y).R) - 128) / 128 * strength
			dst.SetNRGBA(x, y, color.NRGBA{
				R: shade(base.R, k),
				G: shade(base.G, k),
				B: shade(base.B, k),
				A: 255,
			})
		}
	}
	return dst
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
