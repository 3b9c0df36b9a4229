// Package mask builds the soft alpha masks used when framed previews are
// placed onto room photos.
package mask

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/gift"
)

// ExtractBinaryMask converts an image into a binary mask.
// Pixels with any opacity become white (255), transparent pixels become black (0).
func ExtractBinaryMask(img image.Image) *image.Gray {
	bounds := img.Bounds()
	mask := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a > 0 {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return mask
}

// GaussianBlur applies a Gaussian blur filter to soften mask edges.
// The sigma parameter controls the blur radius (larger = more blur).
func GaussianBlur(mask *image.Gray, sigma float32) *image.Gray {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}

// RectMask returns a mask covering bounds that is white inside rect.
func RectMask(bounds, rect image.Rectangle) *image.Gray {
	mask := image.NewGray(bounds)
	draw.Draw(mask, rect.Intersect(bounds), image.White, image.Point{}, draw.Src)
	return mask
}

// DropShadow darkens dst under rect moved by offset, with edges blurred by
// sigma. Opacity is the darkening at the shadow core, 0..1.
func DropShadow(dst draw.Image, rect image.Rectangle, offset image.Point, sigma float32, opacity float64) {
	if opacity <= 0 || rect.Empty() {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	// The blur only reaches about three sigma past the casting rectangle.
	pad := int(3*sigma) + 1
	shadow := rect.Add(offset)
	area := shadow.Inset(-pad).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	soft := GaussianBlur(RectMask(area, shadow), sigma)
	alpha := image.NewAlpha(area)
	sb := soft.Bounds()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			v := soft.GrayAt(sb.Min.X+x-area.Min.X, sb.Min.Y+y-area.Min.Y).Y
			alpha.SetAlpha(x, y, color.Alpha{A: uint8(float64(v)*opacity + 0.5)})
		}
	}

	draw.DrawMask(dst, area, image.Black, image.Point{}, alpha, area.Min, draw.Over)
}
