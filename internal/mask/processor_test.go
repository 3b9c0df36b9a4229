package mask

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"
)

func whiteCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestExtractBinaryMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, A: 1})
	img.SetNRGBA(2, 0, color.NRGBA{G: 200, A: 255})

	mask := ExtractBinaryMask(img)
	require.Equal(t, []uint8{0, 255, 255, 0}, mask.Pix)
}

func TestRectMask(t *testing.T) {
	mask := RectMask(image.Rect(0, 0, 10, 10), image.Rect(2, 2, 5, 5))
	require.Equal(t, uint8(255), mask.GrayAt(3, 3).Y)
	require.Equal(t, uint8(0), mask.GrayAt(6, 6).Y)

	clipped := RectMask(image.Rect(0, 0, 4, 4), image.Rect(2, 2, 9, 9))
	require.Equal(t, uint8(255), clipped.GrayAt(3, 3).Y)
}

func TestGaussianBlurSoftensEdge(t *testing.T) {
	mask := RectMask(image.Rect(0, 0, 40, 40), image.Rect(0, 0, 20, 40))
	blurred := GaussianBlur(mask, 3)

	require.Equal(t, mask.Bounds().Size(), blurred.Bounds().Size())
	edge := blurred.GrayAt(20, 20).Y
	require.Greater(t, edge, uint8(0))
	require.Less(t, edge, uint8(255))
	require.Equal(t, uint8(255), blurred.GrayAt(2, 20).Y)
	require.Equal(t, uint8(0), blurred.GrayAt(38, 20).Y)
}

func TestDropShadowDarkensOffsetArea(t *testing.T) {
	img := whiteCanvas(100, 100)
	DropShadow(img, image.Rect(30, 30, 60, 60), image.Pt(5, 5), 3, 0.5)

	core := img.NRGBAAt(45, 45)
	require.InDelta(t, 128, int(core.R), 6, "core is darkened by the opacity")

	tail := img.NRGBAAt(62, 62)
	require.Less(t, tail.R, uint8(255), "shadow extends past the casting rectangle")

	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(5, 5))
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(95, 95))
}

func TestDropShadowNoOp(t *testing.T) {
	img := whiteCanvas(20, 20)
	DropShadow(img, image.Rect(5, 5, 10, 10), image.Pt(2, 2), 2, 0)
	DropShadow(img, image.Rectangle{}, image.Pt(2, 2), 2, 1)
	DropShadow(img, image.Rect(5, 5, 10, 10), image.Pt(200, 200), 2, 1)

	for _, v := range img.Pix {
		require.Equal(t, uint8(255), v)
	}
}
