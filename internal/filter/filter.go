// Package filter turns the tone sliders into one filter descriptor and applies
// it to rasters with the same arithmetic a browser uses for the CSS filter
// chain "brightness() contrast() saturate()".
package filter

import (
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Epsilon is the floor of the combined brightness factor. A zero factor would
// render the photo fully black.
const Epsilon = 0.05

// Descriptor is the composed filter state.
type Descriptor struct {
	BrightnessFactor float64 `json:"brightness_factor"`
	ContrastPercent  int     `json:"contrast_percent"`
	SaturatePercent  int     `json:"saturate_percent"`
}

// Identity is the descriptor of untouched sliders.
var Identity = Descriptor{BrightnessFactor: 1, ContrastPercent: 100, SaturatePercent: 100}

// Compose maps the five sliders onto a descriptor. Brightness, highlights and
// shadows combine multiplicatively into one factor.
func Compose(a types.Adjustments) Descriptor {
	factor := float64(a.Brightness) / 100 * float64(a.Highlights) / 100 * float64(a.Shadows) / 100
	if factor < Epsilon {
		factor = Epsilon
	}
	return Descriptor{
		BrightnessFactor: factor,
		ContrastPercent:  a.Contrast,
		SaturatePercent:  a.Vibrance,
	}
}

// IsIdentity reports whether applying d leaves pixels unchanged.
func (d Descriptor) IsIdentity() bool {
	return d == Identity
}

// CSS renders the descriptor as a CSS filter value for the live preview.
func (d Descriptor) CSS() string {
	return fmt.Sprintf("brightness(%s) contrast(%d%%) saturate(%d%%)",
		strconv.FormatFloat(d.BrightnessFactor, 'f', -1, 64),
		d.ContrastPercent,
		d.SaturatePercent,
	)
}

// Pixel applies the filter chain to one colour with channels in [0,1].
// Each stage clamps its output like the CSS filter-effects pipeline.
func (d Descriptor) Pixel(r, g, b float64) (float64, float64, float64) {
	// brightness
	r, g, b = clamp01(r*d.BrightnessFactor), clamp01(g*d.BrightnessFactor), clamp01(b*d.BrightnessFactor)

	// contrast
	c := float64(d.ContrastPercent) / 100
	r = clamp01((r-0.5)*c + 0.5)
	g = clamp01((g-0.5)*c + 0.5)
	b = clamp01((b-0.5)*c + 0.5)

	// saturate
	s := float64(d.SaturatePercent) / 100
	nr := (0.213+0.787*s)*r + (0.715-0.715*s)*g + (0.072-0.072*s)*b
	ng := (0.213-0.213*s)*r + (0.715+0.285*s)*g + (0.072-0.072*s)*b
	nb := (0.213-0.213*s)*r + (0.715-0.715*s)*g + (0.072+0.928*s)*b

	return clamp01(nr), clamp01(ng), clamp01(nb)
}

// Filter returns d as a gift filter.
func (d Descriptor) Filter() gift.Filter {
	return gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		nr, ng, nb := d.Pixel(float64(r0), float64(g0), float64(b0))
		return float32(nr), float32(ng), float32(nb), a0
	})
}

// Apply returns a filtered copy of src.
func (d Descriptor) Apply(src image.Image) *image.NRGBA {
	g := gift.New(d.Filter())
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
