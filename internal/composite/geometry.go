package composite

import (
	"errors"

	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// ErrGeometryUnavailable means the on-screen frame could not be measured,
// e.g. the preview element is hidden.
var ErrGeometryUnavailable = errors.New("preview geometry unavailable")

// BorderRatio is the frame border width as a fraction of the aperture width.
const BorderRatio = 0.05

// Geometry is the measured on-screen layout of the frame preview, in screen
// pixels relative to the page.
type Geometry struct {
	Frame  types.Rect `json:"frame"`
	Border float64    `json:"border"`
	Image  types.Rect `json:"image"`
}

// Aperture is the frame minus its border on every side.
func (g Geometry) Aperture() types.Rect {
	return g.Frame.Inset(g.Border)
}

// Validate rejects geometry that cannot be rasterized.
func (g Geometry) Validate() error {
	if g.Frame.Empty() || g.Image.Empty() || g.Border < 0 || g.Aperture().Empty() {
		return ErrGeometryUnavailable
	}
	return nil
}

// GeometryFromState lays out the preview the way the storefront draws it:
// the border around the viewport and the image centred in the aperture,
// shifted by the pan offset.
func GeometryFromState(s *state.State) (Geometry, error) {
	if !s.HasImage() || s.Zoom <= 0 || !s.Viewport.Valid() {
		return Geometry{}, ErrGeometryUnavailable
	}
	v := s.Viewport
	border := v.Width * BorderRatio
	w := float64(s.Image.Width) * s.Zoom
	h := float64(s.Image.Height) * s.Zoom

	return Geometry{
		Frame:  types.Rect{Width: v.Width + 2*border, Height: v.Height + 2*border},
		Border: border,
		Image: types.Rect{
			X:      border + (v.Width-w)/2 + s.Position.X,
			Y:      border + (v.Height-h)/2 + s.Position.Y,
			Width:  w,
			Height: h,
		},
	}, nil
}
