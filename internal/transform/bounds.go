package transform

import (
	"math"

	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// DragDamping scales the part of a drag that runs past the pan limit.
const DragDamping = 0.12

// MaxOffset returns the largest allowed |position| per axis at the current
// zoom: half of how much the scaled image overhangs the aperture.
func MaxOffset(s *state.State) types.Position {
	if s.Image == nil || s.Zoom <= 0 {
		return types.Position{}
	}
	return types.Position{
		X: math.Max(0, (float64(s.Image.Width)*s.Zoom-s.Viewport.Width)/2),
		Y: math.Max(0, (float64(s.Image.Height)*s.Zoom-s.Viewport.Height)/2),
	}
}

// Resist limits v to [-limit, limit], letting the excess through scaled by
// damping. A damping of zero is a hard clamp.
func Resist(v, limit, damping float64) float64 {
	switch {
	case v > limit:
		return limit + (v-limit)*damping
	case v < -limit:
		return -limit + (v+limit)*damping
	}
	return v
}

// Constrain applies Resist to both axes.
func Constrain(p, limit types.Position, damping float64) types.Position {
	return types.Position{
		X: Resist(p.X, limit.X, damping),
		Y: Resist(p.Y, limit.Y, damping),
	}
}

// ClampPosition hard-clamps the state position to the pan limits.
func ClampPosition(s *state.State) types.Position {
	return Constrain(s.Position, MaxOffset(s), 0)
}

// InBounds reports whether p lies within limit, with tolerance tol.
func InBounds(p, limit types.Position, tol float64) bool {
	return math.Abs(p.X) <= limit.X+tol && math.Abs(p.Y) <= limit.Y+tol
}
