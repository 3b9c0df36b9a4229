package fit

import (
	"math"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Bounds of the fit zoom.
const (
	MinFitZoom = 0.1
	MaxFitZoom = 5.0
)

// CalculateRequiredZoom returns the zoom at which the image width fills the
// container width, clamped to [MinFitZoom, MaxFitZoom].
func CalculateRequiredZoom(imgW, imgH, containerW, containerH float64) float64 {
	if imgW <= 0 || containerW <= 0 {
		return 1
	}
	return clamp(containerW/imgW, MinFitZoom, MaxFitZoom)
}

// CoverZoom returns the unclamped zoom at which the image covers the viewport
// on both axes.
func CoverZoom(imgW, imgH float64, v types.Viewport) float64 {
	if imgW <= 0 || imgH <= 0 || !v.Valid() {
		return 1
	}
	return math.Max(v.Width/imgW, v.Height/imgH)
}

// MinZoom is the zoom floor: the smallest zoom that leaves no background
// visible through the aperture.
func MinZoom(imgW, imgH float64, v types.Viewport) float64 {
	return clamp(CoverZoom(imgW, imgH, v), MinFitZoom, MaxFitZoom)
}

// InitialZoom is the zoom applied right after an upload: width-fill, raised to
// the cover floor when the image is proportionally wider than the aperture.
func InitialZoom(imgW, imgH float64, v types.Viewport) float64 {
	return math.Max(CalculateRequiredZoom(imgW, imgH, v.Width, v.Height), MinZoom(imgW, imgH, v))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
