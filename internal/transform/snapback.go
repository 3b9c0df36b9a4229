package transform

import (
	"math"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Snap-back animation parameters.
const (
	SnapBackDuration = 200 * time.Millisecond
	SnapBackFPS      = 60
)

// SnapBack describes the eased return of a released image into bounds.
type SnapBack struct {
	From     types.Position   `json:"from"`
	To       types.Position   `json:"to"`
	Duration time.Duration    `json:"duration"`
	Frames   []types.Position `json:"frames"`
}

// NewSnapBack builds ease-out keyframes from one position to another. The
// last frame is exactly to.
func NewSnapBack(from, to types.Position, duration time.Duration, fps int) SnapBack {
	if fps <= 0 {
		fps = SnapBackFPS
	}
	n := int(math.Round(duration.Seconds() * float64(fps)))
	if n < 1 {
		n = 1
	}
	frames := make([]types.Position, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		e := 1 - math.Pow(1-t, 3)
		frames[i-1] = types.Position{
			X: from.X + (to.X-from.X)*e,
			Y: from.Y + (to.Y-from.Y)*e,
		}
	}
	frames[n-1] = to
	return SnapBack{From: from, To: to, Duration: duration, Frames: frames}
}
