package types

import (
	"fmt"
	"image"
	"math"
)

// Position is an offset in screen pixels of the image centre from the
// aperture centre.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the on-screen size of the image aperture in screen pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewportWidth is the aperture width assumed until a client reports
// its own layout.
const DefaultViewportWidth = 400.0

// ViewportFor returns an aperture of the given width shaped like the frame.
func ViewportFor(frame FrameSize, width float64) Viewport {
	if width <= 0 {
		width = DefaultViewportWidth
	}
	return Viewport{Width: width, Height: width * frame.AspectRatio()}
}

// Valid reports whether both sides are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Rect is an axis-aligned rectangle with float coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Translate moves the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Image returns the integer rectangle covering r, rounded to nearest pixels.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("rect(%.1f,%.1f %.1fx%.1f)", r.X, r.Y, r.Width, r.Height)
}
