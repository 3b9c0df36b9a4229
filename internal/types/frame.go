package types

import (
	"fmt"
	"strings"
)

// Size is the declared print size of a frame, in inches.
type Size string

const (
	Size13x19 Size = "13x19"
	Size13x10 Size = "13x10"
)

// Orientation selects which declared dimension is the frame width.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Sizes lists every supported frame size in catalogue order.
var Sizes = []Size{Size13x19, Size13x10}

// Orientations lists every supported orientation in catalogue order.
var Orientations = []Orientation{Portrait, Landscape}

// ParseSize parses a size such as "13x19" (case-insensitive, "X" accepted).
func ParseSize(s string) (Size, error) {
	normalized := Size(strings.ToLower(strings.TrimSpace(s)))
	for _, sz := range Sizes {
		if sz == normalized {
			return sz, nil
		}
	}
	return "", fmt.Errorf("unknown frame size %q", s)
}

// ParseOrientation parses "portrait" or "landscape" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	normalized := Orientation(strings.ToLower(strings.TrimSpace(s)))
	for _, o := range Orientations {
		if o == normalized {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown orientation %q", s)
}

// FrameSize is a frame size together with its orientation.
type FrameSize struct {
	Size        Size        `json:"size" yaml:"size"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
}

// DefaultFrameSize is the selection a fresh session starts with.
var DefaultFrameSize = FrameSize{Size: Size13x19, Orientation: Portrait}

// AllFrameSizes returns every size/orientation combination.
func AllFrameSizes() []FrameSize {
	out := make([]FrameSize, 0, len(Sizes)*len(Orientations))
	for _, s := range Sizes {
		for _, o := range Orientations {
			out = append(out, FrameSize{Size: s, Orientation: o})
		}
	}
	return out
}

// Validate reports whether both the size and orientation are known.
func (f FrameSize) Validate() error {
	if _, err := ParseSize(string(f.Size)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(f.Orientation)); err != nil {
		return err
	}
	return nil
}

// Dimensions returns the declared width and height in inches.
// Portrait puts the shorter side horizontally, landscape the longer one.
func (f FrameSize) Dimensions() (w, h float64) {
	var a, b float64
	switch f.Size {
	case Size13x10:
		a, b = 13, 10
	default:
		a, b = 13, 19
	}
	short, long := a, b
	if short > long {
		short, long = long, short
	}
	if f.Orientation == Landscape {
		return long, short
	}
	return short, long
}

// AspectRatio returns height divided by width.
func (f FrameSize) AspectRatio() float64 {
	w, h := f.Dimensions()
	return h / w
}

// String returns e.g. "13x19 portrait".
func (f FrameSize) String() string {
	return fmt.Sprintf("%s %s", f.Size, f.Orientation)
}
