package types

import (
	"image/color"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFrameSizeDimensions(t *testing.T) {
	tests := []struct {
		frame FrameSize
		w, h  float64
	}{
		{FrameSize{Size13x19, Portrait}, 13, 19},
		{FrameSize{Size13x19, Landscape}, 19, 13},
		{FrameSize{Size13x10, Portrait}, 10, 13},
		{FrameSize{Size13x10, Landscape}, 13, 10},
	}

	for _, tc := range tests {
		t.Run(tc.frame.String(), func(t *testing.T) {
			w, h := tc.frame.Dimensions()
			if w != tc.w || h != tc.h {
				t.Fatalf("got %vx%v, want %vx%v", w, h, tc.w, tc.h)
			}
			if !almostEqual(tc.frame.AspectRatio(), tc.h/tc.w, 1e-12) {
				t.Fatalf("aspect mismatch: %v", tc.frame.AspectRatio())
			}
		})
	}
}

func TestParseSizeAndOrientation(t *testing.T) {
	if s, err := ParseSize(" 13X19 "); err != nil || s != Size13x19 {
		t.Fatalf("ParseSize: got %q, %v", s, err)
	}
	if _, err := ParseSize("8x10"); err == nil {
		t.Fatal("expected error for unknown size")
	}
	if o, err := ParseOrientation("Landscape"); err != nil || o != Landscape {
		t.Fatalf("ParseOrientation: got %q, %v", o, err)
	}
	if err := (FrameSize{Size: "13x19", Orientation: "diagonal"}).Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestViewportFor(t *testing.T) {
	v := ViewportFor(DefaultFrameSize, 0)
	if v.Width != DefaultViewportWidth {
		t.Fatalf("expected default width, got %v", v.Width)
	}
	if !almostEqual(v.Height, 400*19.0/13.0, 1e-9) {
		t.Fatalf("unexpected height %v", v.Height)
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}.Inset(5)
	if r != (Rect{X: 15, Y: 25, Width: 90, Height: 40}) {
		t.Fatalf("unexpected inset %v", r)
	}
	if !(Rect{Width: 4, Height: 4}).Inset(3).Empty() {
		t.Fatal("over-inset rect should be empty")
	}
}

func TestAdjustmentsClampAndSet(t *testing.T) {
	a := Adjustments{Brightness: -5, Contrast: 250, Highlights: 100, Shadows: 0, Vibrance: 200}.Clamp()
	if a.Brightness != 0 || a.Contrast != 200 {
		t.Fatalf("clamp failed: %+v", a)
	}
	if err := a.Set("vibrance", 150); err != nil || a.Vibrance != 150 {
		t.Fatalf("Set failed: %+v %v", a, err)
	}
	if err := a.Set("hue", 1); err == nil {
		t.Fatal("expected error for unknown slider")
	}
}

func TestParseFrameColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"black", Palette["black"], true},
		{"#ff8000", color.NRGBA{R: 255, G: 128, A: 255}, true},
		{"#0f0", color.NRGBA{G: 255, A: 255}, true},
		{"#12", color.NRGBA{}, false},
		{"teal", color.NRGBA{}, false},
	}
	for _, tc := range tests {
		got, err := ParseFrameColor(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("%q: got %+v, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%q: expected error", tc.in)
		}
	}
}
