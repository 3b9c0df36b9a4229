package state

import (
	"errors"
	"image"
	"testing"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	if s.FrameSize != (types.FrameSize{Size: types.Size13x19, Orientation: types.Portrait}) {
		t.Fatalf("unexpected default frame size %v", s.FrameSize)
	}
	if s.Price != 349 {
		t.Fatalf("expected price 349, got %d", s.Price)
	}
	if s.HasImage() {
		t.Fatal("fresh state must not have an image")
	}
	if snap := s.Snapshot(); snap.Zoom != nil {
		t.Fatalf("zoom must be undefined before upload, got %v", *snap.Zoom)
	}
	if s.Adjustments != types.DefaultAdjustments() {
		t.Fatalf("unexpected adjustments %+v", s.Adjustments)
	}
	if s.Controls.CanAddToCart || s.Controls.CanZoom {
		t.Fatal("controls must start disabled")
	}
}

func TestSetFrameSizeResetsPositionAndPrice(t *testing.T) {
	s := New()
	s.Position = types.Position{X: 12, Y: -7}

	if err := s.SetFrameSize(types.FrameSize{Size: types.Size13x10, Orientation: types.Landscape}); err != nil {
		t.Fatalf("SetFrameSize: %v", err)
	}
	if s.Position != (types.Position{}) {
		t.Fatalf("position not reset: %+v", s.Position)
	}
	if s.Price != 249 {
		t.Fatalf("expected price 249, got %d", s.Price)
	}
	if s.Viewport.Width != types.DefaultViewportWidth || s.Viewport.Height != types.DefaultViewportWidth*10/13 {
		t.Fatalf("viewport not reshaped: %+v", s.Viewport)
	}

	if err := s.SetFrameSize(types.FrameSize{Size: "5x7", Orientation: types.Portrait}); err == nil {
		t.Fatal("expected error for unknown size")
	}
}

func TestImageRevoke(t *testing.T) {
	img := NewImage([]byte("raw"), "png", image.NewNRGBA(image.Rect(0, 0, 3, 2)))
	if img.Width != 3 || img.Height != 2 {
		t.Fatalf("unexpected dims %dx%d", img.Width, img.Height)
	}
	if _, err := img.Raster(); err != nil {
		t.Fatalf("Raster: %v", err)
	}
	img.Revoke()
	if _, err := img.Raster(); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestSetImageEnablesControls(t *testing.T) {
	s := New()
	s.Position = types.Position{X: 5}
	s.SetImage(NewImage(nil, "png", image.NewNRGBA(image.Rect(0, 0, 10, 10))), 0.5)

	if !s.Controls.CanAddToCart || !s.Controls.CanZoom {
		t.Fatal("controls should be enabled after upload")
	}
	if s.Position != (types.Position{}) || s.Zoom != 0.5 {
		t.Fatalf("unexpected state after upload: %+v zoom=%v", s.Position, s.Zoom)
	}
}

func TestRoomSliderNavigation(t *testing.T) {
	var r RoomSlider
	r.Reset("13x19 Portrait", []string{"a", "b", "c"})

	if r.Prev() != 2 || r.Next() != 0 || r.Next() != 1 {
		t.Fatalf("unexpected navigation, index=%d", r.CurrentIndex)
	}
	if r.Select(5) {
		t.Fatal("out of range select must fail")
	}
	if !r.Select(2) || r.CurrentIndex != 2 {
		t.Fatal("select failed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Rooms.Reset("k", []string{"a"})
	c := s.Clone()
	c.Rooms.Images[0] = "changed"
	c.Adjustments.Brightness = 10

	if s.Rooms.Images[0] != "a" || s.Adjustments.Brightness != 100 {
		t.Fatal("clone shares mutable data")
	}
}
