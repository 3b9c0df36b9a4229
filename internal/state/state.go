// Package state holds the customization record of one product-configuration
// session: the uploaded image, frame selection, tone sliders, zoom and pan.
//
// A State has a single writer. Callers that share one across goroutines must
// serialise access themselves (see studio.Session).
package state

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// ErrUnknownFrameSize is returned when a frame size has no price entry.
var ErrUnknownFrameSize = errors.New("unknown frame size")

// ErrRevoked is returned by Image.Raster once the handle has been revoked.
var ErrRevoked = errors.New("image handle revoked")

// Prices maps each frame size to its price in whole currency units.
var Prices = map[types.Size]int{
	types.Size13x19: 349,
	types.Size13x10: 249,
}

// PriceFor looks up the price of a frame size.
func PriceFor(size types.Size) (int, error) {
	p, ok := Prices[size]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFrameSize, size)
	}
	return p, nil
}

// Image is the handle to an uploaded raster. The original bytes are kept so
// that artifacts can fall back to the upload itself.
type Image struct {
	Data    []byte
	Format  string
	Width   int
	Height  int
	raster  image.Image
	revoked bool
}

// NewImage wraps a decoded upload.
func NewImage(data []byte, format string, raster image.Image) *Image {
	b := raster.Bounds()
	return &Image{
		Data:   data,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		raster: raster,
	}
}

// Raster returns the decoded pixels, or ErrRevoked.
func (i *Image) Raster() (image.Image, error) {
	if i == nil || i.revoked || i.raster == nil {
		return nil, ErrRevoked
	}
	return i.raster, nil
}

// Revoke drops the decoded pixels; later renders must fall back.
func (i *Image) Revoke() {
	i.revoked = true
	i.raster = nil
}

// Controls tracks which dependent UI controls are enabled.
type Controls struct {
	CanAddToCart bool `json:"can_add_to_cart"`
	CanZoom      bool `json:"can_zoom"`
}

// State is the customization record.
type State struct {
	Image        *Image
	FrameSize    types.FrameSize
	FrameColor   string
	FrameTexture types.Texture
	Price        int
	Adjustments  types.Adjustments
	// Zoom is the screen scale of the image (screen px per image px).
	// Zero means no image has been fitted yet.
	Zoom     float64
	Position types.Position
	Viewport types.Viewport
	Controls Controls
	Rooms    RoomSlider
}

// New returns a state with storefront defaults.
func New() *State {
	return &State{
		FrameSize:    types.DefaultFrameSize,
		FrameColor:   types.DefaultFrameColor,
		FrameTexture: types.TextureSmooth,
		Price:        Prices[types.DefaultFrameSize.Size],
		Adjustments:  types.DefaultAdjustments(),
		Viewport:     types.ViewportFor(types.DefaultFrameSize, types.DefaultViewportWidth),
	}
}

// HasImage reports whether an upload has been committed.
func (s *State) HasImage() bool {
	return s.Image != nil
}

// SetImage commits a decoded upload with its fitted zoom and centres it.
func (s *State) SetImage(img *Image, zoom float64) {
	s.Image = img
	s.Zoom = zoom
	s.Position = types.Position{}
	s.Controls = Controls{CanAddToCart: true, CanZoom: true}
}

// SetFrameSize switches the frame, re-prices it, reshapes the viewport to the
// new aspect and recentres the image. The caller recomputes the zoom floor.
func (s *State) SetFrameSize(fs types.FrameSize) error {
	if err := fs.Validate(); err != nil {
		return err
	}
	price, err := PriceFor(fs.Size)
	if err != nil {
		return err
	}
	s.FrameSize = fs
	s.Price = price
	s.Viewport = types.ViewportFor(fs, s.Viewport.Width)
	s.Position = types.Position{}
	return nil
}

// SetFrameColor validates and stores the border colour.
func (s *State) SetFrameColor(c string) error {
	if _, err := types.ParseFrameColor(c); err != nil {
		return err
	}
	s.FrameColor = c
	return nil
}

// SetFrameTexture validates and stores the border texture.
func (s *State) SetFrameTexture(t string) error {
	tex, err := types.ParseTexture(t)
	if err != nil {
		return err
	}
	s.FrameTexture = tex
	return nil
}

// SetAdjustments stores sliders clamped to the user range.
func (s *State) SetAdjustments(a types.Adjustments) {
	s.Adjustments = a.Clamp()
}

// SetViewport records the live aperture size. A zero height is derived from
// the frame aspect.
func (s *State) SetViewport(v types.Viewport) error {
	if v.Width <= 0 {
		return fmt.Errorf("viewport width must be positive")
	}
	if v.Height <= 0 {
		v = types.ViewportFor(s.FrameSize, v.Width)
	}
	s.Viewport = v
	return nil
}

// Clone returns a copy safe to read while the original keeps changing.
// The image handle is shared; it is never mutated after commit.
func (s *State) Clone() *State {
	c := *s
	c.Rooms.Images = append([]string(nil), s.Rooms.Images...)
	return &c
}

// Snapshot is the JSON view of the state.
type Snapshot struct {
	HasImage     bool              `json:"has_image"`
	ImageWidth   int               `json:"image_width,omitempty"`
	ImageHeight  int               `json:"image_height,omitempty"`
	FrameSize    types.FrameSize   `json:"frame_size"`
	FrameColor   string            `json:"frame_color"`
	FrameTexture types.Texture     `json:"frame_texture"`
	Price        int               `json:"price"`
	Adjustments  types.Adjustments `json:"adjustments"`
	Zoom         *float64          `json:"zoom,omitempty"`
	Position     types.Position    `json:"position"`
	Viewport     types.Viewport    `json:"viewport"`
	Controls     Controls          `json:"controls"`
	Rooms        RoomSlider        `json:"room_slider"`
}

// Snapshot returns the JSON view. Zoom is omitted until an image is fitted.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		HasImage:     s.HasImage(),
		FrameSize:    s.FrameSize,
		FrameColor:   s.FrameColor,
		FrameTexture: s.FrameTexture,
		Price:        s.Price,
		Adjustments:  s.Adjustments,
		Position:     s.Position,
		Viewport:     s.Viewport,
		Controls:     s.Controls,
		Rooms:        s.Rooms,
	}
	if s.Image != nil {
		snap.ImageWidth = s.Image.Width
		snap.ImageHeight = s.Image.Height
	}
	if s.Zoom > 0 {
		z := s.Zoom
		snap.Zoom = &z
	}
	snap.Rooms.Images = append([]string(nil), s.Rooms.Images...)
	return snap
}
