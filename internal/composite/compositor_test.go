package composite

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// loadedState returns a default state with a fitted uniform image.
func loadedState(t *testing.T, w, h int, c color.NRGBA) *state.State {
	t.Helper()
	raster := uniformImage(w, h, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, raster); err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := state.New()
	img := state.NewImage(buf.Bytes(), "png", raster)
	s.SetImage(img, fit.InitialZoom(float64(w), float64(h), s.Viewport))
	return s
}

func decode(t *testing.T, a *Artifact) image.Image {
	t.Helper()
	require.NotNil(t, a)
	img, err := imaging.Decode(bytes.NewReader(a.Data))
	require.NoError(t, err)
	return img
}

func TestPrintIsIdempotent(t *testing.T) {
	s := loadedState(t, 260, 380, color.NRGBA{R: 180, G: 120, B: 60, A: 255})
	c := New(Config{})

	first := c.Print(s)
	second := c.Print(s)
	require.NotNil(t, first)
	require.Equal(t, "image/jpeg", first.MIME)
	require.True(t, bytes.Equal(first.Data, second.Data), "print output should be byte identical")

	img := decode(t, first)
	w, h := c.PrintSize(s.FrameSize)
	require.Equal(t, 1200, w)
	require.Equal(t, image.Rect(0, 0, w, h), img.Bounds())
}

func TestPreviewFallsBackToPrintWithoutGeometry(t *testing.T) {
	s := loadedState(t, 260, 380, color.NRGBA{R: 30, G: 140, B: 200, A: 255})
	c := New(Config{})

	out := c.Compose(s, nil)
	require.NotNil(t, out.Print)
	require.Equal(t, out.Print.Data, out.Preview.Data)

	hidden := &Geometry{}
	out = c.Compose(s, hidden)
	require.Equal(t, out.Print.Data, out.Preview.Data)
}

func TestPreviewDrawsBorderAndImage(t *testing.T) {
	s := loadedState(t, 260, 380, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	c := New(Config{})

	geom, err := GeometryFromState(s)
	require.NoError(t, err)

	out := c.Compose(s, &geom)
	require.Equal(t, "image/png", out.Preview.MIME)
	img := decode(t, out.Preview)

	b := img.Bounds()
	require.Equal(t, 440, b.Dx())
	require.Equal(t, 625, b.Dy())

	border := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA)
	require.Equal(t, color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 255}, border)

	centre := color.NRGBAModel.Convert(img.At(b.Dx()/2, b.Dy()/2)).(color.NRGBA)
	require.Greater(t, centre.R, uint8(150))
	require.Less(t, centre.G, uint8(80))
}

func TestTexturedPreviewRenders(t *testing.T) {
	s := loadedState(t, 200, 300, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	require.NoError(t, s.SetFrameTexture("wood"))
	require.NoError(t, s.SetFrameColor("walnut"))
	c := New(Config{})

	geom, err := GeometryFromState(s)
	require.NoError(t, err)
	preview := c.Preview(s, &geom, nil)
	require.NotNil(t, preview)
	require.Equal(t, "image/png", preview.MIME)
}

func TestBrightnessFloorKeepsOutputVisible(t *testing.T) {
	s := loadedState(t, 260, 380, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	s.SetAdjustments(types.Adjustments{Brightness: 0, Contrast: 100, Highlights: 0, Shadows: 100, Vibrance: 100})
	c := New(Config{})

	img := decode(t, c.Print(s))
	minV := uint8(255)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			p := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			minV = min(minV, p.R, p.G, p.B)
		}
	}
	require.Greater(t, minV, uint8(0), "floored brightness must not render black")
}

func TestRevokedSourceFallsBackToOriginal(t *testing.T) {
	s := loadedState(t, 120, 180, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	upload := s.Image.Data
	s.Image.Revoke()
	c := New(Config{})

	geom := Geometry{
		Frame:  types.Rect{Width: 100, Height: 140},
		Border: 5,
		Image:  types.Rect{Width: 90, Height: 130},
	}
	out := c.Compose(s, &geom)
	require.NotNil(t, out.Print)
	require.Equal(t, "image/png", out.Print.MIME)
	require.Equal(t, upload, out.Print.Data)
	require.Equal(t, out.Print, out.Preview)
}

func TestComposeWithoutImageIsNil(t *testing.T) {
	c := New(Config{})
	out := c.Compose(state.New(), nil)
	require.Nil(t, out.Print)
	require.Nil(t, out.Preview)
}

func TestPrintFollowsPan(t *testing.T) {
	// Left half red, right half blue, zoomed in so the halves overflow.
	raster := image.NewNRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			c := color.NRGBA{R: 220, A: 255}
			if x >= 200 {
				c = color.NRGBA{B: 220, A: 255}
			}
			raster.SetNRGBA(x, y, c)
		}
	}
	s := state.New()
	s.SetImage(state.NewImage([]byte{1}, "png", raster), 2)
	s.Position = types.Position{X: 150}
	c := New(Config{})

	img := decode(t, c.Print(s))
	b := img.Bounds()
	centre := color.NRGBAModel.Convert(img.At(b.Dx()/2, b.Dy()/2)).(color.NRGBA)
	require.Greater(t, centre.R, centre.B, "panning right should bring the left half to the centre")
}

func TestDataURIRoundTrip(t *testing.T) {
	a := &Artifact{MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	uri := a.DataURI()
	require.Equal(t, "data:image/png;base64,iVBORw==", uri)

	back, err := ParseDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, a, back)

	_, err = ParseDataURI("image/png;base64,AAAA")
	require.Error(t, err)
}

func TestOverlaySourceFallsBackToPrintRaster(t *testing.T) {
	s := loadedState(t, 130, 190, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	c := New(Config{})

	geom, err := GeometryFromState(s)
	require.NoError(t, err)
	framed := c.OverlaySource(s, &geom)
	require.NotNil(t, framed)
	require.Equal(t, 440, framed.Bounds().Dx())

	bare := c.OverlaySource(s, nil)
	require.NotNil(t, bare)
	w, _ := c.PrintSize(s.FrameSize)
	require.Equal(t, w, bare.Bounds().Dx())

	s.Image.Revoke()
	require.Nil(t, c.OverlaySource(s, &geom))
}
