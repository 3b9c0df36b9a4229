// Package composite renders the two cart artifacts from a customization
// state: the borderless print crop and the framed preview snapshot.
package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/MeKo-Tech/photoframer/internal/filter"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/texture"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Defaults for the print artifact.
const (
	DefaultPrintWidth      = 1200
	DefaultJPEGQuality     = 95
	DefaultTextureStrength = 0.35
)

// Config configures a Compositor.
type Config struct {
	PrintWidth      int
	JPEGQuality     int
	TextureStrength float64
	Textures        *texture.Library
	Logger          *slog.Logger
}

// Compositor renders print and preview artifacts. It is safe for concurrent
// use as long as each call gets its own state snapshot.
type Compositor struct {
	cfg Config
}

// Artifacts is the pair handed to the cart.
type Artifacts struct {
	Print   *Artifact
	Preview *Artifact
}

// New creates a compositor, filling in defaults.
func New(cfg Config) *Compositor {
	if cfg.PrintWidth <= 0 {
		cfg.PrintWidth = DefaultPrintWidth
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.TextureStrength <= 0 {
		cfg.TextureStrength = DefaultTextureStrength
	}
	if cfg.Textures == nil {
		cfg.Textures = texture.NewLibrary("", texture.DefaultParams, cfg.Logger)
	}
	return &Compositor{cfg: cfg}
}

// PrintSize returns the print canvas size for a frame.
func (c *Compositor) PrintSize(fs types.FrameSize) (int, int) {
	w := c.cfg.PrintWidth
	return w, int(math.Round(float64(w) * fs.AspectRatio()))
}

// Compose renders both artifacts. geom is the measured preview layout; nil
// means it could not be measured. A nil preview is replaced by the print.
func (c *Compositor) Compose(s *state.State, geom *Geometry) Artifacts {
	printed := c.Print(s)
	preview := c.Preview(s, geom, printed)
	if preview == nil {
		preview = printed
	}
	return Artifacts{Print: printed, Preview: preview}
}

// Print renders the print crop. On failure it returns the original upload,
// or nil without one.
func (c *Compositor) Print(s *state.State) *Artifact {
	return renderOrFallback(c.log(), "print", func() (*Artifact, error) {
		return c.renderPrint(s)
	}, func() *Artifact {
		return original(s)
	})
}

// Preview renders the framed snapshot at the measured geometry. On failure,
// including unavailable geometry, it returns fallback.
func (c *Compositor) Preview(s *state.State, geom *Geometry, fallback *Artifact) *Artifact {
	return renderOrFallback(c.log(), "preview", func() (*Artifact, error) {
		if geom == nil {
			return nil, ErrGeometryUnavailable
		}
		return c.renderPreview(s, *geom)
	}, func() *Artifact {
		return fallback
	})
}

func (c *Compositor) renderPrint(s *state.State) (*Artifact, error) {
	canvas, err := c.printRaster(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(c.cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode print: %w", err)
	}
	return &Artifact{MIME: "image/jpeg", Data: buf.Bytes()}, nil
}

func (c *Compositor) printRaster(s *state.State) (*image.NRGBA, error) {
	if s.Image == nil {
		return nil, fmt.Errorf("no image to render")
	}
	src, err := s.Image.Raster()
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}

	cw, ch := c.PrintSize(s.FrameSize)
	sb := src.Bounds()
	iw, ih := float64(sb.Dx()), float64(sb.Dy())

	// Cover-fit against the canvas, times the zoom relative to the screen
	// cover fit. This is the screen zoom projected by canvas/viewport.
	base := math.Max(float64(cw)/iw, float64(ch)/ih)
	scale := base
	k := 1.0
	if s.Viewport.Valid() {
		k = float64(cw) / s.Viewport.Width
		if s.Zoom > 0 {
			cover := math.Max(s.Viewport.Width/iw, s.Viewport.Height/ih)
			scale = base * s.Zoom / cover
		}
	}

	dw, dh := iw*scale, ih*scale
	ox := float64(cw)/2 - dw/2 + s.Position.X*k
	oy := float64(ch)/2 - dh/2 + s.Position.Y*k

	layer := place(src, cw, ch, scale, ox, oy, draw.CatmullRom)
	layer = filter.Compose(s.Adjustments).Apply(layer)

	canvas := image.NewNRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)
	return canvas, nil
}

func (c *Compositor) renderPreview(s *state.State, g Geometry) (*Artifact, error) {
	img, err := c.previewRaster(s, g)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return &Artifact{MIME: "image/png", Data: buf.Bytes()}, nil
}

func (c *Compositor) previewRaster(s *state.State, g Geometry) (image.Image, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if s.Image == nil {
		return nil, fmt.Errorf("no image to render")
	}
	src, err := s.Image.Raster()
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}
	frameColor, err := types.ParseFrameColor(s.FrameColor)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(g.Frame.Width))
	h := int(math.Ceil(g.Frame.Height))
	// Canvas coordinates start at the frame's top-left corner.
	dx, dy := -g.Frame.X, -g.Frame.Y

	dc := gg.NewContext(w, h)
	if s.FrameTexture == types.TextureSmooth {
		dc.SetColor(frameColor)
		dc.Clear()
	} else {
		grain, err := c.cfg.Textures.Grain(s.FrameTexture)
		if err != nil {
			return nil, fmt.Errorf("failed to load frame texture: %w", err)
		}
		dc.DrawImage(texture.Shade(grain, frameColor, w, h, c.cfg.TextureStrength), 0, 0)
	}

	ap := g.Aperture().Translate(dx, dy)
	dc.DrawRectangle(ap.X, ap.Y, ap.Width, ap.Height)
	dc.Clip()
	dc.SetColor(color.White)
	dc.DrawRectangle(ap.X, ap.Y, ap.Width, ap.Height)
	dc.Fill()

	sb := src.Bounds()
	img := g.Image.Translate(dx, dy)
	scale := img.Width / float64(sb.Dx())
	layer := place(src, w, h, scale, img.X, img.Y, draw.ApproxBiLinear)
	layer = filter.Compose(s.Adjustments).Apply(layer)
	dc.DrawImage(layer, 0, 0)
	dc.ResetClip()
	return dc.Image(), nil
}

// OverlaySource returns the framed preview raster for room overlays, or the
// print raster when the preview cannot be rendered. Nil when neither renders.
func (c *Compositor) OverlaySource(s *state.State, geom *Geometry) image.Image {
	return renderOrFallback(c.log(), "overlay preview", func() (image.Image, error) {
		if geom == nil {
			return nil, ErrGeometryUnavailable
		}
		return c.previewRaster(s, *geom)
	}, func() image.Image {
		return renderOrFallback(c.log(), "overlay print", func() (image.Image, error) {
			return c.printRaster(s)
		}, func() image.Image { return nil })
	})
}

// place draws src scaled by scale with its top-left at (ox, oy) onto a
// transparent w x h layer. Only the destination pixels are visited, so the
// cost is bounded by the layer size regardless of zoom.
func place(src image.Image, w, h int, scale, ox, oy float64, interp draw.Interpolator) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	m := f64.Aff3{
		scale, 0, ox - scale*float64(sb.Min.X),
		0, scale, oy - scale*float64(sb.Min.Y),
	}
	interp.Transform(dst, m, src, sb, draw.Over, nil)
	return dst
}

// original wraps the uploaded bytes as an artifact.
func original(s *state.State) *Artifact {
	if s.Image == nil || len(s.Image.Data) == 0 {
		return nil
	}
	return &Artifact{MIME: "image/" + s.Image.Format, Data: s.Image.Data}
}

func (c *Compositor) log() *slog.Logger {
	if c.cfg.Logger != nil {
		return c.cfg.Logger
	}
	return slog.Default()
}
