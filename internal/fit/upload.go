// Package fit validates and decodes uploads and computes the zoom that fits
// an image into the frame aperture.
package fit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/MeKo-Tech/photoframer/internal/state"
)

var (
	// ErrNotImage is returned for uploads whose content is not an image.
	ErrNotImage = errors.New("upload is not an image")
	// ErrDecode is returned when image bytes cannot be decoded.
	ErrDecode = errors.New("failed to decode image")
)

// Decoder turns raw bytes into pixels.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (image.Image, string, error)
}

// ImagingDecoder decodes with EXIF auto-orientation applied, so phone photos
// come out upright.
type ImagingDecoder struct{}

// Decode implements Decoder.
func (ImagingDecoder) Decode(ctx context.Context, data []byte) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Result is delivered once an accepted upload has been decoded.
type Result struct {
	Image *state.Image
	Err   error
}

// Config configures an Engine.
type Config struct {
	Decoder Decoder
	Logger  *slog.Logger
	// MaxBytes rejects larger uploads; zero disables the limit.
	MaxBytes int64
}

// Engine accepts uploads and decodes them off the caller's goroutine.
type Engine struct {
	decoder  Decoder
	logger   *slog.Logger
	maxBytes int64
}

// NewEngine creates an upload engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Decoder == nil {
		cfg.Decoder = ImagingDecoder{}
	}
	return &Engine{
		decoder:  cfg.Decoder,
		logger:   cfg.Logger,
		maxBytes: cfg.MaxBytes,
	}
}

// SniffMIME returns the detected content type of data.
func SniffMIME(data []byte) string {
	return http.DetectContentType(data)
}

// Accept validates the upload synchronously and decodes it in the background.
// Non-image content is rejected with ErrNotImage and nothing is started.
// The returned channel receives exactly one Result.
func (e *Engine) Accept(ctx context.Context, data []byte) (<-chan Result, error) {
	mime := SniffMIME(data)
	if !strings.HasPrefix(mime, "image/") {
		e.log().Warn("Rejected non-image upload", "mime", mime, "size", humanize.Bytes(uint64(len(data))))
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		e.log().Warn("Rejected oversized upload", "size", humanize.Bytes(uint64(len(data))), "limit", humanize.Bytes(uint64(e.maxBytes)))
		return nil, fmt.Errorf("upload of %s exceeds limit of %s", humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(e.maxBytes)))
	}

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		img, format, err := e.decoder.Decode(ctx, data)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				out <- Result{Err: ctxErr}
				return
			}
			e.log().Error("Upload decode failed", "mime", mime, "error", err)
			out <- Result{Err: fmt.Errorf("%w: %v", ErrDecode, err)}
			return
		}
		b := img.Bounds()
		e.log().Info("Upload decoded",
			"format", format,
			"width", b.Dx(),
			"height", b.Dy(),
			"size", humanize.Bytes(uint64(len(data))),
		)
		out <- Result{Image: state.NewImage(data, format, img)}
	}()
	return out, nil
}

// Load accepts an upload and waits for the decode.
func (e *Engine) Load(ctx context.Context, data []byte) (*state.Image, error) {
	ch, err := e.Accept(ctx, data)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Image, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Apply commits a decoded image to s with its initial zoom and a centred
// position.
func Apply(s *state.State, img *state.Image) {
	zoom := InitialZoom(float64(img.Width), float64(img.Height), s.Viewport)
	s.SetImage(img, zoom)
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}
