package room

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"sync"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/photoframer/internal/mask"
	"github.com/MeKo-Tech/photoframer/internal/types"
	"github.com/MeKo-Tech/photoframer/internal/worker"
)

// DefaultJPEGQuality is the quality of rendered room photos.
const DefaultJPEGQuality = 90

// Drop shadow cast by the placed frame onto the wall.
const (
	DefaultShadowOpacity = 0.35
	// ShadowRatio sizes the blur relative to the placed frame width.
	ShadowRatio = 0.04
)

// Config configures a Renderer.
type Config struct {
	// Dir holds one folder of photos per key.
	Dir         string
	Table       *Table
	Workers     int
	JPEGQuality int

	// ShadowOpacity darkens the wall under the frame; negative disables it.
	ShadowOpacity float64
	Logger        *slog.Logger
	OnProgress    worker.ProgressFunc
}

// Renderer places previews on room photos.
type Renderer struct {
	cfg Config

	mu   sync.Mutex
	sets map[string]*PhotoSet
}

// NewRenderer creates a renderer. A nil table uses the embedded one.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.Table == nil {
		t, err := DefaultTable()
		if err != nil {
			return nil, err
		}
		cfg.Table = t
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.ShadowOpacity == 0 {
		cfg.ShadowOpacity = DefaultShadowOpacity
	}
	return &Renderer{cfg: cfg, sets: make(map[string]*PhotoSet)}, nil
}

// Set returns the photo set for key, loading it once.
func (r *Renderer) Set(key string) (*PhotoSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sets[key]; ok {
		return s, nil
	}
	s, err := LoadPhotoSet(r.cfg.Dir, key)
	if err != nil {
		return nil, err
	}
	r.sets[key] = s
	return s, nil
}

// Place returns the destination rectangle for photo index of key on a photo
// of the given size: the authored box when there is one, a preset otherwise.
func (r *Renderer) Place(key string, index int, fs types.FrameSize, w, h int) image.Rectangle {
	if b, ok := r.cfg.Table.Lookup(key, index); ok {
		return r.cfg.Table.Scale(b, w, h)
	}
	return PresetRect(index, fs.AspectRatio(), w, h)
}

// RenderPhoto composites preview onto one photo. The excluded photo, or a
// nil preview, yields the original photo bytes.
func (r *Renderer) RenderPhoto(photo Photo, key string, index int, fs types.FrameSize, preview image.Image) ([]byte, error) {
	if index == ExcludedIndex || preview == nil {
		return photo.Data, nil
	}

	pb := photo.Image.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, pb.Dx(), pb.Dy()))
	draw.Draw(dst, dst.Bounds(), photo.Image, pb.Min, draw.Src)

	rect := r.Place(key, index, fs, pb.Dx(), pb.Dy())
	if rect.Empty() {
		return nil, fmt.Errorf("room %q photo %d: empty destination", key, index)
	}
	if r.cfg.ShadowOpacity > 0 {
		sigma := math.Max(1, ShadowRatio*float64(rect.Dx()))
		offset := image.Pt(int(sigma/2), int(sigma))
		mask.DropShadow(dst, rect, offset, float32(sigma), r.cfg.ShadowOpacity)
	}

	g := gift.New(gift.Resize(rect.Dx(), rect.Dy(), gift.LanczosResampling))
	scaled := image.NewNRGBA(g.Bounds(preview.Bounds()))
	g.Draw(scaled, preview)
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(r.cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode room photo: %w", err)
	}
	return buf.Bytes(), nil
}

// Render composites preview onto every photo of the frame's key, in photo
// order. Rendering is always from scratch.
func (r *Renderer) Render(ctx context.Context, fs types.FrameSize, preview image.Image) ([][]byte, error) {
	key := Key(fs)
	set, err := r.Set(key)
	if err != nil {
		return nil, err
	}

	pool := worker.New(worker.Config{
		Workers:    r.cfg.Workers,
		OnProgress: r.cfg.OnProgress,
		Renderer: worker.RendererFunc(func(ctx context.Context, task worker.Task) ([]byte, error) {
			return r.RenderPhoto(set.Photos[task.Index], key, task.Index, fs, preview)
		}),
	})

	tasks := make([]worker.Task, len(set.Photos))
	for i := range tasks {
		tasks[i] = worker.Task{Key: key, Index: i}
	}

	out := make([][]byte, len(tasks))
	for _, res := range pool.Run(ctx, tasks) {
		if res.Err != nil {
			return nil, fmt.Errorf("failed to render room %q photo %d: %w", key, res.Task.Index, res.Err)
		}
		out[res.Task.Index] = res.Data
	}
	r.log().Debug("Room overlays rendered", "key", key, "photos", len(out))
	return out, nil
}

func (r *Renderer) log() *slog.Logger {
	if r.cfg.Logger != nil {
		return r.cfg.Logger
	}
	return slog.Default()
}
