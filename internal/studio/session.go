// Package studio wires one product-configuration session: the customization
// state, the gesture and upload engines, debounced room overlays and the
// compose-for-cart flow.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/cart"
	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/filter"
	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/schedule"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/transform"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

var (
	// ErrNoImage is returned by operations that need an uploaded image.
	ErrNoImage = errors.New("no image uploaded")
	// ErrNoCart is returned when the session has no cart configured.
	ErrNoCart = errors.New("cart not configured")
	// ErrNoRooms is returned when room overlays are not configured.
	ErrNoRooms = errors.New("room overlays not configured")
	// ErrOverlaysPending is returned when no overlay render has finished yet.
	ErrOverlaysPending = errors.New("room overlays not rendered yet")
)

const overlayOp = "overlay"

// Config holds the collaborators shared by sessions.
type Config struct {
	Fit        *fit.Engine
	Compositor *composite.Compositor
	// Rooms and Cart are optional.
	Rooms *room.Renderer
	Cart  *cart.Store

	TouchPrimary      bool
	GestureDelay      time.Duration
	FilterDelay       time.Duration
	UploadSettleDelay time.Duration
	FrameInterval     time.Duration
	Logger            *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Fit == nil {
		c.Fit = fit.NewEngine(fit.Config{Logger: c.Logger})
	}
	if c.Compositor == nil {
		c.Compositor = composite.New(composite.Config{Logger: c.Logger})
	}
	if c.GestureDelay <= 0 {
		c.GestureDelay = schedule.GestureDelay
	}
	if c.FilterDelay <= 0 {
		c.FilterDelay = schedule.FilterDelay
	}
	if c.UploadSettleDelay <= 0 {
		c.UploadSettleDelay = schedule.UploadSettleDelay
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = schedule.FrameInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Session is one customization in progress. All mutations are serialised
// behind one lock; renders work on a cloned snapshot.
type Session struct {
	id     string
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	state     *state.State
	engine    *transform.Engine
	norm      transform.Normalizer
	geometry  *composite.Geometry
	lastSnap  *transform.SnapBack

	// uploadGen numbers accepted uploads; committedGen is the newest one
	// that decoded and was applied.
	uploadGen    uint64
	committedGen uint64

	frames   *schedule.Coalescer
	debounce *schedule.Debouncer

	overlayMu  sync.RWMutex
	overlays   [][]byte
	overlayKey string
	overlayGen uint64

	obsMu       sync.RWMutex
	onFrameSize []func(types.FrameSize, int)
	onColor     []func(string, types.Texture)
	onAdjust    []func(types.Adjustments, filter.Descriptor)
	onOverlays  []func(key string, photos int)
}

// NewSession creates a session with default state.
func NewSession(id string, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		id:       id,
		cfg:      cfg,
		logger:   cfg.Logger.With("session_id", id),
		state:    state.New(),
		engine:   transform.NewEngine(),
		norm:     transform.Normalizer{TouchPrimary: cfg.TouchPrimary},
		frames:   schedule.NewCoalescer(cfg.FrameInterval),
		debounce: schedule.NewDebouncer(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Snapshot returns the JSON view of the current state.
func (s *Session) Snapshot() state.Snapshot {
	s.frames.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// State returns a copy of the current state.
func (s *Session) State() *state.State {
	s.frames.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Filter returns the tone filter for the live preview.
func (s *Session) Filter() filter.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Compose(s.state.Adjustments)
}

// Upload validates data and decodes it in the background. Non-images are
// rejected immediately. The returned channel receives nil once the image is
// committed, or the decode error; a failed decode leaves the state as it was.
// Once a newer upload has been committed, an older one that finishes decoding
// later is discarded. A newer upload that fails does not discard anything.
func (s *Session) Upload(ctx context.Context, data []byte) (<-chan error, error) {
	ch, err := s.cfg.Fit.Accept(ctx, data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.uploadGen++
	gen := s.uploadGen
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		res := <-ch
		if res.Err != nil {
			done <- res.Err
			return
		}

		s.mu.Lock()
		if gen < s.committedGen {
			s.mu.Unlock()
			done <- fmt.Errorf("upload superseded")
			return
		}
		s.committedGen = gen
		s.engine.Cancel()
		fit.Apply(s.state, res.Image)
		s.geometry = nil
		zoom := s.state.Zoom
		s.mu.Unlock()

		s.logger.Info("Image committed",
			"width", res.Image.Width,
			"height", res.Image.Height,
			"zoom", zoom,
		)
		s.scheduleOverlays(s.cfg.UploadSettleDelay)
		done <- nil
	}()
	return done, nil
}

// UploadAndWait uploads data and waits until it is committed.
func (s *Session) UploadAndWait(ctx context.Context, data []byte) error {
	done, err := s.Upload(ctx, data)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetFrameSize switches the frame, re-prices it, refits the image to the new
// aperture and points the room slider at the new photo set.
func (s *Session) SetFrameSize(fs types.FrameSize) error {
	s.mu.Lock()
	if err := s.state.SetFrameSize(fs); err != nil {
		s.mu.Unlock()
		return err
	}
	s.engine.Cancel()
	s.engine.Refit(s.state)
	s.geometry = nil
	s.resetRoomsLocked()
	price := s.state.Price
	s.mu.Unlock()

	s.logger.Info("Frame size changed", "frame_size", fs.String(), "price", price)
	s.notifyFrameSize(fs, price)
	s.scheduleOverlays(0)
	return nil
}

// SetFrameColor sets the border colour by palette name or hex.
func (s *Session) SetFrameColor(c string) error {
	s.mu.Lock()
	if err := s.state.SetFrameColor(c); err != nil {
		s.mu.Unlock()
		return err
	}
	tex := s.state.FrameTexture
	s.mu.Unlock()

	s.notifyColor(c, tex)
	s.scheduleOverlays(0)
	return nil
}

// SetFrameTexture sets the border texture.
func (s *Session) SetFrameTexture(t string) error {
	s.mu.Lock()
	if err := s.state.SetFrameTexture(t); err != nil {
		s.mu.Unlock()
		return err
	}
	c, tex := s.state.FrameColor, s.state.FrameTexture
	s.mu.Unlock()

	s.notifyColor(c, tex)
	s.scheduleOverlays(0)
	return nil
}

// SetAdjustments replaces all sliders. Values are clamped.
func (s *Session) SetAdjustments(a types.Adjustments) filter.Descriptor {
	s.mu.Lock()
	s.state.SetAdjustments(a)
	adj := s.state.Adjustments
	s.mu.Unlock()
	return s.adjusted(adj)
}

// SetAdjustment sets one slider by name.
func (s *Session) SetAdjustment(name string, value int) (filter.Descriptor, error) {
	s.mu.Lock()
	adj := s.state.Adjustments
	if err := adj.Set(name, value); err != nil {
		s.mu.Unlock()
		return filter.Descriptor{}, err
	}
	s.state.SetAdjustments(adj)
	adj = s.state.Adjustments
	s.mu.Unlock()
	return s.adjusted(adj), nil
}

func (s *Session) adjusted(adj types.Adjustments) filter.Descriptor {
	d := filter.Compose(adj)
	s.notifyAdjust(adj, d)
	s.scheduleOverlays(s.cfg.FilterDelay)
	return d
}

// SetViewport records the on-screen aperture size and refits the image.
func (s *Session) SetViewport(v types.Viewport) error {
	s.frames.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.SetViewport(v); err != nil {
		return err
	}
	s.engine.Refit(s.state)
	s.geometry = nil
	return nil
}

// SetGeometry records the measured on-screen frame layout used for the
// preview snapshot. Nil means the preview could not be measured. The
// measurement is dropped whenever the image, frame, viewport, zoom or
// position changes afterwards, until the client measures again.
func (s *Session) SetGeometry(g *composite.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g == nil {
		s.geometry = nil
		return
	}
	cp := *g
	s.geometry = &cp
}

// HandleEvent applies one input event. Pans are coalesced to one update per
// frame; every other action first applies any pending pan so events take
// effect in arrival order.
func (s *Session) HandleEvent(ev transform.Event) transform.Outcome {
	a := s.norm.Normalize(ev)

	if a.Kind == transform.ActionPan {
		s.mu.Lock()
		phase := s.engine.Phase()
		s.mu.Unlock()
		if phase != transform.PhaseDragging {
			return transform.Outcome{Phase: phase}
		}
		s.frames.Submit(func() { s.apply(a) })
		return transform.Outcome{Phase: phase}
	}

	s.frames.Flush()
	return s.apply(a)
}

func (s *Session) apply(a transform.Action) transform.Outcome {
	s.mu.Lock()
	out := s.engine.Apply(s.state, a)
	if out.SnapBack != nil {
		s.lastSnap = out.SnapBack
	}
	if out.Changed {
		s.geometry = nil
	}
	s.mu.Unlock()

	if out.Changed {
		s.scheduleOverlays(s.cfg.GestureDelay)
	}
	return out
}

// Zoom sets an absolute zoom within the current limits.
func (s *Session) Zoom(z float64) (bool, error) {
	s.mu.Lock()
	if !s.state.HasImage() {
		s.mu.Unlock()
		return false, ErrNoImage
	}
	changed := s.engine.SetZoom(s.state, z)
	if changed {
		s.geometry = nil
	}
	s.mu.Unlock()
	if changed {
		s.scheduleOverlays(s.cfg.GestureDelay)
	}
	return changed, nil
}

// LastSnapBack returns the keyframes of the most recent snap-back.
func (s *Session) LastSnapBack() *transform.SnapBack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSnap
}

// snapshotForRender clones the state and measured geometry under the lock.
func (s *Session) snapshotForRender() (*state.State, *composite.Geometry) {
	s.frames.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Clone()
	if s.geometry != nil {
		g := *s.geometry
		return st, &g
	}
	return st, nil
}

// ComposeForCart renders the print and preview artifacts from the current
// state. Render failures degrade to fallbacks rather than errors; the only
// errors are a missing image and cancellation.
func (s *Session) ComposeForCart(ctx context.Context) (composite.Artifacts, error) {
	st, geom := s.snapshotForRender()
	if !st.HasImage() {
		return composite.Artifacts{}, ErrNoImage
	}

	done := make(chan composite.Artifacts, 1)
	go func() {
		done <- s.cfg.Compositor.Compose(st, geom)
	}()

	select {
	case out := <-done:
		return out, nil
	case <-ctx.Done():
		return composite.Artifacts{}, ctx.Err()
	}
}

// AddToCart composes the current customization and stores it in the cart.
func (s *Session) AddToCart(ctx context.Context) (cart.Record, error) {
	if s.cfg.Cart == nil {
		return cart.Record{}, ErrNoCart
	}
	st, _ := s.snapshotForRender()
	if !st.Controls.CanAddToCart {
		return cart.Record{}, ErrNoImage
	}

	art, err := s.ComposeForCart(ctx)
	if err != nil {
		return cart.Record{}, err
	}

	rec := cart.Record{
		SessionID:    s.id,
		PrintImage:   art.Print.DataURI(),
		PreviewImage: art.Preview.DataURI(),
		FrameSize:    st.FrameSize,
		FrameColor:   st.FrameColor,
		FrameTexture: st.FrameTexture,
		Adjustments:  st.Adjustments,
		Zoom:         st.Zoom,
		Position:     st.Position,
		Price:        st.Price,
	}
	return s.cfg.Cart.Add(ctx, rec)
}

// Close cancels pending work. The session must not be used afterwards.
func (s *Session) Close() {
	s.debounce.Stop()
	s.frames.Flush()
}
