package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/state"
)

// resetRoomsLocked points the slider at the photo set of the current frame.
// Callers hold s.mu.
func (s *Session) resetRoomsLocked() {
	key := room.Key(s.state.FrameSize)
	images := make([]string, room.PhotosPerKey)
	for i := range images {
		images[i] = fmt.Sprintf("%s/%d", key, i)
	}
	s.state.Rooms.Reset(key, images)
}

// SetRoomsActive shows or hides the room slider. Activating it renders the
// overlays right away.
func (s *Session) SetRoomsActive(active bool) state.RoomSlider {
	s.mu.Lock()
	if s.state.Rooms.FrameSizeKey == "" {
		s.resetRoomsLocked()
	}
	s.state.Rooms.IsActive = active
	slider := s.state.Rooms
	s.mu.Unlock()

	if active {
		s.scheduleOverlays(0)
	}
	return slider
}

// RoomNext advances the slider.
func (s *Session) RoomNext() state.RoomSlider {
	return s.moveRooms(func(r *state.RoomSlider) { r.Next() })
}

// RoomPrev moves the slider back.
func (s *Session) RoomPrev() state.RoomSlider {
	return s.moveRooms(func(r *state.RoomSlider) { r.Prev() })
}

// RoomSelect jumps to photo i.
func (s *Session) RoomSelect(i int) (state.RoomSlider, error) {
	var ok bool
	slider := s.moveRooms(func(r *state.RoomSlider) { ok = r.Select(i) })
	if !ok {
		return slider, fmt.Errorf("room photo %d out of range", i)
	}
	return slider, nil
}

func (s *Session) moveRooms(fn func(*state.RoomSlider)) state.RoomSlider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Rooms.FrameSizeKey == "" {
		s.resetRoomsLocked()
	}
	fn(&s.state.Rooms)
	slider := s.state.Rooms
	slider.Images = append([]string(nil), slider.Images...)
	return slider
}

// scheduleOverlays queues a recomposition of the room overlays. Triggers
// within delay of each other collapse into one render of the latest state.
func (s *Session) scheduleOverlays(delay time.Duration) {
	if s.cfg.Rooms == nil {
		return
	}
	s.debounce.Trigger(overlayOp, delay, func() {
		if err := s.RenderOverlays(context.Background()); err != nil {
			s.logger.Warn("Room overlay render failed", "error", err)
		}
	})
}

// FlushOverlays runs a pending overlay recomposition now.
func (s *Session) FlushOverlays() bool {
	return s.debounce.Flush(overlayOp)
}

// RenderOverlays recomposes every room photo of the current frame from the
// latest state. A render that finishes after a newer one started is dropped.
func (s *Session) RenderOverlays(ctx context.Context) error {
	if s.cfg.Rooms == nil {
		return ErrNoRooms
	}

	s.overlayMu.Lock()
	s.overlayGen++
	gen := s.overlayGen
	s.overlayMu.Unlock()

	st, geom := s.snapshotForRender()
	if geom == nil && st.HasImage() {
		// Without a measurement the preview is laid out as the storefront draws it.
		if g, err := composite.GeometryFromState(st); err == nil {
			geom = &g
		}
	}

	key := room.Key(st.FrameSize)
	preview := s.cfg.Compositor.OverlaySource(st, geom)
	photos, err := s.cfg.Rooms.Render(ctx, st.FrameSize, preview)
	if err != nil {
		return err
	}

	s.overlayMu.Lock()
	if gen != s.overlayGen {
		s.overlayMu.Unlock()
		s.logger.Debug("Discarded superseded room overlays", "key", key)
		return nil
	}
	s.overlays = photos
	s.overlayKey = key
	s.overlayMu.Unlock()

	s.notifyOverlays(key, len(photos))
	return nil
}

// Overlay returns rendered room photo i and the key it was rendered for.
func (s *Session) Overlay(i int) ([]byte, string, error) {
	s.overlayMu.RLock()
	defer s.overlayMu.RUnlock()
	if s.overlays == nil {
		return nil, "", ErrOverlaysPending
	}
	if i < 0 || i >= len(s.overlays) {
		return nil, "", fmt.Errorf("room photo %d out of range", i)
	}
	return s.overlays[i], s.overlayKey, nil
}
