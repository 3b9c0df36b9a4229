package studio

import (
	"github.com/MeKo-Tech/photoframer/internal/filter"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// OnFrameSizeChanged registers fn to run after every frame size change with
// the new size and price.
func (s *Session) OnFrameSizeChanged(fn func(fs types.FrameSize, price int)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.onFrameSize = append(s.onFrameSize, fn)
}

// OnColorChanged registers fn to run after the frame colour or texture changes.
func (s *Session) OnColorChanged(fn func(color string, texture types.Texture)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.onColor = append(s.onColor, fn)
}

// OnAdjustmentsChanged registers fn to run after any slider changes.
func (s *Session) OnAdjustmentsChanged(fn func(a types.Adjustments, d filter.Descriptor)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.onAdjust = append(s.onAdjust, fn)
}

// OnOverlaysRendered registers fn to run when a fresh set of room overlays is
// available.
func (s *Session) OnOverlaysRendered(fn func(key string, photos int)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.onOverlays = append(s.onOverlays, fn)
}

func (s *Session) notifyFrameSize(fs types.FrameSize, price int) {
	s.obsMu.RLock()
	fns := s.onFrameSize
	s.obsMu.RUnlock()
	for _, fn := range fns {
		fn(fs, price)
	}
}

func (s *Session) notifyColor(c string, t types.Texture) {
	s.obsMu.RLock()
	fns := s.onColor
	s.obsMu.RUnlock()
	for _, fn := range fns {
		fn(c, t)
	}
}

func (s *Session) notifyAdjust(a types.Adjustments, d filter.Descriptor) {
	s.obsMu.RLock()
	fns := s.onAdjust
	s.obsMu.RUnlock()
	for _, fn := range fns {
		fn(a, d)
	}
}

func (s *Session) notifyOverlays(key string, n int) {
	s.obsMu.RLock()
	fns := s.onOverlays
	s.obsMu.RUnlock()
	for _, fn := range fns {
		fn(key, n)
	}
}
