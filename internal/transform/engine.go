// Package transform turns normalised gestures into zoom and pan updates of a
// customization state, keeping the image covering the frame aperture.
package transform

import (
	"math"

	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// MaxZoom is the upper zoom limit.
const MaxZoom = 3.0

// Phase is the drag state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
)

// Outcome reports what an applied action changed.
type Outcome struct {
	Changed  bool      `json:"changed"`
	Phase    Phase     `json:"phase"`
	SnapBack *SnapBack `json:"snap_back,omitempty"`
}

// Engine is the drag/zoom state machine. It holds no lock; callers serialise
// calls together with the state they pass in.
type Engine struct {
	phase   Phase
	grab    types.Position
	damping float64
}

// NewEngine returns an idle engine using DragDamping.
func NewEngine() *Engine {
	return &Engine{phase: PhaseIdle, damping: DragDamping}
}

// Phase returns the current drag phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Apply dispatches a normalised action.
func (e *Engine) Apply(s *state.State, a Action) Outcome {
	switch a.Kind {
	case ActionPress:
		e.Press(s, a.Point)
		return Outcome{Phase: e.phase}
	case ActionPan:
		changed := e.Pan(s, a.Point)
		return Outcome{Changed: changed, Phase: e.phase}
	case ActionRelease:
		sb, changed := e.Release(s)
		return Outcome{Changed: changed, Phase: e.phase, SnapBack: sb}
	case ActionZoom:
		changed := e.ZoomBy(s, a.Delta)
		return Outcome{Changed: changed, Phase: e.phase}
	}
	return Outcome{Phase: e.phase}
}

// Press starts a drag, remembering where on the image it was grabbed.
func (e *Engine) Press(s *state.State, pointer types.Position) {
	if !s.HasImage() {
		return
	}
	e.phase = PhaseDragging
	e.grab = types.Position{X: pointer.X - s.Position.X, Y: pointer.Y - s.Position.Y}
}

// Pan moves the image under the pointer. Past the pan limit the movement is
// damped. Returns whether the position changed.
func (e *Engine) Pan(s *state.State, pointer types.Position) bool {
	if e.phase != PhaseDragging {
		return false
	}
	raw := types.Position{X: pointer.X - e.grab.X, Y: pointer.Y - e.grab.Y}
	next := Constrain(raw, MaxOffset(s), e.damping)
	if next == s.Position {
		return false
	}
	s.Position = next
	return true
}

// Release ends a drag. A position left outside the hard limit settles on the
// nearest in-bound position; the eased path there is returned for display.
func (e *Engine) Release(s *state.State) (*SnapBack, bool) {
	if e.phase != PhaseDragging {
		return nil, false
	}
	e.phase = PhaseIdle

	target := ClampPosition(s)
	if target == s.Position {
		return nil, false
	}
	sb := NewSnapBack(s.Position, target, SnapBackDuration, SnapBackFPS)
	s.Position = target
	return &sb, true
}

// MinZoom recomputes the zoom floor from the current image and aperture.
func MinZoom(s *state.State) float64 {
	if s.Image == nil {
		return fit.MinFitZoom
	}
	return fit.MinZoom(float64(s.Image.Width), float64(s.Image.Height), s.Viewport)
}

// ZoomBy changes the zoom by delta within [MinZoom, MaxZoom] and re-clamps the
// position. Returns whether anything changed.
func (e *Engine) ZoomBy(s *state.State, delta float64) bool {
	if !s.HasImage() || !s.Controls.CanZoom {
		return false
	}
	return e.SetZoom(s, s.Zoom+delta)
}

// SetZoom sets an absolute zoom within limits and re-clamps the position.
func (e *Engine) SetZoom(s *state.State, zoom float64) bool {
	if !s.HasImage() {
		return false
	}
	lo := MinZoom(s)
	hi := math.Max(MaxZoom, lo)
	zoom = math.Max(lo, math.Min(hi, zoom))

	before, beforePos := s.Zoom, s.Position
	s.Zoom = zoom
	s.Position = ClampPosition(s)
	return s.Zoom != before || s.Position != beforePos
}

// Refit restores the invariants after the aperture or frame changed: the
// zoom is raised to the floor and the position hard-clamped.
func (e *Engine) Refit(s *state.State) {
	if !s.HasImage() {
		return
	}
	if lo := MinZoom(s); s.Zoom < lo {
		s.Zoom = lo
	}
	s.Position = ClampPosition(s)
}

// Cancel abandons a drag without snapping.
func (e *Engine) Cancel() {
	e.phase = PhaseIdle
}
