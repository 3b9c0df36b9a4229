package transform

import "github.com/MeKo-Tech/photoframer/internal/types"

// Device is the input source of an event.
type Device string

const (
	DeviceMouse  Device = "mouse"
	DeviceTouch  Device = "touch"
	DeviceWheel  Device = "wheel"
	DeviceButton Device = "button"
)

// EventKind is the raw event type reported by a client.
type EventKind string

const (
	EventDown    EventKind = "down"
	EventMove    EventKind = "move"
	EventUp      EventKind = "up"
	EventCancel  EventKind = "cancel"
	EventWheel   EventKind = "wheel"
	EventZoomIn  EventKind = "zoom_in"
	EventZoomOut EventKind = "zoom_out"
)

// Event is one device-specific input event. X and Y are pointer coordinates
// in screen pixels relative to the aperture centre.
type Event struct {
	Kind      EventKind `json:"kind"`
	Device    Device    `json:"device"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	DeltaY    float64   `json:"delta_y,omitempty"`
	Precision bool      `json:"precision,omitempty"`
	Touches   int       `json:"touches,omitempty"`
}

// ActionKind is the device-independent gesture.
type ActionKind string

const (
	ActionNone    ActionKind = "none"
	ActionPress   ActionKind = "press"
	ActionPan     ActionKind = "pan"
	ActionRelease ActionKind = "release"
	ActionZoom    ActionKind = "zoom"
)

// Action is a normalised gesture: a pointer position for press/pan, or a
// zoom delta.
type Action struct {
	Kind  ActionKind
	Point types.Position
	Delta float64
}

// Zoom step sizes per discrete event.
const (
	CoarseZoomStep    = 0.1
	PrecisionZoomStep = 0.02
)

// Normalizer maps mouse, touch, wheel and button events onto Actions.
type Normalizer struct {
	// TouchPrimary halves zoom steps on touch-first devices.
	TouchPrimary bool
}

// Step returns the zoom increment for one discrete zoom event.
func (n Normalizer) Step(precision bool) float64 {
	step := CoarseZoomStep
	if precision {
		step = PrecisionZoomStep
	}
	if n.TouchPrimary {
		step /= 2
	}
	return step
}

// Normalize converts ev. Multi-touch events carry no gesture of their own and
// normalise to ActionNone.
func (n Normalizer) Normalize(ev Event) Action {
	if ev.Device == DeviceTouch && ev.Touches > 1 {
		return Action{Kind: ActionNone}
	}
	point := types.Position{X: ev.X, Y: ev.Y}

	switch ev.Kind {
	case EventDown:
		return Action{Kind: ActionPress, Point: point}
	case EventMove:
		return Action{Kind: ActionPan, Point: point}
	case EventUp, EventCancel:
		return Action{Kind: ActionRelease, Point: point}
	case EventWheel:
		switch {
		case ev.DeltaY < 0:
			return Action{Kind: ActionZoom, Delta: n.Step(ev.Precision)}
		case ev.DeltaY > 0:
			return Action{Kind: ActionZoom, Delta: -n.Step(ev.Precision)}
		}
	case EventZoomIn:
		return Action{Kind: ActionZoom, Delta: n.Step(ev.Precision)}
	case EventZoomOut:
		return Action{Kind: ActionZoom, Delta: -n.Step(ev.Precision)}
	}
	return Action{Kind: ActionNone}
}
