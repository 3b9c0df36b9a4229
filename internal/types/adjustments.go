package types

import "fmt"

// Adjustment slider bounds, in percent.
const (
	AdjustmentMin     = 0
	AdjustmentMax     = 200
	AdjustmentDefault = 100
)

// Adjustments holds the five tone sliders as integer percentages.
type Adjustments struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Highlights int `json:"highlights"`
	Shadows    int `json:"shadows"`
	Vibrance   int `json:"vibrance"`
}

// DefaultAdjustments returns every slider at 100%.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		Brightness: AdjustmentDefault,
		Contrast:   AdjustmentDefault,
		Highlights: AdjustmentDefault,
		Shadows:    AdjustmentDefault,
		Vibrance:   AdjustmentDefault,
	}
}

// Clamp limits every slider to the user range.
func (a Adjustments) Clamp() Adjustments {
	c := func(v int) int {
		if v < AdjustmentMin {
			return AdjustmentMin
		}
		if v > AdjustmentMax {
			return AdjustmentMax
		}
		return v
	}
	return Adjustments{
		Brightness: c(a.Brightness),
		Contrast:   c(a.Contrast),
		Highlights: c(a.Highlights),
		Shadows:    c(a.Shadows),
		Vibrance:   c(a.Vibrance),
	}
}

// Set updates one slider by name.
func (a *Adjustments) Set(name string, value int) error {
	switch name {
	case "brightness":
		a.Brightness = value
	case "contrast":
		a.Contrast = value
	case "highlights":
		a.Highlights = value
	case "shadows":
		a.Shadows = value
	case "vibrance":
		a.Vibrance = value
	default:
		return fmt.Errorf("unknown adjustment %q", name)
	}
	return nil
}
