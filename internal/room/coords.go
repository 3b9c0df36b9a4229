package room

import (
	_ "embed"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

//go:embed coords.yaml
var defaultCoords []byte

// Reference canvas the hand-authored boxes are measured against.
const (
	ReferenceWidth  = 800
	ReferenceHeight = 600
)

type boxEntry struct {
	Index  int     `yaml:"index"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type coordsFile struct {
	Reference struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"reference"`
	Rooms map[string][]boxEntry `yaml:"rooms"`
}

// Table maps (key, photo index) to a destination box on the reference canvas.
// Boxes use image orientation: Min is the top-left corner.
type Table struct {
	ref   orb.Bound
	boxes map[string]map[int]orb.Bound
}

// DefaultTable returns the embedded coordinate table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultCoords)
}

// LoadTable reads a coordinate table from disk.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinate table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable parses and validates a YAML coordinate table.
func ParseTable(data []byte) (*Table, error) {
	var f coordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse coordinate table: %w", err)
	}
	if f.Reference.Width <= 0 || f.Reference.Height <= 0 {
		f.Reference.Width, f.Reference.Height = ReferenceWidth, ReferenceHeight
	}

	t := &Table{
		ref:   orb.Bound{Max: orb.Point{f.Reference.Width, f.Reference.Height}},
		boxes: make(map[string]map[int]orb.Bound, len(f.Rooms)),
	}
	for key, entries := range f.Rooms {
		m := make(map[int]orb.Bound, len(entries))
		for _, e := range entries {
			if e.Index < 0 || e.Index >= PhotosPerKey {
				return nil, fmt.Errorf("room %q: photo index %d out of range", key, e.Index)
			}
			if e.Index == ExcludedIndex {
				return nil, fmt.Errorf("room %q: photo %d is never overlaid", key, e.Index)
			}
			if e.Width <= 0 || e.Height <= 0 {
				return nil, fmt.Errorf("room %q photo %d: empty box", key, e.Index)
			}
			b := orb.Bound{
				Min: orb.Point{e.X, e.Y},
				Max: orb.Point{e.X + e.Width, e.Y + e.Height},
			}
			if !t.ref.Contains(b.Min) || !t.ref.Contains(b.Max) {
				return nil, fmt.Errorf("room %q photo %d: box outside the reference canvas", key, e.Index)
			}
			m[e.Index] = b
		}
		t.boxes[key] = m
	}
	return t, nil
}

// Lookup returns the hand-authored box for a photo.
func (t *Table) Lookup(key string, index int) (orb.Bound, bool) {
	if t == nil {
		return orb.Bound{}, false
	}
	b, ok := t.boxes[key][index]
	return b, ok
}

// Scale maps a reference box onto a photo of the given pixel size.
func (t *Table) Scale(b orb.Bound, w, h int) image.Rectangle {
	sx := float64(w) / t.ref.Max[0]
	sy := float64(h) / t.ref.Max[1]
	return image.Rect(
		int(math.Round(b.Min[0]*sx)),
		int(math.Round(b.Min[1]*sy)),
		int(math.Round(b.Max[0]*sx)),
		int(math.Round(b.Max[1]*sy)),
	)
}

// preset is a proportional placement used when no box was authored.
type preset struct {
	cx, cy float64 // centre as a fraction of the photo
	fw     float64 // width as a fraction of the photo width
}

var presets = []preset{
	{cx: 0.50, cy: 0.36, fw: 0.16},
	{cx: 0.30, cy: 0.38, fw: 0.14},
	{cx: 0.70, cy: 0.38, fw: 0.14},
}

// PresetRect places a frame of the given height/width aspect on a w x h
// photo using the preset for index.
func PresetRect(index int, aspect float64, w, h int) image.Rectangle {
	p := presets[index%len(presets)]
	bw := p.fw * float64(w)
	bh := bw * aspect
	cx := p.cx * float64(w)
	cy := p.cy * float64(h)
	return image.Rect(
		int(math.Round(cx-bw/2)),
		int(math.Round(cy-bh/2)),
		int(math.Round(cx+bw/2)),
		int(math.Round(cy+bh/2)),
	)
}
