// Package room composites the framed preview onto reference room photos.
package room

import (
	"strings"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

const (
	// PhotosPerKey is the fixed number of reference photos per frame key.
	PhotosPerKey = 5
	// ExcludedIndex is the photo that is always shown without an overlay.
	ExcludedIndex = 4
)

// Key returns the photo-set folder for a frame size, e.g. "13x19 Portrait".
// The 13x10 portrait set was shot as "13x10 Vertical".
func Key(fs types.FrameSize) string {
	if fs.Size == types.Size13x10 && fs.Orientation == types.Portrait {
		return "13x10 Vertical"
	}
	o := string(fs.Orientation)
	if o != "" {
		o = strings.ToUpper(o[:1]) + o[1:]
	}
	return string(fs.Size) + " " + o
}

// Keys returns the keys of every supported frame size.
func Keys() []string {
	all := types.AllFrameSizes()
	keys := make([]string, 0, len(all))
	for _, fs := range all {
		keys = append(keys, Key(fs))
	}
	return keys
}
