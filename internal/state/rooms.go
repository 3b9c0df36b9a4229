package state

// RoomSlider is the presentation state of the in-room preview carousel.
type RoomSlider struct {
	CurrentIndex int      `json:"current_index"`
	Images       []string `json:"images"`
	FrameSizeKey string   `json:"frame_size_key"`
	IsActive     bool     `json:"is_active"`
}

// Reset points the slider at a new photo set and rewinds it.
func (r *RoomSlider) Reset(key string, images []string) {
	r.FrameSizeKey = key
	r.Images = append([]string(nil), images...)
	r.CurrentIndex = 0
}

// Next advances the slider, wrapping around.
func (r *RoomSlider) Next() int {
	if len(r.Images) == 0 {
		return 0
	}
	r.CurrentIndex = (r.CurrentIndex + 1) % len(r.Images)
	return r.CurrentIndex
}

// Prev moves the slider back, wrapping around.
func (r *RoomSlider) Prev() int {
	if len(r.Images) == 0 {
		return 0
	}
	r.CurrentIndex = (r.CurrentIndex - 1 + len(r.Images)) % len(r.Images)
	return r.CurrentIndex
}

// Select jumps to index i when it is in range.
func (r *RoomSlider) Select(i int) bool {
	if i < 0 || i >= len(r.Images) {
		return false
	}
	r.CurrentIndex = i
	return true
}
