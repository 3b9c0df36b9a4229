// Package cart stores composed frames until checkout.
package cart

import (
	"errors"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// ErrNotFound is returned when a cart record does not exist.
var ErrNotFound = errors.New("cart record not found")

// Record is one framed print in the cart. Images are base64 data URIs so the
// record can travel as JSON to fulfilment and admin viewers.
type Record struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"sessionId,omitempty"`
	PrintImage   string            `json:"printImage"`
	PreviewImage string            `json:"previewImage"`
	FrameSize    types.FrameSize   `json:"frameSize"`
	FrameColor   string            `json:"frameColor"`
	FrameTexture types.Texture     `json:"frameTexture"`
	Adjustments  types.Adjustments `json:"adjustments"`
	Zoom         float64           `json:"zoom"`
	Position     types.Position    `json:"position"`
	Price        int               `json:"price"`
	Timestamp    time.Time         `json:"timestamp"`
}
