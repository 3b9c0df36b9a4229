//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"syscall/js"

	"github.com/MeKo-Tech/photoframer/internal/filter"
	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/transform"
	"github.com/MeKo-Tech/photoframer/internal/types"
)

// FitRequest describes an uploaded photo and the frame it goes into.
type FitRequest struct {
	ImageWidth    float64         `json:"imageWidth"`
	ImageHeight   float64         `json:"imageHeight"`
	FrameSize     types.FrameSize `json:"frameSize"`
	ViewportWidth float64         `json:"viewportWidth"`
}

type FitResponse struct {
	Viewport    types.Viewport `json:"viewport"`
	InitialZoom float64        `json:"initialZoom"`
	MinZoom     float64        `json:"minZoom"`
	MaxZoom     float64        `json:"maxZoom"`
	Price       int            `json:"price"`
	RoomKey     string         `json:"roomKey"`
}

// fitImage lets the page lay out the photo without a server round trip; the
// server applies the same math when the upload arrives.
func fitImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing arguments")
	}

	var req FitRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorResult(fmt.Sprintf("failed to parse request: %v", err))
	}
	if err := req.FrameSize.Validate(); err != nil {
		return errorResult(err.Error())
	}
	price, err := state.PriceFor(req.FrameSize.Size)
	if err != nil {
		return errorResult(err.Error())
	}

	v := types.ViewportFor(req.FrameSize, req.ViewportWidth)
	minZoom := fit.MinZoom(req.ImageWidth, req.ImageHeight, v)
	return encode(FitResponse{
		Viewport:    v,
		InitialZoom: fit.InitialZoom(req.ImageWidth, req.ImageHeight, v),
		MinZoom:     minZoom,
		MaxZoom:     math.Max(transform.MaxZoom, minZoom),
		Price:       price,
		RoomKey:     room.Key(req.FrameSize),
	})
}

// filterCSS maps slider values onto the CSS filter of the live preview.
func filterCSS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing arguments")
	}

	adj := types.DefaultAdjustments()
	if err := json.Unmarshal([]byte(args[0].String()), &adj); err != nil {
		return errorResult(fmt.Sprintf("failed to parse adjustments: %v", err))
	}
	return filter.Compose(adj.Clamp()).CSS()
}

func encode(v any) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(data)
}

func errorResult(msg string) interface{} {
	return map[string]interface{}{"error": msg}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("photoframerFit", js.FuncOf(fitImage))
	js.Global().Set("photoframerFilterCSS", js.FuncOf(filterCSS))

	fmt.Println("PhotoFramer WASM module loaded")
	<-c
}
