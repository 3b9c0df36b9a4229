package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MeKo-Tech/photoframer/internal/cart"
	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/studio"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// fail answers with the status matching a known error, 500 otherwise.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log().Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, code, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fit.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, fit.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, studio.ErrNoImage):
		return http.StatusConflict
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, studio.ErrOverlaysPending):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrNoCart), errors.Is(err, studio.ErrNoRooms):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
