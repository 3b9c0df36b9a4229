package composite

import (
	"fmt"
	"log/slog"
)

// renderOrFallback runs render and returns its result. Any error or panic
// is logged and replaced by fallback(), which may itself be nil.
func renderOrFallback[T any](logger *slog.Logger, name string, render func() (T, error), fallback func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Render panicked, using fallback", "render", name, "panic", fmt.Sprint(r))
			out = fallback()
		}
	}()

	v, err := render()
	if err != nil {
		logger.Warn("Render failed, using fallback", "render", name, "error", err)
		return fallback()
	}
	return v
}
