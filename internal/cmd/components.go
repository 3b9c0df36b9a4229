package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/texture"
	"github.com/MeKo-Tech/photoframer/internal/worker"
	"github.com/spf13/viper"
)

// newCompositor builds the print/preview renderer from the shared flags.
func newCompositor() *composite.Compositor {
	lib := texture.NewLibrary(viper.GetString("textures_dir"), texture.DefaultParams, logger)
	return composite.New(composite.Config{
		PrintWidth:  viper.GetInt("print_width"),
		JPEGQuality: viper.GetInt("jpeg_quality"),
		Textures:    lib,
		Logger:      logger,
	})
}

// newRoomRenderer returns nil when the rooms directory does not exist, which
// disables room overlays.
func newRoomRenderer(workers int, onProgress worker.ProgressFunc) (*room.Renderer, error) {
	dir := viper.GetString("rooms_dir")
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		logger.Warn("Room photos not found, overlays disabled", "dir", dir)
		return nil, nil
	}

	var table *room.Table
	if path := viper.GetString("room_coords"); path != "" {
		t, err := room.LoadTable(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load room coordinates: %w", err)
		}
		table = t
	}

	return room.NewRenderer(room.Config{
		Dir:        dir,
		Table:      table,
		Workers:    workers,
		Logger:     logger,
		OnProgress: onProgress,
	})
}
