package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/MeKo-Tech/photoframer/internal/types"
	"github.com/MeKo-Tech/photoframer/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms <image>",
	Short: "Render room mock-ups of a photo for every frame size",
	Args:  cobra.ExactArgs(1),
	RunE:  runRooms,
}

func init() {
	rootCmd.AddCommand(roomsCmd)

	roomsCmd.Flags().StringP("out", "o", "rooms-out", "Output directory (one folder per frame size)")
	roomsCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Number of parallel workers")
	roomsCmd.Flags().String("color", types.DefaultFrameColor, "Frame colour: palette name or #rrggbb")
	roomsCmd.Flags().String("texture", string(types.TextureSmooth), "Frame texture")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"rooms.out", "out"},
		{"rooms.workers", "workers"},
		{"rooms.color", "color"},
		{"rooms.texture", "texture"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, roomsCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRooms(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	outDir := viper.GetString("rooms.out")
	sizes := types.AllFrameSizes()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	total := len(sizes) * room.PhotosPerKey
	progress := worker.NewTerminalProgress(total)
	failed := 0

	rooms, err := newRoomRenderer(viper.GetInt("rooms.workers"), progress.Callback())
	if err != nil {
		return err
	}
	if rooms == nil {
		return studio.ErrNoRooms
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	compositor := newCompositor()
	sess := studio.NewSession("rooms", studio.Config{Compositor: compositor, Logger: logger})
	defer sess.Close()

	if err := sess.SetFrameColor(viper.GetString("rooms.color")); err != nil {
		return err
	}
	if err := sess.SetFrameTexture(viper.GetString("rooms.texture")); err != nil {
		return err
	}
	if err := sess.UploadAndWait(ctx, data); err != nil {
		return err
	}

	logger.Info("Rendering room mock-ups", "frame_sizes", len(sizes), "photos", total)
	for _, fs := range sizes {
		if err := sess.SetFrameSize(fs); err != nil {
			return err
		}
		st := sess.State()
		var geom *composite.Geometry
		if g, err := composite.GeometryFromState(st); err == nil {
			geom = &g
		}

		photos, err := rooms.Render(ctx, fs, compositor.OverlaySource(st, geom))
		if err != nil {
			failed += room.PhotosPerKey
			progress.Fail(room.Key(fs), room.PhotosPerKey)
			logger.Error("Room render failed", "key", room.Key(fs), "error", err)
			continue
		}

		dir := filepath.Join(outDir, room.Key(fs))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for i, photo := range photos {
			if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.jpg", i)), photo, 0o644); err != nil {
				return fmt.Errorf("failed to write room photo: %w", err)
			}
		}
	}
	progress.Done()
	logger.Info(progress.Summary())

	if failed > 0 {
		return fmt.Errorf("%d room photos failed to render", failed)
	}
	return nil
}
