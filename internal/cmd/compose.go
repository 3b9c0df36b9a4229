package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/MeKo-Tech/photoframer/internal/transform"
	"github.com/MeKo-Tech/photoframer/internal/types"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var composeCmd = &cobra.Command{
	Use:   "compose <image>",
	Short: "Compose a print and framed preview from a photo",
	Long: `Compose fits the photo into the chosen frame, applies the tone adjustments
and writes the print JPEG, the framed preview and, with --rooms, the room
mock-ups to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().String("size", "13x19", "Frame size (13x19, 13x10)")
	composeCmd.Flags().String("orientation", "portrait", "Frame orientation (portrait, landscape)")
	composeCmd.Flags().String("color", types.DefaultFrameColor, "Frame colour: palette name or #rrggbb")
	composeCmd.Flags().String("texture", string(types.TextureSmooth), "Frame texture (smooth, wood, linen, matte)")
	composeCmd.Flags().String("adjust", "", "Tone adjustments, e.g. \"brightness=120,contrast=90\"")
	composeCmd.Flags().Float64("zoom", 0, "Zoom after fitting (0 keeps the initial fit)")
	composeCmd.Flags().Float64("pan-x", 0, "Horizontal drag in screen pixels")
	composeCmd.Flags().Float64("pan-y", 0, "Vertical drag in screen pixels")
	composeCmd.Flags().Float64("viewport-width", types.DefaultViewportWidth, "On-screen aperture width the zoom and pan refer to")
	composeCmd.Flags().StringP("out", "o", "out", "Output directory")
	composeCmd.Flags().Bool("rooms", false, "Also render the room mock-ups")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"compose.size", "size"},
		{"compose.orientation", "orientation"},
		{"compose.color", "color"},
		{"compose.texture", "texture"},
		{"compose.adjust", "adjust"},
		{"compose.zoom", "zoom"},
		{"compose.pan_x", "pan-x"},
		{"compose.pan_y", "pan-y"},
		{"compose.viewport_width", "viewport-width"},
		{"compose.out", "out"},
		{"compose.rooms", "rooms"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, composeCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runCompose(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	fs := types.FrameSize{
		Size:        types.Size(viper.GetString("compose.size")),
		Orientation: types.Orientation(viper.GetString("compose.orientation")),
	}
	adj, err := parseAdjustments(viper.GetString("compose.adjust"))
	if err != nil {
		return err
	}
	outDir := viper.GetString("compose.out")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	var rooms *room.Renderer
	if viper.GetBool("compose.rooms") {
		if rooms, err = newRoomRenderer(room.PhotosPerKey, nil); err != nil {
			return err
		}
		if rooms == nil {
			return studio.ErrNoRooms
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := studio.NewSession("cli", studio.Config{
		Compositor: newCompositor(),
		Rooms:      rooms,
		Logger:     logger,
	})
	defer sess.Close()

	if err := sess.SetFrameSize(fs); err != nil {
		return err
	}
	if err := sess.SetFrameColor(viper.GetString("compose.color")); err != nil {
		return err
	}
	if err := sess.SetFrameTexture(viper.GetString("compose.texture")); err != nil {
		return err
	}
	sess.SetAdjustments(adj)
	if err := sess.SetViewport(types.ViewportFor(fs, viper.GetFloat64("compose.viewport_width"))); err != nil {
		return err
	}
	if err := sess.UploadAndWait(ctx, data); err != nil {
		return err
	}

	if z := viper.GetFloat64("compose.zoom"); z > 0 {
		if _, err := sess.Zoom(z); err != nil {
			return err
		}
	}
	if dx, dy := viper.GetFloat64("compose.pan_x"), viper.GetFloat64("compose.pan_y"); dx != 0 || dy != 0 {
		drag(sess, dx, dy)
	}

	// The CLI has no live page to measure, so the preview is laid out from state.
	if g, err := composite.GeometryFromState(sess.State()); err == nil {
		sess.SetGeometry(&g)
	}

	art, err := sess.ComposeForCart(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeArtifact(outDir, "print", art.Print); err != nil {
		return err
	}
	if err := writeArtifact(outDir, "preview", art.Preview); err != nil {
		return err
	}

	if rooms != nil {
		if err := sess.RenderOverlays(ctx); err != nil {
			return fmt.Errorf("failed to render room overlays: %w", err)
		}
		for i := 0; i < room.PhotosPerKey; i++ {
			photo, _, err := sess.Overlay(i)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, fmt.Sprintf("room_%d.jpg", i))
			if err := os.WriteFile(path, photo, 0o644); err != nil {
				return fmt.Errorf("failed to write room photo: %w", err)
			}
		}
	}

	snap := sess.Snapshot()
	logger.Info("Composition complete",
		"frame", fs.String(),
		"price", snap.Price,
		"zoom", *snap.Zoom,
		"position", snap.Position,
		"out", outDir,
	)
	return nil
}

// drag replays a mouse drag of (dx, dy) screen pixels through the gesture
// engine, so the result is damped and snapped back like a live drag.
func drag(sess *studio.Session, dx, dy float64) {
	sess.HandleEvent(transform.Event{Kind: transform.EventDown, Device: transform.DeviceMouse})
	sess.HandleEvent(transform.Event{Kind: transform.EventMove, Device: transform.DeviceMouse, X: dx, Y: dy})
	sess.HandleEvent(transform.Event{Kind: transform.EventUp, Device: transform.DeviceMouse, X: dx, Y: dy})
}

func writeArtifact(dir, name string, a *composite.Artifact) error {
	ext := ".jpg"
	if a.MIME == "image/png" {
		ext = ".png"
	}
	path := filepath.Join(dir, name+ext)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	logger.Info("Wrote artifact", "path", path, "size", humanize.Bytes(uint64(len(a.Data))))
	return nil
}

// parseAdjustments parses "name=value" pairs separated by commas, starting
// from the defaults.
func parseAdjustments(s string) (types.Adjustments, error) {
	adj := types.DefaultAdjustments()
	if strings.TrimSpace(s) == "" {
		return adj, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return adj, fmt.Errorf("invalid adjustment %q: expected name=value", part)
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return adj, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		if err := adj.Set(strings.ToLower(strings.TrimSpace(name)), v); err != nil {
			return adj, err
		}
	}
	return adj, nil
}
