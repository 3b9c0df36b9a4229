package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/cart"
	"github.com/MeKo-Tech/photoframer/internal/fit"
	"github.com/MeKo-Tech/photoframer/internal/server"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the framing API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("cart-db", "photoframer.db", "SQLite database holding cart items")
	serveCmd.Flags().Int("max-concurrent-renders", runtime.NumCPU(), "Max concurrent print compositions (default: number of CPUs)")
	serveCmd.Flags().Duration("render-timeout", 30*time.Second, "Timeout per composition")
	serveCmd.Flags().Int64("max-upload-mb", 32, "Largest accepted upload in MiB")
	serveCmd.Flags().Int("room-workers", 2, "Parallel renders per room overlay set")
	serveCmd.Flags().Bool("touch-primary", false, "Use the finer zoom step of touch-first devices")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.cart_db", "cart-db")
	mustBind("serve.max_concurrent_renders", "max-concurrent-renders")
	mustBind("serve.render_timeout", "render-timeout")
	mustBind("serve.max_upload_mb", "max-upload-mb")
	mustBind("serve.room_workers", "room-workers")
	mustBind("serve.touch_primary", "touch-primary")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	cartPath := viper.GetString("serve.cart_db")
	maxConc := viper.GetInt("serve.max_concurrent_renders")
	renderTimeout := viper.GetDuration("serve.render_timeout")
	maxUpload := viper.GetInt64("serve.max_upload_mb") << 20

	store, err := cart.Open(cartPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rooms, err := newRoomRenderer(viper.GetInt("serve.room_workers"), nil)
	if err != nil {
		return err
	}

	sessions := studio.NewManager(studio.Config{
		Fit:          fit.NewEngine(fit.Config{Logger: logger, MaxBytes: maxUpload}),
		Compositor:   newCompositor(),
		Rooms:        rooms,
		Cart:         store,
		TouchPrimary: viper.GetBool("serve.touch_primary"),
		Logger:       logger,
	})
	defer sessions.Close()

	srv, err := server.New(server.Config{
		Sessions:             sessions,
		Cart:                 store,
		MaxConcurrentRenders: maxConc,
		RenderTimeout:        renderTimeout,
		MaxUploadBytes:       maxUpload,
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("framing server starting",
		"addr", addr,
		"cart_db", cartPath,
		"rooms", rooms != nil,
		"max_concurrent_renders", maxConc,
	)
	return srv.ListenAndServe(ctx, addr)
}
