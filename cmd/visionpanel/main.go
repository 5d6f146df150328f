package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/visionpanel/internal/backend"
	"github.com/ayusman/visionpanel/internal/capture"
	"github.com/ayusman/visionpanel/internal/command"
	"github.com/ayusman/visionpanel/internal/config"
	"github.com/ayusman/visionpanel/internal/detector"
	"github.com/ayusman/visionpanel/internal/events"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/store"
	"github.com/ayusman/visionpanel/internal/tray"
	"github.com/ayusman/visionpanel/internal/webui"
)

func main() {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the backend and browser panel")
	flag.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "backend base URL for the panel (default: the local backend)")
	flag.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera device ID")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory for the database and captures")
	flag.BoolVar(&cfg.Tray, "tray", cfg.Tray, "also run the system tray panel")
	flag.IntVar(&cfg.TrayViewport, "viewport", cfg.TrayViewport, "viewport width reported by the tray panel")
	flag.Float64Var(&cfg.MotionThresh, "motion", cfg.MotionThresh, "percentage of changed pixels that counts as motion")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info or error")
	flag.Parse()

	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	fmt.Println("VisionPanel - camera stream control panel")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logging.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logging.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if saved, err := st.Settings().All(); err != nil {
		logging.Errorf("failed to read saved settings: %v", err)
	} else if len(saved) > 0 {
		logging.Infof("Restoring saved settings: %v", saved)
	}
	state := backend.NewState(st.Settings())
	frames := backend.NewFrameBuffer()
	defer frames.Close()

	captures := backend.NewCaptures(cfg.CaptureDir(), st.Captures(), cfg.CaptureMaxAge, nil)
	if _, err := captures.Prune(); err != nil {
		logging.Errorf("capture prune failed: %v", err)
	}
	if kept, err := st.Captures().List(); err == nil {
		logging.Infof("%d captures in %s", len(kept), cfg.CaptureDir())
	}

	det := detector.NewMotionDetector(detector.Config{Threshold: cfg.MotionThresh})
	defer det.Close()

	hub := events.NewHub()
	pipeline := backend.NewPipeline(backend.PipelineConfig{
		Camera:   capture.NewCamera(cfg.CameraID),
		Detector: det,
		State:    state,
		Frames:   frames,
		Events:   hub,
	})

	commands := command.NewClient(cfg.PanelBackendURL(), &http.Client{Timeout: 10 * time.Second})
	ui := webui.NewHandler(webui.Config{Commands: commands})

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: backend.New(backend.Config{
			State:    state,
			Frames:   frames,
			Captures: captures,
			Detector: det,
			Events:   hub,
			Panel:    ui,
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Infof("Starting server on %s (panel backend %s)", cfg.Addr, commands.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// The panel stays usable without a camera.
		if err := pipeline.Start(); err != nil {
			logging.Errorf("Camera unavailable: %v", err)
			return nil
		}
		<-ctx.Done()
		pipeline.Stop()
		return nil
	})

	if cfg.Tray {
		t := tray.New(tray.Config{
			Commands:      commands,
			ViewportWidth: cfg.TrayViewport,
			PanelURL:      cfg.LocalURL() + "/",
		})
		t.OnQuit(stop)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// systray needs the main goroutine.
		t.Run()
		stop()
	}

	if err := g.Wait(); err != nil {
		logging.Fatalf("%v", err)
	}
}
