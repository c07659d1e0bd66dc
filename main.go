package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/anchorlines/internal/app"
	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/settings"
	"github.com/rook-computer/anchorlines/internal/web"
)

func main() {
	fmt.Println("Anchorlines starting")

	defaults, err := web.DefaultServerConfigFromEnv(":80")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	debug := flag.Bool("debug", false, "enable debug logging to ./anchorlines-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via ANCHORLINES_STDIO_LOG")
	profilesDir := flag.String("profiles", profile.DefaultDir, "directory holding one file per profile")
	settingsPath := flag.String("settings", settings.PathFromEnv(), "settings file; also configurable via "+settings.EnvPath)
	listenAddr := flag.String("listen", defaults.ListenAddr, "settings panel listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "allow cross-origin panel requests; also configurable via "+web.EnvDevMode)
	flag.Parse()

	// The console may be left in graphics mode after a crash, so keep panics in a file.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("ANCHORLINES_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./anchorlines-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cfg, err := settings.Open(*settingsPath)
	if err != nil {
		fmt.Println("settings error:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.NewFBRenderer()
	store := profile.NewStore(*profilesDir)

	a := app.New(renderer, store, cfg)
	a.Logger = logger

	// The surface is only known once the framebuffer is open.
	pointer := input.NewPointer(image.Rectangle{})
	hotkeys := make(chan input.Command, 8)
	evdev := &input.Evdev{
		Logger:   logger,
		Pointer:  pointer,
		Commands: hotkeys,
		OnExit:   func() { a.Exit(nil) },
	}
	a.Cursor = pointer
	a.Hotkeys = hotkeys
	a.Placed = pointer.SetBounds

	mux := web.NewDefaultMux(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, a.APIDeps())
	server := web.NewHTTPServer(*listenAddr, mux)
	server.Logger = logger
	a.Web = server

	evdev.Start(ctx)

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	fmt.Println("Anchorlines stopped")
}
