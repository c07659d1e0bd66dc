package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rook-computer/anchorlines/internal/app"
	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/settings"
	"github.com/rook-computer/anchorlines/internal/tui"
	"github.com/rook-computer/anchorlines/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	scenario := flag.String("scenario", "demo", "profile scenario to seed: demo | empty")
	root := flag.String("root", "/tmp/anchorlines-sim", "simulator state directory (profiles and settings)")
	width := flag.Int("width", 1920, "headless surface width")
	height := flag.Int("height", 1080, "headless surface height")
	useTUI := flag.Bool("tui", false, "show the overlay in the terminal; mouse moves the pointer")
	debugLog := flag.String("log", "", "write the app log to this file")
	flag.Parse()

	dir := filepath.Clean(*root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Println("simulator root error:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debugLog != "" {
		f, err := os.OpenFile(*debugLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Println("log open error:", err)
			os.Exit(2)
		}
		defer f.Close()
		logger = app.NewFileLogger(f)
	} else if !*useTUI {
		logger = app.NewFileLogger(os.Stdout)
	}

	cfg, err := settings.Open(filepath.Join(dir, settings.DefaultPath))
	if err != nil {
		fmt.Println("settings error:", err)
		os.Exit(2)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := profile.NewStore(filepath.Join(dir, profile.DefaultDir))
	pointer := input.NewPointer(image.Rectangle{})
	hotkeys := make(chan input.Command, 8)

	var renderer render.Renderer = &render.NoopRenderer{Rect: image.Rect(0, 0, *width, *height)}
	var term *tui.Terminal
	if *useTUI {
		term = tui.New()
		term.Logger = logger
		term.Pointer = pointer
		term.Commands = hotkeys
		renderer = term
	}

	a := app.New(renderer, store, cfg)
	a.Logger = logger
	a.Cursor = pointer
	a.Hotkeys = hotkeys
	a.Placed = pointer.SetBounds

	control := NewSimControl(a, pointer, hotkeys, *scenario)
	if err := control.SeedScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	if term != nil {
		term.Quit = func() { a.Exit(nil) }
		term.Status = func() []string { return a.Tray.Snapshot().Lines() }
		term.Resized = func(bounds image.Rectangle) {
			_ = a.Do(processCtx, func() { a.Overlay.Place(bounds) })
		}
	}

	mux := web.NewDefaultMux(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, a.APIDeps())
	registerSimEndpoints(mux, control)
	server := web.NewHTTPServer(*listenAddr, mux)
	server.Logger = logger
	a.Web = server

	if !*useTUI {
		fmt.Println("Anchorlines simulator listening on", trimLeadingColon(*listenAddr))
		fmt.Println("Scenario:", *scenario)
		fmt.Println("State:", dir)
		fmt.Println("API: http://" + trimLeadingColon(*listenAddr) + "/api/v1/")
	}

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

func trimLeadingColon(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
