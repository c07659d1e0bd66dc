package app

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"time"

	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/panel"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/settings"
	"github.com/rook-computer/anchorlines/internal/system"
	"github.com/rook-computer/anchorlines/internal/tray"
	"github.com/rook-computer/anchorlines/internal/web"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("app loop stopped")

// CursorSource reports the global pointer position.
type CursorSource interface {
	Position() image.Point
}

// App owns the overlay and the controller and runs the single loop that
// touches them: pointer ticks, hotkeys, tray clicks, profile directory
// changes and work queued through Do all run there.
type App struct {
	Render     render.Renderer
	Web        web.Server
	Store      *profile.Store
	Settings   *settings.Settings
	Overlay    *render.Overlay
	Controller *control.Controller
	Panel      *panel.Panel
	Tray       *tray.Menu
	Cursor     CursorSource
	Hotkeys    <-chan input.Command
	Logger     Logger
	// Placed is called with the renderer surface once it is known.
	Placed func(bounds image.Rectangle)

	// TickInterval is the pointer polling cadence.
	TickInterval time.Duration
	// WatchProfiles refreshes the profile list when files change on disk.
	WatchProfiles bool

	work    chan func()
	done    chan struct{}
	running atomic.Bool

	exitOnce atomic.Bool
	exitCh   chan error
}

// New wires the overlay, controller, settings panel and tray menu around a
// renderer, a profile store and the configuration.
func New(renderer render.Renderer, store *profile.Store, cfg *settings.Settings) *App {
	overlay := render.NewOverlay(image.Rectangle{}, nil)
	menu := tray.NewMenu()
	p := panel.New()

	ctrl := control.New(overlay, store, cfg)
	ctrl.Tray = menu
	ctrl.Panel = p
	ctrl.Confirm = p.Confirm
	p.Controller = ctrl

	app := &App{
		Render:        renderer,
		Web:           &web.NoopServer{},
		Store:         store,
		Settings:      cfg,
		Overlay:       overlay,
		Controller:    ctrl,
		Panel:         p,
		Tray:          menu,
		Logger:        NoopLogger{},
		TickInterval:  render.TickInterval,
		WatchProfiles: true,
		work:          make(chan func()),
		done:          make(chan struct{}),
		exitCh:        make(chan error, 1),
	}
	ctrl.Listener = control.Listeners{p, screenLogger{app: app}}
	return app
}

// APIDeps are the settings panel API dependencies, all routed through Do.
func (app *App) APIDeps() web.APIV1Deps {
	return web.APIV1Deps{
		Loop:     app,
		Panel:    app.Panel,
		Profiles: app.Controller,
		Overlay:  app.Overlay,
		Tray:     app.Tray,
		Logger:   app.Logger,
	}
}

// Do runs fn on the app loop and waits for it.
func (app *App) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}
	select {
	case app.work <- job:
	case <-app.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Exit requests the loop to stop. Only the first call counts.
func (app *App) Exit(err error) {
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start brings up the renderer, restores state, starts the settings panel and
// runs the loop until ctx is done or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return errors.New("app already started")
	}
	defer close(app.done)

	if app.Render == nil {
		app.Render = render.NewFBRenderer()
	}
	fb, onFramebuffer := app.Render.(*render.FBRenderer)
	if onFramebuffer {
		fb.Logger = app.Logger
	}
	app.Controller.Logger = app.Logger
	if app.Store != nil {
		app.Store.Logger = app.Logger
	}

	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer app.Render.Stop()

	if onFramebuffer {
		// Switch console to KD_GRAPHICS so the text console does not bleed through.
		_ = system.SetGraphicsModeWithLog(app.Logger)
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	bounds := app.Render.Bounds()
	app.Overlay.Place(bounds)
	app.Overlay.SetPresenter(app.Render)
	app.Logger.Infof("app", "overlay surface %v", bounds)
	if app.Placed != nil {
		app.Placed(bounds)
	}

	if err := app.Controller.Init(); err != nil {
		app.Logger.Errorf("app", "load profiles: %v", err)
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
		} else {
			defer app.Web.Stop()
		}
	}

	var changes <-chan struct{}
	if app.WatchProfiles && app.Store != nil {
		ch, err := app.Store.Watch(ctx)
		if err != nil {
			app.Logger.Errorf("app", "watch profiles: %v", err)
		}
		changes = ch
	}

	return app.loop(ctx, changes)
}

func (app *App) loop(ctx context.Context, changes <-chan struct{}) error {
	interval := app.TickInterval
	if interval <= 0 {
		interval = render.TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	trayEvents := app.Tray.Events()
	hotkeys := app.Hotkeys

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case <-ticker.C:
			if app.Cursor != nil {
				app.Overlay.OnCursorTick(app.Cursor.Position())
			}
		case cmd, ok := <-hotkeys:
			if !ok {
				hotkeys = nil
				continue
			}
			if err := app.Controller.HandleHotkey(cmd); err != nil {
				app.Logger.Infof("app", "hotkey %v: %v", cmd, err)
			}
		case ev, ok := <-trayEvents:
			if !ok {
				trayEvents = nil
				continue
			}
			app.handleTray(ev)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if err := app.Controller.RefreshProfiles(); err != nil {
				app.Logger.Errorf("app", "refresh profiles: %v", err)
			}
		case job := <-app.work:
			job()
		}
	}
}

func (app *App) handleTray(ev tray.Event) {
	c := app.Controller
	switch ev.Action {
	case tray.Enabled:
		c.SetEnabled(control.OriginTrayAction, ev.Checked)
	case tray.Inverted:
		c.SetInverted(control.OriginTrayAction, ev.Checked)
	case tray.HLine:
		if c.ToggleHLine(control.OriginTrayAction) != ev.Checked {
			app.resyncLineChecks()
		}
	case tray.VLine:
		if c.ToggleVLine(control.OriginTrayAction) != ev.Checked {
			app.resyncLineChecks()
		}
	case tray.Profile:
		if err := c.Activate(control.OriginTrayAction, ev.Index); err != nil {
			app.Tray.SetActiveProfile(c.ActiveIndex())
		}
	case tray.Exit:
		app.Logger.Infof("app", "exit requested from tray")
		app.Exit(nil)
	}
}

// resyncLineChecks fixes a tray whose check marks drifted from the overlay.
func (app *App) resyncLineChecks() {
	sc := app.Overlay.State().Scheme
	app.Tray.SetLineChecks(sc.HLineEnabled, sc.VLineEnabled)
}

// screenLogger records screen changes. The overlay always spans the whole
// surface the renderer reports, so nothing moves.
type screenLogger struct{ app *App }

func (l screenLogger) OnProfilesChanged(profiles []scheme.Scheme) {
	l.app.Logger.Infof("app", "%d profiles", len(profiles))
}

func (l screenLogger) OnSchemeActivated(s scheme.Scheme) {}

func (l screenLogger) OnScreenChanged(index int) {
	l.app.Logger.Infof("app", "screen %d selected, overlay spans %v", index, l.app.Overlay.Bounds())
}
