package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rook-computer/anchorlines/internal/app"
	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/tray"
)

// SimControl stands in for the desktop: it moves the pointer, presses
// hotkeys, clicks tray entries and reshapes the profile directory.
type SimControl struct {
	app      *app.App
	pointer  *input.Pointer
	hotkeys  chan<- input.Command
	scenario atomic.Value // string
	startup  string
}

func NewSimControl(a *app.App, pointer *input.Pointer, hotkeys chan<- input.Command, startup string) *SimControl {
	startup = strings.TrimSpace(startup)
	if startup == "" {
		startup = "demo"
	}
	c := &SimControl{app: a, pointer: pointer, hotkeys: hotkeys, startup: startup}
	c.scenario.Store(startup)
	return c
}

// SeedScenario writes the profile files for name without touching the app.
func (c *SimControl) SeedScenario(name string) error {
	store := c.app.Store
	existing, err := store.List()
	if err != nil {
		return err
	}
	switch name {
	case "empty":
		for _, s := range existing {
			if err := store.Delete(s.Name); err != nil {
				return err
			}
		}
	case "demo", "":
		for _, s := range demoProfiles() {
			if err := store.Save(s); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.scenario.Store(name)
	return nil
}

// ApplyScenario seeds name and makes the running app pick it up.
func (c *SimControl) ApplyScenario(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startup
	}
	if err := c.SeedScenario(name); err != nil {
		return err
	}
	var refreshErr error
	if err := c.app.Do(ctx, func() { refreshErr = c.app.Controller.RefreshProfiles() }); err != nil {
		return err
	}
	return refreshErr
}

func demoProfiles() []scheme.Scheme {
	thin := scheme.Default().WithName("thin")
	thin.HLineWidth, thin.VLineWidth = 1, 1
	thin.HLineColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	thin.VLineColor = thin.HLineColor

	wide := scheme.Default().WithName("wide")
	wide.HLineWidth, wide.VLineWidth = 9, 9
	wide.HLineColor = color.NRGBA{R: 0xe0, G: 0x30, B: 0x30, A: 0x80}
	wide.VLineColor = wide.HLineColor

	return []scheme.Scheme{scheme.Default().WithName("anchorlines"), thin, wide}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("POST /sim/scenario/{name}", func(w http.ResponseWriter, r *http.Request) {
		if err := control.ApplyScenario(r.Context(), r.PathValue("name")); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.scenario.Load()})
	})

	mux.HandleFunc("POST /sim/cursor", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			X *int `json:"x"`
			Y *int `json:"y"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.X == nil || body.Y == nil {
			writeSimError(w, http.StatusBadRequest, "x and y are required")
			return
		}
		control.pointer.Set(image.Pt(*body.X, *body.Y))
		p := control.pointer.Position()
		writeSimJSON(w, http.StatusOK, map[string]any{"x": p.X, "y": p.Y})
	})

	mux.HandleFunc("POST /sim/hotkey/{command}", func(w http.ResponseWriter, r *http.Request) {
		cmd, err := input.ParseCommand(r.PathValue("command"))
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		select {
		case control.hotkeys <- cmd:
		case <-r.Context().Done():
			writeSimError(w, http.StatusServiceUnavailable, "hotkey queue busy")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "command": cmd.String()})
	})

	mux.HandleFunc("GET /sim/tray", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, control.app.Tray.Snapshot())
	})

	mux.HandleFunc("POST /sim/tray/{action}", func(w http.ResponseWriter, r *http.Request) {
		action, err := tray.ParseAction(r.PathValue("action"))
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		if action == tray.Profile {
			index, convErr := strconv.Atoi(r.URL.Query().Get("index"))
			if convErr != nil {
				writeSimError(w, http.StatusBadRequest, "index must be an integer")
				return
			}
			err = control.app.Tray.ClickProfile(index)
		} else {
			err = control.app.Tray.Click(action)
		}
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
