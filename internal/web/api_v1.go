package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/panel"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
	"github.com/rook-computer/anchorlines/internal/tray"
)

const maxBodyBytes = 64 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type overlayResponse struct {
	Enabled  bool   `json:"enabled"`
	Inverted bool   `json:"inverted"`
	CursorX  int    `json:"cursorX"`
	CursorY  int    `json:"cursorY"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Scheme   string `json:"scheme"`
}

type stateResponse struct {
	Panel   panel.View      `json:"panel"`
	Tray    tray.Snapshot   `json:"tray"`
	Overlay overlayResponse `json:"overlay"`
}

type profileResponse struct {
	Name   string       `json:"name"`
	Active bool         `json:"active"`
	Fields panel.Fields `json:"fields"`
	Share  string       `json:"share"`
}

type boolRequest struct {
	Value *bool `json:"value"`
}

type intRequest struct {
	Value *int `json:"value"`
}

type createRequest struct {
	Name string `json:"name"`
}

type importRequest struct {
	Share string `json:"share"`
	Name  string `json:"name"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) { handleState(w, r, deps) })
	mux.HandleFunc("POST /enabled", func(w http.ResponseWriter, r *http.Request) {
		handleBool(w, r, deps, deps.Panel.ToggleEnabled)
	})
	mux.HandleFunc("POST /inverted", func(w http.ResponseWriter, r *http.Request) {
		handleBool(w, r, deps, deps.Panel.ToggleInverted)
	})
	mux.HandleFunc("POST /edit", func(w http.ResponseWriter, r *http.Request) { handleEdit(w, r, deps) })
	mux.HandleFunc("POST /screen", func(w http.ResponseWriter, r *http.Request) { handleScreen(w, r, deps) })
	mux.HandleFunc("PUT /scheme", func(w http.ResponseWriter, r *http.Request) { handleApply(w, r, deps) })
	mux.HandleFunc("GET /frame.png", func(w http.ResponseWriter, r *http.Request) { handleFramePNG(w, r, deps) })

	mux.HandleFunc("GET /profiles", func(w http.ResponseWriter, r *http.Request) { handleListProfiles(w, r, deps) })
	mux.HandleFunc("POST /profiles", func(w http.ResponseWriter, r *http.Request) { handleCreateProfile(w, r, deps) })
	mux.HandleFunc("POST /profiles/import", func(w http.ResponseWriter, r *http.Request) { handleImportProfile(w, r, deps) })
	mux.HandleFunc("DELETE /profiles/{name}", func(w http.ResponseWriter, r *http.Request) { handleDeleteProfile(w, r, deps) })
	mux.HandleFunc("POST /profiles/{name}/activate", func(w http.ResponseWriter, r *http.Request) {
		handleActivateProfile(w, r, deps)
	})
	mux.HandleFunc("GET /profiles/{name}/qr.png", func(w http.ResponseWriter, r *http.Request) { handleProfileQR(w, r, deps) })
	return mux
}

func handleState(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var resp stateResponse
	err := deps.Loop.Do(r.Context(), func() {
		resp.Panel = deps.Panel.View()
		resp.Tray = deps.Tray.Snapshot()
		resp.Overlay = overlaySummary(deps.Overlay.State(), deps.Overlay.Frame())
	})
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func overlaySummary(st state.RenderState, f render.Frame) overlayResponse {
	return overlayResponse{
		Enabled:  st.Enabled,
		Inverted: st.Inverted,
		CursorX:  st.Cursor.X,
		CursorY:  st.Cursor.Y,
		Width:    f.Width,
		Height:   f.Height,
		Scheme:   st.Scheme.Name,
	}
}

func handleBool(w http.ResponseWriter, r *http.Request, deps APIV1Deps, apply func(bool)) {
	var req boolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", "value is required")
		return
	}
	if err := deps.Loop.Do(r.Context(), func() { apply(*req.Value) }); err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleEdit(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req boolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", "value is required")
		return
	}
	runOnLoop(w, r, deps, http.StatusOK, func() error { return deps.Panel.SetEditEnabled(*req.Value) })
}

func handleScreen(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req intRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", "value is required")
		return
	}
	runOnLoop(w, r, deps, http.StatusOK, func() error { return deps.Panel.SelectScreen(*req.Value) })
}

func handleApply(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var f panel.Fields
	if !decodeBody(w, r, &f) {
		return
	}
	runOnLoop(w, r, deps, http.StatusOK, func() error { return deps.Panel.Apply(f) })
}

func handleListProfiles(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var (
		list   []scheme.Scheme
		active int
	)
	if err := deps.Loop.Do(r.Context(), func() {
		list = deps.Profiles.Profiles()
		active = deps.Profiles.ActiveIndex()
	}); err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}

	resp := make([]profileResponse, len(list))
	for i, s := range list {
		resp[i] = profileResponse{
			Name:   s.Name,
			Active: i == active,
			Fields: panel.FieldsFromScheme(s),
			Share:  scheme.ShareString(s),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleCreateProfile(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	runOnLoop(w, r, deps, http.StatusCreated, func() error { return deps.Panel.CreateProfile(req.Name) })
}

func handleImportProfile(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req importRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := scheme.ParseShareString(req.Share)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_share", err.Error())
		return
	}
	if req.Name != "" {
		s.Name = req.Name
	}
	runOnLoop(w, r, deps, http.StatusCreated, func() error { return deps.Profiles.ImportProfile(s) })
}

func handleDeleteProfile(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	name := r.PathValue("name")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	runOnLoop(w, r, deps, http.StatusOK, func() error { return deps.Panel.DeleteProfile(name, confirmed) })
}

func handleActivateProfile(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	name := r.PathValue("name")
	runOnLoop(w, r, deps, http.StatusOK, func() error {
		for i, s := range deps.Profiles.Profiles() {
			if s.Name == name {
				return deps.Panel.SelectProfile(i)
			}
		}
		return errProfileNotFound
	})
}

func handleProfileQR(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	name := r.PathValue("name")
	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 2048 {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", "size must be between 64 and 2048")
			return
		}
		size = n
	}

	var (
		found bool
		s     scheme.Scheme
	)
	if err := deps.Loop.Do(r.Context(), func() {
		for _, p := range deps.Profiles.Profiles() {
			if p.Name == name {
				s, found = p, true
				return
			}
		}
	}); err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	if !found {
		writeAPIError(w, http.StatusNotFound, "profile_not_found", "profile not found")
		return
	}

	img, err := render.ProfileQRCode(s, size)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	writePNG(w, img)
}

func handleFramePNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var (
		frame render.Frame
		st    state.RenderState
	)
	if err := deps.Loop.Do(r.Context(), func() {
		frame = deps.Overlay.Frame()
		st = deps.Overlay.State()
	}); err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		writeAPIError(w, http.StatusConflict, "no_surface", "overlay has no surface yet")
		return
	}

	img := render.Snapshot(frame, render.Background)
	if caption, _ := strconv.ParseBool(r.URL.Query().Get("caption")); caption {
		render.DrawCaption(img, render.CaptionLines(st)...)
	}
	writePNG(w, img)
}

var errProfileNotFound = errors.New("profile not found")

// runOnLoop runs fn on the app loop and maps its error to a response.
func runOnLoop(w http.ResponseWriter, r *http.Request, deps APIV1Deps, okStatus int, fn func() error) {
	var opErr error
	if err := deps.Loop.Do(r.Context(), func() { opErr = fn() }); err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	if opErr != nil {
		if deps.Logger != nil {
			deps.Logger.Errorf("web", "%s %s: %v", r.Method, r.URL.Path, opErr)
		}
		writeControlError(w, opErr)
		return
	}
	writeJSON(w, okStatus, okResponse{OK: true})
}

func writeControlError(w http.ResponseWriter, err error) {
	var (
		validation *control.ValidationError
		logic      *control.LogicError
		ioErr      *profile.IOError
	)
	switch {
	case errors.As(err, &validation):
		writeAPIError(w, http.StatusBadRequest, "invalid_request", validation.Error())
	case errors.Is(err, control.ErrCanceled):
		writeAPIError(w, http.StatusConflict, "confirmation_required", "pass confirm=true to delete")
	case errors.Is(err, errProfileNotFound):
		writeAPIError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.As(err, &logic):
		writeAPIError(w, http.StatusConflict, "conflict", logic.Error())
	case errors.As(err, &ioErr):
		writeAPIError(w, http.StatusInternalServerError, "io_failed", err.Error())
	default:
		writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", fmt.Sprintf("decode body: %v", err))
		return false
	}
	return true
}

func writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
