package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/panel"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/settings"
	"github.com/rook-computer/anchorlines/internal/tray"
)

type testEnv struct {
	srv     *httptest.Server
	overlay *render.Overlay
	menu    *tray.Menu
	ctrl    *control.Controller
	store   *profile.Store
}

func newTestEnv(t *testing.T, names ...string) *testEnv {
	t.Helper()
	store := profile.NewStore(t.TempDir())
	for _, n := range names {
		if err := store.Save(scheme.Default().WithName(n)); err != nil {
			t.Fatal(err)
		}
	}

	overlay := render.NewOverlay(image.Rect(0, 0, 320, 200), nil)
	menu := tray.NewMenu()
	p := panel.New()
	ctrl := control.New(overlay, store, settings.InMemory(settings.Defaults()))
	ctrl.Tray = menu
	ctrl.Panel = p
	ctrl.Listener = control.Listeners{p}
	ctrl.Confirm = p.Confirm
	p.Controller = ctrl
	if err := ctrl.Init(); err != nil {
		t.Fatal(err)
	}

	mux := NewDefaultMux(ServerConfig{}, APIV1Deps{
		Panel:    p,
		Profiles: ctrl,
		Overlay:  overlay,
		Tray:     menu,
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, overlay: overlay, menu: menu, ctrl: ctrl, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestStateEndpoint(t *testing.T) {
	e := newTestEnv(t, "alpha")
	resp := e.do(t, http.MethodGet, "/api/v1/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got stateResponse
	decodeJSON(t, resp, &got)
	if !got.Panel.Enabled || got.Panel.CurrentName != "alpha" || !got.Panel.EditEnabled {
		t.Fatalf("panel = %+v", got.Panel)
	}
	if len(got.Tray.Profiles) != 1 || !got.Tray.Profiles[0].Checked {
		t.Fatalf("tray = %+v", got.Tray)
	}
	if got.Overlay.Width != 320 || got.Overlay.Scheme != "alpha" {
		t.Fatalf("overlay = %+v", got.Overlay)
	}
}

func TestTogglesFromPanelReachTray(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/api/v1/inverted", map[string]bool{"value": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !e.overlay.State().Inverted || !e.menu.Snapshot().Inverted {
		t.Fatal("inverted not applied")
	}

	resp = e.do(t, http.MethodPost, "/api/v1/enabled", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing value: status %d", resp.StatusCode)
	}
}

func TestProfileLifecycle(t *testing.T) {
	e := newTestEnv(t, "a")

	if resp := e.do(t, http.MethodPost, "/api/v1/profiles", createRequest{Name: "b"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPost, "/api/v1/profiles", createRequest{Name: "b"}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate create: %d", resp.StatusCode)
	}

	var list []profileResponse
	decodeJSON(t, e.do(t, http.MethodGet, "/api/v1/profiles", nil), &list)
	if len(list) != 2 || !list[1].Active || list[1].Name != "b" {
		t.Fatalf("list = %+v", list)
	}

	if resp := e.do(t, http.MethodPost, "/api/v1/profiles/a/activate", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("activate: %d", resp.StatusCode)
	}
	if e.ctrl.ActiveIndex() != 0 {
		t.Fatal("a not active")
	}
	if resp := e.do(t, http.MethodPost, "/api/v1/profiles/zzz/activate", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("activate missing: %d", resp.StatusCode)
	}

	if resp := e.do(t, http.MethodDelete, "/api/v1/profiles/a", nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("unconfirmed delete: %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodDelete, "/api/v1/profiles/a?confirm=true", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	names := e.ctrl.ProfileNames()
	if len(names) != 1 || names[0] != "b" || e.ctrl.ActiveIndex() != 0 {
		t.Fatalf("after delete: %v active=%d", names, e.ctrl.ActiveIndex())
	}
}

func TestApplyScheme(t *testing.T) {
	e := newTestEnv(t, "a")

	f := panel.FieldsFromScheme(scheme.Default())
	f.VLineWidth = 5
	f.VLineColor = "#ff0000"
	if resp := e.do(t, http.MethodPut, "/api/v1/scheme", f); resp.StatusCode != http.StatusOK {
		t.Fatalf("apply: %d", resp.StatusCode)
	}
	stored, err := e.store.Load("a")
	if err != nil {
		t.Fatal(err)
	}
	if stored.VLineWidth != 5 || stored.VLineColor.R != 0xff {
		t.Fatalf("stored = %+v", stored)
	}

	f.HLineOpacity = 300
	if resp := e.do(t, http.MethodPut, "/api/v1/scheme", f); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid opacity: %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPut, "/api/v1/scheme", map[string]int{"bogus": 1}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: %d", resp.StatusCode)
	}
}

func TestImportProfile(t *testing.T) {
	e := newTestEnv(t)
	s := scheme.Default().WithName("shared")
	s.HLineWidth = 2

	resp := e.do(t, http.MethodPost, "/api/v1/profiles/import", importRequest{Share: scheme.ShareString(s)})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("import: %d", resp.StatusCode)
	}
	if e.overlay.State().Scheme != s {
		t.Fatalf("overlay = %+v", e.overlay.State().Scheme)
	}
	resp = e.do(t, http.MethodPost, "/api/v1/profiles/import", importRequest{Share: "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad share: %d", resp.StatusCode)
	}
}

func TestImageEndpoints(t *testing.T) {
	e := newTestEnv(t, "a")

	resp := e.do(t, http.MethodGet, "/api/v1/frame.png?caption=true", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("frame: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 200 {
		t.Fatalf("frame bounds %v", img.Bounds())
	}

	resp = e.do(t, http.MethodGet, "/api/v1/profiles/a/qr.png?size=128", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr: %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodGet, "/api/v1/profiles/missing/qr.png", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("qr missing: %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodGet, "/api/v1/profiles/a/qr.png?size=1", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("qr size: %d", resp.StatusCode)
	}
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight: %d %v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("passthrough: %d", rec.Code)
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "")
	cfg, err := DefaultServerConfigFromEnv(":8080")
	if err != nil || cfg.ListenAddr != ":8080" || cfg.DevMode {
		t.Fatalf("defaults: %+v %v", cfg, err)
	}

	t.Setenv(EnvListenAddr, "127.0.0.1:9000")
	t.Setenv(EnvDevMode, "true")
	cfg, err = DefaultServerConfigFromEnv(":8080")
	if err != nil || cfg.ListenAddr != "127.0.0.1:9000" || !cfg.DevMode {
		t.Fatalf("env: %+v %v", cfg, err)
	}

	t.Setenv(EnvDevMode, "maybe")
	if _, err := DefaultServerConfigFromEnv(":8080"); err == nil {
		t.Fatal("malformed boolean accepted")
	}
}
