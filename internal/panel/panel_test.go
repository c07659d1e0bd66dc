package panel

import (
	"errors"
	"image"
	"testing"

	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/settings"
	"github.com/rook-computer/anchorlines/internal/tray"
)

type memStore struct{ profiles []scheme.Scheme }

func (m *memStore) List() ([]scheme.Scheme, error) {
	return append([]scheme.Scheme(nil), m.profiles...), nil
}

func (m *memStore) Save(s scheme.Scheme) error {
	for i := range m.profiles {
		if m.profiles[i].Name == s.Name {
			m.profiles[i] = s
			return nil
		}
	}
	m.profiles = append(m.profiles, s)
	return nil
}

func (m *memStore) Delete(name string) error {
	for i := range m.profiles {
		if m.profiles[i].Name == name {
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return nil
		}
	}
	return nil
}

func setup(t *testing.T, names ...string) (*Panel, *tray.Menu, *render.Overlay, *settings.Settings) {
	t.Helper()
	store := &memStore{}
	for _, n := range names {
		store.profiles = append(store.profiles, scheme.Default().WithName(n))
	}
	overlay := render.NewOverlay(image.Rect(0, 0, 800, 600), nil)
	cfg := settings.InMemory(settings.Defaults())
	menu := tray.NewMenu()
	p := New()

	c := control.New(overlay, store, cfg)
	c.Tray = menu
	c.Panel = p
	c.Listener = control.Listeners{p}
	c.Confirm = p.Confirm
	p.Controller = c
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	return p, menu, overlay, cfg
}

func TestFieldsRoundTrip(t *testing.T) {
	s := scheme.Default()
	s.VLineWidth = 3
	got, err := FieldsFromScheme(s).Scheme()
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("got %+v, want %+v", got, s)
	}
}

func TestFieldsValidation(t *testing.T) {
	base := FieldsFromScheme(scheme.Default())
	tests := []struct {
		name  string
		edit  func(*Fields)
		field string
	}{
		{"negative width", func(f *Fields) { f.HLineWidth = -1 }, "hLineWidth"},
		{"opacity too high", func(f *Fields) { f.VLineOpacity = 101 }, "vLineOpacity"},
		{"bad colour", func(f *Fields) { f.BackgroundColor = "#12" }, "backgroundColor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.edit(&f)
			_, err := f.Scheme()
			var v *control.ValidationError
			if !errors.As(err, &v) || v.Field != tt.field {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestPanelToggleSyncsTrayOnly(t *testing.T) {
	p, menu, overlay, cfg := setup(t, "a")

	p.ToggleInverted(true)
	if !overlay.State().Inverted || !menu.Snapshot().Inverted || !cfg.Inverted() {
		t.Fatal("inverted not propagated")
	}
	if !p.View().Inverted {
		t.Fatal("panel lost its own value")
	}

	menu.SetEnabledChecked(true)
	p.ToggleEnabled(false)
	if overlay.State().Enabled || menu.Snapshot().Enabled {
		t.Fatal("enabled not propagated")
	}
}

func TestApplyHonoursEditMode(t *testing.T) {
	p, _, overlay, _ := setup(t, "a")

	f := p.View().Fields
	f.HLineWidth = 7
	f.HLineOpacity = 50
	if err := p.Apply(f); err != nil {
		t.Fatal(err)
	}
	st := overlay.State().Scheme
	if st.HLineWidth != 7 || st.HLineColor.A != 128 || st.Name != "a" {
		t.Fatalf("overlay scheme = %+v", st)
	}
	if p.View().Fields.HLineWidth != 7 {
		t.Fatal("fields not refreshed from activated scheme")
	}

	if err := p.SetEditEnabled(false); err != nil {
		t.Fatal(err)
	}
	f.HLineWidth = 9
	var v *control.ValidationError
	if err := p.Apply(f); !errors.As(err, &v) {
		t.Fatalf("apply with editing off: %v", err)
	}
	if overlay.State().Scheme.HLineWidth != 7 {
		t.Fatal("scheme changed while editing was off")
	}
}

func TestProfileActions(t *testing.T) {
	p, menu, _, _ := setup(t, "a", "b")

	if err := p.SelectProfile(1); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); v.Current != 1 || v.CurrentName != "b" {
		t.Fatalf("view = %+v", v)
	}
	if !menu.Snapshot().Profiles[1].Checked {
		t.Fatal("tray selection not projected")
	}
	if err := p.SelectProfile(4); err == nil {
		t.Fatal("out of range selection accepted")
	}

	if err := p.CreateProfile("c"); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); len(v.Profiles) != 3 || v.CurrentName != "c" {
		t.Fatalf("after create: %+v", v)
	}
	if err := p.DeleteProfile("c", false); !errors.Is(err, control.ErrCanceled) {
		t.Fatalf("unconfirmed delete: %v", err)
	}
	if err := p.DeleteProfile("c", true); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); len(v.Profiles) != 2 || v.CurrentName != "b" {
		t.Fatalf("after delete: %+v", v)
	}

	if err := p.SelectScreen(2); err != nil {
		t.Fatal(err)
	}
	if p.View().Screen != 2 {
		t.Fatal("screen not shown")
	}
}
