package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rook-computer/anchorlines/internal/scheme"
)

func TestSaveListDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	store := NewStore(dir)

	// Listing creates the directory on first use.
	list, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("want empty list, got %d", len(list))
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("profile dir not created: %v", err)
	}

	b := scheme.Default().WithName("beta")
	a := scheme.Normal().WithName("alpha")
	for _, sc := range []scheme.Scheme{b, a} {
		if err := store.Save(sc); err != nil {
			t.Fatalf("save %q: %v", sc.Name, err)
		}
	}

	list, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0] != a || list[1] != b {
		t.Fatalf("unexpected list %+v", list)
	}

	// Overwrite is not guarded.
	b.HLineWidth = 3
	if err := store.Save(b); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load("beta")
	if err != nil || got.HLineWidth != 3 {
		t.Fatalf("load after overwrite: %+v, %v", got, err)
	}

	if err := store.Delete("beta"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("beta"); err != nil {
		t.Fatalf("deleting a missing profile: %v", err)
	}
	list, _ = store.List()
	if len(list) != 1 || list[0].Name != "alpha" {
		t.Fatalf("unexpected list after delete %+v", list)
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Save(scheme.Default().WithName("good")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.dat"), []byte("not a scheme at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), scheme.Encode(scheme.Default().WithName("txt")), 0o644); err != nil {
		t.Fatal(err)
	}
	// Decodable, but the stored name is empty or belongs to another file.
	if err := os.WriteFile(filepath.Join(dir, "x.dat"), scheme.Encode(scheme.Default()), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "copy.dat"), scheme.Encode(scheme.Default().WithName("good")), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "good" {
		t.Fatalf("want only the good profile, got %+v", list)
	}
}

func TestSameFile(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"a_b", "a/b", true},
		{"a:b", "a/b", true},
		{"a_b", "a_b", true},
		{"ab", "a_b", false},
		{"A", "a", false},
	}
	for _, tt := range tests {
		if got := SameFile(tt.a, tt.b); got != tt.want {
			t.Errorf("SameFile(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(scheme.Default()); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("want ErrEmptyName, got %v", err)
	}
}

func TestSaveReportsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// Dir is a regular file, so the directory cannot be created.
	store := NewStore(filepath.Join(blocker, "profiles"))
	err := store.Save(scheme.Default().WithName("x"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("want IOError, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"simple":      "simple.dat",
		"a/b\\c":      "a_b_c.dat",
		"what?*":      "what__.dat",
		"..":          "__.dat",
		"tab\tname":   "tab_name.dat",
		"ünïcødé ok": "ünïcødé ok.dat",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWatchSignalsChanges(t *testing.T) {
	old := WatchDebounce
	WatchDebounce = 10 * time.Millisecond
	defer func() { WatchDebounce = old }()

	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := store.Save(scheme.Default().WithName("watched")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	for range changes {
	}
}
