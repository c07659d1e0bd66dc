package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rook-computer/anchorlines/internal/scheme"
)

const (
	// DefaultDir is the profile sub-directory relative to the working directory.
	DefaultDir = "profiles"
	// Ext is appended to every sanitized profile name.
	Ext = ".dat"
)

// ErrEmptyName is returned when saving a scheme without a name.
var ErrEmptyName = errors.New("profile name is empty")

// IOError wraps a filesystem failure while writing or removing a profile.
type IOError struct {
	Op   string
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("profile %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Store keeps one encoded scheme file per profile under Dir.
// It assumes a single owning process; there is no locking.
type Store struct {
	Dir    string
	Logger logger
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// FileName maps a profile name to its file name. Characters that are not
// allowed in file names on common platforms become '_'.
func FileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "." || out == ".." {
		out = strings.Repeat("_", len(out))
	}
	return out + Ext
}

// SameFile reports whether two profile names would be stored in the same file.
func SameFile(a, b string) bool { return FileName(a) == FileName(b) }

// Path returns the file a profile named name is stored in.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, FileName(name))
}

func (s *Store) ensureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// List decodes every profile file in file-name order. Files that cannot be
// read or decoded, and files whose stored name maps to another file, are
// skipped.
func (s *Store) List() ([]scheme.Scheme, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}

	var out []scheme.Scheme
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.errorf("read %s: %v", path, err)
			continue
		}
		sc, err := scheme.Decode(data)
		if err != nil {
			s.errorf("skip %s: %v", path, err)
			continue
		}
		// A profile must live in the file its name maps to, or Save and
		// Delete would address a different file.
		if sc.Name == "" || FileName(sc.Name) != entry.Name() {
			s.errorf("skip %s: stored name %q does not match the file", path, sc.Name)
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

// Load reads a single profile by name.
func (s *Store) Load(name string) (scheme.Scheme, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return scheme.Scheme{}, err
	}
	return scheme.Decode(data)
}

// Save creates or overwrites the profile named sc.Name. The file is written
// to a temporary name first so a failed write leaves the old profile intact.
func (s *Store) Save(sc scheme.Scheme) error {
	if sc.Name == "" {
		return ErrEmptyName
	}
	if err := s.ensureDir(); err != nil {
		return &IOError{Op: "save", Name: sc.Name, Err: err}
	}

	tmp, err := os.CreateTemp(s.Dir, ".tmp-*"+Ext+".partial")
	if err != nil {
		return &IOError{Op: "save", Name: sc.Name, Err: err}
	}
	tmpPath := tmp.Name()
	_, werr := tmp.Write(scheme.Encode(sc))
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "save", Name: sc.Name, Err: werr}
	}
	if err := os.Rename(tmpPath, s.Path(sc.Name)); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "save", Name: sc.Name, Err: err}
	}
	s.infof("saved %q", sc.Name)
	return nil
}

// Delete removes the profile file. A missing file is not an error.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &IOError{Op: "delete", Name: name, Err: err}
	}
	s.infof("deleted %q", name)
	return nil
}

func (s *Store) infof(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Infof("profile", format, args...)
	}
}

func (s *Store) errorf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Errorf("profile", format, args...)
	}
}
