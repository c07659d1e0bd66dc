package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultPath is the settings file relative to the working directory.
	DefaultPath = "anchorlines.json"
	// EnvPath overrides DefaultPath.
	EnvPath = "ANCHORLINES_SETTINGS"
)

// Values is the persisted process-wide configuration.
type Values struct {
	ScreenIndex    int    `json:"screenIndex"`
	CurrentProfile string `json:"currentProfile"`
	Enabled        bool   `json:"enabled"`
	Inverted       bool   `json:"inverted"`
	EditEnabled    bool   `json:"editEnabled"`
}

// Defaults returns the values used for keys missing from the file.
func Defaults() Values {
	return Values{Enabled: true, EditEnabled: true}
}

// Settings is a small key-value store persisted as JSON on every change.
// It is owned by the app loop and passed explicitly to its users.
type Settings struct {
	path   string
	values Values
}

// PathFromEnv returns the settings path configured in the environment, or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Open loads path. A missing file yields defaults; a malformed file is an error.
func Open(path string) (*Settings, error) {
	s := &Settings{path: path, values: Defaults()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	// Keys absent from the file keep their defaults.
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// InMemory returns settings that are never written to disk.
func InMemory(v Values) *Settings {
	return &Settings{values: v}
}

func (s *Settings) Path() string { return s.path }

// Snapshot returns a copy of all values.
func (s *Settings) Snapshot() Values { return s.values }

func (s *Settings) ScreenIndex() int       { return s.values.ScreenIndex }
func (s *Settings) CurrentProfile() string { return s.values.CurrentProfile }
func (s *Settings) Enabled() bool          { return s.values.Enabled }
func (s *Settings) Inverted() bool         { return s.values.Inverted }
func (s *Settings) EditEnabled() bool      { return s.values.EditEnabled }

func (s *Settings) SetScreenIndex(index int) error {
	return s.update(func(v *Values) { v.ScreenIndex = index })
}

func (s *Settings) SetCurrentProfile(name string) error {
	return s.update(func(v *Values) { v.CurrentProfile = name })
}

func (s *Settings) SetEnabled(enabled bool) error {
	return s.update(func(v *Values) { v.Enabled = enabled })
}

func (s *Settings) SetInverted(inverted bool) error {
	return s.update(func(v *Values) { v.Inverted = inverted })
}

func (s *Settings) SetEditEnabled(enabled bool) error {
	return s.update(func(v *Values) { v.EditEnabled = enabled })
}

func (s *Settings) update(fn func(*Values)) error {
	fn(&s.values)
	if s.path == "" {
		return nil
	}
	return s.save()
}

func (s *Settings) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
