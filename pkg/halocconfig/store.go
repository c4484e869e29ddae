// Package halocconfig persists named [haloc.Config] profiles as YAML
// files in the OS configuration directory, one file per profile.
package halocconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/vislam/haloc/pkg/haloc"
)

// Store provides CRUD operations over named Config profiles, one YAML
// file per profile.
type Store struct {
	dir string
}

// Open opens the default configuration directory:
//
//	~/.config/haloc/profiles/       (Linux)
//	~/Library/Application Support/haloc/profiles/  (macOS)
//	%AppData%/haloc/profiles/       (Windows)
func Open() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("halocconfig: cannot determine config directory: %w", err)
	}
	return OpenAt(filepath.Join(base, "haloc", "profiles"))
}

// OpenAt opens a profile directory at the given path, creating it if
// it does not exist.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("halocconfig: create profile dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root profile directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("halocconfig: profile name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("halocconfig: profile name %q must not contain path separators", name)
	}
	return nil
}

// Save writes cfg under name, overwriting any existing profile.
func (s *Store) Save(name string, cfg haloc.Config) error {
	if err := validateName(name); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("halocconfig: marshal profile %q: %w", name, err)
	}
	return os.WriteFile(s.path(name), data, 0o600)
}

// Load reads the profile named name.
func (s *Store) Load(name string) (haloc.Config, error) {
	if err := validateName(name); err != nil {
		return haloc.Config{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return haloc.Config{}, fmt.Errorf("halocconfig: profile %q not found", name)
		}
		return haloc.Config{}, fmt.Errorf("halocconfig: read profile %q: %w", name, err)
	}
	cfg := haloc.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return haloc.Config{}, fmt.Errorf("halocconfig: parse profile %q: %w", name, err)
	}
	return cfg, nil
}

// Remove deletes the named profile.
func (s *Store) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := s.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("halocconfig: profile %q not found", name)
	}
	return os.Remove(path)
}

// List returns all profile names, sorted alphabetically.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("halocconfig: list profiles: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
