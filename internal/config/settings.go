package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultCron runs the fetch daily at 08:00.
const DefaultCron = "0 8 * * *"

// Settings are the user-facing plugin options.
type Settings struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Cron     string `yaml:"cron" json:"cron" validate:"max=128"`
	Notify   bool   `yaml:"notify" json:"notify"`
	OnlyOnce bool   `yaml:"onlyonce" json:"onlyonce"`
	Cover    bool   `yaml:"cover" json:"cover"`
}

// DefaultSettings are used for a fresh install and for keys missing from the file.
func DefaultSettings() Settings {
	return Settings{
		Enabled:  false,
		Cron:     DefaultCron,
		Notify:   true,
		OnlyOnce: false,
		Cover:    true,
	}
}

// SettingsStore persists Settings as YAML.
type SettingsStore struct {
	path string

	// mu guards file writes and the self-write marker used by Watch.
	mu        sync.Mutex
	lastWrite []byte
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the defaults.
func (s *SettingsStore) Load() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings %s: %w", s.path, err)
	}
	return settings, nil
}

// Save writes the settings atomically (temp file + rename).
func (s *SettingsStore) Save(settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	s.lastWrite = data
	return nil
}

// Watch calls fn with the reloaded settings whenever the file is changed by
// somebody else. Writes made through Save are not reported. Watch blocks until
// ctx is done.
func (s *SettingsStore) Watch(ctx context.Context, fn func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and Save replace the file instead of writing in place.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger := log.WithField("component", "settings")
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if s.isOwnWrite() {
				continue
			}

			settings, err := s.Load()
			if err != nil {
				logger.WithError(err).Error("settings changed but could not be loaded")
				continue
			}
			logger.Info("settings file changed; reloading")
			fn(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("settings watcher error")
		}
	}
}

// isOwnWrite reports whether the file still holds exactly what Save last wrote.
func (s *SettingsStore) isOwnWrite() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastWrite != nil && string(data) == string(s.lastWrite)
}
