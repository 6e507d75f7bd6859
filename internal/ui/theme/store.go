// Package theme resolves, persists and renders the light/dark theme.
package theme

import (
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/storage"
	"github.com/Its-donkey/tms-ui/logging"
)

// DefaultKey is the storage key of the theme preference.
const DefaultKey = "theme"

const logCategory = "theme"

// SchemeSource reports the operating system's colour scheme preference.
type SchemeSource interface {
	PrefersDark() bool
}

// SchemeFunc adapts a function to SchemeSource.
type SchemeFunc func() bool

// PrefersDark implements SchemeSource.
func (f SchemeFunc) PrefersDark() bool {
	return f()
}

// Store reads and writes the persisted theme preference.
type Store struct {
	kv     storage.Store
	key    string
	scheme SchemeSource
	logger *logging.Logger
}

// NewStore builds a Store. An empty key uses DefaultKey; a nil scheme reports light.
func NewStore(kv storage.Store, key string, scheme SchemeSource, logger *logging.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if scheme == nil {
		scheme = SchemeFunc(func() bool { return false })
	}
	if kv == nil {
		kv = storage.Unavailable{}
	}
	return &Store{kv: kv, key: key, scheme: scheme, logger: logger}
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// ResolveInitialTheme returns the stored preference, or the OS preference when
// nothing is stored or the store cannot be read. Any stored value other than
// "dark" reads as light.
func (s *Store) ResolveInitialTheme() model.ThemePreference {
	value, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn(logCategory, "theme preference unreadable, using OS preference", map[string]any{
			"key":   s.key,
			"error": err.Error(),
		})
		return model.PreferenceFor(s.scheme.PrefersDark())
	}
	if !ok || value == "" {
		return model.PreferenceFor(s.scheme.PrefersDark())
	}
	return model.PreferenceFor(value == string(model.ThemeDark))
}

// Persist overwrites the stored preference. Failures are logged and dropped.
func (s *Store) Persist(pref model.ThemePreference) {
	if err := s.kv.Set(s.key, string(pref)); err != nil {
		s.logger.Warn(logCategory, "theme preference not persisted", map[string]any{
			"key":   s.key,
			"theme": string(pref),
			"error": err.Error(),
		})
	}
}
