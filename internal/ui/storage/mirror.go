package storage

import (
	"errors"
	"fmt"
)

// Deleter is implemented by stores that can forget a key.
type Deleter interface {
	Delete(key string) error
}

// Mirror keeps Secondary in step with Primary. Primary is the source of
// truth: reads come from it, and whatever it holds (or lacks) is copied to
// Secondary on every read and write. The browser pairs localStorage with
// document.cookie this way so the server prerenders the same theme and
// header the page boots into.
type Mirror struct {
	Primary   Store
	Secondary Store
}

// NewMirror returns a Mirror over primary and secondary.
func NewMirror(primary, secondary Store) *Mirror {
	return &Mirror{Primary: primary, Secondary: secondary}
}

// Get implements Store. When Primary is unavailable the Secondary value is
// returned instead.
func (m *Mirror) Get(key string) (string, bool, error) {
	value, ok, err := m.Primary.Get(key)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			return "", false, err
		}
		return m.Secondary.Get(key)
	}
	m.sync(key, value, ok)
	return value, ok, nil
}

// Set implements Store. A Primary failure is returned without touching
// Secondary.
func (m *Mirror) Set(key, value string) error {
	if err := m.Primary.Set(key, value); err != nil {
		return err
	}
	if err := m.Secondary.Set(key, value); err != nil {
		return fmt.Errorf("mirror %s: %w", key, err)
	}
	return nil
}

// sync copies the Primary state of key into Secondary. Errors are dropped:
// a stale mirror only costs a prerender mismatch.
func (m *Mirror) sync(key, value string, ok bool) {
	current, present, err := m.Secondary.Get(key)
	if err != nil {
		return
	}
	switch {
	case ok && (!present || current != value):
		_ = m.Secondary.Set(key, value)
	case !ok && present:
		if d, canDelete := m.Secondary.(Deleter); canDelete {
			_ = d.Delete(key)
		}
	}
}
