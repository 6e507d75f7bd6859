// Package model holds the value types shared by the UI state packages.
package model

import "strings"

// NotificationKind selects the style bundle of a notification.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// ParseNotificationKind maps free-form input to a kind. Unknown values are info.
func ParseNotificationKind(raw string) NotificationKind {
	switch NotificationKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	case KindWarning:
		return KindWarning
	default:
		return KindInfo
	}
}

// NotificationPhase is the position of the notification slot in its lifecycle.
type NotificationPhase string

const (
	PhaseHidden  NotificationPhase = "hidden"
	PhaseVisible NotificationPhase = "visible"
	PhaseFading  NotificationPhase = "fading"
)

// NotificationState is a snapshot of the single notification slot.
type NotificationState struct {
	Visible        bool
	Message        string
	Kind           NotificationKind
	Phase          NotificationPhase
	DismissPending bool
	FadePending    bool
	// Cycle identifies the Show call that produced the current content.
	Cycle string
}

// ThemePreference is the persisted light/dark selection.
type ThemePreference string

const (
	ThemeDark  ThemePreference = "dark"
	ThemeLight ThemePreference = "light"
)

// IsDark reports whether the preference is dark.
func (p ThemePreference) IsDark() bool {
	return p == ThemeDark
}

// Opposite returns the other preference.
func (p ThemePreference) Opposite() ThemePreference {
	if p == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// PreferenceFor converts a dark flag to a preference.
func PreferenceFor(isDark bool) ThemePreference {
	if isDark {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeMode selects how the document theme marker is applied.
type ThemeMode string

const (
	// ThemeModeClass toggles the "dark" class on the root element.
	ThemeModeClass ThemeMode = "class"
	// ThemeModeStylesheet swaps the href of the theme stylesheet link.
	ThemeModeStylesheet ThemeMode = "stylesheet"
)

// Valid reports whether m is a known mode.
func (m ThemeMode) Valid() bool {
	return m == ThemeModeClass || m == ThemeModeStylesheet
}

// ParseThemeMode maps raw input to a mode, defaulting to class.
func ParseThemeMode(raw string) ThemeMode {
	if mode := ThemeMode(strings.ToLower(strings.TrimSpace(raw))); mode.Valid() {
		return mode
	}
	return ThemeModeClass
}

// AuthView is the header state derived from a token on each render.
type AuthView struct {
	SignedIn    bool
	DisplayName string
}

// Greeting returns the welcome text shown in the header.
func (v AuthView) Greeting() string {
	if !v.SignedIn {
		return "Welcome Guest!"
	}
	return "Welcome " + v.DisplayName + "!"
}
