// Package state owns the UI state of one page session.
//
// A Store is built once per document and hands the same scheduler, storage
// and logger to the notification controller and the presenters, so timer
// ownership stays in one place and the whole page can run against a headless
// document in tests.
package state

import (
	"strings"
	"time"

	"github.com/Its-donkey/tms-ui/internal/ui/auth"
	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/notify"
	"github.com/Its-donkey/tms-ui/internal/ui/schedule"
	"github.com/Its-donkey/tms-ui/internal/ui/storage"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
	"github.com/Its-donkey/tms-ui/logging"
)

// Attributes on <html> that carry server configuration to the page.
const (
	AttrThemeMode      = "data-theme-mode"
	AttrThemeKey       = "data-theme-key"
	AttrThemeLightHref = "data-theme-light-href"
	AttrThemeDarkHref  = "data-theme-dark-href"
	AttrTokenKey       = "data-token-key"
)

const logCategory = "state"

// Options configures keys and the theme variant.
type Options struct {
	ThemeKey string
	TokenKey string
	Theme    theme.Options
}

func (o Options) withDefaults() Options {
	if o.ThemeKey == "" {
		o.ThemeKey = theme.DefaultKey
	}
	if o.TokenKey == "" {
		o.TokenKey = auth.DefaultTokenKey
	}
	return o
}

// OptionsFromDocument reads Options from the data attributes on <html>.
func OptionsFromDocument(doc dom.Document) Options {
	root := doc.Root()
	attr := func(name string) string {
		v, _ := root.Attr(name)
		return strings.TrimSpace(v)
	}
	return Options{
		ThemeKey: attr(AttrThemeKey),
		TokenKey: attr(AttrTokenKey),
		Theme: theme.Options{
			Mode:      model.ParseThemeMode(attr(AttrThemeMode)),
			LightHref: attr(AttrThemeLightHref),
			DarkHref:  attr(AttrThemeDarkHref),
		},
	}.withDefaults()
}

// Deps are the capabilities a Store runs on.
type Deps struct {
	Storage   storage.Store
	Scheme    theme.SchemeSource
	Scheduler schedule.Scheduler
	Now       func() time.Time
	Logger    *logging.Logger
}

// PageBindings are the handlers the page wires to user input.
type PageBindings struct {
	OnToggleClicked  func()
	OnDismissClicked func()
}

// BootResult reports what Boot rendered.
type BootResult struct {
	Theme         model.ThemePreference
	Auth          model.AuthView
	ResumedNotice bool
}

// Store is the UI state of one page session.
type Store struct {
	doc     dom.Document
	opts    Options
	storage storage.Store
	logger  *logging.Logger

	Notifications *notify.Controller
	ThemeStore    *theme.Store
	Theme         *theme.Presenter
	Auth          *auth.Presenter
}

// New builds a Store for doc.
func New(doc dom.Document, opts Options, deps Deps) *Store {
	opts = opts.withDefaults()
	kv := deps.Storage
	if kv == nil {
		kv = storage.NewMemory()
	}
	themeStore := theme.NewStore(kv, opts.ThemeKey, deps.Scheme, deps.Logger)
	return &Store{
		doc:           doc,
		opts:          opts,
		storage:       kv,
		logger:        deps.Logger,
		Notifications: notify.NewController(doc, deps.Scheduler, deps.Logger),
		ThemeStore:    themeStore,
		Theme:         theme.NewPresenter(doc, themeStore, opts.Theme, deps.Logger),
		Auth:          auth.NewPresenter(doc, deps.Now, deps.Logger),
	}
}

// Options returns the effective options.
func (s *Store) Options() Options {
	return s.opts
}

// Boot applies the resolved theme, renders the auth header and adopts a
// notification the page was rendered with.
func (s *Store) Boot() BootResult {
	pref := s.ThemeStore.ResolveInitialTheme()
	if current, ok := s.Theme.ReadDocumentTheme(); ok && current != pref {
		s.logger.Debug(logCategory, "document theme overridden by preference", map[string]any{
			"document": string(current),
			"resolved": string(pref),
		})
	}
	s.Theme.ApplyTheme(pref.IsDark())

	view, _ := s.Auth.RenderAuthState(s.token())

	return BootResult{
		Theme:         pref,
		Auth:          view,
		ResumedNotice: s.Notifications.Resume(),
	}
}

func (s *Store) token() string {
	raw, ok, err := s.storage.Get(s.opts.TokenKey)
	if err != nil {
		s.logger.Warn(logCategory, "access token unreadable", map[string]any{"error": err.Error()})
		return ""
	}
	if !ok {
		return ""
	}
	return raw
}

// Bindings returns the page's command handlers.
func (s *Store) Bindings() PageBindings {
	return PageBindings{
		OnToggleClicked:  s.Theme.OnToggleClicked,
		OnDismissClicked: s.Notifications.Dismiss,
	}
}

// Bind attaches the bindings to the theme toggle and every dismiss button,
// returning a func that detaches them.
func (s *Store) Bind() func() {
	b := s.Bindings()
	var releases []func()
	if toggle, ok := s.doc.ByID(dom.ThemeToggleID); ok {
		releases = append(releases, toggle.On("click", b.OnToggleClicked))
	}
	for _, button := range s.doc.QueryAll(dom.NotificationDismiss) {
		releases = append(releases, button.On("click", b.OnDismissClicked))
	}
	s.logger.Debug(logCategory, "page bindings attached", map[string]any{"handlers": len(releases)})
	return func() {
		for _, release := range releases {
			release()
		}
	}
}
