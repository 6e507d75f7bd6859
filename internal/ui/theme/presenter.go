package theme

import (
	"strings"
	"sync"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/logging"
)

const (
	darkClass = "dark"

	DefaultLightHref = "/css/theme-light.css"
	DefaultDarkHref  = "/css/theme-dark.css"
)

// Options selects how the presenter marks the document.
type Options struct {
	Mode      model.ThemeMode
	LightHref string
	DarkHref  string
}

func (o Options) withDefaults() Options {
	if !o.Mode.Valid() {
		o.Mode = model.ThemeModeClass
	}
	if o.LightHref == "" {
		o.LightHref = DefaultLightHref
	}
	if o.DarkHref == "" {
		o.DarkHref = DefaultDarkHref
	}
	return o
}

// Presenter renders the theme marker and the toggle control.
type Presenter struct {
	doc    dom.Document
	store  *Store
	opts   Options
	logger *logging.Logger

	mu   sync.Mutex
	dark bool
}

// NewPresenter builds a presenter in the light state; call ApplyTheme to render.
func NewPresenter(doc dom.Document, store *Store, opts Options, logger *logging.Logger) *Presenter {
	return &Presenter{
		doc:    doc,
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Mode returns the marker variant in use.
func (p *Presenter) Mode() model.ThemeMode {
	return p.opts.Mode
}

// IsDark reports the in-memory theme flag.
func (p *Presenter) IsDark() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dark
}

// ApplyTheme marks the document and updates the toggle control for isDark.
func (p *Presenter) ApplyTheme(isDark bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(isDark)
}

// OnToggleClicked flips the theme, persists it and renders once.
func (p *Presenter) OnToggleClicked() {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := !p.dark
	if p.store != nil {
		p.store.Persist(model.PreferenceFor(next))
	}
	p.applyLocked(next)
	p.logger.Info(logCategory, "theme toggled", map[string]any{"theme": string(model.PreferenceFor(next))})
}

// ReadDocumentTheme reports the theme the document is currently marked with.
// The second result is false when the marker cannot be found.
func (p *Presenter) ReadDocumentTheme() (model.ThemePreference, bool) {
	switch p.opts.Mode {
	case model.ThemeModeStylesheet:
		link, ok := p.doc.ByID(dom.ThemeStylesheetID)
		if !ok {
			return model.ThemeLight, false
		}
		href, _ := link.Attr("href")
		return model.PreferenceFor(strings.TrimSpace(href) == p.opts.DarkHref), true
	default:
		return model.PreferenceFor(p.doc.Root().HasClass(darkClass)), true
	}
}

func (p *Presenter) applyLocked(isDark bool) {
	p.dark = isDark
	p.markDocument(isDark)
	p.renderToggle(isDark)
}

func (p *Presenter) markDocument(isDark bool) {
	switch p.opts.Mode {
	case model.ThemeModeStylesheet:
		link, ok := p.doc.ByID(dom.ThemeStylesheetID)
		if !ok {
			p.logger.Warn(logCategory, "theme stylesheet link not found", map[string]any{"id": dom.ThemeStylesheetID})
			return
		}
		href := p.opts.LightHref
		if isDark {
			href = p.opts.DarkHref
		}
		link.SetAttr("href", href)
	default:
		dom.ToggleClass(p.doc.Root(), darkClass, isDark)
	}
}

func (p *Presenter) renderToggle(isDark bool) {
	toggle, ok := p.doc.ByID(dom.ThemeToggleID)
	if !ok {
		return
	}
	label := LabelFor(isDark)
	toggle.SetAttr("aria-label", label)
	toggle.SetAttr("title", label)
	toggle.SetAttr("data-next-theme", string(model.PreferenceFor(isDark).Opposite()))

	icon, ok := toggle.Query("svg")
	if !ok {
		return
	}
	icon.SetInnerHTML(IconFor(isDark))
}
