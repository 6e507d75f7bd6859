package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/schedule"
	"github.com/Its-donkey/tms-ui/internal/ui/state"
	"github.com/Its-donkey/tms-ui/internal/ui/storage"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
)

// Client hint carrying the browser's prefers-color-scheme.
const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

const maxNoticeRunes = 280

// flashNotice is a notification requested through the query string.
type flashNotice struct {
	Message  string
	Kind     model.NotificationKind
	Duration time.Duration
}

// noticeFromQuery reads notice, notice_kind and notice_ms. A missing or
// unparsable notice_ms falls back to def; zero keeps the notice until dismissed.
func noticeFromQuery(q url.Values, def time.Duration) (flashNotice, bool) {
	message := strings.TrimSpace(q.Get("notice"))
	if message == "" {
		return flashNotice{}, false
	}
	if utf8.RuneCountInString(message) > maxNoticeRunes {
		message = string([]rune(message)[:maxNoticeRunes])
	}
	duration := def
	if raw := strings.TrimSpace(q.Get("notice_ms")); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			duration = time.Duration(ms) * time.Millisecond
		}
	}
	return flashNotice{
		Message:  message,
		Kind:     model.ParseNotificationKind(q.Get("notice_kind")),
		Duration: duration,
	}, true
}

// prefersDark reports whether the request's client hint asks for dark.
func prefersDark(r *http.Request) bool {
	value := strings.Trim(strings.TrimSpace(r.Header.Get(colorSchemeHint)), `"`)
	return strings.EqualFold(value, string(model.ThemeDark))
}

func schemeFor(r *http.Request) theme.SchemeSource {
	return theme.SchemeFunc(func() bool { return prefersDark(r) })
}

// prerendered is a page whose UI state has been applied on the server.
type prerendered struct {
	HTML   string
	Boot   state.BootResult
	Notice *flashNotice
}

// prerender runs the same state store the browser runs against the page
// shell, reading the theme and token from request cookies. Timers never fire
// here; a flash notice keeps its duration on the surface for the browser to
// resume.
func (s *Server) prerender(r *http.Request) (prerendered, error) {
	var buf bytes.Buffer
	if err := s.pageShell().Render(&buf); err != nil {
		return prerendered{}, fmt.Errorf("render page shell: %w", err)
	}
	doc, err := dom.ParseHTML(&buf)
	if err != nil {
		return prerendered{}, fmt.Errorf("parse page shell: %w", err)
	}

	clock := schedule.NewManual(s.now())
	store := state.New(doc, state.OptionsFromDocument(doc), state.Deps{
		Storage:   storage.NewCookies(nil, r, storage.DefaultCookieMaxAge, s.cfg.Server.SecureCookies),
		Scheme:    schemeFor(r),
		Scheduler: clock,
		Now:       s.now,
		Logger:    s.logger,
	})

	out := prerendered{Boot: store.Boot()}
	def := time.Duration(s.cfg.Notifications.DefaultDurationMS) * time.Millisecond
	if notice, ok := noticeFromQuery(r.URL.Query(), def); ok {
		store.Notifications.Show(notice.Message, notice.Kind, notice.Duration)
		out.Notice = &notice
	}

	markup, err := doc.HTML()
	if err != nil {
		return prerendered{}, fmt.Errorf("serialise page: %w", err)
	}
	out.HTML = markup
	return out, nil
}
