package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/tms-ui/internal/config"
	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/notify"
	"github.com/Its-donkey/tms-ui/internal/ui/schedule"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
	"github.com/Its-donkey/tms-ui/logging"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	assets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assets, "styles.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "css", "theme-dark.css"), []byte(":root{}"), 0o644))

	cfg := config.Default()
	cfg.App.Assets = assets
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(Options{
		Config: cfg,
		Logger: logging.Discard(),
		Now:    func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string, prepare func(*http.Request)) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if prepare != nil {
		prepare(req)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	return rr, doc
}

func signedToken(t *testing.T, exp time.Time, firstName string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"sub": map[string]any{"firstName": firstName},
	}).SignedString([]byte("ui-test"))
	require.NoError(t, err)
	return token
}

func TestHomeRendersGuestLightShell(t *testing.T) {
	srv := newTestServer(t, nil)
	rr, doc := get(t, srv, "/", nil)

	assert.Equal(t, colorSchemeHint, rr.Header().Get("Accept-CH"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Contains(t, rr.Header().Values("Vary"), "Cookie")

	assert.False(t, doc.Find("html").HasClass("dark"))
	assert.Equal(t, "Welcome Guest!", doc.Find("#"+dom.WelcomeMessageID).Text())
	assert.False(t, doc.Find("#"+dom.SignInID).HasClass("hidden"))
	assert.True(t, doc.Find("#"+dom.SignOutID).HasClass("hidden"))
	assert.True(t, doc.Find("#"+dom.NotificationID).HasClass("hidden"))

	label, _ := doc.Find("#" + dom.ThemeToggleID).Attr("aria-label")
	assert.Equal(t, theme.LabelFor(false), label)
	mode, _ := doc.Find("html").Attr("data-theme-mode")
	assert.Equal(t, string(model.ThemeModeClass), mode)
	assert.Equal(t, 1, doc.Find("#notification button").Length())
}

func TestHomeAppliesThemeCookie(t *testing.T) {
	srv := newTestServer(t, nil)
	_, doc := get(t, srv, "/", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	})

	assert.True(t, doc.Find("html").HasClass("dark"))
	toggle := doc.Find("#" + dom.ThemeToggleID)
	label, _ := toggle.Attr("aria-label")
	next, _ := toggle.Attr("data-next-theme")
	assert.Equal(t, theme.LabelFor(true), label)
	assert.Equal(t, "light", next)
}

func TestHomeFallsBackToClientHint(t *testing.T) {
	srv := newTestServer(t, nil)

	_, doc := get(t, srv, "/", func(r *http.Request) {
		r.Header.Set(colorSchemeHint, `"dark"`)
	})
	assert.True(t, doc.Find("html").HasClass("dark"))

	_, doc = get(t, srv, "/", func(r *http.Request) {
		r.Header.Set(colorSchemeHint, `"dark"`)
		r.AddCookie(&http.Cookie{Name: "theme", Value: "light"})
	})
	assert.False(t, doc.Find("html").HasClass("dark"), "stored preference beats the hint")
}

func TestHomeStylesheetMode(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Theme.Mode = model.ThemeModeStylesheet
	})
	_, doc := get(t, srv, "/", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	})

	href, _ := doc.Find("#" + dom.ThemeStylesheetID).Attr("href")
	assert.Equal(t, "/css/theme-dark.css", href)
	assert.False(t, doc.Find("html").HasClass("dark"))
}

func TestHomeRendersSignedInHeader(t *testing.T) {
	srv := newTestServer(t, nil)
	_, doc := get(t, srv, "/", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, testNow.Add(time.Hour), "Ada")})
	})

	assert.Equal(t, "Welcome Ada!", doc.Find("#"+dom.WelcomeMessageID).Text())
	assert.True(t, doc.Find("#"+dom.SignInID).HasClass("hidden"))
	assert.False(t, doc.Find("#"+dom.SignOutID).HasClass("hidden"))

	_, doc = get(t, srv, "/", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, testNow.Add(-time.Hour), "Ada")})
	})
	assert.Equal(t, "Welcome Guest!", doc.Find("#"+dom.WelcomeMessageID).Text())
}

func TestHomeRendersFlashNotice(t *testing.T) {
	srv := newTestServer(t, nil)
	q := url.Values{"notice": {"Profile saved"}, "notice_kind": {"success"}, "notice_ms": {"2000"}}
	_, doc := get(t, srv, "/?"+q.Encode(), nil)

	surface := doc.Find("#" + dom.NotificationID)
	class, _ := surface.Attr("class")
	assert.Equal(t, notify.ClassFor(model.KindSuccess), class)
	duration, _ := surface.Attr("data-duration-ms")
	assert.Equal(t, "2000", duration)
	assert.Equal(t, "Profile saved", doc.Find("#"+dom.NotificationMessageID).Text())
}

func TestPrerenderedNoticeResumesInBrowserState(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/?notice=Hi&notice_kind=warning", nil)
	page, err := srv.prerender(req)
	require.NoError(t, err)
	require.NotNil(t, page.Notice)
	assert.Equal(t, model.KindWarning, page.Notice.Kind)
	assert.Equal(t, 5*time.Second, page.Notice.Duration)

	doc, err := dom.ParseString(page.HTML)
	require.NoError(t, err)
	clock := schedule.NewManual(testNow)
	ctrl := notify.NewController(doc, clock, nil)
	require.True(t, ctrl.Resume())
	st := ctrl.State()
	assert.Equal(t, "Hi", st.Message)
	assert.Equal(t, model.KindWarning, st.Kind)
	assert.Equal(t, model.PhaseVisible, st.Phase)

	clock.Advance(5*time.Second + notify.FadeDelay)
	assert.Equal(t, model.PhaseHidden, ctrl.State().Phase)
}

func TestThemeToggleFlipsCookie(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		hint     string
		referer  string
		want     string
		location string
	}{
		{name: "light default", want: "dark", location: "/"},
		{name: "stored dark", cookie: "dark", want: "light", location: "/"},
		{name: "hint dark", hint: `"dark"`, want: "light", location: "/"},
		{name: "same host referer", referer: "http://example.com/settings?tab=2", want: "dark", location: "/settings?tab=2"},
		{name: "foreign referer", referer: "https://evil.test/phish", want: "dark", location: "/"},
		{name: "protocol-relative path", referer: "http://example.com//evil.test/x", want: "dark", location: "/"},
		{name: "backslash path", referer: "http://example.com/\\evil.test", want: "dark", location: "/"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, nil)
			req := httptest.NewRequest(http.MethodPost, "http://example.com/theme", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "theme", Value: tc.cookie})
			}
			if tc.hint != "" {
				req.Header.Set(colorSchemeHint, tc.hint)
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, req)

			require.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, tc.location, rr.Header().Get("Location"))
			cookies := rr.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "theme", cookies[0].Name)
			assert.Equal(t, tc.want, cookies[0].Value)
			assert.Equal(t, "/", cookies[0].Path)
			assert.False(t, cookies[0].HttpOnly)
		})
	}
}

func TestMetricsAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	get(t, srv, "/?notice=hello", nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `tms_ui_pages_rendered_total{auth="guest",theme="light"} 1`)
	assert.Contains(t, body, `tms_ui_notices_rendered_total{kind="info"} 1`)
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/css", rr.Header().Get("Content-Type"))

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/css/theme-dark.css", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/main.wasm", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNoticeFromQuery(t *testing.T) {
	def := 4 * time.Second
	tests := []struct {
		name   string
		query  string
		ok     bool
		kind   model.NotificationKind
		expect time.Duration
	}{
		{name: "absent", query: "", ok: false},
		{name: "blank", query: "notice=%20%20", ok: false},
		{name: "defaults", query: "notice=hi", ok: true, kind: model.KindInfo, expect: def},
		{name: "sticky", query: "notice=hi&notice_kind=error&notice_ms=0", ok: true, kind: model.KindError, expect: 0},
		{name: "bad duration", query: "notice=hi&notice_ms=-3", ok: true, kind: model.KindInfo, expect: def},
		{name: "unknown kind", query: "notice=hi&notice_kind=party", ok: true, kind: model.KindInfo, expect: def},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			notice, ok := noticeFromQuery(q, def)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.kind, notice.Kind)
			assert.Equal(t, tc.expect, notice.Duration)
		})
	}

	long := strings.Repeat("é", maxNoticeRunes+10)
	notice, ok := noticeFromQuery(url.Values{"notice": {long}}, def)
	require.True(t, ok)
	assert.Equal(t, maxNoticeRunes, len([]rune(notice.Message)))
}
