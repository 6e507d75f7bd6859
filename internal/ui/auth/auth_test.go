package auth

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/logging"
)

const headerPage = `<html><body><header>
<a id="sign-in" href="/login">Sign in</a>
<a id="sign-out" class="hidden" href="/logout">Sign out</a>
<span id="welcome-message"></span>
</header></body></html>`

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

// makeToken signs claims with a throwaway key; the presenter never verifies it.
func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestPresenter(t *testing.T) (*Presenter, *dom.Headless) {
	t.Helper()
	doc, err := dom.ParseString(headerPage)
	require.NoError(t, err)
	return NewPresenter(doc, func() time.Time { return now }, logging.Discard()), doc
}

func header(t *testing.T, doc *dom.Headless) (signInHidden, signOutHidden bool, text string) {
	t.Helper()
	in, ok := doc.ByID(dom.SignInID)
	require.True(t, ok)
	out, ok := doc.ByID(dom.SignOutID)
	require.True(t, ok)
	welcome, ok := doc.ByID(dom.WelcomeMessageID)
	require.True(t, ok)
	return in.HasClass("hidden"), out.HasClass("hidden"), welcome.Text()
}

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantErr  bool
		wantName string
		wantExp  time.Time
	}{
		{
			name:     "first name and expiry",
			token:    makeToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "sub": map[string]any{"firstName": "Ada"}}),
			wantName: "Ada",
			wantExp:  now.Add(time.Hour),
		},
		{
			name:    "string subject has no name",
			token:   makeToken(t, jwt.MapClaims{"exp": now.Unix(), "sub": "user-1"}),
			wantExp: now,
		},
		{name: "garbage", token: "not-a-token", wantErr: true},
		{name: "empty", token: "  ", wantErr: true},
		{
			name:    "bad payload encoding",
			token:   "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("{nope")) + ".sig",
			wantErr: true,
		},
		{
			name:    "non numeric exp",
			token:   makeToken(t, jwt.MapClaims{"exp": "tomorrow"}),
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := DecodeToken(tc.token)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedToken))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, claims.FirstName)
			assert.Equal(t, tc.wantExp.Unix(), claims.Expires.Unix())
		})
	}
}

func TestRenderAuthStateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantView model.AuthView
		wantText string
	}{
		{name: "absent", token: "", wantText: "Welcome Guest!"},
		{
			name:     "expired an hour ago",
			token:    makeToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix(), "sub": map[string]any{"firstName": "Ada"}}),
			wantText: "Welcome Guest!",
		},
		{
			name:     "valid for another hour",
			token:    makeToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "sub": map[string]any{"firstName": "Ada"}}),
			wantView: model.AuthView{SignedIn: true, DisplayName: "Ada"},
			wantText: "Welcome Ada!",
		},
		{
			name:     "missing first name",
			token:    makeToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "sub": map[string]any{}}),
			wantView: model.AuthView{SignedIn: true, DisplayName: "User"},
			wantText: "Welcome User!",
		},
		{
			name:     "expires this second",
			token:    makeToken(t, jwt.MapClaims{"exp": now.Unix()}),
			wantText: "Welcome Guest!",
		},
		{
			name:     "no exp claim",
			token:    makeToken(t, jwt.MapClaims{"sub": map[string]any{"firstName": "Ada"}}),
			wantText: "Welcome Guest!",
		},
		{name: "tampered", token: "a.b.c", wantText: "Welcome Guest!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, doc := newTestPresenter(t)
			view, rendered := p.RenderAuthState(tc.token)
			require.True(t, rendered)
			assert.Equal(t, tc.wantView, view)

			signInHidden, signOutHidden, text := header(t, doc)
			assert.Equal(t, tc.wantText, text)
			assert.Equal(t, view.SignedIn, signInHidden)
			assert.Equal(t, !view.SignedIn, signOutHidden)
		})
	}
}

func TestSignOutAfterSignIn(t *testing.T) {
	p, doc := newTestPresenter(t)
	p.RenderAuthState(makeToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "sub": map[string]any{"firstName": "Grace"}}))
	p.RenderAuthState("")

	signInHidden, signOutHidden, text := header(t, doc)
	assert.False(t, signInHidden)
	assert.True(t, signOutHidden)
	assert.Equal(t, "Welcome Guest!", text)
}

func TestRenderSkipsWhenHeaderIncomplete(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><a id="sign-in"></a><span id="welcome-message">unchanged</span></body></html>`)
	require.NoError(t, err)
	p := NewPresenter(doc, nil, nil)

	_, rendered := p.RenderAuthState("")
	assert.False(t, rendered)
	welcome, _ := doc.ByID(dom.WelcomeMessageID)
	assert.Equal(t, "unchanged", welcome.Text())
}

func TestDecodeFailureIsLogged(t *testing.T) {
	p, _ := newTestPresenter(t)
	entries := make(chan logging.Entry, 2)
	p.logger.Subscribe(entries)

	p.Resolve("garbage")
	require.Len(t, entries, 1)
	entry := <-entries
	assert.Equal(t, "ERROR", entry.Level)
	assert.Contains(t, entry.Error, "malformed token")
}
