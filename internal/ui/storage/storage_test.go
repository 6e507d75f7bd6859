package storage

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOverwrites(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("theme", "dark"))
	require.NoError(t, m.Set("theme", "light"))
	v, ok, err := m.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestUnavailable(t *testing.T) {
	var s Store = Unavailable{}
	_, _, err := s.Get("theme")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(s.Set("theme", "dark"), ErrUnavailable))
}

func TestCookiesReadAndWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "theme", Value: "light"})
	rec := httptest.NewRecorder()
	store := NewCookies(rec, req, time.Hour, true)

	v, ok, err := store.Get("theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", v)

	require.NoError(t, store.Set("theme", "dark"))
	v, _, _ = store.Get("theme")
	assert.Equal(t, "dark", v, "written value shadows request cookie")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "theme", cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.False(t, cookies[0].HttpOnly)
}

func TestCookiesMissingAndReadOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := NewCookies(nil, req, 0, false)

	_, ok, err := store.Get("accessToken")
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.Set("theme", "dark")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestMirrorWritesBothAndBackfills(t *testing.T) {
	local, cookies := NewMemory(), NewMemory()
	m := NewMirror(local, cookies)

	require.NoError(t, m.Set("theme", "dark"))
	v, ok, _ := cookies.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	// A value written straight into the primary reaches the mirror on read.
	require.NoError(t, local.Set("accessToken", "abc.def.ghi"))
	v, ok, err := m.Get("accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc.def.ghi", v)
	v, _, _ = cookies.Get("accessToken")
	assert.Equal(t, "abc.def.ghi", v)

	// A key gone from the primary is dropped from the mirror, not restored.
	require.NoError(t, local.Delete("accessToken"))
	_, ok, err = m.Get("accessToken")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = cookies.Get("accessToken")
	assert.False(t, ok)
}

func TestMirrorFallsBackWhenPrimaryUnavailable(t *testing.T) {
	cookies := NewMemory()
	require.NoError(t, cookies.Set("theme", "light"))
	m := NewMirror(Unavailable{}, cookies)

	v, ok, err := m.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	err = m.Set("theme", "dark")
	assert.True(t, errors.Is(err, ErrUnavailable))
	v, _, _ = cookies.Get("theme")
	assert.Equal(t, "light", v, "secondary untouched when primary fails")
}

func TestCookieLine(t *testing.T) {
	line, err := CookieLine("theme", "dark", time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, "theme=dark; Path=/; Max-Age=3600; SameSite=Lax", line)

	line, err = CookieLine("theme", "", -1, true)
	require.NoError(t, err)
	assert.Contains(t, line, "Max-Age=0")
	assert.Contains(t, line, "Secure")

	_, err = CookieLine("theme", "a;b", time.Hour, false)
	assert.Error(t, err)
	_, err = CookieLine("theme", "a b", time.Hour, false)
	assert.Error(t, err)
}

func TestLookupCookie(t *testing.T) {
	tests := []struct {
		name   string
		header string
		key    string
		want   string
		wantOK bool
	}{
		{name: "empty", header: "", key: "theme"},
		{name: "single", header: "theme=dark", key: "theme", want: "dark", wantOK: true},
		{name: "several", header: "a=1; theme=light; accessToken=x.y.z", key: "accessToken", want: "x.y.z", wantOK: true},
		{name: "missing", header: "a=1; b=2", key: "theme"},
		{name: "malformed neighbour", header: `bad"=1; theme=dark`, key: "theme", want: "dark", wantOK: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LookupCookie(tc.header, tc.key)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCookieLineRoundTripsThroughServerStore(t *testing.T) {
	line, err := CookieLine("theme", "dark", DefaultCookieMaxAge, false)
	require.NoError(t, err)
	pair, _, _ := strings.Cut(line, ";")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", pair)
	v, ok, err := NewCookies(nil, req, 0, false).Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
