package storage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultCookieMaxAge keeps preferences for a year.
const DefaultCookieMaxAge = 365 * 24 * time.Hour

// Cookies is a Store over one HTTP exchange: reads come from the request
// cookies, writes become Set-Cookie headers on the response.
type Cookies struct {
	req    *http.Request
	w      http.ResponseWriter
	maxAge time.Duration
	secure bool

	mu      sync.Mutex
	written map[string]string
}

// NewCookies returns a cookie store for the exchange. A nil w makes the store read-only.
func NewCookies(w http.ResponseWriter, r *http.Request, maxAge time.Duration, secure bool) *Cookies {
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	return &Cookies{
		req:     r,
		w:       w,
		maxAge:  maxAge,
		secure:  secure,
		written: make(map[string]string),
	}
}

// Get implements Store. Values written earlier in the same exchange win.
func (c *Cookies) Get(key string) (string, bool, error) {
	c.mu.Lock()
	v, ok := c.written[key]
	c.mu.Unlock()
	if ok {
		return v, true, nil
	}
	if c.req == nil {
		return "", false, ErrUnavailable
	}
	cookie, err := c.req.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cookie %s: %w", key, err)
	}
	return cookie.Value, true, nil
}

// Set implements Store.
func (c *Cookies) Set(key, value string) error {
	if c.w == nil {
		return fmt.Errorf("set cookie %s: %w", key, ErrUnavailable)
	}
	// Not HttpOnly: the WASM bundle reads the same preference.
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.mu.Lock()
	c.written[key] = value
	c.mu.Unlock()
	return nil
}

// CookieLine formats a cookie assignment as document.cookie accepts it,
// with the same attributes Cookies.Set sends. A negative maxAge expires the
// cookie.
func CookieLine(key, value string, maxAge time.Duration, secure bool) (string, error) {
	c := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.MaxAge = -1
	}
	if err := c.Valid(); err != nil {
		return "", fmt.Errorf("cookie %s: %w", key, err)
	}
	// Valid accepts values that String quietly rewrites.
	if strings.ContainsAny(value, ` ,"`) {
		return "", fmt.Errorf("cookie %s: invalid value", key)
	}
	return c.String(), nil
}

// LookupCookie finds key in a Cookie header or a document.cookie string.
func LookupCookie(header, key string) (string, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		// One malformed pair fails the whole parse; fall back to a scan.
		for _, part := range strings.Split(header, ";") {
			name, value, found := strings.Cut(strings.TrimSpace(part), "=")
			if found && name == key {
				return value, true
			}
		}
		return "", false
	}
	for _, c := range cookies {
		if c.Name == key {
			return c.Value, true
		}
	}
	return "", false
}
