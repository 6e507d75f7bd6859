//go:build js && wasm

package storage

import (
	"fmt"
	"syscall/js"
	"time"
)

// DocumentCookie is a Store over document.cookie, readable by the server on
// the next request.
type DocumentCookie struct {
	Secure bool
}

// NewDocumentCookie marks cookies Secure when the page was served over https.
func NewDocumentCookie() DocumentCookie {
	protocol := js.Global().Get("location").Get("protocol")
	return DocumentCookie{Secure: protocol.Type() == js.TypeString && protocol.String() == "https:"}
}

func documentCookie() (string, error) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return "", ErrUnavailable
	}
	v := doc.Get("cookie")
	if v.Type() != js.TypeString {
		return "", ErrUnavailable
	}
	return v.String(), nil
}

// Get implements Store.
func (DocumentCookie) Get(key string) (string, bool, error) {
	header, err := documentCookie()
	if err != nil {
		return "", false, err
	}
	value, ok := LookupCookie(header, key)
	return value, ok, nil
}

// Set implements Store.
func (c DocumentCookie) Set(key, value string) error {
	return c.write(key, value, DefaultCookieMaxAge)
}

// Delete implements Deleter.
func (c DocumentCookie) Delete(key string) error {
	return c.write(key, "", -1)
}

func (c DocumentCookie) write(key, value string, maxAge time.Duration) error {
	line, err := CookieLine(key, value, maxAge, c.Secure)
	if err != nil {
		return err
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return fmt.Errorf("set cookie %s: %w", key, ErrUnavailable)
	}
	doc.Set("cookie", line)
	return nil
}
