// Package dom abstracts the small slice of the browser document the UI state
// packages touch.
//
// Two backends exist: Browser (syscall/js, built only for js/wasm) and
// Headless, an in-memory goquery document used for server prerendering and
// tests. Components look elements up by id on every operation and treat a
// missing element as "not mounted".
package dom

// Element is a single DOM element.
type Element interface {
	HasClass(name string) bool
	AddClass(names ...string)
	RemoveClass(names ...string)
	// ClassName returns the raw class attribute.
	ClassName() string
	// SetClassName replaces the class attribute.
	SetClassName(value string)
	Text() string
	SetText(value string)
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	SetInnerHTML(markup string)
	// Query returns the first descendant matching a CSS selector.
	Query(selector string) (Element, bool)
	QueryAll(selector string) []Element
	// On registers fn for the named event and returns a func that removes it.
	On(event string, fn func()) (release func())
}

// Document is the page a UI component renders into.
type Document interface {
	ByID(id string) (Element, bool)
	// Root is the <html> element.
	Root() Element
	QueryAll(selector string) []Element
}

// Element ids and selectors the page markup provides.
const (
	NotificationID        = "notification"
	NotificationMessageID = "notificationMessage"
	NotificationDismiss   = "#notification button"
	ThemeToggleID         = "theme-toggle"
	ThemeStylesheetID     = "theme-stylesheet"
	SignInID              = "sign-in"
	SignOutID             = "sign-out"
	WelcomeMessageID      = "welcome-message"
)

// ToggleClass adds name when on is true and removes it otherwise.
func ToggleClass(el Element, name string, on bool) {
	if on {
		el.AddClass(name)
		return
	}
	el.RemoveClass(name)
}
