package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Headless is an in-memory Document backed by goquery.
//
// All element operations serialise on a document-wide lock so timer
// callbacks can touch the tree from other goroutines.
type Headless struct {
	mu        sync.Mutex
	doc       *goquery.Document
	listeners map[*html.Node]map[string][]*listener
}

type listener struct {
	fn func()
}

// ParseHTML builds a Headless document from markup.
func ParseHTML(r io.Reader) (*Headless, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Headless{
		doc:       doc,
		listeners: make(map[*html.Node]map[string][]*listener),
	}, nil
}

// ParseString is ParseHTML for a string.
func ParseString(markup string) (*Headless, error) {
	return ParseHTML(strings.NewReader(markup))
}

// HTML serialises the whole document.
func (d *Headless) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

// ByID implements Document.
func (d *Headless) ByID(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find("#" + id).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &headlessElement{doc: d, sel: sel}, true
}

// Root implements Document.
func (d *Headless) Root() Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &headlessElement{doc: d, sel: d.doc.Find("html").First()}
}

// QueryAll implements Document.
func (d *Headless) QueryAll(selector string) []Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapAll(d.doc.Find(selector))
}

// Dispatch runs the listeners registered on el for event and returns how many ran.
func (d *Headless) Dispatch(el Element, event string) int {
	he, ok := el.(*headlessElement)
	if !ok || he.doc != d {
		return 0
	}
	d.mu.Lock()
	node := he.node()
	var fns []func()
	for _, l := range d.listeners[node][event] {
		fns = append(fns, l.fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Click dispatches a click on the element with the given id.
func (d *Headless) Click(id string) bool {
	el, ok := d.ByID(id)
	if !ok {
		return false
	}
	return d.Dispatch(el, "click") > 0
}

func (d *Headless) wrapAll(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &headlessElement{doc: d, sel: s})
	})
	return out
}

type headlessElement struct {
	doc *Headless
	sel *goquery.Selection
}

func (e *headlessElement) node() *html.Node {
	return e.sel.Get(0)
}

func (e *headlessElement) HasClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.sel.HasClass(name)
}

func (e *headlessElement) AddClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.AddClass(names...)
}

func (e *headlessElement) RemoveClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.RemoveClass(names...)
}

func (e *headlessElement) ClassName() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.sel.AttrOr("class", "")
}

func (e *headlessElement) SetClassName(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.SetAttr("class", value)
}

func (e *headlessElement) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.sel.Text()
}

func (e *headlessElement) SetText(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.SetText(value)
}

func (e *headlessElement) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.sel.Attr(name)
}

func (e *headlessElement) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.SetAttr(name, value)
}

func (e *headlessElement) SetInnerHTML(markup string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.sel.SetHtml(markup)
}

func (e *headlessElement) Query(selector string) (Element, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &headlessElement{doc: e.doc, sel: sel}, true
}

func (e *headlessElement) QueryAll(selector string) []Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrapAll(e.sel.Find(selector))
}

func (e *headlessElement) On(event string, fn func()) func() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	node := e.node()
	byEvent := e.doc.listeners[node]
	if byEvent == nil {
		byEvent = make(map[string][]*listener)
		e.doc.listeners[node] = byEvent
	}
	l := &listener{fn: fn}
	byEvent[event] = append(byEvent[event], l)

	return func() {
		e.doc.mu.Lock()
		defer e.doc.mu.Unlock()
		list := e.doc.listeners[node][event]
		for i, candidate := range list {
			if candidate == l {
				e.doc.listeners[node][event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}
