//go:build js && wasm

package dom

import "syscall/js"

// Browser is the live page document.
type Browser struct {
	doc js.Value
}

// NewBrowser wraps the global document.
func NewBrowser() *Browser {
	return &Browser{doc: js.Global().Get("document")}
}

// ByID implements Document.
func (b *Browser) ByID(id string) (Element, bool) {
	el := b.doc.Call("getElementById", id)
	if !el.Truthy() {
		return nil, false
	}
	return jsElement{v: el}, true
}

// Root implements Document.
func (b *Browser) Root() Element {
	return jsElement{v: b.doc.Get("documentElement")}
}

// QueryAll implements Document.
func (b *Browser) QueryAll(selector string) []Element {
	return nodeList(b.doc.Call("querySelectorAll", selector))
}

func nodeList(list js.Value) []Element {
	if !list.Truthy() {
		return nil
	}
	n := list.Length()
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, jsElement{v: list.Index(i)})
	}
	return out
}

type jsElement struct {
	v js.Value
}

func toArgs(names []string) []any {
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	return args
}

func (e jsElement) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e jsElement) AddClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.v.Get("classList").Call("add", toArgs(names)...)
}

func (e jsElement) RemoveClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.v.Get("classList").Call("remove", toArgs(names)...)
}

// className is an SVGAnimatedString on svg nodes, so the attribute is used instead.
func (e jsElement) ClassName() string {
	value, _ := e.Attr("class")
	return value
}

func (e jsElement) SetClassName(value string) {
	e.v.Call("setAttribute", "class", value)
}

func (e jsElement) Text() string {
	return e.v.Get("textContent").String()
}

func (e jsElement) SetText(value string) {
	e.v.Set("textContent", value)
}

func (e jsElement) Attr(name string) (string, bool) {
	value := e.v.Call("getAttribute", name)
	if value.Type() != js.TypeString {
		return "", false
	}
	return value.String(), true
}

func (e jsElement) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e jsElement) SetInnerHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

func (e jsElement) Query(selector string) (Element, bool) {
	el := e.v.Call("querySelector", selector)
	if !el.Truthy() {
		return nil, false
	}
	return jsElement{v: el}, true
}

func (e jsElement) QueryAll(selector string) []Element {
	return nodeList(e.v.Call("querySelectorAll", selector))
}

// On runs fn on its own goroutine; handlers may block on component locks.
func (e jsElement) On(event string, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		go fn()
		return nil
	})
	e.v.Call("addEventListener", event, cb)
	return func() {
		e.v.Call("removeEventListener", event, cb)
		cb.Release()
	}
}
