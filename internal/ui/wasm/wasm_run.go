//go:build js && wasm

package wasm

import (
	"os"
	"syscall/js"
	"time"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/schedule"
	"github.com/Its-donkey/tms-ui/internal/ui/state"
	"github.com/Its-donkey/tms-ui/internal/ui/storage"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
	"github.com/Its-donkey/tms-ui/logging"
)

const logCategory = "wasm"

// RunApp boots the page state against the live document and blocks forever.
func RunApp() {
	done := make(chan struct{})
	logger := logging.New("ui-wasm", logging.INFO, os.Stdout)

	doc := dom.NewBrowser()
	store := state.New(doc, state.OptionsFromDocument(doc), state.Deps{
		Storage:   storage.NewMirror(storage.Local{}, storage.NewDocumentCookie()),
		Scheme:    theme.SchemeFunc(prefersDark),
		Scheduler: schedule.Clock{},
		Now:       time.Now,
		Logger:    logger,
	})

	result := store.Boot()
	store.Bind()
	exportGlobals(store)

	logger.Info(logCategory, "page state booted", map[string]any{
		"theme":          string(result.Theme),
		"signed_in":      result.Auth.SignedIn,
		"resumed_notice": result.ResumedNotice,
	})
	<-done
}

func prefersDark() bool {
	window := js.Global()
	if window.Get("matchMedia").Type() != js.TypeFunction {
		return false
	}
	return window.Call("matchMedia", "(prefers-color-scheme: dark)").Get("matches").Truthy()
}

// exportGlobals exposes the notification controller to page scripts. The
// funcs live as long as the page, so they are never released.
func exportGlobals(store *state.Store) {
	window := js.Global()
	window.Set(ShowGlobal, js.FuncOf(func(this js.Value, args []js.Value) any {
		call := DecodeShowCall(stringArg(args, 0), optionalString(args, 1), optionalNumber(args, 2))
		store.Notifications.Show(call.Message, call.Kind, call.Duration)
		return nil
	}))
	window.Set(DismissGlobal, js.FuncOf(func(this js.Value, args []js.Value) any {
		store.Notifications.Dismiss()
		return nil
	}))
}

func present(args []js.Value, i int) bool {
	return i < len(args) && args[i].Type() != js.TypeUndefined && args[i].Type() != js.TypeNull
}

func stringArg(args []js.Value, i int) string {
	if !present(args, i) {
		return ""
	}
	if args[i].Type() == js.TypeString {
		return args[i].String()
	}
	return js.Global().Call("String", args[i]).String()
}

func optionalString(args []js.Value, i int) *string {
	if !present(args, i) {
		return nil
	}
	v := stringArg(args, i)
	return &v
}

func optionalNumber(args []js.Value, i int) *float64 {
	if !present(args, i) || args[i].Type() != js.TypeNumber {
		return nil
	}
	v := args[i].Float()
	return &v
}
