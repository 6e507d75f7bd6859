package server

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/state"
	"github.com/Its-donkey/tms-ui/internal/ui/theme"
)

const wasmBootScript = `(function(){
  if (!window.Go || !WebAssembly.instantiateStreaming) { return; }
  var go = new Go();
  WebAssembly.instantiateStreaming(fetch('/main.wasm'), go.importObject)
    .then(function(result){ go.run(result.instance); })
    .catch(function(err){ console.error('tms-ui: wasm boot failed', err); });
})();`

// pageShell builds the markup every UI component binds to. The shell renders
// signed out, light and without a notice; prerender applies the real state.
func (s *Server) pageShell() Node {
	cfg := s.cfg
	return Doctype(
		HTML(
			Lang("en"),
			Attr(state.AttrThemeMode, string(cfg.Theme.Mode)),
			Attr(state.AttrThemeKey, cfg.Theme.StorageKey),
			Attr(state.AttrThemeLightHref, cfg.Theme.LightHref),
			Attr(state.AttrThemeDarkHref, cfg.Theme.DarkHref),
			Attr(state.AttrTokenKey, cfg.Auth.TokenKey),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(cfg.App.Name)),
				Link(Rel("icon"), Href("data:,")),
				Link(Rel("stylesheet"), Href("/styles.css")),
				If(cfg.Theme.Mode == model.ThemeModeStylesheet,
					Link(ID(dom.ThemeStylesheetID), Rel("stylesheet"), Href(cfg.Theme.LightHref)),
				),
				Script(Src("/wasm_exec.js")),
			),
			Body(
				Class("min-h-screen bg-white text-gray-900 dark:bg-gray-900 dark:text-gray-100"),
				Header(
					Class("flex items-center justify-between px-6 py-4 border-b border-gray-200 dark:border-gray-700"),
					A(Href("/"), Class("text-lg font-semibold"), Text(cfg.App.Name)),
					Div(
						Class("flex items-center gap-4"),
						Span(ID(dom.WelcomeMessageID), Class("text-sm"), Text(model.AuthView{}.Greeting())),
						A(ID(dom.SignInID), Href("/login"), Class("text-sm underline"), Text("Sign in")),
						A(ID(dom.SignOutID), Href("/logout"), Class("hidden text-sm underline"), Text("Sign out")),
						themeToggle(),
					),
				),
				Main(ID("app"), Class("px-6 py-8")),
				Div(
					Class("fixed bottom-4 right-4 z-50 max-w-sm"),
					Div(
						ID(dom.NotificationID),
						Class("hidden"),
						Attr("role", "status"),
						Attr("aria-live", "polite"),
						Span(ID(dom.NotificationMessageID)),
						Button(
							Type("button"),
							Class("absolute top-1 right-2"),
							Attr("aria-label", "Dismiss notification"),
							Text("×"),
						),
					),
				),
				Script(Raw(wasmBootScript)),
			),
		),
	)
}

// themeToggle is the WASM-driven button plus a form for pages running without scripts.
func themeToggle() Node {
	return Group([]Node{
		Button(
			ID(dom.ThemeToggleID),
			Type("button"),
			Class("p-2 rounded-md hover:bg-gray-100 dark:hover:bg-gray-800"),
			Attr("aria-label", theme.LabelFor(false)),
			Title(theme.LabelFor(false)),
			Attr("data-next-theme", string(model.ThemeDark)),
			El("svg",
				Class("w-5 h-5"),
				Attr("fill", "none"),
				Attr("stroke", "currentColor"),
				Attr("viewBox", "0 0 24 24"),
				Raw(theme.IconFor(false)),
			),
		),
		El("noscript",
			Form(
				Method("post"),
				Action("/theme"),
				Button(Type("submit"), Class("text-sm underline"), Text("Toggle theme")),
			),
		),
	})
}
