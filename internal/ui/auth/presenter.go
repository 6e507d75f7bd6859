package auth

import (
	"time"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/logging"
)

const (
	defaultDisplayName = "User"
	hiddenClass        = "hidden"
	logCategory        = "auth"
)

// Presenter renders the header auth controls.
type Presenter struct {
	doc    dom.Document
	now    func() time.Time
	logger *logging.Logger
}

// NewPresenter builds a presenter. A nil now uses time.Now.
func NewPresenter(doc dom.Document, now func() time.Time, logger *logging.Logger) *Presenter {
	if now == nil {
		now = time.Now
	}
	return &Presenter{doc: doc, now: now, logger: logger}
}

// Resolve derives the header view from a raw token. Empty, undecodable and
// expired tokens all produce the signed-out view.
func (p *Presenter) Resolve(raw string) model.AuthView {
	if raw == "" {
		return model.AuthView{}
	}
	claims, err := DecodeToken(raw)
	if err != nil {
		p.logger.Error(logCategory, "error decoding token", err, nil)
		return model.AuthView{}
	}
	if !claims.Valid(p.now()) {
		p.logger.Debug(logCategory, "token expired", map[string]any{"exp": claims.Expires.Unix()})
		return model.AuthView{}
	}
	name := claims.FirstName
	if name == "" {
		name = defaultDisplayName
	}
	return model.AuthView{SignedIn: true, DisplayName: name}
}

// RenderAuthState resolves raw and renders the result. It returns the view
// and whether the header controls were present to render into.
func (p *Presenter) RenderAuthState(raw string) (model.AuthView, bool) {
	view := p.Resolve(raw)
	return view, p.Render(view)
}

// Render writes view into the header. Nothing is touched unless the sign-in,
// sign-out and welcome elements all exist.
func (p *Presenter) Render(view model.AuthView) bool {
	signIn, okIn := p.doc.ByID(dom.SignInID)
	signOut, okOut := p.doc.ByID(dom.SignOutID)
	welcome, okWelcome := p.doc.ByID(dom.WelcomeMessageID)
	if !okIn || !okOut || !okWelcome {
		return false
	}

	dom.ToggleClass(signIn, hiddenClass, view.SignedIn)
	dom.ToggleClass(signOut, hiddenClass, !view.SignedIn)
	welcome.SetText(view.Greeting())
	return true
}
