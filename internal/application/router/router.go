package router

import (
	"strings"
	"sync"

	"github.com/khoahotran/portfolio-pilot/internal/application/session"
	"github.com/khoahotran/portfolio-pilot/internal/application/state"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
)

type Name string

const (
	ViewAuth          Name = "auth"
	ViewDashboard     Name = "dashboard"
	ViewPublicProfile Name = "profile"
)

const profilePrefix = "profile/"

type ViewState struct {
	Name Name `json:"view"`
	// TargetUserID is set only for ViewPublicProfile.
	TargetUserID string `json:"target_user_id,omitempty"`
}

// Resolve picks the active view. A "profile/<id>" fragment wins regardless of
// identity; otherwise the view is the dashboard when signed in and auth when not.
func Resolve(id *identity.Identity, fragment string) ViewState {
	if target, ok := PublicTarget(fragment); ok {
		return ViewState{Name: ViewPublicProfile, TargetUserID: target}
	}
	if id.Valid() {
		return ViewState{Name: ViewDashboard}
	}
	return ViewState{Name: ViewAuth}
}

// PublicTarget extracts <id> from "profile/<id>", with or without a leading '#'.
func PublicTarget(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	rest, ok := strings.CutPrefix(fragment, profilePrefix)
	if !ok {
		return "", false
	}
	target, _, _ := strings.Cut(rest, "/")
	if target == "" {
		return "", false
	}
	return target, true
}

// Fragment is the inverse of PublicTarget.
func Fragment(targetUserID string) string {
	return "#" + profilePrefix + targetUserID
}

// Router recomputes the view when the session or the fragment changes.
type Router struct {
	view *state.Value[ViewState]

	mu          sync.Mutex
	session     session.State
	fragment    string
	unsubscribe func()
}

type SessionSource interface {
	State() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

func New(src SessionSource, fragment string) *Router {
	r := &Router{
		session:  src.State(),
		fragment: fragment,
	}
	r.view = state.NewValue(Resolve(r.session.Current(), fragment))
	r.unsubscribe = src.Subscribe(r.onSession)
	return r
}

func (r *Router) onSession(s session.State) {
	r.mu.Lock()
	r.session = s
	next := Resolve(s.Current(), r.fragment)
	r.mu.Unlock()
	r.view.Set(next)
}

func (r *Router) Navigate(fragment string) ViewState {
	r.mu.Lock()
	r.fragment = fragment
	next := Resolve(r.session.Current(), fragment)
	r.mu.Unlock()
	r.view.Set(next)
	return next
}

func (r *Router) Fragment() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragment
}

func (r *Router) View() ViewState {
	return r.view.Get()
}

func (r *Router) Subscribe(fn func(ViewState)) (unsubscribe func()) {
	return r.view.Subscribe(fn)
}

func (r *Router) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}
