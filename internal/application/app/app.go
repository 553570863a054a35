package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/application/session"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/publicprofile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type Deps struct {
	Provider      service.AuthProvider
	Gateway       gateway.Remote
	Emitter       *notify.Emitter
	Connectivity  service.Connectivity
	Clipboard     service.Clipboard
	Events        service.EventPublisher
	Logger        logger.Logger
	PublicBaseURL string
	Confirm       func(prompt string) bool
	// Fragment is the URL fragment the app starts on.
	Fragment string
}

// Screen is what the app currently shows.
type Screen struct {
	// Initializing is true until the first session resolution.
	Initializing bool
	View         router.ViewState
}

type mountKey struct {
	view  router.ViewState
	owner string
}

// App wires the session, the router and the mounted view for one process.
type App struct {
	ctx      context.Context
	deps     Deps
	log      logger.Logger
	resolver *session.Resolver
	router   *router.Router

	mu        sync.Mutex
	mounted   *mountKey
	dashboard *dashboard.Controller
	public    *publicprofile.Reader
	unsubs    []func()
}

// New attaches to the auth provider and mounts the initial view. ctx bounds the
// loads run on mount.
func New(ctx context.Context, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Emitter == nil {
		deps.Emitter = notify.NewEmitter(notify.DefaultTTL, deps.Logger)
	}
	if deps.Events == nil {
		deps.Events = service.NoopPublisher{}
	}

	a := &App{ctx: ctx, deps: deps, log: deps.Logger}
	a.resolver = session.NewResolver(deps.Logger)
	a.router = router.New(a.resolver, deps.Fragment)
	a.unsubs = append(a.unsubs,
		a.router.Subscribe(func(router.ViewState) { a.remount() }),
		a.resolver.Subscribe(func(session.State) { a.remount() }),
	)
	a.resolver.Attach(deps.Provider)
	a.remount()
	return a
}

func (a *App) remount() {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.resolver.State()
	if s.Loading {
		return
	}
	key := mountKey{view: a.router.View(), owner: s.Identity.ID}
	if a.mounted != nil && *a.mounted == key {
		return
	}

	a.unmountLocked()
	a.mounted = &key
	a.log.Debug("Mounting view", zap.String("view", string(key.view.Name)), zap.String("owner_id", key.owner))

	switch key.view.Name {
	case router.ViewDashboard:
		a.dashboard = dashboard.New(s.Identity, dashboard.Deps{
			Gateway:       a.deps.Gateway,
			Notifier:      a.deps.Emitter,
			Connectivity:  a.deps.Connectivity,
			Clipboard:     a.deps.Clipboard,
			Events:        a.deps.Events,
			Logger:        a.deps.Logger,
			PublicBaseURL: a.deps.PublicBaseURL,
			Confirm:       a.deps.Confirm,
		})
		_ = a.dashboard.Load(a.ctx)
	case router.ViewPublicProfile:
		a.public = publicprofile.NewReader(a.deps.Gateway, key.view.TargetUserID, a.deps.Logger)
		a.public.Load(a.ctx)
	}
}

func (a *App) unmountLocked() {
	a.mounted = nil
	a.dashboard = nil
	a.public = nil
}

func (a *App) Screen() Screen {
	return Screen{Initializing: a.resolver.State().Loading, View: a.router.View()}
}

func (a *App) Session() session.State {
	return a.resolver.State()
}

func (a *App) Navigate(fragment string) Screen {
	a.router.Navigate(fragment)
	return a.Screen()
}

func (a *App) Fragment() string {
	return a.router.Fragment()
}

// Dashboard is the mounted controller, or nil when another view is shown.
func (a *App) Dashboard() *dashboard.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dashboard
}

// PublicProfile is the mounted reader, or nil when another view is shown.
func (a *App) PublicProfile() *publicprofile.Reader {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.public
}

func (a *App) Notifications() *notify.Emitter {
	return a.deps.Emitter
}

// SignUp returns the user-facing message for a failure alongside the error.
func (a *App) SignUp(ctx context.Context, email, password string) (string, error) {
	if _, err := a.deps.Provider.SignUp(ctx, email, password); err != nil {
		a.log.Warn("Sign up failed", zap.String("code", string(identity.CodeOf(err))), zap.Error(err))
		return identity.Message(err), err
	}
	return "", nil
}

func (a *App) SignIn(ctx context.Context, email, password string) (string, error) {
	if _, err := a.deps.Provider.SignIn(ctx, email, password); err != nil {
		a.log.Warn("Sign in failed", zap.String("code", string(identity.CodeOf(err))), zap.Error(err))
		return identity.Message(err), err
	}
	return "", nil
}

func (a *App) SignOut(ctx context.Context) error {
	return a.deps.Provider.SignOut(ctx)
}

// Close detaches from the provider, unmounts the view and stops pending timers.
func (a *App) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.resolver.Close()
	a.router.Close()

	a.mu.Lock()
	a.unmountLocked()
	a.mu.Unlock()
	a.deps.Emitter.Close()
}
