package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/application/state"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type State struct {
	Identity identity.Identity
	// Loading stays true until the provider delivers its first resolution.
	Loading bool
}

func (s State) SignedIn() bool {
	return s.Identity.ID != ""
}

// Current returns the identity, or nil when signed out.
func (s State) Current() *identity.Identity {
	if !s.SignedIn() {
		return nil
	}
	id := s.Identity
	return &id
}

// Resolver tracks the process-wide identity reported by the auth provider.
type Resolver struct {
	state *state.Value[State]
	log   logger.Logger

	mu          sync.Mutex
	unsubscribe func()
}

func NewResolver(log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{
		state: state.NewValue(State{Loading: true}),
		log:   log,
	}
}

// Attach subscribes to the provider once. Later calls are ignored until Close.
func (r *Resolver) Attach(provider service.AuthProvider) {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return
	}
	r.unsubscribe = func() {}
	r.mu.Unlock()

	unsubscribe := provider.OnChange(r.resolve)

	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()
}

func (r *Resolver) resolve(id *identity.Identity) {
	next := State{}
	if id.Valid() {
		next.Identity = *id
	}
	if r.state.Set(next) {
		r.log.Debug("Session changed", zap.Bool("signed_in", next.SignedIn()), zap.String("owner_id", next.Identity.ID))
	}
}

func (r *Resolver) State() State {
	return r.state.Get()
}

func (r *Resolver) Subscribe(fn func(State)) (unsubscribe func()) {
	return r.state.Subscribe(fn)
}

// Close detaches from the provider.
func (r *Resolver) Close() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
