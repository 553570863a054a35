package auth_provider

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	authuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// Provider is the client side of authentication. It holds the identity for the
// process and persists its token per device so a restarted client stays signed in.
type Provider struct {
	signUp   *authuc.SignUpUseCase
	signIn   *authuc.SignInUseCase
	resume   *authuc.ResumeUseCase
	sessions service.SessionStore
	deviceID string
	ttl      time.Duration
	events   service.EventPublisher
	logger   logger.Logger

	mu        sync.Mutex
	current   *identity.Identity
	resolved  bool
	nextID    int
	listeners map[int]func(*identity.Identity)
}

var _ service.AuthProvider = (*Provider)(nil)

type Config struct {
	DeviceID string
	TokenTTL time.Duration
}

func NewProvider(
	signUp *authuc.SignUpUseCase,
	signIn *authuc.SignInUseCase,
	resume *authuc.ResumeUseCase,
	sessions service.SessionStore,
	events service.EventPublisher,
	cfg Config,
	log logger.Logger,
) *Provider {
	return &Provider{
		signUp:    signUp,
		signIn:    signIn,
		resume:    resume,
		sessions:  sessions,
		deviceID:  cfg.DeviceID,
		ttl:       cfg.TokenTTL,
		events:    events,
		logger:    log.With(zap.String("device_id", cfg.DeviceID)),
		listeners: make(map[int]func(*identity.Identity)),
	}
}

// Restore resolves the persisted token, if any, and delivers the first state to
// subscribers. An unusable token is cleared and the client starts signed out.
func (p *Provider) Restore(ctx context.Context) {
	var restored *identity.Identity

	token, err := p.sessions.Load(ctx, p.deviceID)
	if err != nil {
		p.logger.Warn("Failed to load persisted session", zap.Error(err))
	}
	if token != "" {
		restored, err = p.resume.Execute(ctx, token)
		if err != nil {
			p.logger.Info("Persisted session rejected", zap.String("code", string(identity.CodeOf(err))))
			if err := p.sessions.Clear(ctx, p.deviceID); err != nil {
				p.logger.Warn("Failed to clear session", zap.Error(err))
			}
			restored = nil
		}
	}
	p.set(restored)
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	out, err := p.signUp.Execute(ctx, authuc.SignUpInput{Email: email, Password: password})
	if err != nil {
		return identity.Identity{}, err
	}
	p.persist(ctx, out.AccessToken)
	p.set(&out.Identity)
	return out.Identity, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	out, err := p.signIn.Execute(ctx, authuc.SignInInput{Email: email, Password: password})
	if err != nil {
		return identity.Identity{}, err
	}
	p.persist(ctx, out.AccessToken)
	p.set(&out.Identity)
	return out.Identity, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	prev := p.current
	p.mu.Unlock()

	if err := p.sessions.Clear(ctx, p.deviceID); err != nil {
		return err
	}
	p.set(nil)
	if prev != nil {
		p.events.Publish(ctx, service.TopicSessionEvents, service.Event{
			Type:       service.EventSignedOut,
			OwnerID:    prev.ID,
			OccurredAt: time.Now().UTC(),
		})
	}
	return nil
}

// OnChange calls fn with the current identity right away once Restore has run,
// and on every later change.
func (p *Provider) OnChange(fn func(*identity.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	resolved, current := p.resolved, clone(p.current)
	p.mu.Unlock()

	if resolved {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Current returns the signed-in identity, or nil.
func (p *Provider) Current() *identity.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clone(p.current)
}

func (p *Provider) persist(ctx context.Context, token string) {
	if err := p.sessions.Save(ctx, p.deviceID, token, p.ttl); err != nil {
		p.logger.Warn("Failed to persist session", zap.Error(err))
	}
}

func (p *Provider) set(next *identity.Identity) {
	p.mu.Lock()
	p.current = clone(next)
	p.resolved = true
	fns := make([]func(*identity.Identity), 0, len(p.listeners))
	for i := 0; i < p.nextID; i++ {
		if fn, ok := p.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(clone(next))
	}
}

func clone(id *identity.Identity) *identity.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
