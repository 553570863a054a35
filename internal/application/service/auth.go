package service

import (
	"context"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
)

// AuthProvider is the authentication collaborator. OnChange delivers the current
// identity (nil when signed out) to the new subscriber and then every later change.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (identity.Identity, error)
	SignIn(ctx context.Context, email, password string) (identity.Identity, error)
	SignOut(ctx context.Context) error
	OnChange(fn func(*identity.Identity)) (unsubscribe func())
}
