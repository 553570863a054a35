package auth

import (
	"context"
	"errors"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
)

// ResumeUseCase turns a previously issued token back into an identity.
type ResumeUseCase struct {
	userRepo identity.Repository
	jwtSvc   *auth.JWTService
}

func NewResumeUseCase(repo identity.Repository, jwtSvc *auth.JWTService) *ResumeUseCase {
	return &ResumeUseCase{userRepo: repo, jwtSvc: jwtSvc}
}

func (uc *ResumeUseCase) Execute(ctx context.Context, token string) (*identity.Identity, error) {
	ctx, span := tracer.Start(ctx, "Resume")
	defer span.End()

	claims, err := uc.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, identity.NewError(identity.CodeInvalidCredential, err)
	}

	u, err := uc.userRepo.FindByID(ctx, claims.OwnerID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, identity.NewError(identity.CodeInvalidCredential, err)
		}
		return nil, err
	}
	id := u.Identity()
	return &id, nil
}
