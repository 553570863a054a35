package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type SignInUseCase struct {
	userRepo identity.Repository
	jwtSvc   *auth.JWTService
	events   service.EventPublisher
	logger   logger.Logger
}

func NewSignInUseCase(repo identity.Repository, jwtSvc *auth.JWTService, events service.EventPublisher, log logger.Logger) *SignInUseCase {
	return &SignInUseCase{userRepo: repo, jwtSvc: jwtSvc, events: events, logger: log}
}

type SignInInput struct {
	Email    string
	Password string
}

func (uc *SignInUseCase) Execute(ctx context.Context, input SignInInput) (*Output, error) {
	ctx, span := tracer.Start(ctx, "SignIn")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, identity.NewError(identity.CodeUserNotFound, err)
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := identity.NewError(identity.CodeWrongPassword, nil)
		span.RecordError(err)
		return nil, err
	}

	out, err := issue(uc.jwtSvc, u.Identity())
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("owner_id", u.ID))
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("owner_id", u.ID))
	uc.events.Publish(ctx, service.TopicSessionEvents, service.Event{
		Type:       service.EventSignedIn,
		OwnerID:    u.ID,
		OccurredAt: time.Now().UTC(),
	})
	return out, nil
}
