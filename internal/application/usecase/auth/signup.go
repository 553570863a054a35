package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

var (
	tracer   = otel.Tracer("auth_usecase")
	validate = validator.New()
)

type Output struct {
	Identity    identity.Identity
	AccessToken string
}

type SignUpUseCase struct {
	userRepo identity.Repository
	gw       gateway.Remote
	jwtSvc   *auth.JWTService
	events   service.EventPublisher
	logger   logger.Logger
}

func NewSignUpUseCase(repo identity.Repository, gw gateway.Remote, jwtSvc *auth.JWTService, events service.EventPublisher, log logger.Logger) *SignUpUseCase {
	return &SignUpUseCase{userRepo: repo, gw: gw, jwtSvc: jwtSvc, events: events, logger: log}
}

type SignUpInput struct {
	Email    string
	Password string
}

// Execute creates the account and its default profile, then issues a token.
func (uc *SignUpUseCase) Execute(ctx context.Context, input SignUpInput) (*Output, error) {
	ctx, span := tracer.Start(ctx, "SignUp")
	defer span.End()

	email := normalizeEmail(input.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, identity.NewError(identity.CodeInvalidEmail, err)
	}
	if len(input.Password) < identity.MinPasswordLength {
		return nil, identity.NewError(identity.CodeWeakPassword, nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	account := &identity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, account); err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrConflict) {
			return nil, identity.NewError(identity.CodeEmailInUse, err)
		}
		return nil, err
	}

	// The account already exists, so a failed profile write does not fail the
	// sign-up. The dashboard falls back to the default profile until the first save.
	if err := uc.gw.UpsertDocument(ctx, profile.Path(account.ID), profile.Default(email).Data()); err != nil {
		uc.logger.Error("Failed to create default profile", err, zap.String("owner_id", account.ID))
		span.RecordError(err)
	}

	out, err := issue(uc.jwtSvc, account.Identity())
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("owner_id", account.ID))
		return nil, err
	}

	span.SetAttributes(attribute.String("owner_id", account.ID))
	uc.events.Publish(ctx, service.TopicSessionEvents, service.Event{
		Type:       service.EventSignedUp,
		OwnerID:    account.ID,
		OccurredAt: time.Now().UTC(),
	})
	return out, nil
}

func issue(jwtSvc *auth.JWTService, id identity.Identity) (*Output, error) {
	token, err := jwtSvc.GenerateToken(id.ID, id.Email)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &Output{Identity: id, AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
