package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// SeedOwnerUseCase creates an owner account or resets the password of an existing one.
type SeedOwnerUseCase struct {
	userRepo identity.Repository
	gw       gateway.Remote
	logger   logger.Logger
}

func NewSeedOwnerUseCase(repo identity.Repository, gw gateway.Remote, log logger.Logger) *SeedOwnerUseCase {
	return &SeedOwnerUseCase{userRepo: repo, gw: gw, logger: log}
}

type SeedOwnerInput struct {
	Email    string
	Password string
	// ResetProfile overwrites an existing profile with the default one.
	ResetProfile bool
}

type SeedOwnerOutput struct {
	Identity identity.Identity
	Created  bool
}

func (uc *SeedOwnerUseCase) Execute(ctx context.Context, input SeedOwnerInput) (*SeedOwnerOutput, error) {
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

	out := &SeedOwnerOutput{}
	account, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := uc.userRepo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
			return nil, fmt.Errorf("reset password failed: %w", err)
		}
	case errors.Is(err, apperror.ErrNotFound):
		account = &identity.Account{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.userRepo.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create owner failed: %w", err)
		}
		out.Created = true
	default:
		return nil, fmt.Errorf("find owner failed: %w", err)
	}
	out.Identity = account.Identity()

	writeProfile := out.Created || input.ResetProfile
	if !writeProfile {
		_, err := uc.gw.GetDocument(ctx, profile.Path(account.ID))
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			writeProfile = true
		case err != nil:
			return nil, fmt.Errorf("read owner profile failed: %w", err)
		}
	}
	if writeProfile {
		if err := uc.gw.UpsertDocument(ctx, profile.Path(account.ID), profile.Default(email).Data()); err != nil {
			return nil, fmt.Errorf("write default profile failed: %w", err)
		}
	}

	uc.logger.Info("Owner seeded", zap.String("owner_id", account.ID), zap.Bool("created", out.Created), zap.Bool("profile_written", writeProfile))
	return out, nil
}
