package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

var validate = validator.New()

type GetProfileUseCase struct {
	gw gateway.Reader
}

func NewGetProfileUseCase(gw gateway.Reader) *GetProfileUseCase {
	return &GetProfileUseCase{gw: gw}
}

// Execute returns an apperror.ErrNotFound error when the owner has no profile.
func (uc *GetProfileUseCase) Execute(ctx context.Context, ownerID string) (*profile.Profile, error) {
	doc, err := uc.gw.GetDocument(ctx, profile.Path(ownerID))
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	p := profile.FromDocument(doc)
	return &p, nil
}

type UpdateProfileUseCase struct {
	gw     gateway.Remote
	events service.EventPublisher
}

func NewUpdateProfileUseCase(gw gateway.Remote, events service.EventPublisher) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{gw: gw, events: events}
}

type UpdateProfileInput struct {
	OwnerID string
	Fields  profile.Fields
}

// Execute merge-writes name and bio; the stored email is left untouched.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) error {
	if err := validate.Struct(input.Fields); err != nil {
		return apperror.NewInvalidInput("invalid profile fields", err)
	}
	err := uc.gw.UpsertDocument(ctx, profile.Path(input.OwnerID), input.Fields.Data(), gateway.WithMerge())
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	uc.events.Publish(ctx, service.TopicPortfolioEvents, service.Event{
		Type:       service.EventProfileUpdated,
		OwnerID:    input.OwnerID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
