package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type DeleteItemUseCase struct {
	gw     gateway.Remote
	events service.EventPublisher
	logger logger.Logger
}

func NewDeleteItemUseCase(gw gateway.Remote, events service.EventPublisher, log logger.Logger) *DeleteItemUseCase {
	return &DeleteItemUseCase{gw: gw, events: events, logger: log}
}

type DeleteItemInput struct {
	OwnerID  string
	Category portfolio.Category
	ItemID   string
	FilePath string
}

type DeleteItemOutput struct {
	BlobDeleted bool
}

// Execute deletes the document and then, best effort, its file. A blob failure
// is logged and does not fail the delete.
func (uc *DeleteItemUseCase) Execute(ctx context.Context, input DeleteItemInput) (*DeleteItemOutput, error) {
	if !input.Category.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("category %q", input.Category), portfolio.ErrInvalidCategory)
	}
	if input.ItemID == "" {
		return nil, apperror.NewInvalidInput("item id is required", nil)
	}

	logFields := []zap.Field{
		zap.String("owner_id", input.OwnerID),
		zap.String("category", string(input.Category)),
		zap.String("item_id", input.ItemID),
	}
	if err := uc.gw.DeleteDocument(ctx, portfolio.ItemPath(input.OwnerID, input.Category, input.ItemID)); err != nil {
		uc.logger.Error("Failed to delete item", err, logFields...)
		return nil, fmt.Errorf("delete %s failed: %w", input.Category, err)
	}

	out := &DeleteItemOutput{}
	if input.FilePath != "" {
		switch {
		case !ownsBlob(input.OwnerID, input.FilePath):
			uc.logger.Warn("Skipped deleting blob outside owner namespace", append(logFields, zap.String("path", input.FilePath))...)
		default:
			if err := uc.gw.DeleteBlob(ctx, input.FilePath); err != nil {
				uc.logger.Warn("Failed to delete item file", append(logFields, zap.String("path", input.FilePath), zap.Error(err))...)
			} else {
				out.BlobDeleted = true
			}
		}
	}

	uc.events.Publish(ctx, service.TopicPortfolioEvents, service.Event{
		Type:       service.EventItemDeleted,
		OwnerID:    input.OwnerID,
		Attributes: map[string]string{"category": string(input.Category), "item_id": input.ItemID},
		OccurredAt: time.Now().UTC(),
	})
	return out, nil
}

func ownsBlob(ownerID, path string) bool {
	return strings.HasPrefix(path, profile.CollectionProfiles+"/"+ownerID+"/")
}
