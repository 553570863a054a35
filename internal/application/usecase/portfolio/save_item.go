package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type SaveItemUseCase struct {
	gw     gateway.Remote
	events service.EventPublisher
	logger logger.Logger
	now    func() time.Time
}

func NewSaveItemUseCase(gw gateway.Remote, events service.EventPublisher, log logger.Logger) *SaveItemUseCase {
	return &SaveItemUseCase{gw: gw, events: events, logger: log, now: time.Now}
}

// File is an attachment picked for an item. A present but empty file is skipped.
type File struct {
	Name    string
	Content []byte
}

type SaveItemInput struct {
	OwnerID  string
	Category portfolio.Category
	Item     portfolio.Item
	File     *File
}

type SaveItemOutput struct {
	Item          portfolio.Item
	Created       bool
	UploadSkipped bool
}

// Execute uploads the file first, then writes the document. An item with an id
// must already exist and is overwritten in full; one without is created with a
// store-assigned id. A failed document write after a successful upload leaves
// the blob behind.
func (uc *SaveItemUseCase) Execute(ctx context.Context, input SaveItemInput) (*SaveItemOutput, error) {
	if !input.Category.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("category %q", input.Category), portfolio.ErrInvalidCategory)
	}
	item := input.Item
	if err := item.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("invalid item", err)
	}

	if item.ID != "" {
		if err := uc.requireExisting(ctx, input.OwnerID, input.Category, item.ID); err != nil {
			return nil, err
		}
	}

	out := &SaveItemOutput{}
	if input.File != nil {
		if len(input.File.Content) == 0 {
			out.UploadSkipped = true
		} else {
			path := portfolio.BlobPath(input.OwnerID, input.Category, uc.now(), input.File.Name)
			url, err := uc.gw.UploadBlob(ctx, path, input.File.Content)
			if err != nil {
				uc.logger.Error("Failed to upload item file", err,
					zap.String("owner_id", input.OwnerID), zap.String("category", string(input.Category)), zap.String("path", path))
				return nil, fmt.Errorf("upload file failed: %w", err)
			}
			item.FileURL = url
			item.FilePath = path
		}
	}

	logFields := []zap.Field{zap.String("owner_id", input.OwnerID), zap.String("category", string(input.Category))}
	eventType := service.EventItemUpdated
	if item.ID != "" {
		path := portfolio.ItemPath(input.OwnerID, input.Category, item.ID)
		if err := uc.gw.UpsertDocument(ctx, path, item.Fields()); err != nil {
			uc.logger.Error("Failed to update item", err, append(logFields, zap.String("item_id", item.ID))...)
			return nil, fmt.Errorf("update %s failed: %w", input.Category, err)
		}
	} else {
		id, err := uc.gw.CreateDocument(ctx, portfolio.CollectionPath(input.OwnerID, input.Category), item.Fields())
		if err != nil {
			uc.logger.Error("Failed to create item", err, logFields...)
			return nil, fmt.Errorf("create %s failed: %w", input.Category, err)
		}
		item.ID = id
		out.Created = true
		eventType = service.EventItemCreated
	}

	out.Item = item
	uc.events.Publish(ctx, service.TopicPortfolioEvents, service.Event{
		Type:       eventType,
		OwnerID:    input.OwnerID,
		Attributes: map[string]string{"category": string(input.Category), "item_id": item.ID},
		OccurredAt: uc.now().UTC(),
	})
	return out, nil
}

// Ids are never minted by callers: updating an item that is not stored fails
// before anything is uploaded or written.
func (uc *SaveItemUseCase) requireExisting(ctx context.Context, ownerID string, category portfolio.Category, itemID string) error {
	_, err := uc.gw.GetDocument(ctx, portfolio.ItemPath(ownerID, category, itemID))
	if err == nil {
		return nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NewNotFound(string(category), itemID)
	}
	uc.logger.Error("Failed to look up item", err,
		zap.String("owner_id", ownerID), zap.String("category", string(category)), zap.String("item_id", itemID))
	return fmt.Errorf("get %s failed: %w", category, err)
}
