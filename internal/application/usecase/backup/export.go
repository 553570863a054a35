package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	portfoliouc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	profileuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const folder = "backups"

// Snapshot is the exported form of one owner's portfolio.
type Snapshot struct {
	OwnerID      string           `json:"owner_id"`
	ExportedAt   time.Time        `json:"exported_at"`
	Profile      profile.Profile  `json:"profile"`
	Projects     []portfolio.Item `json:"projects"`
	Achievements []portfolio.Item `json:"achievements"`
	Certificates []portfolio.Item `json:"certificates"`
}

type ExportOutput struct {
	URL   string
	Path  string
	Items int
}

// ExportUseCase writes a JSON snapshot of the owner's profile and items to the
// blob store under profiles/{ownerId}/backups/.
type ExportUseCase struct {
	gw         gateway.Remote
	getProfile *profileuc.GetProfileUseCase
	listItems  *portfoliouc.ListItemsUseCase
	logger     logger.Logger
	now        func() time.Time
}

func NewExportUseCase(gw gateway.Remote, log logger.Logger) *ExportUseCase {
	return &ExportUseCase{
		gw:         gw,
		getProfile: profileuc.NewGetProfileUseCase(gw),
		listItems:  portfoliouc.NewListItemsUseCase(gw),
		logger:     log,
		now:        time.Now,
	}
}

func (uc *ExportUseCase) Execute(ctx context.Context, ownerID string) (*ExportOutput, error) {
	uc.logger.Info("Starting portfolio export...", zap.String("owner_id", ownerID))

	p, err := uc.getProfile.Execute(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("export profile failed: %w", err)
	}
	items, err := uc.listItems.All(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("export items failed: %w", err)
	}

	at := uc.now().UTC()
	snap := Snapshot{
		OwnerID:      ownerID,
		ExportedAt:   at,
		Profile:      *p,
		Projects:     nonNil(items[portfolio.CategoryProject]),
		Achievements: nonNil(items[portfolio.CategoryAchievement]),
		Certificates: nonNil(items[portfolio.CategoryCertificate]),
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode export", err)
	}

	path := fmt.Sprintf("%s/%s/%s/export-%s.json", profile.CollectionProfiles, ownerID, folder, at.Format("2006-01-02_15-04-05"))
	url, err := uc.gw.UploadBlob(ctx, path, payload)
	if err != nil {
		uc.logger.Error("Failed to upload export", err, zap.String("owner_id", ownerID), zap.String("path", path))
		return nil, fmt.Errorf("upload export failed: %w", err)
	}

	out := &ExportOutput{
		URL:   url,
		Path:  path,
		Items: len(snap.Projects) + len(snap.Achievements) + len(snap.Certificates),
	}
	uc.logger.Info("Portfolio export completed and uploaded successfully",
		zap.String("url", url),
		zap.String("path", path),
		zap.Int("items", out.Items),
	)
	return out, nil
}

func nonNil(items []portfolio.Item) []portfolio.Item {
	if items == nil {
		return []portfolio.Item{}
	}
	return items
}
