package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// Files of any type are stored as raw assets so the blob path is the public id verbatim.
const resourceType = "raw"

var ErrNotConfigured = errors.New("cloudinary cloud_name has not config")

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.BlobStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// NewBlobStore falls back to process memory when Cloudinary is not configured.
func NewBlobStore(cfg config.Config, log logger.Logger) (service.BlobStore, error) {
	store, err := NewCloudinaryAdapter(cfg, log)
	if errors.Is(err, ErrNotConfigured) {
		log.Warn("Cloudinary not configured; uploads are kept in memory.")
		return NewMemoryBlobStore(cfg.App.PublicBaseURL + "files"), nil
	}
	return store, err
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, path string, file io.Reader) (string, error) {
	result, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     path,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", apperror.NewInternal("failed to upload cloudinary", err)
	}
	if result.Error.Message != "" {
		return "", apperror.NewInternal("failed to upload cloudinary", errors.New(result.Error.Message))
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, path string) error {
	result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     path,
		ResourceType: resourceType,
	})
	if err != nil {
		return apperror.NewInternal("failed to delete cloudinary", err)
	}
	if result.Error.Message != "" {
		return apperror.NewInternal("failed to delete cloudinary", errors.New(result.Error.Message))
	}
	return nil
}
