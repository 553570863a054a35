package service

import (
	"context"

	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
)

// DocumentStore is the hierarchical document database. Get returns an
// apperror.ErrNotFound error when the document is absent.
type DocumentStore interface {
	Get(ctx context.Context, path document.Path) (*document.Document, error)
	List(ctx context.Context, collection document.Path) ([]*document.Document, error)
	Set(ctx context.Context, path document.Path, data map[string]any, merge bool) error
	Create(ctx context.Context, collection document.Path, data map[string]any) (string, error)
	Delete(ctx context.Context, path document.Path) error
}
