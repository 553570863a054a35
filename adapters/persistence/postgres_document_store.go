package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type postgresDocumentStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresDocumentStore keeps every document as one jsonb row keyed by
// (collection path, id).
func NewPostgresDocumentStore(db *pgxpool.Pool, logger logger.Logger) service.DocumentStore {
	return &postgresDocumentStore{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanDocument(row pgx.Row, collection document.Path, l logger.Logger) (*document.Document, error) {
	var (
		id   string
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("document", collection.String())
		}
		return nil, apperror.NewInternal("failed to scan document row", err)
	}

	d := &document.Document{ID: id, Path: collection.Child(id), Data: map[string]any{}}
	if err := json.Unmarshal(data, &d.Data); err != nil {
		l.Warn("Failed to unmarshal document data", zap.String("path", d.Path.String()), zap.Error(err))
		d.Data = map[string]any{}
	}
	return d, nil
}

func (r *postgresDocumentStore) Get(ctx context.Context, path document.Path) (*document.Document, error) {
	query, args, err := psql.Select("doc_id", "data").
		From("documents").
		Where(sq.Eq{"collection_path": path.Parent().String(), "doc_id": path.ID()}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build get document query", err)
	}

	d, err := scanDocument(r.db.QueryRow(ctx, query, args...), path.Parent(), r.logger)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("document", path.String())
	}
	return d, err
}

func (r *postgresDocumentStore) List(ctx context.Context, collection document.Path) ([]*document.Document, error) {
	query, args, err := psql.Select("doc_id", "data").
		From("documents").
		Where(sq.Eq{"collection_path": collection.String()}).
		OrderBy("created_at ASC", "doc_id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list documents query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list documents", err)
	}
	defer rows.Close()

	docs := make([]*document.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, collection, r.logger)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating document rows", err)
	}
	return docs, nil
}

func (r *postgresDocumentStore) Set(ctx context.Context, path document.Path, data map[string]any, merge bool) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}

	conflict := "ON CONFLICT (collection_path, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()"
	if merge {
		conflict = "ON CONFLICT (collection_path, doc_id) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()"
	}
	query, args, err := psql.Insert("documents").
		Columns("collection_path", "doc_id", "data").
		Values(path.Parent().String(), path.ID(), raw).
		Suffix(conflict).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build set document query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return apperror.NewInternal("failed to write document", err)
	}
	return nil
}

func (r *postgresDocumentStore) Create(ctx context.Context, collection document.Path, data map[string]any) (string, error) {
	raw, err := marshalData(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query, args, err := psql.Insert("documents").
		Columns("collection_path", "doc_id", "data").
		Values(collection.String(), id, raw).
		ToSql()
	if err != nil {
		return "", apperror.NewInternal("failed to build create document query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return "", apperror.NewInternal("failed to create document", err)
	}
	return id, nil
}

// Delete removes the row if present. Deleting a missing document is not an error.
func (r *postgresDocumentStore) Delete(ctx context.Context, path document.Path) error {
	query, args, err := psql.Delete("documents").
		Where(sq.Eq{"collection_path": path.Parent().String(), "doc_id": path.ID()}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build delete document query", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	return nil
}

func marshalData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, apperror.NewInvalidInput("document data is not serializable", err)
	}
	return raw, nil
}
