package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) identity.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

func scanAccount(row pgx.Row, identifier string) (*identity.Account, error) {
	a := &identity.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", identifier)
		}
		return nil, apperror.NewInternal("failed to scan user row", err)
	}
	return a, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, a *identity.Account) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("user", "email", a.Email)
		}
		return apperror.NewInternal("failed to save user", err)
	}
	return nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	query := `
		SELECT id::text, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return scanAccount(r.db.QueryRow(ctx, query, email), email)
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id string) (*identity.Account, error) {
	query := `
		SELECT id::text, email, password_hash, created_at
		FROM users
		WHERE id::text = $1
	`
	return scanAccount(r.db.QueryRow(ctx, query, id), id)
}

func (r *postgresUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id::text = $1`
	tag, err := r.db.Exec(ctx, query, id, hash)
	if err != nil {
		return apperror.NewInternal("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", id)
	}
	return nil
}
