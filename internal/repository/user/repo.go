// Package user persists accounts and their session tokens in PostgreSQL.
package user

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/user"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

// querier is the subset of *pgxpool.Pool the repository needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements the user and session-token store.
type Repo struct {
	db querier
}

// New creates a user repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// Migrate creates the tables if they do not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

// Create inserts a user. A taken email yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *user.User) error {
	const q = `INSERT INTO users
		(id, email, password_hash, first_name, last_name, phone_number, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.BirthDate, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const selectUser = `SELECT id, email, password_hash, first_name, last_name, phone_number,
	date_of_birth, created_at, updated_at FROM users`

// GetByEmail loads a user by normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

// GetByID loads a user by id.
func (r *Repo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *Repo) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.BirthDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// AddToken records a session token for a user.
func (r *Repo) AddToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	const q = `INSERT INTO user_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, q, token, userID, expiresAt); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// HasToken reports whether token is a live session of userID.
func (r *Repo) HasToken(ctx context.Context, userID, token string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM user_tokens WHERE token = $1 AND user_id = $2)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, token, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("lookup token: %w", err)
	}
	return ok, nil
}

// RemoveToken ends one session.
func (r *Repo) RemoveToken(ctx context.Context, userID, token string) error {
	const q = `DELETE FROM user_tokens WHERE token = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, token, userID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpiredTokens removes sessions that expired before now and returns
// how many were removed.
func (r *Repo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
