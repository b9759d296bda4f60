package auth

import (
	"context"
	"time"

	"github.com/dira-homes/dira/internal/domain/user"
)

// Users persists accounts and their session tokens.
type Users interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	AddToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	HasToken(ctx context.Context, userID, token string) (bool, error)
	RemoveToken(ctx context.Context, userID, token string) error
}

// Tokens signs and verifies session tokens.
type Tokens interface {
	Issue(userID string) (string, time.Time, error)
	Verify(token string) (string, error)
}
