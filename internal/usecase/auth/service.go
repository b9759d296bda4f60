package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/user"
)

// Session is an authenticated user and the token that proves it.
type Session struct {
	User  *user.User
	Token string
}

// Service handles signup, login and token authentication.
type Service struct {
	users  Users
	tokens Tokens
	cost   int
	now    func() time.Time
}

// New creates an auth service. cost is the bcrypt cost for new passwords.
func New(users Users, tokens Tokens, cost int) *Service {
	return &Service{users: users, tokens: tokens, cost: cost, now: time.Now}
}

// Signup creates an account and opens its first session. A taken email
// yields domain.ErrAlreadyExists.
func (s *Service) Signup(ctx context.Context, in user.Signup) (Session, error) {
	u, err := user.New(uuid.NewString(), in, s.now().UTC(), s.cost)
	if err != nil {
		return Session{}, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return s.open(ctx, u)
}

// Login checks credentials and opens a new session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	if !u.CheckPassword(password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.open(ctx, u)
}

func (s *Service) open(ctx context.Context, u *user.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.users.AddToken(ctx, u.ID, token, expiresAt); err != nil {
		return Session{}, fmt.Errorf("store token: %w", err)
	}
	return Session{User: u, Token: token}, nil
}

// Logout ends the session identified by token.
func (s *Service) Logout(ctx context.Context, userID, token string) error {
	if err := s.users.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate resolves a token to its user. The token must verify and
// still belong to a live session; otherwise domain.ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	live, err := s.users.HasToken(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !live {
		return nil, domain.ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
