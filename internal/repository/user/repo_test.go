package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/user"
)

type fakeRow struct {
	scanFn func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scanFn(dest...) }

type fakeDB struct {
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execFn != nil {
		return f.execFn(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.queryRowFn != nil {
		return f.queryRowFn(ctx, sql, args...)
	}
	return fakeRow{scanFn: func(...any) error { return pgx.ErrNoRows }}
}

func TestMigrate_RunsEmbeddedSchema(t *testing.T) {
	f := &fakeDB{}
	var ran string
	f.execFn = func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
		ran = sql
		return pgconn.CommandTag{}, nil
	}
	if err := New(f).Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !strings.Contains(ran, "CREATE TABLE IF NOT EXISTS user_tokens") {
		t.Errorf("schema not executed: %q", ran)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	f := &fakeDB{}
	f.execFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
	}
	err := New(f).Create(context.Background(), &user.User{ID: "u1", Email: "a@b.co"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_OtherError(t *testing.T) {
	f := &fakeDB{}
	f.execFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	err := New(f).Create(context.Background(), &user.User{ID: "u1"})
	if err == nil || errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	f := &fakeDB{}
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.queryRowFn = func(_ context.Context, sql string, args ...any) pgx.Row {
		if !strings.Contains(sql, "WHERE email = $1") || args[0] != "a@b.co" {
			t.Errorf("unexpected query %q %v", sql, args)
		}
		return fakeRow{scanFn: func(dest ...any) error {
			*dest[0].(*string) = "u1"
			*dest[1].(*string) = "a@b.co"
			*dest[2].(*string) = "hash"
			*dest[3].(*string) = "Dana"
			*dest[4].(*string) = "Levi"
			*dest[5].(*string) = "0521234567"
			*dest[7].(*time.Time) = created
			*dest[8].(*time.Time) = created
			return nil
		}}
	}

	u, err := New(f).GetByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.ID != "u1" || u.FirstName != "Dana" || u.BirthDate != nil || !u.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	_, err := New(&fakeDB{}).GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHasToken(t *testing.T) {
	f := &fakeDB{}
	f.queryRowFn = func(_ context.Context, _ string, args ...any) pgx.Row {
		return fakeRow{scanFn: func(dest ...any) error {
			*dest[0].(*bool) = args[0] == "tok"
			return nil
		}}
	}
	repo := New(f)

	if ok, err := repo.HasToken(context.Background(), "u1", "tok"); err != nil || !ok {
		t.Errorf("HasToken(tok) = %v, %v", ok, err)
	}
	if ok, err := repo.HasToken(context.Background(), "u1", "other"); err != nil || ok {
		t.Errorf("HasToken(other) = %v, %v", ok, err)
	}
}

func TestDeleteExpiredTokens(t *testing.T) {
	f := &fakeDB{}
	now := time.Now()
	f.execFn = func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		if !strings.HasPrefix(sql, "DELETE FROM user_tokens") || args[0] != now {
			t.Errorf("unexpected exec %q %v", sql, args)
		}
		return pgconn.NewCommandTag("DELETE 4"), nil
	}

	n, err := New(f).DeleteExpiredTokens(context.Background(), now)
	if err != nil || n != 4 {
		t.Fatalf("DeleteExpiredTokens = %d, %v", n, err)
	}
}
