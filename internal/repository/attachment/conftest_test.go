package attachment

import (
	"context"
	"testing"
	"time"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/attachment"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

type mockDocs struct {
	ensureFn func(ctx context.Context, def *db.CollectionDefinition) error
	insertFn func(ctx context.Context, collection, id string, data []byte) error
	findFn   func(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	countFn  func(ctx context.Context, collection string, expr filter.Expression) (int, error)
}

func (m *mockDocs) EnsureCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, def)
	}
	return nil
}

func (m *mockDocs) InsertDocument(ctx context.Context, collection, id string, data []byte) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, id, data)
	}
	return nil
}

func (m *mockDocs) FindDocuments(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockDocs) CountDocuments(ctx context.Context, collection string, expr filter.Expression) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, collection, expr)
	}
	return 0, nil
}

// memKV is an in-memory claims store.
type memKV struct {
	data map[string][]byte
}

func (m *memKV) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockDocs, *memKV) {
	t.Helper()
	md := &mockDocs{}
	kv := &memKV{data: make(map[string][]byte)}
	return New(md, kv, "dira:"), md, kv
}

func testAttachment(t *testing.T) attachment.Attachment {
	t.Helper()
	at := time.UnixMilli(1700000000000).UTC()
	return attachment.Attachment{
		ID:           "A1",
		OriginalName: "front.jpg",
		StorageName:  "front.jpg",
		Bucket:       "dira-files",
		Region:       "eu-west-1",
		Key:          "L1/images/1700000000000-front.jpg",
		Type:         "image/jpeg",
		Owner:        "L1",
		IsMainFile:   true,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}
