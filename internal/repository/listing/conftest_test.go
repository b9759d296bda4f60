package listing

import (
	"context"
	"testing"
	"time"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	ensureFn func(ctx context.Context, def *db.CollectionDefinition) error
	insertFn func(ctx context.Context, collection, id string, data []byte) error
	getFn    func(ctx context.Context, collection, id string) ([]byte, error)
	findFn   func(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
}

func (m *mockStore) EnsureCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, def)
	}
	return nil
}

func (m *mockStore) InsertDocument(ctx context.Context, collection, id string, data []byte) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, id, data)
	}
	return nil
}

func (m *mockStore) GetDocument(ctx context.Context, collection, id string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, id)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) FindDocuments(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, field.NewTable()), ms
}

func testListing(t *testing.T) listing.Listing {
	t.Helper()
	built := 70.5
	created := time.UnixMilli(1700000000000).UTC()
	return listing.Listing{
		ID:        "L1",
		Type:      listing.TypeApartment,
		Condition: listing.ConditionNew,
		Location: listing.Location{
			Town: "Haifa", StreetName: "Herzl", HouseNum: 4, Floor: 2, BuildingMaxFloor: 8,
		},
		Properties: listing.Properties{
			HasLift:       true,
			NumberOfRooms: 3.5,
			Description:   "near the sea",
		},
		Price:        1200000,
		Size:         listing.Size{BuiltSqm: &built, TotalSqm: 85},
		EntranceDate: listing.EntranceDate{Date: time.UnixMilli(1800000000000).UTC()},
		Publishers:   []listing.Publisher{{Name: "Dana", Phone: "0521234567", WeekendContact: true}},
		Owner:        "u1",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}
