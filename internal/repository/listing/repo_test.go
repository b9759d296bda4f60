package listing

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

func TestCreate_StoresEpochMillis(t *testing.T) {
	repo, ms := newTestRepo(t)
	l := testListing(t)

	var stored map[string]any
	ms.insertFn = func(_ context.Context, collection, id string, data []byte) error {
		if collection != Collection || id != "L1" {
			t.Errorf("unexpected target %s/%s", collection, id)
		}
		return json.Unmarshal(data, &stored)
	}

	if err := repo.Create(context.Background(), &l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	entrance, _ := stored["entranceDate"].(map[string]any)
	if entrance["date"] != float64(1800000000000) {
		t.Errorf("entranceDate.date = %v, want epoch millis", entrance["date"])
	}
	if stored["owner"] != "u1" || stored["id"] != "L1" {
		t.Errorf("owner/id = %v/%v", stored["owner"], stored["id"])
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, ms := newTestRepo(t)
	l := testListing(t)
	ms.insertFn = func(context.Context, string, string, []byte) error { return db.ErrKeyExists }

	if err := repo.Create(context.Background(), &l); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	want := testListing(t)

	var saved []byte
	ms.insertFn = func(_ context.Context, _, _ string, data []byte) error {
		saved = data
		return nil
	}
	ms.getFn = func(context.Context, string, string) ([]byte, error) { return saved, nil }

	if err := repo.Create(context.Background(), &want); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Get(context.Background(), "L1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrListingNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _, id string) ([]byte, error) {
		if id == "L1" {
			return []byte(`{}`), nil
		}
		return nil, db.ErrKeyNotFound
	}

	if ok, err := repo.Exists(context.Background(), "L1"); err != nil || !ok {
		t.Errorf("Exists(L1) = %v, %v", ok, err)
	}
	if ok, err := repo.Exists(context.Background(), "L2"); err != nil || ok {
		t.Errorf("Exists(L2) = %v, %v", ok, err)
	}
}

func TestFind_PassesPagination(t *testing.T) {
	repo, ms := newTestRepo(t)
	expr := filter.NewExpression(nil, nil, []filter.Condition{filter.NewIn("id", nil)})

	ms.findFn = func(_ context.Context, q *db.FindQuery) ([]db.Document, error) {
		if q.Collection != Collection || q.Offset != 20 || q.Limit != 10 {
			t.Errorf("unexpected query: %+v", q)
		}
		return []db.Document{{ID: "L9", Data: []byte(`{"type":"duplex","price":2000000}`)}}, nil
	}

	got, err := repo.Find(context.Background(), expr, 20, 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != "L9" || got[0].Price != 2000000 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestFind_InvalidValue(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(context.Context, *db.FindQuery) ([]db.Document, error) {
		return nil, db.ErrInvalidValue
	}

	_, err := repo.Find(context.Background(), filter.Expression{}, 0, 10)
	if !errors.Is(err, domain.ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
}

func TestListByOwner_FiltersOnOwner(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.FindQuery) ([]db.Document, error) {
		must := q.Filter.Must()
		if len(must) != 1 || must[0].Path() != "owner" || must[0].Value() != "u1" {
			t.Errorf("unexpected filter: %+v", must)
		}
		return nil, nil
	}

	got, err := repo.ListByOwner(context.Background(), "u1", 0, 10)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestEnsureSchema_FieldTypes(t *testing.T) {
	repo, ms := newTestRepo(t)

	var def *db.CollectionDefinition
	ms.ensureFn = func(_ context.Context, d *db.CollectionDefinition) error {
		def = d
		return nil
	}
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	types := make(map[string]db.IndexFieldType)
	for _, f := range def.Fields {
		if _, dup := types[f.Path]; dup {
			t.Errorf("duplicate path %s", f.Path)
		}
		types[f.Path] = f.Type
	}
	want := map[string]db.IndexFieldType{
		"type":                   db.IndexFieldTag,
		"location.town":          db.IndexFieldTag,
		"properties.description": db.IndexFieldSubstring,
		"properties.hasLift":     db.IndexFieldTag,
		"price":                  db.IndexFieldNumeric,
		"entranceDate.date":      db.IndexFieldNumeric,
		"id":                     db.IndexFieldTag,
		"owner":                  db.IndexFieldTag,
	}
	for path, ft := range want {
		if got, ok := types[path]; !ok || got != ft {
			t.Errorf("path %s: type=%v ok=%v, want %v", path, got, ok, ft)
		}
	}
}
