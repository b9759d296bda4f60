package mongo

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/mgo.v2/bson"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

func mustBuild(t *testing.T, expr filter.Expression) bson.M {
	t.Helper()
	m, err := buildFilter(expr)
	if err != nil {
		t.Fatalf("buildFilter: %v", err)
	}
	return m
}

func TestBuildFilter_OnlyExclusion(t *testing.T) {
	expr := filter.NewExpression(nil, nil, []filter.Condition{filter.NewIn("id", nil)})

	want := bson.M{"$and": []bson.M{
		{"_id": bson.M{"$nin": []string{}}},
	}}
	if got := mustBuild(t, expr); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	if got := mustBuild(t, filter.Expression{}); len(got) != 0 {
		t.Errorf("expected {}, got %v", got)
	}
}

func TestBuildFilter_TypesOrWithCondition(t *testing.T) {
	expr := filter.NewExpression(
		[]filter.Condition{filter.NewEq("condition", filter.ValueString, "new")},
		[]filter.Condition{
			filter.NewEq("type", filter.ValueString, "apartment"),
			filter.NewEq("type", filter.ValueString, "duplex"),
		},
		[]filter.Condition{filter.NewIn("id", []string{"id1", "id2"})},
	)

	want := bson.M{"$and": []bson.M{
		{"condition": "new"},
		{"$or": []bson.M{{"type": "apartment"}, {"type": "duplex"}}},
		{"_id": bson.M{"$nin": []string{"id1", "id2"}}},
	}}
	if got := mustBuild(t, expr); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestBuildFilter_TypedValues(t *testing.T) {
	expr := filter.NewExpression(
		[]filter.Condition{
			filter.NewEq("properties.hasLift", filter.ValueBool, "true"),
			filter.NewGTE("price", filter.ValueNumber, "900000"),
			filter.NewLTE("entranceDate.date", filter.ValueDate, "2025-03-01"),
			filter.NewPattern("properties.description", "sea (view)"),
		},
		nil, nil,
	)

	want := bson.M{"$and": []bson.M{
		{"properties.hasLift": true},
		{"price": bson.M{"$gte": 900000.0}},
		{"entranceDate.date": bson.M{"$lte": int64(1740787200000)}},
		{"properties.description": bson.M{"$regex": `sea \(view\)`}},
	}}
	if got := mustBuild(t, expr); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestBuildFilter_InvalidNumber(t *testing.T) {
	for _, raw := range []string{"a lot", "NaN", "Inf", "-Inf"} {
		expr := filter.NewExpression([]filter.Condition{filter.NewLTE("price", filter.ValueNumber, raw)}, nil, nil)

		_, err := buildFilter(expr)
		if !errors.Is(err, db.ErrInvalidValue) {
			t.Fatalf("%q: expected ErrInvalidValue, got %v", raw, err)
		}
		if !strings.Contains(err.Error(), "price") {
			t.Errorf("%q: error should name the field: %v", raw, err)
		}
	}
}

func TestBuildNegation_NonMembership(t *testing.T) {
	m, err := buildNegation(filter.NewEq("owner", filter.ValueString, "u1"))
	if err != nil {
		t.Fatal(err)
	}
	want := bson.M{"$nor": []bson.M{{"owner": "u1"}}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("got %v, want %v", m, want)
	}
}

func TestEncodeDocument_StripsID(t *testing.T) {
	id, data, err := encodeDocument(bson.M{"_id": "abc", "id": "abc", "price": 1000000.0})
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc" {
		t.Errorf("id = %q", id)
	}
	if strings.Contains(string(data), "_id") {
		t.Errorf("_id must be stripped: %s", data)
	}
	if string(data) != `{"id":"abc","price":1000000}` {
		t.Errorf("unexpected json: %s", data)
	}
}
