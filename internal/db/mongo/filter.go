package mongo

import (
	"fmt"
	"regexp"

	"gopkg.in/mgo.v2/bson"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// buildFilter compiles an expression to {$and: [must..., {$or: [...]}, not...]}.
// The $or member is present only when should is non-empty; an expression
// without clauses compiles to {}.
func buildFilter(expr filter.Expression) (bson.M, error) {
	and := make([]bson.M, 0, expr.Len())

	for _, cond := range expr.Must() {
		m, err := buildCondition(cond)
		if err != nil {
			return nil, err
		}
		and = append(and, m)
	}

	if len(expr.Should()) > 0 {
		or := make([]bson.M, 0, len(expr.Should()))
		for _, cond := range expr.Should() {
			m, err := buildCondition(cond)
			if err != nil {
				return nil, err
			}
			or = append(or, m)
		}
		and = append(and, bson.M{"$or": or})
	}

	for _, cond := range expr.MustNot() {
		m, err := buildNegation(cond)
		if err != nil {
			return nil, err
		}
		and = append(and, m)
	}

	if len(and) == 0 {
		return bson.M{}, nil
	}
	return bson.M{"$and": and}, nil
}

func buildCondition(cond filter.Condition) (bson.M, error) {
	path := mongoPath(cond.Path())

	switch cond.Op() {
	case filter.OpEq:
		v, err := db.Coerce(cond.Path(), cond.ValueType(), cond.Value())
		if err != nil {
			return nil, err
		}
		return bson.M{path: v}, nil
	case filter.OpPattern:
		return bson.M{path: bson.M{"$regex": regexp.QuoteMeta(cond.Value())}}, nil
	case filter.OpGTE:
		v, err := db.Coerce(cond.Path(), cond.ValueType(), cond.Value())
		if err != nil {
			return nil, err
		}
		return bson.M{path: bson.M{"$gte": v}}, nil
	case filter.OpLTE:
		v, err := db.Coerce(cond.Path(), cond.ValueType(), cond.Value())
		if err != nil {
			return nil, err
		}
		return bson.M{path: bson.M{"$lte": v}}, nil
	case filter.OpIn:
		return bson.M{path: bson.M{"$in": values(cond)}}, nil
	default:
		return nil, fmt.Errorf("unsupported filter op %d", cond.Op())
	}
}

// buildNegation renders a must_not clause. Membership becomes $nin, which
// with an empty list excludes nothing.
func buildNegation(cond filter.Condition) (bson.M, error) {
	if cond.Op() == filter.OpIn {
		return bson.M{mongoPath(cond.Path()): bson.M{"$nin": values(cond)}}, nil
	}
	m, err := buildCondition(cond)
	if err != nil {
		return nil, err
	}
	return bson.M{"$nor": []bson.M{m}}, nil
}

func values(cond filter.Condition) []string {
	if cond.Values() == nil {
		return []string{}
	}
	return cond.Values()
}

// mongoPath maps the listing id path onto _id.
func mongoPath(path string) string {
	if path == "id" {
		return "_id"
	}
	return path
}
