// Package query turns HTTP search parameters into a listing filter.
package query

import (
	"github.com/dira-homes/dira/internal/domain/search/field"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// Input is the raw search request.
type Input struct {
	// Params are the scalar parameters in request order.
	Params     []Param
	Types      []string
	Conditions []string
	// Exclude lists listing ids that must not be returned.
	Exclude []string
}

// Composer builds filter expressions from search input.
type Composer struct {
	table *field.Table
}

// NewComposer creates a Composer over the given field table.
func NewComposer(t *field.Table) *Composer {
	return &Composer{table: t}
}

// Compose returns the filter for in. It never fails: unknown parameters are
// ignored and contradictory bounds pass through unchanged.
//
// must holds the equality clauses followed by the range clauses, should holds
// the type/condition alternatives (nil when there are none) and must_not holds
// exactly one membership clause over the listing id.
func (c *Composer) Compose(in Input) filter.Expression {
	classified := Classify(c.table, in.Params)

	must := make([]filter.Condition, 0, len(classified.Equality)+len(classified.Ranges))
	for _, p := range classified.Equality {
		must = append(must, BuildEquality(p))
	}
	for _, p := range classified.Ranges {
		must = append(must, BuildRange(p))
	}

	var should []filter.Condition
	should = append(should, BuildEnumeration(c.table.Spec(field.Types), in.Types)...)
	should = append(should, BuildEnumeration(c.table.Spec(field.Conditions), in.Conditions)...)
	if len(should) == 0 {
		should = nil
	}

	exclusion := filter.NewIn(c.table.Spec(field.ListingID).Path, in.Exclude)

	return filter.NewExpression(must, should, []filter.Condition{exclusion})
}
