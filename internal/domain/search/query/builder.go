package query

import (
	"github.com/dira-homes/dira/internal/domain/search/field"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// EqualityParam is a recognized string/bool parameter.
type EqualityParam struct {
	Spec  field.Spec
	Value string
}

// RangeParam is a recognized min/max parameter. Value is kept raw; the
// store decides how to coerce it.
type RangeParam struct {
	Range field.Range
	Value string
}

// Classified buckets recognized parameters by clause kind, each bucket in
// parameter order.
type Classified struct {
	Equality []EqualityParam
	Ranges   []RangeParam
}

// Classify assigns every parameter to its bucket. Unknown names are dropped.
func Classify(t *field.Table, params []Param) Classified {
	var c Classified
	for _, p := range params {
		if spec, ok := t.Equality(p.Name); ok {
			c.Equality = append(c.Equality, EqualityParam{Spec: spec, Value: p.Value})
			continue
		}
		if r, ok := t.ParseRange(p.Name); ok {
			c.Ranges = append(c.Ranges, RangeParam{Range: r, Value: p.Value})
		}
	}
	return c
}

// BuildEquality emits the clause for a string/bool parameter: a pattern
// clause over the first field.PatternMaxLen characters for pattern fields,
// exact equality otherwise.
func BuildEquality(p EqualityParam) filter.Condition {
	if p.Spec.Pattern {
		return filter.NewPattern(p.Spec.Path, truncate(p.Value, field.PatternMaxLen))
	}
	return filter.NewEq(p.Spec.Path, p.Spec.ValueType, p.Value)
}

// BuildRange emits a one-sided bound. Two bounds on the same field stay two
// clauses.
func BuildRange(p RangeParam) filter.Condition {
	spec := p.Range.Spec
	if p.Range.Direction == field.Max {
		return filter.NewLTE(spec.Path, spec.ValueType, p.Value)
	}
	return filter.NewGTE(spec.Path, spec.ValueType, p.Value)
}

// BuildEnumeration emits one equality clause per value, meant to be OR-combined.
func BuildEnumeration(spec field.Spec, values []string) []filter.Condition {
	out := make([]filter.Condition, 0, len(values))
	for _, v := range values {
		out = append(out, filter.NewEq(spec.Path, filter.ValueString, v))
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
