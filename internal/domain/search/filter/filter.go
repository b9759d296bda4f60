// Package filter models store-agnostic listing filters: a conjunction of
// required clauses, an optional disjunctive group and exclusion clauses.
package filter

// ValueType tells a store how to coerce a raw clause value.
type ValueType int

const (
	// ValueString compares as text.
	ValueString ValueType = iota
	// ValueBool compares as a boolean ("true"/"false").
	ValueBool
	// ValueNumber compares as a number.
	ValueNumber
	// ValueDate compares as an instant.
	ValueDate
)

func (v ValueType) String() string {
	switch v {
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueDate:
		return "date"
	default:
		return "string"
	}
}

// Op is the comparison performed by a Condition.
type Op int

const (
	// OpEq is exact equality.
	OpEq Op = iota
	// OpPattern is a case-sensitive substring pattern match.
	OpPattern
	// OpGTE is an inclusive lower bound.
	OpGTE
	// OpLTE is an inclusive upper bound.
	OpLTE
	// OpIn is membership in a value list.
	OpIn
)

// Expression is a structured filter with must/should/must_not semantics:
// every must clause holds, at least one should clause holds (when any exist)
// and no must_not clause holds.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) Expression {
	return Expression{must: must, should: should, mustNot: mustNot}
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Len returns the total number of conditions.
func (e Expression) Len() int {
	return len(e.must) + len(e.should) + len(e.mustNot)
}

// Condition is a single filter clause over a storage path.
type Condition struct {
	path      string
	op        Op
	valueType ValueType
	value     string
	values    []string
}

// NewEq creates an equality condition. The value stays raw; stores coerce it
// according to valueType.
func NewEq(path string, valueType ValueType, value string) Condition {
	return Condition{path: path, op: OpEq, valueType: valueType, value: value}
}

// NewPattern creates a substring pattern condition over a text path.
func NewPattern(path, pattern string) Condition {
	return Condition{path: path, op: OpPattern, valueType: ValueString, value: pattern}
}

// NewGTE creates an inclusive lower bound condition.
func NewGTE(path string, valueType ValueType, value string) Condition {
	return Condition{path: path, op: OpGTE, valueType: valueType, value: value}
}

// NewLTE creates an inclusive upper bound condition.
func NewLTE(path string, valueType ValueType, value string) Condition {
	return Condition{path: path, op: OpLTE, valueType: valueType, value: value}
}

// NewIn creates a membership condition. An empty list matches nothing,
// so as a must_not clause it excludes nothing.
func NewIn(path string, values []string) Condition {
	cp := make([]string, len(values))
	copy(cp, values)
	return Condition{path: path, op: OpIn, valueType: ValueString, values: cp}
}

// Path returns the storage path the condition applies to.
func (c Condition) Path() string { return c.path }

// Op returns the comparison operator.
func (c Condition) Op() Op { return c.op }

// ValueType returns how the raw value should be interpreted.
func (c Condition) ValueType() ValueType { return c.valueType }

// Value returns the raw scalar value.
func (c Condition) Value() string { return c.value }

// Values returns the membership list of an OpIn condition.
func (c Condition) Values() []string { return c.values }

// IsRange reports whether this is a bound condition.
func (c Condition) IsRange() bool { return c.op == OpGTE || c.op == OpLTE }
