package filter

import "testing"

func TestNewExpression_Getters(t *testing.T) {
	eq := NewEq("location.town", ValueString, "Haifa")
	gte := NewGTE("price", ValueNumber, "100000")
	or1 := NewEq("type", ValueString, "apartment")
	ex := NewIn("id", []string{"a"})

	e := NewExpression([]Condition{eq, gte}, []Condition{or1}, []Condition{ex})

	if len(e.Must()) != 2 || len(e.Should()) != 1 || len(e.MustNot()) != 1 {
		t.Fatalf("unexpected groups: %d/%d/%d", len(e.Must()), len(e.Should()), len(e.MustNot()))
	}
	if e.Len() != 4 {
		t.Errorf("Len() = %d, want 4", e.Len())
	}
	if e.IsEmpty() {
		t.Error("expected non-empty expression")
	}
}

func TestExpression_IsEmpty(t *testing.T) {
	if !(Expression{}).IsEmpty() {
		t.Error("zero expression must be empty")
	}
	if NewExpression(nil, nil, []Condition{NewIn("id", nil)}).IsEmpty() {
		t.Error("expression with exclusion clause is not empty")
	}
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name      string
		cond      Condition
		op        Op
		valueType ValueType
		value     string
		isRange   bool
	}{
		{"eq string", NewEq("location.town", ValueString, "Haifa"), OpEq, ValueString, "Haifa", false},
		{"eq bool", NewEq("properties.hasLift", ValueBool, "true"), OpEq, ValueBool, "true", false},
		{"pattern", NewPattern("properties.description", "sea"), OpPattern, ValueString, "sea", false},
		{"gte", NewGTE("price", ValueNumber, "1"), OpGTE, ValueNumber, "1", true},
		{"lte date", NewLTE("entranceDate.date", ValueDate, "2025-01-01"), OpLTE, ValueDate, "2025-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cond.Op() != tt.op {
				t.Errorf("Op() = %v, want %v", tt.cond.Op(), tt.op)
			}
			if tt.cond.ValueType() != tt.valueType {
				t.Errorf("ValueType() = %v, want %v", tt.cond.ValueType(), tt.valueType)
			}
			if tt.cond.Value() != tt.value {
				t.Errorf("Value() = %q, want %q", tt.cond.Value(), tt.value)
			}
			if tt.cond.IsRange() != tt.isRange {
				t.Errorf("IsRange() = %v, want %v", tt.cond.IsRange(), tt.isRange)
			}
		})
	}
}

func TestNewIn_CopiesValues(t *testing.T) {
	ids := []string{"a", "b"}
	c := NewIn("id", ids)
	ids[0] = "mutated"

	if c.Values()[0] != "a" {
		t.Errorf("membership list must not alias caller slice, got %v", c.Values())
	}
	if c.Op() != OpIn {
		t.Errorf("Op() = %v, want OpIn", c.Op())
	}
}

func TestValueType_String(t *testing.T) {
	if ValueDate.String() != "date" || ValueString.String() != "string" {
		t.Error("unexpected ValueType names")
	}
}
