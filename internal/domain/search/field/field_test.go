package field

import (
	"testing"

	"github.com/dira-homes/dira/internal/domain/search/filter"
)

func TestTable_EqualityPaths(t *testing.T) {
	tbl := NewTable()

	tests := []struct {
		name      string
		path      string
		valueType filter.ValueType
		pattern   bool
	}{
		{"type", "type", filter.ValueString, false},
		{"condition", "condition", filter.ValueString, false},
		{"town", "location.town", filter.ValueString, false},
		{"streetName", "location.streetName", filter.ValueString, false},
		{"description", "properties.description", filter.ValueString, true},
		{"furnitureDescription", "properties.furnitureDescription", filter.ValueString, false},
		{"hasLift", "properties.hasLift", filter.ValueBool, false},
		{"hasTadiranAc", "properties.hasTadiranAc", filter.ValueBool, false},
		{"isImmediate", "entranceDate.isImmediate", filter.ValueBool, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := tbl.Equality(tt.name)
			if !ok {
				t.Fatalf("%q not recognized", tt.name)
			}
			if s.Path != tt.path {
				t.Errorf("path = %q, want %q", s.Path, tt.path)
			}
			if s.ValueType != tt.valueType {
				t.Errorf("value type = %v, want %v", s.ValueType, tt.valueType)
			}
			if s.Pattern != tt.pattern {
				t.Errorf("pattern = %v, want %v", s.Pattern, tt.pattern)
			}
		})
	}
}

func TestTable_EqualityCount(t *testing.T) {
	tbl := NewTable()
	n := 0
	for _, s := range tbl.Specs() {
		if s.Kind == KindEquality {
			n++
		}
	}
	if n != 19 {
		t.Errorf("expected 19 string/bool fields, got %d", n)
	}
}

func TestTable_ParseRange(t *testing.T) {
	tbl := NewTable()

	tests := []struct {
		name string
		dir  Direction
		path string
	}{
		{"minPrice", Min, "price"},
		{"maxPrice", Max, "price"},
		{"min-price", Min, "price"},
		{"max-houseNum", Max, "location.houseNum"},
		{"minHouseNum", Min, "location.houseNum"},
		{"minFloor", Min, "location.floor"},
		{"maxBuildingMaxFloor", Max, "location.buildingMaxFloor"},
		{"minNumberOfRooms", Min, "properties.numberOfRooms"},
		{"max-numberOfParkingSpots", Max, "properties.numberOfParkingSpots"},
		{"minNumberOfBalconies", Min, "properties.numberOfBalconies"},
		{"minBuiltSqm", Min, "size.builtSqm"},
		{"max-totalSqm", Max, "size.totalSqm"},
		{"minDate", Min, "entranceDate.date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := tbl.ParseRange(tt.name)
			if !ok {
				t.Fatalf("%q not recognized", tt.name)
			}
			if r.Direction != tt.dir {
				t.Errorf("direction = %v, want %v", r.Direction, tt.dir)
			}
			if r.Spec.Path != tt.path {
				t.Errorf("path = %q, want %q", r.Spec.Path, tt.path)
			}
		})
	}
}

func TestTable_ParseRange_DateValueType(t *testing.T) {
	r, ok := NewTable().ParseRange("maxDate")
	if !ok || r.Spec.ValueType != filter.ValueDate {
		t.Fatalf("expected date bound, got %+v ok=%v", r, ok)
	}
}

func TestTable_ParseRange_Unrecognized(t *testing.T) {
	tbl := NewTable()

	for _, name := range []string{"", "min", "max-", "minTown", "minFoo", "price", "avgPrice", "midPrice", "minTypes"} {
		if _, ok := tbl.ParseRange(name); ok {
			t.Errorf("%q should not be recognized", name)
		}
	}
}

func TestTable_Enumeration(t *testing.T) {
	tbl := NewTable()

	types, ok := tbl.Enumeration("types")
	if !ok || types.Path != "type" {
		t.Fatalf("types: %+v ok=%v", types, ok)
	}
	conds, ok := tbl.Enumeration("conditions")
	if !ok || conds.Path != "condition" {
		t.Fatalf("conditions: %+v ok=%v", conds, ok)
	}
	if _, ok := tbl.Enumeration("type"); ok {
		t.Error("singular type is an equality field, not an enumeration")
	}
}

func TestTable_InternalFieldsNotExposed(t *testing.T) {
	tbl := NewTable()

	if _, ok := tbl.Equality("id"); ok {
		t.Error("id must not be a query field")
	}
	if _, ok := tbl.Equality("owner"); ok {
		t.Error("owner must not be a query field")
	}
	if tbl.Spec(ListingID).Path != "id" || tbl.Spec(Owner).Path != "owner" {
		t.Error("unexpected internal paths")
	}
}

func TestTable_SpecsIsCopy(t *testing.T) {
	tbl := NewTable()
	specs := tbl.Specs()
	specs[Price].Path = "mutated"

	if tbl.Spec(Price).Path != "price" {
		t.Error("Specs() must not expose internal state")
	}
}
