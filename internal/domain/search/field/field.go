// Package field holds the fixed table of searchable listing fields: which
// query parameter names are recognized, what kind of clause each produces
// and which storage path it targets.
package field

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// ID identifies a listing field known to the search core.
type ID int

// Searchable fields.
const (
	Type ID = iota
	Condition
	Town
	StreetName
	Description
	FurnitureDescription
	HasAirConditioning
	HasFurniture
	IsRenovated
	HasSafeRoom
	IsAccessible
	HasKosherKitchen
	HasShed
	HasLift
	HasSunHeatedWaterTanks
	HasPandorDoors
	HasTadiranAc
	HasWindowBars
	IsImmediate

	HouseNum
	Floor
	BuildingMaxFloor
	NumberOfRooms
	NumberOfParkingSpots
	NumberOfBalconies
	Price
	BuiltSqm
	TotalSqm
	Date

	Types
	Conditions

	ListingID
	Owner

	numIDs
)

// Kind is the clause family a field belongs to.
type Kind int

const (
	// KindEquality fields produce an equality (or pattern) clause.
	KindEquality Kind = iota
	// KindNumeric fields produce one-sided range clauses via min/max names.
	KindNumeric
	// KindEnumeration fields produce OR-grouped equality clauses.
	KindEnumeration
	// KindInternal fields are never read from query parameters.
	KindInternal
)

// Direction is the side of a numeric range bound.
type Direction int

const (
	// Min is an inclusive lower bound.
	Min Direction = iota
	// Max is an inclusive upper bound.
	Max
)

func (d Direction) String() string {
	if d == Max {
		return "max"
	}
	return "min"
}

// PatternMaxLen bounds the part of a pattern value used for matching.
const PatternMaxLen = 400

// Spec describes one field: its parameter name, storage path and clause kind.
type Spec struct {
	ID        ID
	Name      string
	Path      string
	Kind      Kind
	ValueType filter.ValueType
	// Pattern marks equality fields matched as a substring pattern.
	Pattern bool
}

// Table is the immutable field lookup table. Build it once with NewTable
// and share it; it is safe for concurrent use.
type Table struct {
	specs    [numIDs]Spec
	equality map[string]ID
	numeric  map[string]ID
	enum     map[string]ID
}

// NewTable builds the field table.
func NewTable() *Table {
	specs := [numIDs]Spec{
		Type:                   {Name: "type", Path: "type", Kind: KindEquality},
		Condition:              {Name: "condition", Path: "condition", Kind: KindEquality},
		Town:                   {Name: "town", Path: "location.town", Kind: KindEquality},
		StreetName:             {Name: "streetName", Path: "location.streetName", Kind: KindEquality},
		Description:            {Name: "description", Path: "properties.description", Kind: KindEquality, Pattern: true},
		FurnitureDescription:   {Name: "furnitureDescription", Path: "properties.furnitureDescription", Kind: KindEquality},
		HasAirConditioning:     boolSpec("hasAirConditioning", "properties.hasAirConditioning"),
		HasFurniture:           boolSpec("hasFurniture", "properties.hasFurniture"),
		IsRenovated:            boolSpec("isRenovated", "properties.isRenovated"),
		HasSafeRoom:            boolSpec("hasSafeRoom", "properties.hasSafeRoom"),
		IsAccessible:           boolSpec("isAccessible", "properties.isAccessible"),
		HasKosherKitchen:       boolSpec("hasKosherKitchen", "properties.hasKosherKitchen"),
		HasShed:                boolSpec("hasShed", "properties.hasShed"),
		HasLift:                boolSpec("hasLift", "properties.hasLift"),
		HasSunHeatedWaterTanks: boolSpec("hasSunHeatedWaterTanks", "properties.hasSunHeatedWaterTanks"),
		HasPandorDoors:         boolSpec("hasPandorDoors", "properties.hasPandorDoors"),
		HasTadiranAc:           boolSpec("hasTadiranAc", "properties.hasTadiranAc"),
		HasWindowBars:          boolSpec("hasWindowBars", "properties.hasWindowBars"),
		IsImmediate:            boolSpec("isImmediate", "entranceDate.isImmediate"),

		HouseNum:             numSpec("houseNum", "location.houseNum"),
		Floor:                numSpec("floor", "location.floor"),
		BuildingMaxFloor:     numSpec("buildingMaxFloor", "location.buildingMaxFloor"),
		NumberOfRooms:        numSpec("numberOfRooms", "properties.numberOfRooms"),
		NumberOfParkingSpots: numSpec("numberOfParkingSpots", "properties.numberOfParkingSpots"),
		NumberOfBalconies:    numSpec("numberOfBalconies", "properties.numberOfBalconies"),
		Price:                numSpec("price", "price"),
		BuiltSqm:             numSpec("builtSqm", "size.builtSqm"),
		TotalSqm:             numSpec("totalSqm", "size.totalSqm"),
		Date:                 {Name: "date", Path: "entranceDate.date", Kind: KindNumeric, ValueType: filter.ValueDate},

		Types:      {Name: "types", Path: "type", Kind: KindEnumeration},
		Conditions: {Name: "conditions", Path: "condition", Kind: KindEnumeration},

		ListingID: {Name: "id", Path: "id", Kind: KindInternal},
		Owner:     {Name: "owner", Path: "owner", Kind: KindInternal},
	}

	t := &Table{
		equality: make(map[string]ID),
		numeric:  make(map[string]ID),
		enum:     make(map[string]ID),
	}
	for i := range specs {
		specs[i].ID = ID(i)
		switch specs[i].Kind {
		case KindEquality:
			t.equality[specs[i].Name] = ID(i)
		case KindNumeric:
			t.numeric[specs[i].Name] = ID(i)
		case KindEnumeration:
			t.enum[specs[i].Name] = ID(i)
		case KindInternal:
		}
	}
	t.specs = specs
	return t
}

func boolSpec(name, path string) Spec {
	return Spec{Name: name, Path: path, Kind: KindEquality, ValueType: filter.ValueBool}
}

func numSpec(name, path string) Spec {
	return Spec{Name: name, Path: path, Kind: KindNumeric, ValueType: filter.ValueNumber}
}

// Spec returns the spec of a field.
func (t *Table) Spec(id ID) Spec { return t.specs[id] }

// Specs returns every field spec in ID order.
func (t *Table) Specs() []Spec {
	out := make([]Spec, len(t.specs))
	copy(out, t.specs[:])
	return out
}

// Equality resolves a string/bool parameter name.
func (t *Table) Equality(name string) (Spec, bool) {
	id, ok := t.equality[name]
	if !ok {
		return Spec{}, false
	}
	return t.specs[id], true
}

// Enumeration resolves an enumeration list parameter name (types, conditions).
func (t *Table) Enumeration(name string) (Spec, bool) {
	id, ok := t.enum[name]
	if !ok {
		return Spec{}, false
	}
	return t.specs[id], true
}

// Range is a parsed min/max parameter name.
type Range struct {
	Direction Direction
	Spec      Spec
}

// ParseRange parses a numeric bound parameter name. Both camel case
// (minPrice, maxHouseNum) and dashed (min-price, max-houseNum) forms are
// accepted. Names whose base is not a numeric field are not ok.
func (t *Table) ParseRange(name string) (Range, bool) {
	if len(name) <= 3 {
		return Range{}, false
	}
	var dir Direction
	switch name[:3] {
	case "min":
		dir = Min
	case "max":
		dir = Max
	default:
		return Range{}, false
	}

	base := strings.TrimPrefix(name[3:], "-")
	if base == "" {
		return Range{}, false
	}
	id, ok := t.numeric[lowerFirst(base)]
	if !ok {
		return Range{}, false
	}
	return Range{Direction: dir, Spec: t.specs[id]}, true
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
