// Package listing holds the real-estate listing aggregate and its
// creation-time rules.
package listing

import (
	"time"
)

// Type is the listing category.
type Type string

// Listing categories.
const (
	TypeApartment              Type = "apartment"
	TypeGardenApartment        Type = "garden-apartment"
	TypePrivateHouse           Type = "private-house/cottage"
	TypeRooftop                Type = "rooftop/penthouse"
	TypeLots                   Type = "lots"
	TypeDuplex                 Type = "duplex"
	TypeVacationApartment      Type = "vacation-apartment"
	TypeTwoFamilyDwelling      Type = "two-family-dwelling"
	TypeBasement               Type = "basement/parterre"
	TypeTriplex                Type = "triplex"
	TypeResidentialUnit        Type = "residential-unit"
	TypeFarm                   Type = "farm/estate"
	TypeAuxiliaryFarm          Type = "auxiliary-farm"
	TypeProtectedAccommodation Type = "protected-accommodation"
	TypeResidentialBuilding    Type = "residential-building"
	TypeStudio                 Type = "studio/loft"
	TypeGarage                 Type = "garage"
	TypeParking                Type = "parking"
	TypeGeneral                Type = "general"
)

// Types lists every valid Type in display order.
var Types = []Type{
	TypeApartment, TypeGardenApartment, TypePrivateHouse, TypeRooftop, TypeLots,
	TypeDuplex, TypeVacationApartment, TypeTwoFamilyDwelling, TypeBasement, TypeTriplex,
	TypeResidentialUnit, TypeFarm, TypeAuxiliaryFarm, TypeProtectedAccommodation,
	TypeResidentialBuilding, TypeStudio, TypeGarage, TypeParking, TypeGeneral,
}

// Valid reports whether t belongs to the closed set.
func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Condition is the physical state of the property.
type Condition string

// Property conditions.
const (
	ConditionBrandNew        Condition = "brand-new"
	ConditionNew             Condition = "new"
	ConditionRenovated       Condition = "renovated"
	ConditionGood            Condition = "good"
	ConditionNeedsRenovation Condition = "in-need-of-renovation"
)

// Conditions lists every valid Condition.
var Conditions = []Condition{
	ConditionBrandNew, ConditionNew, ConditionRenovated, ConditionGood, ConditionNeedsRenovation,
}

// Valid reports whether c belongs to the closed set.
func (c Condition) Valid() bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// Location is where the property is.
type Location struct {
	Town             string
	StreetName       string
	HouseNum         int
	Floor            int
	BuildingMaxFloor int
}

// Properties are the amenity flags, room counts and free-text descriptions.
type Properties struct {
	IsStandingOnPolls      bool
	HasAirConditioning     bool
	HasFurniture           bool
	IsRenovated            bool
	HasSafeRoom            bool
	IsAccessible           bool
	HasKosherKitchen       bool
	HasShed                bool
	HasLift                bool
	HasSunHeatedWaterTanks bool
	HasPandorDoors         bool
	HasTadiranAc           bool
	HasWindowBars          bool

	NumberOfRooms        float64
	NumberOfParkingSpots int
	NumberOfBalconies    int

	Description          string
	FurnitureDescription string
}

// Size is the property area in square meters.
type Size struct {
	BuiltSqm *float64
	TotalSqm float64
}

// EntranceDate is when the property becomes available.
type EntranceDate struct {
	Date        time.Time
	IsImmediate bool
}

// Publisher is a contact person for the listing.
type Publisher struct {
	Name           string
	Phone          string
	WeekendContact bool
}

// Listing is a published real-estate listing.
type Listing struct {
	ID           string
	Type         Type
	Condition    Condition
	Location     Location
	Properties   Properties
	Price        float64
	Size         Size
	EntranceDate EntranceDate
	Publishers   []Publisher
	ContactEmail string
	Owner        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Draft is the publish input before validation.
type Draft struct {
	Type         string
	Condition    string
	Location     Location
	Properties   Properties
	Price        float64
	Size         Size
	EntranceDate EntranceDate
	Publishers   []Publisher
	ContactEmail string
}
