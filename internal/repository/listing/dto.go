package listing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dira-homes/dira/internal/domain/listing"
)

// listingDoc is the stored JSON shape. Dates are epoch milliseconds so both
// drivers can range-filter them numerically.
type listingDoc struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Condition    string         `json:"condition"`
	Location     locationDoc    `json:"location"`
	Properties   propertiesDoc  `json:"properties"`
	Price        float64        `json:"price"`
	Size         sizeDoc        `json:"size"`
	EntranceDate entranceDoc    `json:"entranceDate"`
	Publishers   []publisherDoc `json:"publishers"`
	ContactEmail string         `json:"contactEmail,omitempty"`
	Owner        string         `json:"owner"`
	CreatedAt    int64          `json:"createdAt"`
	UpdatedAt    int64          `json:"updatedAt"`
}

type locationDoc struct {
	Town             string `json:"town"`
	StreetName       string `json:"streetName"`
	HouseNum         int    `json:"houseNum"`
	Floor            int    `json:"floor"`
	BuildingMaxFloor int    `json:"buildingMaxFloor"`
}

type propertiesDoc struct {
	IsStandingOnPolls      bool    `json:"isStandingOnPolls"`
	HasAirConditioning     bool    `json:"hasAirConditioning"`
	HasFurniture           bool    `json:"hasFurniture"`
	IsRenovated            bool    `json:"isRenovated"`
	HasSafeRoom            bool    `json:"hasSafeRoom"`
	IsAccessible           bool    `json:"isAccessible"`
	HasKosherKitchen       bool    `json:"hasKosherKitchen"`
	HasShed                bool    `json:"hasShed"`
	HasLift                bool    `json:"hasLift"`
	HasSunHeatedWaterTanks bool    `json:"hasSunHeatedWaterTanks"`
	HasPandorDoors         bool    `json:"hasPandorDoors"`
	HasTadiranAc           bool    `json:"hasTadiranAc"`
	HasWindowBars          bool    `json:"hasWindowBars"`
	NumberOfRooms          float64 `json:"numberOfRooms"`
	NumberOfParkingSpots   int     `json:"numberOfParkingSpots"`
	NumberOfBalconies      int     `json:"numberOfBalconies"`
	Description            string  `json:"description"`
	FurnitureDescription   string  `json:"furnitureDescription"`
}

type sizeDoc struct {
	BuiltSqm *float64 `json:"builtSqm,omitempty"`
	TotalSqm float64  `json:"totalSqm"`
}

type entranceDoc struct {
	Date        int64 `json:"date"`
	IsImmediate bool  `json:"isImmediate"`
}

type publisherDoc struct {
	Name           string `json:"publisherName"`
	Phone          string `json:"phoneNumber"`
	WeekendContact bool   `json:"canBeInContactOnWeekends"`
}

func encodeListing(l *listing.Listing) ([]byte, error) {
	p := l.Properties
	doc := listingDoc{
		ID:        l.ID,
		Type:      string(l.Type),
		Condition: string(l.Condition),
		Location: locationDoc{
			Town:             l.Location.Town,
			StreetName:       l.Location.StreetName,
			HouseNum:         l.Location.HouseNum,
			Floor:            l.Location.Floor,
			BuildingMaxFloor: l.Location.BuildingMaxFloor,
		},
		Properties: propertiesDoc{
			IsStandingOnPolls:      p.IsStandingOnPolls,
			HasAirConditioning:     p.HasAirConditioning,
			HasFurniture:           p.HasFurniture,
			IsRenovated:            p.IsRenovated,
			HasSafeRoom:            p.HasSafeRoom,
			IsAccessible:           p.IsAccessible,
			HasKosherKitchen:       p.HasKosherKitchen,
			HasShed:                p.HasShed,
			HasLift:                p.HasLift,
			HasSunHeatedWaterTanks: p.HasSunHeatedWaterTanks,
			HasPandorDoors:         p.HasPandorDoors,
			HasTadiranAc:           p.HasTadiranAc,
			HasWindowBars:          p.HasWindowBars,
			NumberOfRooms:          p.NumberOfRooms,
			NumberOfParkingSpots:   p.NumberOfParkingSpots,
			NumberOfBalconies:      p.NumberOfBalconies,
			Description:            p.Description,
			FurnitureDescription:   p.FurnitureDescription,
		},
		Price: l.Price,
		Size:  sizeDoc{BuiltSqm: l.Size.BuiltSqm, TotalSqm: l.Size.TotalSqm},
		EntranceDate: entranceDoc{
			Date:        l.EntranceDate.Date.UnixMilli(),
			IsImmediate: l.EntranceDate.IsImmediate,
		},
		Publishers:   make([]publisherDoc, len(l.Publishers)),
		ContactEmail: l.ContactEmail,
		Owner:        l.Owner,
		CreatedAt:    l.CreatedAt.UnixMilli(),
		UpdatedAt:    l.UpdatedAt.UnixMilli(),
	}
	for i, pub := range l.Publishers {
		doc.Publishers[i] = publisherDoc{Name: pub.Name, Phone: pub.Phone, WeekendContact: pub.WeekendContact}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal listing: %w", err)
	}
	return data, nil
}

func decodeListing(id string, data []byte) (listing.Listing, error) {
	var doc listingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return listing.Listing{}, fmt.Errorf("unmarshal listing %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}

	p := doc.Properties
	l := listing.Listing{
		ID:        doc.ID,
		Type:      listing.Type(doc.Type),
		Condition: listing.Condition(doc.Condition),
		Location: listing.Location{
			Town:             doc.Location.Town,
			StreetName:       doc.Location.StreetName,
			HouseNum:         doc.Location.HouseNum,
			Floor:            doc.Location.Floor,
			BuildingMaxFloor: doc.Location.BuildingMaxFloor,
		},
		Properties: listing.Properties{
			IsStandingOnPolls:      p.IsStandingOnPolls,
			HasAirConditioning:     p.HasAirConditioning,
			HasFurniture:           p.HasFurniture,
			IsRenovated:            p.IsRenovated,
			HasSafeRoom:            p.HasSafeRoom,
			IsAccessible:           p.IsAccessible,
			HasKosherKitchen:       p.HasKosherKitchen,
			HasShed:                p.HasShed,
			HasLift:                p.HasLift,
			HasSunHeatedWaterTanks: p.HasSunHeatedWaterTanks,
			HasPandorDoors:         p.HasPandorDoors,
			HasTadiranAc:           p.HasTadiranAc,
			HasWindowBars:          p.HasWindowBars,
			NumberOfRooms:          p.NumberOfRooms,
			NumberOfParkingSpots:   p.NumberOfParkingSpots,
			NumberOfBalconies:      p.NumberOfBalconies,
			Description:            p.Description,
			FurnitureDescription:   p.FurnitureDescription,
		},
		Price: doc.Price,
		Size:  listing.Size{BuiltSqm: doc.Size.BuiltSqm, TotalSqm: doc.Size.TotalSqm},
		EntranceDate: listing.EntranceDate{
			Date:        time.UnixMilli(doc.EntranceDate.Date).UTC(),
			IsImmediate: doc.EntranceDate.IsImmediate,
		},
		Publishers:   make([]listing.Publisher, len(doc.Publishers)),
		ContactEmail: doc.ContactEmail,
		Owner:        doc.Owner,
		CreatedAt:    time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(doc.UpdatedAt).UTC(),
	}
	for i, pub := range doc.Publishers {
		l.Publishers[i] = listing.Publisher{Name: pub.Name, Phone: pub.Phone, WeekendContact: pub.WeekendContact}
	}
	return l, nil
}
