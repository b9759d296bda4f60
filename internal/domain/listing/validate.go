package listing

import (
	"math"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dira-homes/dira/internal/domain"
)

// Limits enforced on creation.
const (
	MinPrice          = 100000
	MaxRooms          = 12
	MaxParkingSpots   = 3
	MaxBalconies      = 3
	MaxDescriptionLen = 400
)

// New validates d and creates a Listing owned by owner. now is the creation
// instant; the entrance date may not precede it.
func New(id string, d Draft, owner string, now time.Time) (Listing, error) {
	if err := RequirePublishers(d.Publishers); err != nil {
		return Listing{}, err
	}

	l := Listing{
		ID:           id,
		Type:         Type(strings.TrimSpace(d.Type)),
		Condition:    Condition(strings.TrimSpace(d.Condition)),
		Location:     d.Location,
		Properties:   d.Properties,
		Price:        d.Price,
		Size:         d.Size,
		EntranceDate: d.EntranceDate,
		ContactEmail: strings.TrimSpace(d.ContactEmail),
		Owner:        owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.Location.Town = strings.TrimSpace(l.Location.Town)
	l.Location.StreetName = strings.TrimSpace(l.Location.StreetName)
	l.Properties.Description = strings.TrimSpace(l.Properties.Description)
	l.Properties.FurnitureDescription = strings.TrimSpace(l.Properties.FurnitureDescription)

	if !l.Type.Valid() {
		return Listing{}, domain.NewValidationError("type",
			"Apartment's type must be one of the following: %s. The type that was specified is %s", joinTypes(), l.Type)
	}
	if !l.Condition.Valid() {
		return Listing{}, domain.NewValidationError("condition",
			"Apartment's condition must be one of the following: %s. The condition that was specified is %s", joinConditions(), l.Condition)
	}
	if l.Location.Town == "" {
		return Listing{}, domain.NewValidationError("town", "Town is required")
	}
	if err := validateProperties(l.Properties); err != nil {
		return Listing{}, err
	}
	if l.Price < MinPrice {
		return Listing{}, domain.NewValidationError("price", "Price cannot be less than %d", MinPrice)
	}
	if l.Size.TotalSqm < 0 {
		return Listing{}, domain.NewValidationError("totalSqm", "Total sqm cannot be negative")
	}
	if l.Size.BuiltSqm != nil && *l.Size.BuiltSqm < 0 {
		return Listing{}, domain.NewValidationError("builtSqm", "Built sqm cannot be negative")
	}
	if l.EntranceDate.Date.IsZero() {
		return Listing{}, domain.NewValidationError("date", "Entry date is required")
	}
	if l.EntranceDate.Date.Before(now) {
		return Listing{}, domain.NewValidationError("date", "Entry date cannot be before today")
	}

	publishers := make([]Publisher, 0, len(d.Publishers))
	for _, p := range d.Publishers {
		p.Name = strings.TrimSpace(p.Name)
		p.Phone = strings.TrimSpace(p.Phone)
		if p.Name == "" {
			return Listing{}, domain.NewValidationError("publisherName", "Publisher name is required")
		}
		if err := domain.ValidatePhone("phoneNumber", p.Phone); err != nil {
			return Listing{}, err
		}
		publishers = append(publishers, p)
	}
	l.Publishers = publishers

	if l.ContactEmail != "" {
		if _, err := mail.ParseAddress(l.ContactEmail); err != nil {
			return Listing{}, domain.NewValidationError("contactEmail", "Email is not valid")
		}
	}

	return l, nil
}

// RequirePublishers enforces the at-least-one-publisher rule. It runs before
// any other check.
func RequirePublishers(publishers []Publisher) error {
	if len(publishers) == 0 {
		return domain.NewValidationError("publishers",
			"Apartment's publishers are missing, must include at least one (name, phone number)")
	}
	return nil
}

// ValidateRooms applies the room-count rule: 0..12, a fractional part is
// only allowed between 1 and 7 and must be exactly .5.
func ValidateRooms(rooms float64) error {
	if rooms < 0 {
		return domain.NewValidationError("numberOfRooms", "Number of rooms cannot be less than 0")
	}
	if rooms > MaxRooms {
		return domain.NewValidationError("numberOfRooms", "Number of rooms cannot surpass %d", MaxRooms)
	}
	_, frac := math.Modf(rooms)
	if frac != 0 && (rooms > 7 || rooms < 1) {
		return domain.NewValidationError("numberOfRooms",
			"Number of rooms must be a whole number if it is bigger than 7 or smaller than 1")
	}
	if frac != 0 && frac != 0.5 {
		return domain.NewValidationError("numberOfRooms", "Number of rooms cannot have a fraction different than .5 or .0")
	}
	return nil
}

func validateProperties(p Properties) error {
	if err := ValidateRooms(p.NumberOfRooms); err != nil {
		return err
	}
	if p.NumberOfParkingSpots < 0 || p.NumberOfParkingSpots > MaxParkingSpots {
		return domain.NewValidationError("numberOfParkingSpots",
			"Number of parking spots cannot be less than 0 or more than %d", MaxParkingSpots)
	}
	if p.NumberOfBalconies < 0 || p.NumberOfBalconies > MaxBalconies {
		return domain.NewValidationError("numberOfBalconies",
			"Number of balconies cannot be less than 0 or more than %d", MaxBalconies)
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		return domain.NewValidationError("description", "Description cannot surpass %d letters in length", MaxDescriptionLen)
	}
	if utf8.RuneCountInString(p.FurnitureDescription) > MaxDescriptionLen {
		return domain.NewValidationError("furnitureDescription",
			"Description cannot surpass %d letters in length", MaxDescriptionLen)
	}
	return nil
}

func joinTypes() string {
	s := make([]string, len(Types))
	for i, t := range Types {
		s[i] = string(t)
	}
	return strings.Join(s, ",")
}

func joinConditions() string {
	s := make([]string, len(Conditions))
	for i, c := range Conditions {
		s[i] = string(c)
	}
	return strings.Join(s, ",")
}
