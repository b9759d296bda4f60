package listing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dira-homes/dira/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Type:      "apartment",
		Condition: "renovated",
		Location: Location{
			Town:             "Tel Aviv",
			StreetName:       "Dizengoff",
			HouseNum:         10,
			Floor:            3,
			BuildingMaxFloor: 5,
		},
		Properties: Properties{
			HasLift:       true,
			NumberOfRooms: 3.5,
			Description:   "Sunny, quiet street",
		},
		Price:        1500000,
		Size:         Size{TotalSqm: 90},
		EntranceDate: EntranceDate{Date: testNow.Add(24 * time.Hour)},
		Publishers:   []Publisher{{Name: "Dana", Phone: "0521234567", WeekendContact: true}},
	}
}

func TestNew_Valid(t *testing.T) {
	l, err := New("L1", validDraft(), "u1", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.ID != "L1" || l.Owner != "u1" {
		t.Errorf("id/owner = %q/%q", l.ID, l.Owner)
	}
	if l.Type != TypeApartment || l.Condition != ConditionRenovated {
		t.Errorf("type/condition = %q/%q", l.Type, l.Condition)
	}
	if !l.CreatedAt.Equal(testNow) || !l.UpdatedAt.Equal(testNow) {
		t.Errorf("timestamps not set to now")
	}
}

func TestNew_TrimsStrings(t *testing.T) {
	d := validDraft()
	d.Type = " duplex "
	d.Location.Town = "  Haifa "
	d.Publishers[0].Name = " Dana "

	l, err := New("L1", d, "u1", testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Type != TypeDuplex || l.Location.Town != "Haifa" || l.Publishers[0].Name != "Dana" {
		t.Errorf("strings not trimmed: %+v", l)
	}
}

func TestNew_PublishersCheckedFirst(t *testing.T) {
	d := validDraft()
	d.Publishers = nil
	d.Type = "castle"

	_, err := New("L1", d, "u1", testNow)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "publishers" {
		t.Errorf("field = %q, want publishers", ve.Field)
	}
	if !strings.Contains(ve.Message, "must include at least one (name, phone number)") {
		t.Errorf("message = %q", ve.Message)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"unknown type", func(d *Draft) { d.Type = "castle" }, "type"},
		{"unknown condition", func(d *Draft) { d.Condition = "ruined" }, "condition"},
		{"missing town", func(d *Draft) { d.Location.Town = " " }, "town"},
		{"rooms over max", func(d *Draft) { d.Properties.NumberOfRooms = 13 }, "numberOfRooms"},
		{"parking over max", func(d *Draft) { d.Properties.NumberOfParkingSpots = 4 }, "numberOfParkingSpots"},
		{"negative balconies", func(d *Draft) { d.Properties.NumberOfBalconies = -1 }, "numberOfBalconies"},
		{"long description", func(d *Draft) { d.Properties.Description = strings.Repeat("a", 401) }, "description"},
		{"low price", func(d *Draft) { d.Price = 99999 }, "price"},
		{"negative total sqm", func(d *Draft) { d.Size.TotalSqm = -1 }, "totalSqm"},
		{"past entrance date", func(d *Draft) { d.EntranceDate.Date = testNow.Add(-time.Hour) }, "date"},
		{"missing entrance date", func(d *Draft) { d.EntranceDate.Date = time.Time{} }, "date"},
		{"bad phone", func(d *Draft) { d.Publishers[0].Phone = "0591234567" }, "phoneNumber"},
		{"empty publisher name", func(d *Draft) { d.Publishers[0].Name = "" }, "publisherName"},
		{"bad email", func(d *Draft) { d.ContactEmail = "not-an-email" }, "contactEmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := New("L1", d, "u1", testNow)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *domain.ValidationError
			if errors.As(err, &ve) && ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestValidateRooms(t *testing.T) {
	tests := []struct {
		rooms   float64
		wantErr bool
	}{
		{0, false},
		{1.5, false},
		{3.5, false},
		{7, false},
		{12, false},
		{0.5, true},
		{7.3, true},
		{7.5, true},
		{2.25, true},
		{12.5, true},
		{-1, true},
	}
	for _, tt := range tests {
		err := ValidateRooms(tt.rooms)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRooms(%v) err=%v, wantErr=%v", tt.rooms, err, tt.wantErr)
		}
	}
}

func TestTypeAndConditionSets(t *testing.T) {
	if len(Types) != 19 {
		t.Errorf("len(Types) = %d, want 19", len(Types))
	}
	if len(Conditions) != 5 {
		t.Errorf("len(Conditions) = %d, want 5", len(Conditions))
	}
	if !Type("studio/loft").Valid() || Type("Studio/Loft").Valid() {
		t.Error("type membership must be exact")
	}
	if !Condition("in-need-of-renovation").Valid() {
		t.Error("expected in-need-of-renovation to be valid")
	}
}
