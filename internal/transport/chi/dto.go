package chi

import (
	"strconv"
	"strings"
	"time"

	"github.com/dira-homes/dira/internal/domain"
	domatt "github.com/dira-homes/dira/internal/domain/attachment"
	domlst "github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/user"
	searchuc "github.com/dira-homes/dira/internal/usecase/search"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ListingLocation is the wire form of a listing location.
type ListingLocation struct {
	Town             string `json:"town"`
	StreetName       string `json:"streetName"`
	HouseNum         int    `json:"houseNum"`
	Floor            int    `json:"floor"`
	BuildingMaxFloor int    `json:"buildingMaxFloor"`
}

// ListingProperties is the wire form of listing amenities.
type ListingProperties struct {
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

// ListingSize is the wire form of the listing area.
type ListingSize struct {
	BuiltSqm *float64 `json:"builtSqm,omitempty"`
	TotalSqm float64  `json:"totalSqm"`
}

// ListingPublisher is a contact person on the wire.
type ListingPublisher struct {
	PublisherName            string `json:"publisherName"`
	PhoneNumber              string `json:"phoneNumber"`
	CanBeInContactOnWeekends bool   `json:"canBeInContactOnWeekends"`
}

// PublishRequest is the body of POST /apartments/publish.
type PublishRequest struct {
	Type         string            `json:"type"`
	Condition    string            `json:"condition"`
	Location     ListingLocation   `json:"location"`
	Properties   ListingProperties `json:"properties"`
	Price        float64           `json:"price"`
	Size         ListingSize       `json:"size"`
	EntranceDate struct {
		Date        string `json:"date"`
		IsImmediate bool   `json:"isImmediate"`
	} `json:"entranceDate"`
	Publishers   []ListingPublisher `json:"publishers"`
	ContactEmail string             `json:"contactEmail,omitempty"`
}

// Listing is the wire form of a published listing.
type Listing struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	Condition    string             `json:"condition"`
	Location     ListingLocation    `json:"location"`
	Properties   ListingProperties  `json:"properties"`
	Price        float64            `json:"price"`
	Size         ListingSize        `json:"size"`
	EntranceDate EntranceDate       `json:"entranceDate"`
	Publishers   []ListingPublisher `json:"publishers"`
	ContactEmail string             `json:"contactEmail,omitempty"`
	Owner        string             `json:"owner"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// EntranceDate is when a listed property becomes available.
type EntranceDate struct {
	Date        time.Time `json:"date"`
	IsImmediate bool      `json:"isImmediate"`
}

// File is the wire form of attachment metadata.
type File struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StorageName  string    `json:"storageName"`
	Bucket       string    `json:"bucket"`
	Region       string    `json:"region"`
	Key          string    `json:"key"`
	Type         string    `json:"type"`
	Owner        string    `json:"owner"`
	IsMainFile   bool      `json:"isMainFile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListingWithFiles is one search hit.
type ListingWithFiles struct {
	Apartment Listing `json:"apartment"`
	Files     []File  `json:"files"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public account view. It never carries the password hash.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `json:"phoneNumber"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func draftFromRequest(req *PublishRequest) (domlst.Draft, error) {
	date, err := parseDate(req.EntranceDate.Date)
	if err != nil {
		return domlst.Draft{}, domain.NewValidationError("date", "Entrance date %q is not a valid date", req.EntranceDate.Date)
	}

	p := req.Properties
	d := domlst.Draft{
		Type:      req.Type,
		Condition: req.Condition,
		Location: domlst.Location{
			Town:             req.Location.Town,
			StreetName:       req.Location.StreetName,
			HouseNum:         req.Location.HouseNum,
			Floor:            req.Location.Floor,
			BuildingMaxFloor: req.Location.BuildingMaxFloor,
		},
		Properties: domlst.Properties{
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
		Price:        req.Price,
		Size:         domlst.Size{BuiltSqm: req.Size.BuiltSqm, TotalSqm: req.Size.TotalSqm},
		EntranceDate: domlst.EntranceDate{Date: date, IsImmediate: req.EntranceDate.IsImmediate},
		Publishers:   publishersFromRequest(req.Publishers),
		ContactEmail: req.ContactEmail,
	}
	return d, nil
}

func publishersFromRequest(in []ListingPublisher) []domlst.Publisher {
	out := make([]domlst.Publisher, len(in))
	for i, p := range in {
		out[i] = domlst.Publisher{Name: p.PublisherName, Phone: p.PhoneNumber, WeekendContact: p.CanBeInContactOnWeekends}
	}
	return out
}

// parseDate accepts RFC 3339, a plain YYYY-MM-DD day or epoch milliseconds.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func listingToResponse(l *domlst.Listing) Listing {
	p := l.Properties
	out := Listing{
		ID:        l.ID,
		Type:      string(l.Type),
		Condition: string(l.Condition),
		Location: ListingLocation{
			Town:             l.Location.Town,
			StreetName:       l.Location.StreetName,
			HouseNum:         l.Location.HouseNum,
			Floor:            l.Location.Floor,
			BuildingMaxFloor: l.Location.BuildingMaxFloor,
		},
		Properties: ListingProperties{
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
		Price:        l.Price,
		Size:         ListingSize{BuiltSqm: l.Size.BuiltSqm, TotalSqm: l.Size.TotalSqm},
		EntranceDate: EntranceDate{Date: l.EntranceDate.Date, IsImmediate: l.EntranceDate.IsImmediate},
		Publishers:   make([]ListingPublisher, len(l.Publishers)),
		ContactEmail: l.ContactEmail,
		Owner:        l.Owner,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	for i, pub := range l.Publishers {
		out.Publishers[i] = ListingPublisher{
			PublisherName:            pub.Name,
			PhoneNumber:              pub.Phone,
			CanBeInContactOnWeekends: pub.WeekendContact,
		}
	}
	return out
}

func filesToResponse(in []domatt.Attachment) []File {
	out := make([]File, len(in))
	for i, a := range in {
		out[i] = File{
			ID:           a.ID,
			OriginalName: a.OriginalName,
			StorageName:  a.StorageName,
			Bucket:       a.Bucket,
			Region:       a.Region,
			Key:          a.Key,
			Type:         a.Type,
			Owner:        a.Owner,
			IsMainFile:   a.IsMainFile,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		}
	}
	return out
}

func resultsToResponse(in []searchuc.Result) []ListingWithFiles {
	out := make([]ListingWithFiles, len(in))
	for i := range in {
		out[i] = ListingWithFiles{
			Apartment: listingToResponse(&in[i].Listing),
			Files:     filesToResponse(in[i].Attachments),
		}
	}
	return out
}

func userToResponse(u *user.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.Phone,
		DateOfBirth: u.BirthDate,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func signupFromRequest(req *SignupRequest) (user.Signup, error) {
	s := user.Signup{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return user.Signup{}, domain.NewValidationError("dateOfBirth", "Date of birth %q is not a valid date", req.DateOfBirth)
		}
		s.BirthDate = &dob
	}
	return s, nil
}
