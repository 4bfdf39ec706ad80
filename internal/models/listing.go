package models

import (
	"time"
)

type Status string

const (
	StatusLost     Status = "PERDIDO"
	StatusFound    Status = "ENCONTRADO"
	StatusResolved Status = "RESOLVIDO"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLost, StatusFound, StatusResolved:
		return true
	}
	return false
}

// Open reports whether the listing is still searchable (lost or found).
func (s Status) Open() bool {
	return s == StatusLost || s == StatusFound
}

// CanTransitionTo only allows open listings to become resolved. Resolved is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s.Open() && next == StatusResolved
}

// Opposite returns the status a possible match must have (lost <-> found).
func (s Status) Opposite() Status {
	switch s {
	case StatusLost:
		return StatusFound
	case StatusFound:
		return StatusLost
	}
	return ""
}

type Size string

const (
	SizeSmall  Size = "Pequeno"
	SizeMedium Size = "Médio"
	SizeLarge  Size = "Grande"
)

func (s Size) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

type Gender string

const (
	GenderMale    Gender = "Macho"
	GenderFemale  Gender = "Fêmea"
	GenderUnknown Gender = "Não sei"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnknown
}

type Location struct {
	State        string  `gorm:"size:2" json:"state"`
	City         string  `gorm:"not null;index" json:"city"`
	Neighborhood string  `json:"neighborhood"`
	Reference    string  `json:"reference,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// HasCoordinates is false for listings whose address could not be geocoded.
func (l Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

type Contact struct {
	Name              string `gorm:"not null" json:"name"`
	Phone             string `gorm:"size:32;not null" json:"phone"`
	Email             string `json:"email,omitempty"`
	ShowPhonePublicly bool   `gorm:"default:true" json:"show_phone_publicly"`
}

// PublicPhone returns the phone number only if the owner allowed it.
func (c Contact) PublicPhone() string {
	if !c.ShowPhonePublicly {
		return ""
	}
	return c.Phone
}

// Listing 走失/寻获的狗狗信息
type Listing struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `json:"name,omitempty"`
	Status      Status     `gorm:"size:20;not null;index" json:"status"`
	Images      []string   `gorm:"serializer:json" json:"images"`
	Breed       string     `gorm:"not null" json:"breed"`
	Color       string     `gorm:"not null" json:"color"`
	Size        Size       `gorm:"size:20" json:"size"`
	Gender      Gender     `gorm:"size:20" json:"gender"`
	Age         string     `json:"age,omitempty"`
	Date        string     `gorm:"size:10" json:"date"` // 最后一次看到/找到的日期 YYYY-MM-DD
	Time        string     `gorm:"size:5" json:"time,omitempty"`
	Location    Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Description string     `gorm:"type:text" json:"description"`
	Behavior    string     `json:"behavior,omitempty"`
	Collar      string     `json:"collar,omitempty"`
	IsDocile    bool       `json:"is_docile"`
	Contact     Contact    `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	Sightings   []Sighting `gorm:"foreignKey:ListingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sightings"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

// DisplayName falls back to a placeholder for unnamed (usually found) dogs.
func (l Listing) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return "Desconhecido"
}

// CoverImage is the first image, or empty if the listing has none.
func (l Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// Clone copies the slices so callers can't mutate the store's records.
// The copies are never nil so an empty list still encodes as [].
func (l Listing) Clone() Listing {
	out := l
	out.Images = make([]string, len(l.Images))
	copy(out.Images, l.Images)
	out.Sightings = make([]Sighting, len(l.Sightings))
	copy(out.Sightings, l.Sightings)
	return out
}
