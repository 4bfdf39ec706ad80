package models

import (
	"time"
)

// Sighting 目击记录，属于某一条 Listing
type Sighting struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ListingID   string    `gorm:"size:36;not null;index" json:"listing_id"`
	Date        string    `gorm:"size:10" json:"date"`
	Time        string    `gorm:"size:5" json:"time,omitempty"`
	Location    string    `gorm:"not null" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
