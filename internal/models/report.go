package models

import (
	"time"
)

// Report 举报。ListingID 只是引用，删除 Listing 时级联删除。
type Report struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ListingID string    `gorm:"size:36;not null;index" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reason    string    `gorm:"size:500;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
