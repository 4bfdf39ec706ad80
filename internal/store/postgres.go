package store

import (
	"context"
	"fmt"

	"farejo/internal/models"

	"gorm.io/gorm"
)

// PostgresBackend stores the snapshot in the listings, sightings and reports
// tables. Every Save rewrites all three tables in one transaction.
type PostgresBackend struct {
	db *gorm.DB
}

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Load(ctx context.Context) (*Snapshot, error) {
	tx := b.db.WithContext(ctx)

	var listings []models.Listing
	err := tx.Preload("Sightings", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	var reports []models.Report
	if err := tx.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}

	return &Snapshot{Listings: listings, Reports: reports}, nil
}

func (b *PostgresBackend) Save(ctx context.Context, snap *Snapshot) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first so the foreign keys never dangle
		for _, table := range []string{"reports", "sightings", "listings"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		if len(snap.Listings) > 0 {
			if err := tx.Omit("Sightings").CreateInBatches(snap.Listings, 100).Error; err != nil {
				return fmt.Errorf("insert listings: %w", err)
			}
		}

		var sightings []models.Sighting
		for _, l := range snap.Listings {
			sightings = append(sightings, l.Sightings...)
		}
		if len(sightings) > 0 {
			if err := tx.CreateInBatches(sightings, 100).Error; err != nil {
				return fmt.Errorf("insert sightings: %w", err)
			}
		}

		if len(snap.Reports) > 0 {
			if err := tx.Omit("Listing").CreateInBatches(snap.Reports, 100).Error; err != nil {
				return fmt.Errorf("insert reports: %w", err)
			}
		}
		return nil
	})
}
