// Package store keeps the listing and report collections in memory and
// persists the whole collection through a Backend after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"farejo/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidListing    = errors.New("invalid listing")
	ErrInvalidSighting   = errors.New("invalid sighting")
	ErrInvalidReport     = errors.New("invalid report")
	ErrCorruptSnapshot   = errors.New("corrupt snapshot")
)

// PlaceholderImage is used when a listing is submitted without photos.
const PlaceholderImage = "/static/img/dog-placeholder.svg"

const dateLayout = "2006-01-02"

// Snapshot is the whole persisted state: every listing and every report.
type Snapshot struct {
	Listings []models.Listing `json:"listings"`
	Reports  []models.Report  `json:"reports"`
}

// Backend loads and saves whole snapshots. A missing snapshot is not an
// error: Load returns an empty one.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

type Store struct {
	mu       sync.RWMutex
	backend  Backend
	listings []models.Listing // newest first
	reports  []models.Report  // newest first

	now   func() time.Time
	newID func() string
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Load replaces the in-memory state with the backend's snapshot.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	listings := snap.Listings
	for i := range listings {
		if listings[i].Sightings == nil {
			listings[i].Sightings = []models.Sighting{}
		}
	}

	s.mu.Lock()
	s.listings = listings
	s.reports = snap.Reports
	s.mu.Unlock()
	return nil
}

// Save writes the current state to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	snap := &Snapshot{
		Listings: slices.Clone(s.listings),
		Reports:  slices.Clone(s.reports),
	}
	s.mu.RUnlock()
	return s.backend.Save(ctx, snap)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	return &Snapshot{Listings: s.Listings(), Reports: s.Reports()}
}

// Listings returns every listing, resolved ones included, newest first.
func (s *Store) Listings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, len(s.listings))
	for i, l := range s.listings {
		out[i] = l.Clone()
	}
	return out
}

func (s *Store) Get(id string) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Listing{}, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	return s.listings[i].Clone(), nil
}

// Recent returns up to n open listings, newest first.
func (s *Store) Recent(n int) []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, 0, n)
	for _, l := range s.listings {
		if len(out) == n {
			break
		}
		if l.Status.Open() {
			out = append(out, l.Clone())
		}
	}
	return out
}

// Reports returns every moderation report, newest first.
func (s *Store) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}

// Stats counts listings per status.
func (s *Store) Stats() map[models.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[models.Status]int{
		models.StatusLost:     0,
		models.StatusFound:    0,
		models.StatusResolved: 0,
	}
	for _, l := range s.listings {
		stats[l.Status]++
	}
	return stats
}

// Create validates the listing, assigns its identity and stores it as the newest entry.
func (s *Store) Create(ctx context.Context, l models.Listing) (models.Listing, error) {
	if err := s.normalizeListing(&l); err != nil {
		return models.Listing{}, err
	}
	l.ID = s.newID()
	l.CreatedAt = s.now()
	l.Sightings = []models.Sighting{}

	err := s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		return append([]models.Listing{l}, listings...), reports, nil
	})
	if err != nil {
		return models.Listing{}, err
	}
	return l.Clone(), nil
}

// UpdateStatus moves an open listing to RESOLVED. Any other transition fails.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Listing, error) {
	var updated models.Listing
	err := s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		i := indexOf(listings, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		current := listings[i].Status
		if !current.CanTransitionTo(status) {
			return nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
		}
		listings[i].Status = status
		updated = listings[i]
		return listings, reports, nil
	})
	if err != nil {
		return models.Listing{}, err
	}
	return updated.Clone(), nil
}

// Delete removes the listing with its sightings and every report that targets it.
// It returns the number of reports removed.
func (s *Store) Delete(ctx context.Context, id string) (int, error) {
	removed := 0
	err := s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		i := indexOf(listings, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		listings = slices.Delete(listings, i, i+1)

		kept := reports[:0]
		for _, r := range reports {
			if r.ListingID == id {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		return listings, kept, nil
	})
	return removed, err
}

// AddSighting records a new observation at the head of the listing's timeline.
func (s *Store) AddSighting(ctx context.Context, listingID string, sg models.Sighting) (models.Sighting, error) {
	sg.Location = strings.TrimSpace(sg.Location)
	sg.Description = strings.TrimSpace(sg.Description)
	if sg.Location == "" {
		return models.Sighting{}, fmt.Errorf("%w: location is required", ErrInvalidSighting)
	}
	if sg.Description == "" {
		return models.Sighting{}, fmt.Errorf("%w: description is required", ErrInvalidSighting)
	}
	if sg.Date == "" {
		sg.Date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, sg.Date); err != nil {
		return models.Sighting{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSighting)
	}
	sg.ID = s.newID()
	sg.ListingID = listingID
	sg.CreatedAt = s.now()

	err := s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		i := indexOf(listings, listingID)
		if i < 0 {
			return nil, nil, fmt.Errorf("listing %s: %w", listingID, ErrNotFound)
		}
		listings[i].Sightings = append([]models.Sighting{sg}, listings[i].Sightings...)
		return listings, reports, nil
	})
	if err != nil {
		return models.Sighting{}, err
	}
	return sg, nil
}

// AddReport flags a listing for moderation.
func (s *Store) AddReport(ctx context.Context, listingID, reason string) (models.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Report{}, fmt.Errorf("%w: reason is required", ErrInvalidReport)
	}
	r := models.Report{
		ID:        s.newID(),
		ListingID: listingID,
		Reason:    reason,
		CreatedAt: s.now(),
	}

	err := s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		if indexOf(listings, listingID) < 0 {
			return nil, nil, fmt.Errorf("listing %s: %w", listingID, ErrNotFound)
		}
		return listings, append([]models.Report{r}, reports...), nil
	})
	if err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// DismissReport deletes a single report without touching its listing.
func (s *Store) DismissReport(ctx context.Context, reportID string) error {
	return s.mutate(ctx, func(listings []models.Listing, reports []models.Report) ([]models.Listing, []models.Report, error) {
		i := slices.IndexFunc(reports, func(r models.Report) bool { return r.ID == reportID })
		if i < 0 {
			return nil, nil, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
		}
		return listings, slices.Delete(reports, i, i+1), nil
	})
}

// mutate applies fn to copies of the collections and commits them only after
// the backend accepted the new snapshot.
func (s *Store) mutate(ctx context.Context, fn func([]models.Listing, []models.Report) ([]models.Listing, []models.Report, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings, reports, err := fn(slices.Clone(s.listings), slices.Clone(s.reports))
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, &Snapshot{Listings: listings, Reports: reports}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.listings, s.reports = listings, reports
	return nil
}

func (s *Store) normalizeListing(l *models.Listing) error {
	trim := func(v *string) { *v = strings.TrimSpace(*v) }
	for _, v := range []*string{&l.Name, &l.Breed, &l.Color, &l.Age, &l.Date, &l.Time, &l.Description,
		&l.Behavior, &l.Collar, &l.Location.State, &l.Location.City, &l.Location.Neighborhood,
		&l.Location.Reference, &l.Contact.Name, &l.Contact.Phone, &l.Contact.Email} {
		trim(v)
	}

	if l.Status != models.StatusLost && l.Status != models.StatusFound {
		return fmt.Errorf("%w: status must be %s or %s", ErrInvalidListing, models.StatusLost, models.StatusFound)
	}
	if l.Status == models.StatusLost && l.Name == "" {
		return fmt.Errorf("%w: name is required for lost dogs", ErrInvalidListing)
	}

	required := []struct {
		field string
		value string
	}{
		{"breed", l.Breed},
		{"color", l.Color},
		{"city", l.Location.City},
		{"contact name", l.Contact.Name},
		{"contact phone", l.Contact.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidListing, r.field)
		}
	}

	if l.Size == "" {
		l.Size = models.SizeMedium
	} else if !l.Size.Valid() {
		return fmt.Errorf("%w: unknown size %q", ErrInvalidListing, l.Size)
	}
	if l.Gender == "" {
		l.Gender = models.GenderUnknown
	} else if !l.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidListing, l.Gender)
	}

	if l.Date == "" {
		l.Date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, l.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidListing)
	}

	images := l.Images[:0:0]
	for _, img := range l.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		images = []string{PlaceholderImage}
	}
	l.Images = images
	return nil
}

func (s *Store) indexOf(id string) int {
	return indexOf(s.listings, id)
}

func indexOf(listings []models.Listing, id string) int {
	return slices.IndexFunc(listings, func(l models.Listing) bool { return l.ID == id })
}
