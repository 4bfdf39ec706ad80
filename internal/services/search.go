package services

import (
	"strings"

	"farejo/internal/models"
)

// FilterListings returns the open listings matching every active criterion,
// in input order. Empty criteria match everything. It never mutates its input.
func FilterListings(listings []models.Listing, f models.SearchFilters) []models.Listing {
	query := strings.ToLower(f.Query)
	location := f.City
	if location == "" {
		location = f.Neighborhood
	}
	location = strings.ToLower(location)

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == models.StatusResolved {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		if location != "" && !matchesLocation(l, location) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// query must already be lowercase
func matchesQuery(l models.Listing, query string) bool {
	for _, field := range []string{l.Name, l.Breed, l.Color, l.Description} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// city OR neighborhood, one box for both granularities
func matchesLocation(l models.Listing, location string) bool {
	return strings.Contains(strings.ToLower(l.Location.City), location) ||
		strings.Contains(strings.ToLower(l.Location.Neighborhood), location)
}
