package services

import (
	"strings"

	"farejo/internal/models"
)

// PossibleMatches lists reports of the opposite kind in the same city whose
// breed is the same or whose colors overlap. A lost dog is matched against
// found dogs and vice versa; resolved listings never match.
func PossibleMatches(target models.Listing, listings []models.Listing) []models.Listing {
	want := target.Status.Opposite()
	if want == "" {
		return []models.Listing{}
	}
	city := fold(target.Location.City)
	breed := fold(target.Breed)
	color := fold(target.Color)

	out := []models.Listing{}
	for _, l := range listings {
		if l.ID == target.ID || l.Status != want {
			continue
		}
		if fold(l.Location.City) != city {
			continue
		}
		if !sameBreed(breed, fold(l.Breed)) && !overlaps(color, fold(l.Color)) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameBreed(a, b string) bool {
	return a != "" && a == b
}

func overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
