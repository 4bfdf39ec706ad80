package services

import (
	"farejo/internal/models"
)

// DefaultCenter is used when no listing has coordinates (centro de São Paulo).
var DefaultCenter = LatLng{Lat: -23.5505, Lng: -46.6333}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Marker struct {
	ID     string        `json:"id"`
	Lat    float64       `json:"lat"`
	Lng    float64       `json:"lng"`
	Status models.Status `json:"status"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Image  string        `json:"image,omitempty"`
	URL    string        `json:"url"`
}

var markerColors = map[models.Status]string{
	models.StatusLost:     "#f59e0b",
	models.StatusFound:    "#10b981",
	models.StatusResolved: "#64748b",
}

// BuildMarkers emits one marker per listing that has coordinates, keeping order.
func BuildMarkers(listings []models.Listing) []Marker {
	markers := make([]Marker, 0, len(listings))
	for _, l := range listings {
		if !l.Location.HasCoordinates() {
			continue
		}
		markers = append(markers, Marker{
			ID:     l.ID,
			Lat:    l.Location.Lat,
			Lng:    l.Location.Lng,
			Status: l.Status,
			Label:  l.DisplayName() + " · " + l.Breed,
			Color:  markerColors[l.Status],
			Image:  l.CoverImage(),
			URL:    "/listings/" + l.ID,
		})
	}
	return markers
}

// Center is the mean position of the markers.
func Center(markers []Marker) LatLng {
	if len(markers) == 0 {
		return DefaultCenter
	}
	var c LatLng
	for _, m := range markers {
		c.Lat += m.Lat
		c.Lng += m.Lng
	}
	n := float64(len(markers))
	return LatLng{Lat: c.Lat / n, Lng: c.Lng / n}
}
