package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"farejo/internal/models"
	"farejo/internal/utils"
)

var (
	ErrGeocoderDisabled = errors.New("geocoder disabled")
	ErrAddressNotFound  = errors.New("address not found")
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, loc models.Location) (LatLng, error)
}

// NoopGeocoder is used when no geocoding endpoint is configured.
type NoopGeocoder struct{}

func (NoopGeocoder) Geocode(ctx context.Context, loc models.Location) (LatLng, error) {
	return LatLng{}, ErrGeocoderDisabled
}

// NominatimGeocoder talks to an OpenStreetMap Nominatim compatible /search endpoint.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Country   string
	client    *http.Client
	cache     *utils.TTLCache[LatLng]
}

func NewNominatimGeocoder(baseURL, userAgent, country string) *NominatimGeocoder {
	cache, err := utils.NewTTLCache[LatLng](500, 24*time.Hour)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &NominatimGeocoder{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		UserAgent: userAgent,
		Country:   country,
		client:    &http.Client{Timeout: 10 * time.Second},
		cache:     cache,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, loc models.Location) (LatLng, error) {
	key := strings.ToLower(strings.Join([]string{loc.State, loc.City, loc.Neighborhood}, "|"))
	if pos, ok := g.cache.Get(key); ok {
		return pos, nil
	}

	// 结构化查询：bairro 作为 street 传入
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	for name, value := range map[string]string{
		"street":  loc.Neighborhood,
		"city":    loc.City,
		"state":   loc.State,
		"country": g.Country,
	} {
		if value = strings.TrimSpace(value); value != "" {
			params.Set(name, value)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return LatLng{}, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LatLng{}, fmt.Errorf("geocode request: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return LatLng{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return LatLng{}, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("parse lon: %w", err)
	}

	pos := LatLng{Lat: lat, Lng: lng}
	g.cache.Set(key, pos)
	return pos, nil
}

// Locate fills the listing coordinates. Geocoding failures are logged and
// leave the listing without coordinates; they never block a submission.
// Listings without a city are not looked up.
func Locate(ctx context.Context, g Geocoder, l *models.Listing) {
	if l.Location.HasCoordinates() || strings.TrimSpace(l.Location.City) == "" {
		return
	}
	pos, err := g.Geocode(ctx, l.Location)
	if err != nil {
		if !errors.Is(err, ErrGeocoderDisabled) {
			utils.LogError(err, "geocoding failed, listing saved without coordinates")
		}
		return
	}
	l.Location.Lat = pos.Lat
	l.Location.Lng = pos.Lng
}
