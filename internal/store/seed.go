package store

import (
	"context"
	"time"

	"farejo/internal/models"
)

// DemoListings are the two sample reports shown on a fresh install.
func DemoListings() []models.Listing {
	return []models.Listing{
		{
			Status:   models.StatusFound,
			Images:   []string{"https://picsum.photos/seed/dog2/800/600"},
			Breed:    "SRD",
			Color:    "Caramelo",
			Size:     models.SizeMedium,
			Gender:   models.GenderFemale,
			Date:     "2024-05-12",
			IsDocile: true,
			Location: models.Location{
				State:        "RJ",
				City:         "Rio de Janeiro",
				Neighborhood: "Copacabana",
				Lat:          -22.9714,
				Lng:          -43.1823,
			},
			Description: "Encontrado vagando na orla. Estava com uma coleira azul sem identificação.",
			Contact: models.Contact{
				Name:              "João Souza",
				Phone:             "21988888888",
				ShowPhonePublicly: true,
			},
		},
		{
			Name:     "Bolinha",
			Status:   models.StatusLost,
			Images:   []string{"https://picsum.photos/seed/dog1/800/600"},
			Breed:    "Poodle",
			Color:    "Branco",
			Size:     models.SizeSmall,
			Gender:   models.GenderMale,
			Age:      "2 anos",
			Date:     "2024-05-10",
			IsDocile: true,
			Location: models.Location{
				State:        "SP",
				City:         "São Paulo",
				Neighborhood: "Vila Mariana",
				Lat:          -23.5895,
				Lng:          -46.6347,
			},
			Description: "Sumiu próximo ao metrô Ana Rosa. É muito dócil mas está assustado.",
			Contact: models.Contact{
				Name:              "Maria Silva",
				Phone:             "11999999999",
				ShowPhonePublicly: true,
			},
		},
	}
}

// Seed inserts listings (given newest first) into an empty store and
// returns how many were added. A store that already has data is left alone.
func (s *Store) Seed(ctx context.Context, listings []models.Listing) (int, error) {
	s.mu.RLock()
	empty := len(s.listings) == 0
	s.mu.RUnlock()
	if !empty {
		return 0, nil
	}

	base := s.now()
	n := 0
	// oldest first so the newest ends up at the head
	for i := len(listings) - 1; i >= 0; i-- {
		l, err := s.Create(ctx, listings[i])
		if err != nil {
			return n, err
		}
		n++
		s.backdate(l.ID, base.Add(-time.Duration(i+1)*12*time.Hour))
	}
	if err := s.Save(ctx); err != nil {
		return n, err
	}
	return n, nil
}

func (s *Store) backdate(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.listings[i].CreatedAt = at
	}
}
