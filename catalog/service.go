package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidPlant is returned when a create or update misses required fields.
var ErrInvalidPlant = errors.New("popular and scientific name are required")

// Service wraps a plant Store with the catalog rules: required-field checks
// on writes, partial updates, and first-run seeding.
type Service struct {
	store Store
}

// NewService creates a catalog service on top of the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetAll returns every plant in the catalog.
func (s *Service) GetAll(ctx context.Context) ([]Plant, error) {
	return s.store.FindAll(ctx)
}

// GetByID returns a single plant or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Plant, error) {
	plant, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plant == nil {
		return nil, ErrNotFound
	}
	return plant, nil
}

// SearchPopular finds plants whose popular name contains the term.
func (s *Service) SearchPopular(ctx context.Context, name string) ([]Plant, error) {
	return s.store.SearchPopularName(ctx, name)
}

// SearchScientific finds plants whose scientific name contains the term.
func (s *Service) SearchScientific(ctx context.Context, name string) ([]Plant, error) {
	return s.store.SearchScientificName(ctx, name)
}

// Search finds plants whose popular or scientific name contains the term.
func (s *Service) Search(ctx context.Context, term string) ([]Plant, error) {
	return s.store.Search(ctx, term)
}

// Create validates and persists a new plant, assigning it a fresh id.
func (s *Service) Create(ctx context.Context, plant Plant) (*Plant, error) {
	if plant.PopularName == "" || plant.ScientificName == "" {
		return nil, ErrInvalidPlant
	}
	plant.ID = uuid.New()
	return s.store.Save(ctx, &plant)
}

// Update applies a partial update to an existing plant.
func (s *Service) Update(ctx context.Context, id uuid.UUID, update Update) (*Plant, error) {
	plant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&plant.PopularName, update.PopularName)
	apply(&plant.ScientificName, update.ScientificName)
	apply(&plant.Description, update.Description)
	apply(&plant.Family, update.Family)
	apply(&plant.Origin, update.Origin)
	apply(&plant.CareInstructions, update.CareInstructions)
	apply(&plant.ImageURL, update.ImageURL)

	if plant.PopularName == "" || plant.ScientificName == "" {
		return nil, ErrInvalidPlant
	}
	return s.store.Save(ctx, plant)
}

// Delete removes a plant; deleting a missing plant reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// Seed inserts a handful of sample plants when the catalog is empty, so a
// fresh deployment has something to browse. Idempotent on restart.
func (s *Service) Seed(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []Plant{
		{
			PopularName:      "Boston Fern",
			ScientificName:   "Nephrolepis exaltata",
			Description:      "A popular ornamental fern with delicate arching green fronds.",
			Family:           "Nephrolepidaceae",
			Origin:           "Central and South America",
			CareInstructions: "Indirect light and consistently moist soil. Water regularly.",
			ImageURL:         "https://example.com/boston-fern.jpg",
		},
		{
			PopularName:      "Snake Plant",
			ScientificName:   "Sansevieria trifasciata",
			Description:      "A hardy plant with upright pointed leaves, excellent at purifying air.",
			Family:           "Asparagaceae",
			Origin:           "West Africa",
			CareInstructions: "Tolerates low light and little water. Water only when the soil is dry.",
			ImageURL:         "https://example.com/snake-plant.jpg",
		},
		{
			PopularName:      "Moth Orchid",
			ScientificName:   "Phalaenopsis spp.",
			Description:      "A popular orchid with long-lasting elegant flowers in many tones.",
			Family:           "Orchidaceae",
			Origin:           "Southeast Asia",
			CareInstructions: "Indirect light, water when the substrate dries, humid environment.",
			ImageURL:         "https://example.com/moth-orchid.jpg",
		},
	}
	for i := range samples {
		samples[i].ID = uuid.New()
		if _, err := s.store.Save(ctx, &samples[i]); err != nil {
			return err
		}
	}
	return nil
}
