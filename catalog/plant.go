package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the referenced plant does not exist.
var ErrNotFound = errors.New("plant not found")

// Plant is a catalog entry.
type Plant struct {
	ID               uuid.UUID `json:"id"`
	PopularName      string    `json:"popularName"`
	ScientificName   string    `json:"scientificName"`
	Description      string    `json:"description,omitempty"`
	Family           string    `json:"family,omitempty"`
	Origin           string    `json:"origin,omitempty"`
	CareInstructions string    `json:"careInstructions,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
}

// Update carries a partial plant update; nil fields are left untouched.
type Update struct {
	PopularName      *string `json:"popularName"`
	ScientificName   *string `json:"scientificName"`
	Description      *string `json:"description"`
	Family           *string `json:"family"`
	Origin           *string `json:"origin"`
	CareInstructions *string `json:"careInstructions"`
	ImageURL         *string `json:"imageUrl"`
}

// Store is the persistence collaborator for plant records. Name searches
// are case-insensitive substring matches; username handling elsewhere in
// the system is case-sensitive and the two must not be unified.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plant, error)
	FindAll(ctx context.Context) ([]Plant, error)
	SearchPopularName(ctx context.Context, name string) ([]Plant, error)
	SearchScientificName(ctx context.Context, name string) ([]Plant, error)
	Search(ctx context.Context, term string) ([]Plant, error)
	Save(ctx context.Context, plant *Plant) (*Plant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
