package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/florafolio/florafolio/catalog"
)

const plantColumns = `id, popular_name, scientific_name, description, family, origin, care_instructions, image_url`

// PlantStore implements catalog.Store on top of the plants table.
type PlantStore struct {
	db *sql.DB
}

func NewPlantStore(db *sql.DB) *PlantStore {
	return &PlantStore{db: db}
}

func (s *PlantStore) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE id = $1`
	p, err := scanPlant(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlantStore) FindAll(ctx context.Context) ([]catalog.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants ORDER BY popular_name`
	return s.queryPlants(ctx, q)
}

func (s *PlantStore) SearchPopularName(ctx context.Context, name string) ([]catalog.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants
		WHERE popular_name ILIKE '%' || $1 || '%' ORDER BY popular_name`
	return s.queryPlants(ctx, q, name)
}

func (s *PlantStore) SearchScientificName(ctx context.Context, name string) ([]catalog.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants
		WHERE scientific_name ILIKE '%' || $1 || '%' ORDER BY popular_name`
	return s.queryPlants(ctx, q, name)
}

func (s *PlantStore) Search(ctx context.Context, term string) ([]catalog.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants
		WHERE popular_name ILIKE '%' || $1 || '%'
		   OR scientific_name ILIKE '%' || $1 || '%'
		ORDER BY popular_name`
	return s.queryPlants(ctx, q, term)
}

func (s *PlantStore) Save(ctx context.Context, plant *catalog.Plant) (*catalog.Plant, error) {
	const q = `
		INSERT INTO plants (` + plantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			popular_name = EXCLUDED.popular_name,
			scientific_name = EXCLUDED.scientific_name,
			description = EXCLUDED.description,
			family = EXCLUDED.family,
			origin = EXCLUDED.origin,
			care_instructions = EXCLUDED.care_instructions,
			image_url = EXCLUDED.image_url
		RETURNING ` + plantColumns
	return scanPlant(s.db.QueryRowContext(ctx, q,
		plant.ID, plant.PopularName, plant.ScientificName, plant.Description,
		plant.Family, plant.Origin, plant.CareInstructions, plant.ImageURL))
}

func (s *PlantStore) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM plants WHERE id = $1`
	result, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *PlantStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PlantStore) queryPlants(ctx context.Context, q string, args ...any) ([]catalog.Plant, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []catalog.Plant
	for rows.Next() {
		var p catalog.Plant
		if err := rows.Scan(&p.ID, &p.PopularName, &p.ScientificName, &p.Description,
			&p.Family, &p.Origin, &p.CareInstructions, &p.ImageURL); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func scanPlant(row *sql.Row) (*catalog.Plant, error) {
	p := &catalog.Plant{}
	if err := row.Scan(&p.ID, &p.PopularName, &p.ScientificName, &p.Description,
		&p.Family, &p.Origin, &p.CareInstructions, &p.ImageURL); err != nil {
		return nil, err
	}
	return p, nil
}
