package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/epoch"
	"hooked/internal/domain/species"
	"hooked/internal/domain/weather"
)

type speciesRepository struct {
	db *pgxpool.Pool
}

func NewSpeciesRepository(db *pgxpool.Pool) *speciesRepository {
	return &speciesRepository{db: db}
}

func (r *speciesRepository) Search(ctx context.Context, query string, limit, offset int) ([]species.Species, int, error) {
	const where = `WHERE $1 = '' OR english_name ILIKE '%' || $1 || '%' OR scientific_name ILIKE '%' || $1 || '%'`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM species `+where, query).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT english_name, scientific_name, taxo_code, a3_code, isscaap
		  FROM species `+where+`
		 ORDER BY id
		 LIMIT $2 OFFSET $3`, query, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []species.Species{}
	for rows.Next() {
		var s species.Species
		if err := rows.Scan(&s.EnglishName, &s.ScientificName, &s.TaxoCode, &s.A3Code, &s.ISSCAAP); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Seed inserts catalogue entries when the table is empty.
func (r *speciesRepository) Seed(ctx context.Context, list []species.Species) error {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM species`).Scan(&n); err != nil || n > 0 {
		return err
	}
	for _, s := range list {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO species (english_name, scientific_name, taxo_code, a3_code, isscaap)
			VALUES ($1, $2, $3, $4, $5)`,
			s.EnglishName, s.ScientificName, s.TaxoCode, s.A3Code, s.ISSCAAP); err != nil {
			return err
		}
	}
	return nil
}

type catchRepository struct {
	db *pgxpool.Pool
}

func NewCatchRepository(db *pgxpool.Pool) *catchRepository {
	return &catchRepository{db: db}
}

func (r *catchRepository) FindByUser(ctx context.Context, userID string, limit, offset int) ([]catch.Catch, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM catches WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.created_at, c.images, c.temperature_f, c.wind_speed, c.wind_direction,
		       s.english_name, s.scientific_name, s.taxo_code, s.a3_code, s.isscaap
		  FROM catches c
		  LEFT JOIN species s ON s.id = c.species_id
		 WHERE c.user_id = $1
		 ORDER BY c.created_at DESC, c.id
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []catch.Catch{}
	for rows.Next() {
		var (
			c                   catch.Catch
			created             time.Time
			tempF, wind         *float64
			windDir             *int
			name, sci, taxo, a3 *string
			isscaap             *int
		)
		if err := rows.Scan(&c.ID, &created, &c.Images, &tempF, &wind, &windDir,
			&name, &sci, &taxo, &a3, &isscaap); err != nil {
			return nil, 0, err
		}
		c.CreatedAt = epoch.New(created)
		if name != nil {
			c.Species = &species.Species{EnglishName: *name, ScientificName: deref(sci), TaxoCode: deref(taxo), A3Code: deref(a3)}
			if isscaap != nil {
				c.Species.ISSCAAP = *isscaap
			}
		}
		if tempF != nil {
			c.Weather = &weather.Weather{TemperatureF: *tempF}
			if wind != nil {
				c.Weather.WindSpeed = *wind
			}
			if windDir != nil {
				c.Weather.WindDirection = *windDir
			}
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
