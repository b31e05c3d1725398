package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type defaultCategory struct {
	name        string
	slug        string
	description string
	order       int
}

var defaultCategories = []defaultCategory{
	{"Hackathon", "hackathon", "Hackathon wins and placements", 1},
	{"Competition", "competition", "Academic and technical competitions", 2},
	{"Certification", "certification", "Completed courses and certifications", 3},
	{"Publication", "publication", "Papers, articles and posters", 4},
	{"Sports", "sports", "Sports achievements and tournaments", 5},
	{"Cultural", "cultural", "Cultural events and performances", 6},
}

// CreateDefaultData inserts the default category vocabulary when the table is
// empty. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	if count > 0 {
		lgr.Debug().Int64("count", count).Msg("Categories already present, skipping seed")
		return nil
	}

	for _, c := range defaultCategories {
		_, err := db.Exec(ctx,
			`INSERT INTO categories (name, slug, description, display_order, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)
			 ON CONFLICT (slug) DO NOTHING`,
			c.name, c.slug, c.description, c.order)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.name, err)
		}
	}

	lgr.Info().Int("count", len(defaultCategories)).Msg("Seeded default categories")
	return nil
}
