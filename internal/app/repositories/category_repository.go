package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
	"github.com/anirudhb/achievehub/internal/pkg/dberrors"
)

// CategoryRepository handles category vocabulary database operations
type CategoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const categoryColumns = "id, name, slug, description, icon, color, display_order, is_active, created_at, updated_at"

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Icon,
		&c.Color,
		&c.DisplayOrder,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll lists categories by display order
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	query := r.sb.Select(categoryColumns).
		From("categories").
		OrderBy("display_order ASC, name ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		categories = append(categories, *c)
	}

	return categories, rows.Err()
}

// GetByID retrieves a category by ID, returning nil when absent
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := r.sb.Select(categoryColumns).
		From("categories").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return c, nil
}

// Create inserts a new category and returns its generated ID
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) (int64, error) {
	now := time.Now()
	query := r.sb.Insert("categories").
		Columns("name", "slug", "description", "icon", "color", "display_order", "is_active", "created_at", "updated_at").
		Values(c.Name, c.Slug, c.Description, c.Icon, c.Color, c.DisplayOrder, c.IsActive, now, now).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCategoryAlreadyExists
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return id, nil
}

// Update modifies a category's name and description
func (r *CategoryRepository) Update(ctx context.Context, id int64, name, description string) error {
	query := r.sb.Update("categories").
		Set("name", name).
		Set("description", description).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes a category. Achievements referencing its name are untouched.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := r.sb.Delete("categories").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
