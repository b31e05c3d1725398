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

// UserRepository handles user profile database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, email, password, name, role_type, department, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.Name,
		&u.RoleType,
		&u.Department,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user profile and returns the generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now()
	query := r.sb.Insert("users").
		Columns("email", "password", "name", "role_type", "department", "is_active", "created_at", "updated_at").
		Values(user.Email, user.Password, user.Name, user.RoleType, user.Department, true, now, now).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	user.ID = id
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

// GetByID retrieves a user by ID, returning nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by email, returning nil when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"email": email})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return u, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// GetByRole lists users with the given role, optionally narrowed to one
// department, ordered by name
func (r *UserRepository) GetByRole(ctx context.Context, role models.RoleType, department string) ([]models.User, error) {
	query := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"role_type": role}).
		OrderBy("name ASC")

	if department != "" {
		query = query.Where(squirrel.Eq{"department": department})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// CountByRole returns how many users hold the given role
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE role_type = $1", role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}
