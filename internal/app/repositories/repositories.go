package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx execution methods shared by *pgxpool.Pool and
// pgx.Tx. Repository methods with a Tx suffix take one so callers can run
// them inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles all repository instances
type Repositories struct {
	UserRepository         *UserRepository
	AchievementRepository  *AchievementRepository
	CategoryRepository     *CategoryRepository
	NotificationRepository *NotificationRepository
	TokenRepository        *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		AchievementRepository:  NewAchievementRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		TokenRepository:        NewTokenRepository(db),
	}
}
