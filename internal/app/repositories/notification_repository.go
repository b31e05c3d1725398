package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const notificationColumns = "id, user_id, type, message, related_achievement_id, priority, is_read, created_at, read_at"

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Message,
		&n.RelatedAchievementID,
		&n.Priority,
		&n.IsRead,
		&n.CreatedAt,
		&n.ReadAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateTx inserts a notification on the given Querier so the insert can
// share a transaction with the mutation that triggered it.
func (r *NotificationRepository) CreateTx(ctx context.Context, q Querier, n *models.Notification) (int64, error) {
	now := time.Now()
	query := r.sb.Insert("notifications").
		Columns("user_id", "type", "message", "related_achievement_id", "priority", "is_read", "created_at").
		Values(n.UserID, n.Type, n.Message, n.RelatedAchievementID, n.Priority, false, now).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	n.ID = id
	n.CreatedAt = now
	return id, nil
}

// Create inserts a notification outside any transaction
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	return r.CreateTx(ctx, r.db, n)
}

// GetByUser lists a recipient's notifications, newest first
func (r *NotificationRepository) GetByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := r.sb.Select(notificationColumns).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC, id DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		notifications = append(notifications, *n)
	}

	return notifications, rows.Err()
}

// UnreadCount returns how many unread notifications a recipient has
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// MarkRead flags a notification read. Scoped to the recipient so one user
// cannot touch another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	query := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": userID})

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

// Delete removes a notification, scoped to the recipient
func (r *NotificationRepository) Delete(ctx context.Context, id, userID int64) error {
	query := r.sb.Delete("notifications").
		Where(squirrel.Eq{"id": id, "user_id": userID})

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
