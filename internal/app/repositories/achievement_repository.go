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

// AchievementFilter narrows the achievement list query. Nil fields are
// ignored. Anything finer grained (search, grouping) happens in the listing
// package after the fetch.
type AchievementFilter struct {
	Status     *models.AchievementStatus
	StudentID  *int64
	Department *string
	Category   *string
	IsPublic   *bool
}

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const achievementColumns = "id, student_id, student_email, student_name, title, description, category, " +
	"organization_name, event_date, tags, certificate_url, certificate_file_name, certificate_size, " +
	"status, remarks, verified_by, verified_by_name, verification_date, department, student_department, " +
	"is_public, submitted_at, updated_at"

func scanAchievement(row pgx.Row) (*models.Achievement, error) {
	var a models.Achievement
	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&a.StudentEmail,
		&a.StudentName,
		&a.Title,
		&a.Description,
		&a.Category,
		&a.OrganizationName,
		&a.EventDate,
		&a.Tags,
		&a.CertificateURL,
		&a.CertificateFileName,
		&a.CertificateSize,
		&a.Status,
		&a.Remarks,
		&a.VerifiedBy,
		&a.VerifiedByName,
		&a.VerificationDate,
		&a.Department,
		&a.StudentDepartment,
		&a.IsPublic,
		&a.SubmittedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new achievement and returns its generated ID
func (r *AchievementRepository) Create(ctx context.Context, a *models.Achievement) (int64, error) {
	return r.CreateTx(ctx, r.db, a)
}

// CreateTx inserts on the given Querier so faculty direct-add can pair the
// insert with its notification in one transaction.
func (r *AchievementRepository) CreateTx(ctx context.Context, q Querier, a *models.Achievement) (int64, error) {
	now := time.Now()
	query := r.sb.Insert("achievements").
		Columns("student_id", "student_email", "student_name", "title", "description", "category",
			"organization_name", "event_date", "tags", "certificate_url", "certificate_file_name",
			"certificate_size", "status", "remarks", "verified_by", "verified_by_name",
			"verification_date", "department", "student_department", "is_public", "submitted_at", "updated_at").
		Values(a.StudentID, a.StudentEmail, a.StudentName, a.Title, a.Description, a.Category,
			a.OrganizationName, a.EventDate, a.Tags, a.CertificateURL, a.CertificateFileName, a.CertificateSize,
			a.Status, a.Remarks, a.VerifiedBy, a.VerifiedByName, a.VerificationDate,
			a.Department, a.StudentDepartment, a.IsPublic, now, now).
		Suffix("RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	a.ID = id
	a.SubmittedAt = now
	a.UpdatedAt = now
	return id, nil
}

// GetByID retrieves an achievement by ID, returning nil when it is absent
func (r *AchievementRepository) GetByID(ctx context.Context, id int64) (*models.Achievement, error) {
	query := r.sb.Select(achievementColumns).
		From("achievements").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	a, err := scanAchievement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return a, nil
}

// GetAll retrieves achievements newest first, optionally narrowed by filter
func (r *AchievementRepository) GetAll(ctx context.Context, filter AchievementFilter) ([]models.Achievement, error) {
	query := r.sb.Select(achievementColumns).
		From("achievements").
		OrderBy("submitted_at DESC, id DESC")

	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"student_id": *filter.StudentID})
	}
	if filter.Department != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"student_department": *filter.Department},
			squirrel.And{
				squirrel.Eq{"student_department": ""},
				squirrel.Eq{"department": *filter.Department},
			},
		})
	}
	if filter.Category != nil {
		query = query.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.IsPublic != nil {
		query = query.Where(squirrel.Eq{"is_public": *filter.IsPublic})
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

	var achievements []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		achievements = append(achievements, *a)
	}

	return achievements, rows.Err()
}

// UpdateCertificate patches the certificate fields after the blob upload
// completed. The record exists without an attachment until this runs.
func (r *AchievementRepository) UpdateCertificate(ctx context.Context, id int64, fileURL, fileName string, fileSize int64) error {
	query := r.sb.Update("achievements").
		Set("certificate_url", fileURL).
		Set("certificate_file_name", fileName).
		Set("certificate_size", fileSize).
		Set("updated_at", time.Now()).
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

// UpdateReviewTx stamps a review decision onto an achievement. Runs on the
// given Querier so callers can pair it with the notification insert in one
// transaction. A repeated call overwrites the previous review fields.
func (r *AchievementRepository) UpdateReviewTx(ctx context.Context, q Querier, id int64, status models.AchievementStatus, remarks string, verifiedBy int64, verifiedByName string, when time.Time) error {
	query := r.sb.Update("achievements").
		Set("status", status).
		Set("remarks", remarks).
		Set("verified_by", verifiedBy).
		Set("verified_by_name", verifiedByName).
		Set("verification_date", when).
		Set("updated_at", when).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// CountByStatus returns achievement totals per lifecycle state
func (r *AchievementRepository) CountByStatus(ctx context.Context) (map[models.AchievementStatus]int64, error) {
	query := r.sb.Select("status", "COUNT(*)").
		From("achievements").
		GroupBy("status")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AchievementStatus]int64)
	for rows.Next() {
		var status models.AchievementStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// Delete removes an achievement row
func (r *AchievementRepository) Delete(ctx context.Context, id int64) error {
	query := r.sb.Delete("achievements").
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
