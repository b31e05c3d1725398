package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/repositories"
	"github.com/anirudhb/achievehub/internal/db"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
	"github.com/anirudhb/achievehub/internal/pkg/filestorage"
	"github.com/anirudhb/achievehub/internal/pkg/listing"
)

// Review remarks stamped when the reviewer leaves none, and when a faculty
// member enters an achievement directly.
const (
	defaultRejectRemarks = "Rejected by faculty"
	directAddRemarks     = "Achievement uploaded and approved by faculty"
)

const eventDateLayout = "2006-01-02"

// achievementStore is the slice of AchievementRepository the service consumes.
type achievementStore interface {
	Create(ctx context.Context, a *models.Achievement) (int64, error)
	CreateTx(ctx context.Context, q repositories.Querier, a *models.Achievement) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Achievement, error)
	GetAll(ctx context.Context, filter repositories.AchievementFilter) ([]models.Achievement, error)
	UpdateCertificate(ctx context.Context, id int64, fileURL, fileName string, fileSize int64) error
	UpdateReviewTx(ctx context.Context, q repositories.Querier, id int64, status models.AchievementStatus, remarks string, verifiedBy int64, verifiedByName string, when time.Time) error
	Delete(ctx context.Context, id int64) error
}

// notificationStore is the slice of NotificationRepository the service
// consumes.
type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	CreateTx(ctx context.Context, q repositories.Querier, n *models.Notification) (int64, error)
}

// streamPublisher pushes a notification to a connected recipient. Pushes are
// best effort; disconnected recipients catch up by polling.
type streamPublisher interface {
	Publish(userID int64, n *models.Notification)
}

// ListOptions narrows and orders an achievement listing.
type ListOptions struct {
	Status     string
	Department string
	Category   string
	Search     string
	Sort       listing.SortOrder
}

// AchievementService handles the achievement submission and review lifecycle
type AchievementService struct {
	achievementRepo  achievementStore
	notificationRepo notificationStore
	userRepo         userStore
	txRunner         db.TxRunner
	authz            *auth.AuthorizationService
	storage          filestorage.FileStorage
	stream           streamPublisher
	logger           zerolog.Logger
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(
	achievementRepo achievementStore,
	notificationRepo notificationStore,
	userRepo userStore,
	txRunner db.TxRunner,
	authz *auth.AuthorizationService,
	storage filestorage.FileStorage,
	stream streamPublisher,
	logger zerolog.Logger,
) *AchievementService {
	return &AchievementService{
		achievementRepo:  achievementRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		txRunner:         txRunner,
		authz:            authz,
		storage:          storage,
		stream:           stream,
		logger:           logger,
	}
}

// SubmitInput carries the student-entered fields of a submission. Public is
// the showcase opt-out: nil or true lists the record on the public showcase
// once approved.
type SubmitInput struct {
	Title            string
	Description      string
	Category         string
	OrganizationName string
	EventDate        string
	Tags             []string
	Public           *bool
}

// Submit creates a pending achievement for the authenticated student. The
// student's department is snapshotted onto the record so the review routing
// survives later profile changes.
func (s *AchievementService) Submit(ctx context.Context, student *models.User, in SubmitInput) (*models.Achievement, error) {
	if err := s.authz.Require(student.RoleType, auth.CapSubmitAchievement); err != nil {
		return nil, err
	}

	eventDate, err := time.Parse(eventDateLayout, in.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: event date must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}

	achievement := &models.Achievement{
		StudentID:         student.ID,
		StudentEmail:      student.Email,
		StudentName:       student.Name,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		OrganizationName:  in.OrganizationName,
		EventDate:         eventDate,
		Tags:              in.Tags,
		Status:            models.StatusPending,
		Department:        student.Department,
		StudentDepartment: student.Department,
		IsPublic:          in.Public == nil || *in.Public,
	}

	if _, err := s.achievementRepo.Create(ctx, achievement); err != nil {
		return nil, err
	}

	// Best effort: a lost submission receipt is harmless, the record itself
	// is already durable.
	s.notify(ctx, &models.Notification{
		UserID:               student.ID,
		Type:                 models.NotificationSubmission,
		Message:              "Your achievement has been submitted for verification",
		RelatedAchievementID: achievement.ID,
		Priority:             models.PriorityNormal,
	})

	s.logger.Info().Int64("achievementId", achievement.ID).Int64("studentId", student.ID).Msg("Achievement submitted")

	return achievement, nil
}

// AttachCertificate stores the uploaded certificate and patches the record.
// If the database patch fails the stored blob is removed again so storage
// does not accumulate orphans.
func (s *AchievementService) AttachCertificate(ctx context.Context, user *models.User, achievementID int64, fileHeader *multipart.FileHeader) (*models.Achievement, error) {
	if fileHeader == nil {
		return nil, apperrors.ErrNoCertificate
	}

	achievement, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, apperrors.ErrAchievementNotFound
	}
	if achievement.StudentID != user.ID {
		return nil, apperrors.ErrPermissionDenied
	}

	stored, err := s.storage.SaveFile(fileHeader, "certificates")
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate: %w", err)
	}

	if err := s.achievementRepo.UpdateCertificate(ctx, achievementID, stored.URL, stored.Filename, stored.Size); err != nil {
		if delErr := s.storage.DeleteFile(stored.URL); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", stored.URL).Msg("Failed to remove orphaned certificate")
		}
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrAchievementNotFound
		}
		return nil, err
	}

	if old := achievement.CertificateURL; old != "" && old != stored.URL {
		if err := s.storage.DeleteFile(old); err != nil {
			s.logger.Warn().Err(err).Str("url", old).Msg("Failed to remove replaced certificate")
		}
	}

	achievement.CertificateURL = stored.URL
	achievement.CertificateFileName = stored.Filename
	achievement.CertificateSize = stored.Size
	return achievement, nil
}

// DirectAddInput carries a faculty direct entry.
type DirectAddInput struct {
	StudentID int64
	SubmitInput
}

// DirectAdd lets a faculty member enter an achievement on a student's behalf,
// already approved under the faculty member's name. The target must be a real
// student in the faculty member's own department; an arbitrary name typed
// into a form is not enough to create records against.
func (s *AchievementService) DirectAdd(ctx context.Context, faculty *models.User, in DirectAddInput) (*models.Achievement, error) {
	if err := s.authz.Require(faculty.RoleType, auth.CapDirectAdd); err != nil {
		return nil, err
	}

	eventDate, err := time.Parse(eventDateLayout, in.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: event date must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}

	student, err := s.userRepo.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrUserNotFound
	}
	if student.Department != faculty.Department {
		return nil, apperrors.ErrDepartmentMismatch
	}

	now := time.Now()
	achievement := &models.Achievement{
		StudentID:         student.ID,
		StudentEmail:      student.Email,
		StudentName:       student.Name,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		OrganizationName:  in.OrganizationName,
		EventDate:         eventDate,
		Tags:              in.Tags,
		Status:            models.StatusApproved,
		Remarks:           directAddRemarks,
		VerifiedBy:        faculty.ID,
		VerifiedByName:    faculty.Name,
		VerificationDate:  &now,
		Department:        faculty.Department,
		StudentDepartment: student.Department,
		IsPublic:          true,
	}

	notification := &models.Notification{
		UserID:   student.ID,
		Type:     models.NotificationApproval,
		Message:  fmt.Sprintf("Faculty %s has added a new achievement %q to your profile, already approved", faculty.Name, in.Title),
		Priority: models.PriorityHigh,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.achievementRepo.CreateTx(ctx, tx, achievement); err != nil {
			return err
		}
		notification.RelatedAchievementID = achievement.ID
		_, err := s.notificationRepo.CreateTx(ctx, tx, notification)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(notification)

	s.logger.Info().
		Int64("achievementId", achievement.ID).
		Int64("studentId", student.ID).
		Int64("facultyId", faculty.ID).
		Msg("Achievement added directly by faculty")

	return achievement, nil
}

// Review decides a pending achievement. The department-match rule is enforced
// here against the stored record, so no client-side check is load bearing.
// The status change and the student's notification commit in one transaction;
// a failed decision leaves the record untouched and sends nothing.
func (s *AchievementService) Review(ctx context.Context, reviewer *models.User, achievementID int64, decision models.AchievementStatus, remarks string) (*models.Achievement, error) {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, apperrors.ErrUnknownStatus
	}

	achievement, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, apperrors.ErrAchievementNotFound
	}

	if err := s.authz.CanReview(reviewer, achievement); err != nil {
		return nil, err
	}

	if decision == models.StatusRejected && remarks == "" {
		remarks = defaultRejectRemarks
	}

	notification := &models.Notification{
		UserID:               achievement.StudentID,
		RelatedAchievementID: achievement.ID,
		Priority:             models.PriorityHigh,
	}
	if decision == models.StatusApproved {
		notification.Type = models.NotificationApproval
		notification.Message = fmt.Sprintf("Your achievement %q has been approved by %s (%s)", achievement.Title, reviewer.Name, reviewer.Department)
	} else {
		notification.Type = models.NotificationRejection
		notification.Message = fmt.Sprintf("Your achievement %q has been rejected by %s (%s). Remarks: %s", achievement.Title, reviewer.Name, reviewer.Department, remarks)
	}

	now := time.Now()
	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.achievementRepo.UpdateReviewTx(ctx, tx, achievementID, decision, remarks, reviewer.ID, reviewer.Name, now); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.ErrAchievementNotFound
			}
			return err
		}
		_, err := s.notificationRepo.CreateTx(ctx, tx, notification)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(notification)

	achievement.Status = decision
	achievement.Remarks = remarks
	achievement.VerifiedBy = reviewer.ID
	achievement.VerifiedByName = reviewer.Name
	achievement.VerificationDate = &now
	achievement.UpdatedAt = now

	s.logger.Info().
		Int64("achievementId", achievementID).
		Int64("reviewerId", reviewer.ID).
		Str("decision", string(decision)).
		Msg("Achievement reviewed")

	return achievement, nil
}

// GetByID loads one achievement, with visibility scoped by role: students see
// only their own records.
func (s *AchievementService) GetByID(ctx context.Context, user *models.User, id int64) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, apperrors.ErrAchievementNotFound
	}

	if !s.authz.Can(user.RoleType, auth.CapViewAllAchievements) && achievement.StudentID != user.ID {
		return nil, apperrors.ErrPermissionDenied
	}

	return achievement, nil
}

// ListOwn returns the caller's own achievements, newest first.
func (s *AchievementService) ListOwn(ctx context.Context, user *models.User, opts ListOptions) ([]models.Achievement, error) {
	list, err := s.achievementRepo.GetAll(ctx, repositories.AchievementFilter{StudentID: &user.ID})
	if err != nil {
		return nil, err
	}
	return s.shape(list, opts), nil
}

// List returns achievements across students for reviewer-facing views.
// Faculty and verification team are pinned to their own department; admins
// see everything.
func (s *AchievementService) List(ctx context.Context, user *models.User, opts ListOptions) ([]models.Achievement, error) {
	if err := s.authz.Require(user.RoleType, auth.CapViewAllAchievements); err != nil {
		return nil, err
	}

	filter := repositories.AchievementFilter{}
	if user.RoleType != models.RoleAdmin {
		filter.Department = &user.Department
	} else if opts.Department != "" {
		filter.Department = &opts.Department
	}

	list, err := s.achievementRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.shape(list, opts), nil
}

// ListPending returns the pending queue for the reviewer's department.
func (s *AchievementService) ListPending(ctx context.Context, reviewer *models.User) ([]models.Achievement, error) {
	if err := s.authz.Require(reviewer.RoleType, auth.CapReviewAchievement); err != nil {
		return nil, err
	}

	pending := models.StatusPending
	filter := repositories.AchievementFilter{
		Status:     &pending,
		Department: &reviewer.Department,
	}
	return s.achievementRepo.GetAll(ctx, filter)
}

// GroupedByDepartment buckets approved achievements by department for the
// public showcase view. Records whose student opted out of the showcase are
// excluded.
func (s *AchievementService) GroupedByDepartment(ctx context.Context) (map[string][]models.Achievement, error) {
	approved := models.StatusApproved
	public := true
	list, err := s.achievementRepo.GetAll(ctx, repositories.AchievementFilter{Status: &approved, IsPublic: &public})
	if err != nil {
		return nil, err
	}
	return listing.GroupByDepartment(list), nil
}

// Delete removes an achievement and its certificate blob. Admins may delete
// anything; owners only their own still-pending records.
func (s *AchievementService) Delete(ctx context.Context, user *models.User, id int64) error {
	achievement, err := s.achievementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if achievement == nil {
		return apperrors.ErrAchievementNotFound
	}

	if err := s.authz.CanDelete(user, achievement); err != nil {
		return err
	}

	if err := s.achievementRepo.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrAchievementNotFound
		}
		return err
	}

	if achievement.CertificateURL != "" {
		if err := s.storage.DeleteFile(achievement.CertificateURL); err != nil {
			s.logger.Warn().Err(err).Str("url", achievement.CertificateURL).Msg("Failed to remove certificate of deleted achievement")
		}
	}

	s.logger.Info().Int64("achievementId", id).Int64("userId", user.ID).Msg("Achievement deleted")
	return nil
}

// shape applies the in-memory filters after the fetch.
func (s *AchievementService) shape(list []models.Achievement, opts ListOptions) []models.Achievement {
	list = listing.FilterByStatus(list, opts.Status)
	list = listing.FilterByCategory(list, opts.Category)
	list = listing.Search(list, opts.Search)
	if opts.Sort != "" {
		list = listing.Sort(list, opts.Sort)
	}
	return list
}

func (s *AchievementService) notify(ctx context.Context, n *models.Notification) {
	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("userId", n.UserID).Msg("Failed to create notification")
		return
	}
	s.publish(n)
}

func (s *AchievementService) publish(n *models.Notification) {
	if s.stream != nil {
		s.stream.Publish(n.UserID, n)
	}
}
