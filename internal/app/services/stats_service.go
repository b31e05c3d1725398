package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/models/dto"
)

// statsStore exposes the aggregate counters the dashboard needs.
type statsStore interface {
	CountByStatus(ctx context.Context) (map[models.AchievementStatus]int64, error)
}

// roleCounter counts users per role.
type roleCounter interface {
	CountByRole(ctx context.Context, role models.RoleType) (int64, error)
	GetByRole(ctx context.Context, role models.RoleType, department string) ([]models.User, error)
}

// StatsService aggregates counts for the admin dashboard
type StatsService struct {
	achievementRepo statsStore
	userRepo        roleCounter
	authz           *auth.AuthorizationService
	logger          zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(achievementRepo statsStore, userRepo roleCounter, authz *auth.AuthorizationService, logger zerolog.Logger) *StatsService {
	return &StatsService{
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		authz:           authz,
		logger:          logger,
	}
}

// Dashboard returns achievement totals per status plus user headcounts.
func (s *StatsService) Dashboard(ctx context.Context, user *models.User) (*dto.DashboardStatsResponse, error) {
	if err := s.authz.Require(user.RoleType, auth.CapViewStats); err != nil {
		return nil, err
	}

	counts, err := s.achievementRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	students, err := s.userRepo.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	faculty, err := s.userRepo.CountByRole(ctx, models.RoleFaculty)
	if err != nil {
		return nil, err
	}

	total := counts[models.StatusPending] + counts[models.StatusApproved] + counts[models.StatusRejected]

	return &dto.DashboardStatsResponse{
		TotalAchievements:    int(total),
		PendingAchievements:  int(counts[models.StatusPending]),
		ApprovedAchievements: int(counts[models.StatusApproved]),
		RejectedAchievements: int(counts[models.StatusRejected]),
		TotalStudents:        int(students),
		TotalFaculty:         int(faculty),
	}, nil
}

// ListStudents lists student profiles. Faculty see their own department;
// admins may pass any department or none.
func (s *StatsService) ListStudents(ctx context.Context, user *models.User, department string) ([]models.User, error) {
	if err := s.authz.Require(user.RoleType, auth.CapListStudents); err != nil {
		return nil, err
	}

	if user.RoleType != models.RoleAdmin {
		department = user.Department
	}

	return s.userRepo.GetByRole(ctx, models.RoleStudent, department)
}
