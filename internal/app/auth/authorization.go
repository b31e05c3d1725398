package auth

import (
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

// Capability names one action a role may perform. Authorization decisions go
// through the capability table below instead of role switches scattered
// across handlers.
type Capability string

const (
	CapSubmitAchievement   Capability = "achievement:submit"
	CapDirectAdd           Capability = "achievement:direct_add"
	CapReviewAchievement   Capability = "achievement:review"
	CapViewAllAchievements Capability = "achievement:view_all"
	CapDeleteAchievement   Capability = "achievement:delete"
	CapManageCategories    Capability = "category:manage"
	CapViewStats           Capability = "stats:view"
	CapListStudents        Capability = "user:list_students"
)

// capabilities is the role -> capability table.
var capabilities = map[models.RoleType]map[Capability]bool{
	models.RoleStudent: {
		CapSubmitAchievement: true,
	},
	models.RoleFaculty: {
		CapDirectAdd:           true,
		CapReviewAchievement:   true,
		CapViewAllAchievements: true,
		CapListStudents:        true,
	},
	models.RoleVerificationTeam: {
		CapReviewAchievement:   true,
		CapViewAllAchievements: true,
	},
	models.RoleAdmin: {
		CapViewAllAchievements: true,
		CapDeleteAchievement:   true,
		CapManageCategories:    true,
		CapViewStats:           true,
		CapListStudents:        true,
	},
}

// AuthorizationService evaluates role capabilities and the department-match
// rule. It is consulted by the services performing mutations, never by UI
// code alone.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// Can reports whether a role holds a capability.
func (s *AuthorizationService) Can(role models.RoleType, cap Capability) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// Require returns ErrPermissionDenied unless the role holds the capability.
func (s *AuthorizationService) Require(role models.RoleType, cap Capability) error {
	if !s.Can(role, cap) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// CanReview applies the department-match rule: a reviewer may only decide
// achievements whose review department equals their own. The rule lives here,
// next to the mutation, so no client can bypass it.
func (s *AuthorizationService) CanReview(reviewer *models.User, achievement *models.Achievement) error {
	if err := s.Require(reviewer.RoleType, CapReviewAchievement); err != nil {
		return err
	}
	if reviewer.Department != achievement.ReviewDepartment() {
		return apperrors.ErrDepartmentMismatch
	}
	return nil
}

// CanDelete allows admins, and owners while the record is still pending.
func (s *AuthorizationService) CanDelete(user *models.User, achievement *models.Achievement) error {
	if s.Can(user.RoleType, CapDeleteAchievement) {
		return nil
	}
	if user.ID == achievement.StudentID && achievement.Status == models.StatusPending {
		return nil
	}
	return apperrors.ErrPermissionDenied
}
