package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

// categoryStore is the slice of CategoryRepository the service consumes.
type categoryStore interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (int64, error)
	Update(ctx context.Context, id int64, name, description string) error
	Delete(ctx context.Context, id int64) error
}

// CategoryService handles the achievement category catalog
type CategoryService struct {
	categoryRepo categoryStore
	authz        *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo categoryStore, authz *auth.AuthorizationService, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		authz:        authz,
		logger:       logger,
	}
}

// GetAll lists categories in display order. Open to every authenticated
// role, submission forms need it.
func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// Create adds a category to the catalog. Admin only.
func (s *CategoryService) Create(ctx context.Context, user *models.User, req *dto.CreateCategoryRequest) (*models.Category, error) {
	if err := s.authz.Require(user.RoleType, auth.CapManageCategories); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:         strings.TrimSpace(req.Name),
		Slug:         strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:  req.Description,
		Icon:         req.Icon,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}

	if _, err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("categoryId", category.ID).Str("name", category.Name).Msg("Category created")
	return category, nil
}

// Update renames or redescribes a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, user *models.User, id int64, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	if err := s.authz.Require(user.RoleType, auth.CapManageCategories); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, id, strings.TrimSpace(req.Name), req.Description); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	return category, nil
}

// Delete removes a category from the catalog. Admin only. Existing
// achievements keep their category string; the catalog only drives the
// submission form.
func (s *CategoryService) Delete(ctx context.Context, user *models.User, id int64) error {
	if err := s.authz.Require(user.RoleType, auth.CapManageCategories); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrCategoryNotFound
		}
		return err
	}

	s.logger.Info().Int64("categoryId", id).Msg("Category deleted")
	return nil
}
