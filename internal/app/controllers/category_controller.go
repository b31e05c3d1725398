package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/app/services"
	"github.com/anirudhb/achievehub/internal/middleware"
)

// CategoryController handles the achievement category catalog
type CategoryController struct {
	categoryService *services.CategoryService
	userRepo        userLoader
	logger          zerolog.Logger
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService, userRepo userLoader, logger zerolog.Logger) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// GetAll lists categories
// @Summary List categories
// @Description Returns the category catalog in display order
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse} "Categories"
// @Router /categories [get]
func (c *CategoryController) GetAll(ctx *gin.Context) {
	categories, err := c.categoryService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCategories(categories)))
}

// Create adds a category
// @Summary Create a category
// @Description Adds a category to the catalog. Admin only.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse} "Category created"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 409 {object} dto.ErrorResponse "Category already exists"
// @Router /categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	category, err := c.categoryService.Create(ctx.Request.Context(), user, &req)
	if err != nil {
		c.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromCategory(category)))
}

// Update renames or redescribes a category
// @Summary Update a category
// @Description Updates a category's name and description. Admin only.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Category details"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryResponse} "Category updated"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	category, err := c.categoryService.Update(ctx.Request.Context(), user, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCategory(category)))
}

// Delete removes a category
// @Summary Delete a category
// @Description Removes a category from the catalog. Admin only. Existing achievements keep their category string.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse "Category deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.categoryService.Delete(ctx.Request.Context(), user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Category deleted"))
}
