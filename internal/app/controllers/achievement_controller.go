package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/app/services"
	"github.com/anirudhb/achievehub/internal/middleware"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
	"github.com/anirudhb/achievehub/internal/pkg/listing"
)

// AchievementController handles achievement submission, review and listing
type AchievementController struct {
	achievementService *services.AchievementService
	userRepo           userLoader
	logger             zerolog.Logger
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService *services.AchievementService, userRepo userLoader, logger zerolog.Logger) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
		userRepo:           userRepo,
		logger:             logger,
	}
}

// Submit handles a student achievement submission
// @Summary Submit an achievement
// @Description Creates a pending achievement for the authenticated student
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitAchievementRequest true "Achievement details"
// @Success 201 {object} dto.APIResponse{data=dto.AchievementResponse} "Achievement submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Role may not submit achievements"
// @Router /achievements [post]
func (c *AchievementController) Submit(ctx *gin.Context) {
	var req dto.SubmitAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	achievement, err := c.achievementService.Submit(ctx.Request.Context(), user, services.SubmitInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		OrganizationName: req.OrganizationName,
		EventDate:        req.EventDate,
		Tags:             req.Tags,
		Public:           req.IsPublic,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to submit achievement")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromAchievement(achievement)))
}

// AttachCertificate handles the certificate upload for an achievement
// @Summary Attach a certificate
// @Description Uploads a certificate file and attaches it to the caller's achievement
// @Tags achievements
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Param certificate formData file true "Certificate file"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementResponse} "Certificate attached"
// @Failure 400 {object} dto.ErrorResponse "No file supplied"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /achievements/{id}/certificate [post]
func (c *AchievementController) AttachCertificate(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("certificate")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoCertificate)
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	achievement, err := c.achievementService.AttachCertificate(ctx.Request.Context(), user, id, fileHeader)
	if err != nil {
		c.logger.Error().Err(err).Int64("achievementId", id).Msg("Failed to attach certificate")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromAchievement(achievement)))
}

// DirectAdd handles a faculty member entering an achievement for a student
// @Summary Add an achievement on a student's behalf
// @Description Creates an already-approved achievement for a student in the faculty member's department
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DirectAddRequest true "Achievement details with target student"
// @Success 201 {object} dto.APIResponse{data=dto.AchievementResponse} "Achievement added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Student is from a different department"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /achievements/direct [post]
func (c *AchievementController) DirectAdd(ctx *gin.Context) {
	var req dto.DirectAddRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	achievement, err := c.achievementService.DirectAdd(ctx.Request.Context(), user, services.DirectAddInput{
		StudentID: req.StudentID,
		SubmitInput: services.SubmitInput{
			Title:            req.Title,
			Description:      req.Description,
			Category:         req.Category,
			OrganizationName: req.OrganizationName,
			EventDate:        req.EventDate,
			Tags:             req.Tags,
		},
	})
	if err != nil {
		c.logger.Error().Err(err).Int64("studentId", req.StudentID).Msg("Failed to add achievement directly")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromAchievement(achievement)))
}

// Review decides a pending achievement
// @Summary Review an achievement
// @Description Approves or rejects an achievement from the reviewer's department
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Param request body dto.ReviewRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementResponse} "Achievement reviewed"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 403 {object} dto.ErrorResponse "Reviewer department does not match"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /achievements/{id}/review [post]
func (c *AchievementController) Review(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	achievement, err := c.achievementService.Review(ctx.Request.Context(), user, id, models.AchievementStatus(req.Decision), req.Remarks)
	if err != nil {
		c.logger.Error().Err(err).Int64("achievementId", id).Msg("Failed to review achievement")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromAchievement(achievement)))
}

// GetByID returns one achievement
// @Summary Get an achievement
// @Description Returns one achievement; students only see their own records
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementResponse} "Achievement"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /achievements/{id} [get]
func (c *AchievementController) GetByID(ctx *gin.Context) {
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

	achievement, err := c.achievementService.GetByID(ctx.Request.Context(), user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromAchievement(achievement)))
}

// ListOwn returns the caller's achievements
// @Summary List own achievements
// @Description Returns the caller's achievements, newest first, optionally filtered
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected, all)"
// @Param category query string false "Filter by category"
// @Param search query string false "Case-insensitive search term"
// @Param sort query string false "Sort order (newest, oldest)"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementListResponse} "Achievements"
// @Router /achievements/mine [get]
func (c *AchievementController) ListOwn(ctx *gin.Context) {
	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	list, err := c.achievementService.ListOwn(ctx.Request.Context(), user, listOptions(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AchievementListResponse{
		Achievements: dto.FromAchievements(list),
		Total:        len(list),
	}))
}

// List returns achievements across students
// @Summary List achievements
// @Description Returns achievements for reviewer-facing views; non-admin reviewers are pinned to their own department
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected, all)"
// @Param department query string false "Filter by department (admin only)"
// @Param category query string false "Filter by category"
// @Param search query string false "Case-insensitive search term"
// @Param sort query string false "Sort order (newest, oldest)"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementListResponse} "Achievements"
// @Failure 403 {object} dto.ErrorResponse "Role may not view other students' achievements"
// @Router /achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	list, err := c.achievementService.List(ctx.Request.Context(), user, listOptions(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AchievementListResponse{
		Achievements: dto.FromAchievements(list),
		Total:        len(list),
	}))
}

// ListPending returns the reviewer's pending queue
// @Summary List pending achievements
// @Description Returns pending achievements awaiting review in the reviewer's department
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AchievementListResponse} "Pending achievements"
// @Failure 403 {object} dto.ErrorResponse "Role may not review"
// @Router /achievements/pending [get]
func (c *AchievementController) ListPending(ctx *gin.Context) {
	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	list, err := c.achievementService.ListPending(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AchievementListResponse{
		Achievements: dto.FromAchievements(list),
		Total:        len(list),
	}))
}

// Showcase returns approved achievements grouped by department
// @Summary Showcase approved achievements
// @Description Returns approved achievements bucketed by department
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GroupedAchievementsResponse} "Grouped achievements"
// @Router /achievements/showcase [get]
func (c *AchievementController) Showcase(ctx *gin.Context) {
	groups, err := c.achievementService.GroupedByDepartment(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make(map[string][]dto.AchievementResponse, len(groups))
	for dept, list := range groups {
		out[dept] = dto.FromAchievements(list)
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.GroupedAchievementsResponse{Groups: out}))
}

// Delete removes an achievement
// @Summary Delete an achievement
// @Description Removes an achievement and its certificate; admins may delete anything, owners only their own pending records
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Success 200 {object} dto.APIResponse "Achievement deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /achievements/{id} [delete]
func (c *AchievementController) Delete(ctx *gin.Context) {
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

	if err := c.achievementService.Delete(ctx.Request.Context(), user, id); err != nil {
		c.logger.Error().Err(err).Int64("achievementId", id).Msg("Failed to delete achievement")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Achievement deleted"))
}

func listOptions(ctx *gin.Context) services.ListOptions {
	return services.ListOptions{
		Status:     ctx.Query("status"),
		Department: ctx.Query("department"),
		Category:   ctx.Query("category"),
		Search:     ctx.Query("search"),
		Sort:       listing.SortOrder(ctx.Query("sort")),
	}
}
