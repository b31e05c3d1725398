package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/app/services"
	"github.com/anirudhb/achievehub/internal/config"
	"github.com/anirudhb/achievehub/internal/middleware"
)

// StatsController handles dashboard statistics and client settings
type StatsController struct {
	statsService *services.StatsService
	userRepo     userLoader
	cfg          *config.Config
	logger       zerolog.Logger
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService *services.StatsService, userRepo userLoader, cfg *config.Config, logger zerolog.Logger) *StatsController {
	return &StatsController{
		statsService: statsService,
		userRepo:     userRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Dashboard returns aggregate counts
// @Summary Dashboard statistics
// @Description Returns achievement totals per status plus user headcounts. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse} "Statistics"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /stats/dashboard [get]
func (c *StatsController) Dashboard(ctx *gin.Context) {
	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	stats, err := c.statsService.Dashboard(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// ListStudents lists student profiles
// @Summary List students
// @Description Lists student profiles; faculty see their own department, admins may pass any department
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department filter (admin only)"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Students"
// @Failure 403 {object} dto.ErrorResponse "Role may not list students"
// @Router /users/students [get]
func (c *StatsController) ListStudents(ctx *gin.Context) {
	user, err := currentUser(ctx, c.userRepo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	students, err := c.statsService.ListStudents(ctx.Request.Context(), user, ctx.Query("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(students))
	for _, s := range students {
		out = append(out, dto.UserResponse{
			ID:         s.ID,
			Email:      s.Email,
			Name:       s.Name,
			Role:       string(s.RoleType),
			Department: s.Department,
		})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// ClientConfig exposes client-tunable settings
// @Summary Client settings
// @Description Returns polling intervals for clients that refresh by refetching
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse} "Settings"
// @Router /config [get]
func (c *StatsController) ClientConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ConfigResponse{
		AchievementsPollInterval:  c.cfg.Polling.AchievementsInterval,
		NotificationsPollInterval: c.cfg.Polling.NotificationsInterval,
	}))
}
