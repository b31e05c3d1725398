package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/app/services"
	"github.com/anirudhb/achievehub/internal/middleware"
)

// NotificationController handles a user's notification inbox
type NotificationController struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the caller's notifications
// @Summary List notifications
// @Description Returns the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.NotificationResponse} "Notifications"
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	notifications, err := c.notificationService.List(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromNotifications(notifications)))
}

// UnreadCount returns how many notifications are unread
// @Summary Count unread notifications
// @Description Returns the caller's unread notification count, intended for badge polling
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Unread count"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	count, err := c.notificationService.UnreadCount(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: int(count)}))
}

// MarkRead flags a notification as read
// @Summary Mark a notification read
// @Description Flags one of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Notification marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notification marked read"))
}

// Delete removes a notification
// @Summary Delete a notification
// @Description Removes one of the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Notification deleted"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.notificationService.Delete(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notification deleted"))
}
