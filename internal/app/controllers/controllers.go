// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

// userLoader resolves the authenticated principal to a full profile. Claims
// only carry the ID, email, role and department; mutations that snapshot the
// user's name need the stored row.
type userLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// currentUserID reads the user ID placed in the context by the auth
// middleware.
func currentUserID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// currentUser loads the authenticated user's stored profile.
func currentUser(ctx *gin.Context, users userLoader) (*models.User, error) {
	id, ok := currentUserID(ctx)
	if !ok {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := users.GetByID(ctx.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// pathID parses a numeric :id path parameter.
func pathID(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrBadRequest
	}
	return id, nil
}
