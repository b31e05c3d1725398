package dto

import (
	"time"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// CreateCategoryRequest creates a new achievement category
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Hackathon"`
	Slug         string `json:"slug" binding:"required,max=100" example:"hackathon"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty" example:"trophy"`
	Color        string `json:"color,omitempty" example:"#f59e0b"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

// UpdateCategoryRequest updates an existing category
type UpdateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromCategory(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Icon:         c.Icon,
		Color:        c.Color,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

func FromCategories(list []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, FromCategory(&list[i]))
	}
	return out
}
