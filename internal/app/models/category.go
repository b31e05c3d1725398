package models

import "time"

// Category is an admin-managed vocabulary entry for achievements. Achievements
// reference a category by display name only; deleting a category does not
// touch existing achievements that carry its name.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	Icon         string    `json:"icon" db:"icon"`
	Color        string    `json:"color" db:"color"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
