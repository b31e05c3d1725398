package models

import "time"

// User defines the user profile model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email      string    `json:"email" db:"email" example:"student@college.edu"`           // User's email address
	Password   string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Name       string    `json:"name" db:"name" example:"Ravi Kumar"`                      // User's display name
	RoleType   RoleType  `json:"roleType" db:"role_type" example:"student"`                // User's role
	Department string    `json:"department" db:"department" example:"CSE"`                 // Department chosen at registration, stable afterwards
	IsActive   bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the account is active
	CreatedAt  time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
