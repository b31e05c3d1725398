package dto

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email" example:"student@college.edu"`
	Password   string `json:"password" binding:"required,min=8" example:"s3cret-pass1"`
	Name       string `json:"name" binding:"required,min=2,max=100" example:"Ravi Kumar"`
	Role       string `json:"role" binding:"required,oneof=student faculty admin verification_team" example:"student"`
	Department string `json:"department" binding:"required,department" example:"CSE"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@college.edu"`
	Password string `json:"password" binding:"required" example:"s3cret-pass1"`
}

// RefreshTokenRequest is the payload for refreshing an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes the presented refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries a newly issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
}

// UserResponse is the public view of a user profile
type UserResponse struct {
	ID         int64  `json:"id" example:"1"`
	Email      string `json:"email" example:"student@college.edu"`
	Name       string `json:"name" example:"Ravi Kumar"`
	Role       string `json:"role" example:"student"`
	Department string `json:"department" example:"CSE"`
	CreatedAt  string `json:"createdAt" example:"2024-01-01T10:00:00Z"`
}

// AuthResponse bundles the profile and token pair returned by register/login
type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}
