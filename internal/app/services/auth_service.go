package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/app/repositories"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
	"github.com/anirudhb/achievehub/internal/pkg/auth"
	"github.com/anirudhb/achievehub/internal/pkg/validation"
)

// userStore is the slice of UserRepository the auth service consumes.
type userStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// tokenStore is the slice of TokenRepository the auth service consumes.
type tokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*repositories.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo   userStore
	tokenRepo  tokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userStore, tokenRepo tokenStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateEmail validates an email address
func (s *AuthService) validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}

	if !validation.CompiledPatterns.Email.MatchString(strings.ToLower(email)) {
		return apperrors.ErrInvalidEmail
	}

	return nil
}

// validatePassword checks if a password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	if len(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", apperrors.ErrInvalidPassword, validation.PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain letters and digits", apperrors.ErrInvalidPassword)
	}

	return nil
}

// Register creates a new account and signs the user in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	role := models.RoleType(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}
	if !validation.IsKnownDepartment(req.Department) {
		return nil, fmt.Errorf("%w: unknown department %q", apperrors.ErrValidationFailed, req.Department)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      email,
		Password:   hashed,
		Name:       strings.TrimSpace(req.Name),
		RoleType:   role,
		Department: req.Department,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(role)).Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Int64("userId", user.ID).Msg("User logged in")

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token, revoking the old one
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored == nil {
		return nil, apperrors.ErrTokenNotFound
	}
	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored == nil {
		return apperrors.ErrTokenNotFound
	}

	return s.tokenRepo.Revoke(ctx, refreshToken)
}

// GetProfile loads a user profile. A freshly registered account can race its
// first profile read, so absent rows are retried briefly before giving up.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User

	operation := func() error {
		u, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if u == nil {
			return apperrors.ErrUserNotFound
		}
		user = u
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(300*time.Millisecond), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, user.ID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       string(user.RoleType),
			Department: user.Department,
			CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		},
		Token: dto.TokenResponse{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			ExpiresIn:        expiresIn,
			RefreshExpiresIn: refreshExpiresIn,
		},
	}, nil
}
