package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPairResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"` // Секунды до истечения access-токена
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	FullName            string          `json:"full_name"`
	Role                string          `json:"role"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	Industry            *IndustryBrief  `json:"industry,omitempty"`
	Niches              []NicheBrief    `json:"niches,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	LastLoginAt         *time.Time      `json:"last_login_at,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
