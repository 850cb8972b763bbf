package services

import (
	"context"
	"time"

	"artnuggets/internal/auth"
	"artnuggets/internal/blocklist"
	"artnuggets/internal/email"
	"artnuggets/internal/logger"
	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenPairResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken, accessJTI string, accessExp time.Time) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	blocklist        blocklist.Blocklist
	emailProvider    email.Provider
	accessTTLSec     int
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	bl blocklist.Blocklist,
	emailProvider email.Provider,
	accessTTLMin int,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		blocklist:        bl,
		emailProvider:    emailProvider,
		accessTTLSec:     accessTTLMin * 60,
	}
}

// Register - регистрация нового пользователя. Сразу выдает пару токенов,
// чтобы клиент не делал отдельный login.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenPairResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Role:         models.UserRoleRegular,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	// Письмо не блокирует регистрацию
	go func() {
		if err := s.emailProvider.SendWelcome(user.Email, user.FullName); err != nil {
			logger.Warn("failed to send welcome email", "email", user.Email, "error", err)
		}
	}()

	return s.issueTokenPair(user)
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return s.issueTokenPair(user)
}

// Refresh обменивает refresh-токен на новую пару. Старый токен отзывается
// (ротация): повторное использование украденного токена невозможно.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	hash := auth.HashRefreshToken(refreshToken)

	stored, err := s.refreshTokenRepo.FindByHash(hash)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if !stored.IsValid(time.Now()) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.refreshTokenRepo.Revoke(stored.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokenPair(user)
}

// Logout отзывает refresh-токен и блокирует jti текущего access-токена
// до его естественного истечения.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken, accessJTI string, accessExp time.Time) error {
	if refreshToken != "" {
		hash := auth.HashRefreshToken(refreshToken)
		if stored, err := s.refreshTokenRepo.FindByHash(hash); err == nil {
			if err := s.refreshTokenRepo.Revoke(stored.ID); err != nil {
				logger.Warn("failed to revoke refresh token", "error", err)
			}
		}
	}

	if accessJTI != "" {
		ttl := time.Until(accessExp)
		if err := s.blocklist.Block(ctx, accessJTI, ttl); err != nil {
			logger.Warn("failed to block access token", "jti", accessJTI, "error", err)
		}
	}

	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Все остальные сессии становятся невалидными
	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		logger.Warn("failed to revoke user sessions", "user_id", userID, "error", err)
	}

	return nil
}

func (s *AuthServiceImpl) issueTokenPair(user *models.User) (*dto.TokenPairResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rawRefresh, expiresAt, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashRefreshToken(rawRefresh),
		ExpiresAt: expiresAt,
	}
	if err := s.refreshTokenRepo.Create(record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTLSec,
		User:         buildUserResponse(user),
	}, nil
}
