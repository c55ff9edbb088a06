package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/email"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/sangkips/shopdesk-api/pkg/oauth"
	"github.com/sangkips/shopdesk-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

const resetTokenTTL = time.Hour

// GoogleAuthenticator exchanges an OAuth code for a verified profile.
type GoogleAuthenticator interface {
	Authenticate(ctx context.Context, code string) (*oauth.GoogleUserInfo, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	google            GoogleAuthenticator
	mailer            email.Sender
	log               *logrus.Logger
	now               Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	google GoogleAuthenticator,
	mailer email.Sender,
	log *logrus.Logger,
	now Clock,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		google:            google,
		mailer:            mailer,
		log:               log,
		now:               clockOrNow(now),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperror.NewAppError(apperror.ErrForbidden.Code, "Account is disabled")
	}

	return s.issueTokens(ctx, user)
}

// issueTokens stamps the login time and signs a new token pair.
func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*LoginOutput, error) {
	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.LogError(s.log, "AuthService", "issueTokens", "record last login", user.ID.String(), err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrInvalidToken
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

// GoogleLogin signs in a pre-registered user with a Google account. There
// is no self-registration: unknown emails are refused.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	info, err := s.google.Authenticate(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(info.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewAppError(apperror.ErrForbidden.Code, "This Google account is not registered")
	}
	if !user.Active {
		return nil, apperror.NewAppError(apperror.ErrForbidden.Code, "Account is disabled")
	}

	if user.ProviderID == nil {
		user.ProviderID = &info.ID
	}
	if user.Photo == nil && info.Picture != "" {
		user.Photo = &info.Picture
	}
	return s.issueTokens(ctx, user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. Users who only ever signed
// in with Google may set a first password without a current one.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   *string
	Photo  *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "name is required")
		}
		user.Name = name
	}
	if input.Photo != nil {
		user.Photo = trimmed(input.Photo)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword emails a reset link. It reports success whether or not
// the email belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		logger.LogError(s.log, "AuthService", "ForgotPassword", "look up user", emailAddr, err)
		return nil
	}
	if user == nil || !user.Active {
		return nil
	}

	if err := s.passwordResetRepo.DeleteByUser(ctx, user.ID); err != nil {
		logger.LogError(s.log, "AuthService", "ForgotPassword", "drop previous tokens", user.ID.String(), err)
	}

	token, err := utils.RandomToken(32)
	if err != nil {
		return err
	}
	reset := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, reset); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		logger.LogError(s.log, "AuthService", "ForgotPassword", "send reset email", user.ID.String(), err)
		return apperror.ErrServiceUnavailable
	}
	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPassword sets a new password using a valid reset token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	invalid := apperror.NewBadRequestError("Invalid or expired reset token")

	reset, err := s.passwordResetRepo.GetByTokenHash(ctx, hashResetToken(input.Token))
	if err != nil {
		return err
	}
	now := s.now()
	if reset == nil || !reset.Usable(now) {
		return invalid
	}

	user, err := s.userRepo.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	if user == nil || !user.Active {
		return invalid
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkUsed(ctx, reset.ID, now); err != nil {
		logger.LogError(s.log, "AuthService", "ResetPassword", "mark token used", reset.ID.String(), err)
	}
	if err := s.passwordResetRepo.DeleteByUser(ctx, user.ID); err != nil {
		logger.LogError(s.log, "AuthService", "ResetPassword", "drop remaining tokens", user.ID.String(), err)
	}
	return nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
