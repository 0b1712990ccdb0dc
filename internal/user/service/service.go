package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/config"
	"healthcare-org-admin/internal/email"
	"healthcare-org-admin/internal/logger"
	"healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

// Repository is the storage surface the user service needs.
type Repository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	UpdateUserFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	OrganizationExists(ctx context.Context, orgID uuid.UUID) (bool, error)

	CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	ExpireActiveResetTokens(ctx context.Context, userID uuid.UUID) error
	ConsumeResetTokenAndSetPassword(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error
	DeleteResetToken(ctx context.Context, tokenID uuid.UUID) error
	DeleteExpiredResetTokens(ctx context.Context, olderThan time.Duration) error
}

type UserService struct {
	repo   Repository
	config *config.Config
	mailer email.Sender
}

func NewService(repo Repository, cfg *config.Config, mailer email.Sender) *UserService {
	return &UserService{
		repo:   repo,
		config: cfg,
		mailer: mailer,
	}
}

// Register creates a self-service account. Self-registration only ever grants
// the patient role; elevated roles are assigned by administrators.
func (s *UserService) Register(ctx context.Context, request *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(request.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        utils.SanitizeEmail(request.Email),
		PasswordHash: hashedPassword,
		FullName:     request.FullName,
		Roles:        model.RoleList{model.BaselineRole},
		IsActive:     true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

// Login verifies credentials. Unknown emails and wrong passwords both surface
// as ErrInvalidCredentials so callers cannot probe for accounts.
func (s *UserService) Login(ctx context.Context, request *model.LoginRequest) (*model.AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.repo.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, request.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	return s.buildAuthResponse(user)
}

// RefreshToken mints a fresh access token from a valid refresh token. The
// user record is re-read so deactivation and role changes take effect at the
// next refresh rather than at refresh-token expiry.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshResponse, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken, s.config.JWT.RefreshSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	accessToken, err := utils.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Roles.Strings(),
		user.OrganizationID,
		s.config.JWT.AccessSecret,
		s.config.JWT.AccessExpiryMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &model.RefreshResponse{AccessToken: accessToken}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, request *model.ChangePasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(request.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, request.CurrentPassword) {
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, hashedPassword)
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]*model.UserResponse, int64, error) {
	offset := (page - 1) * limit
	users, total, err := s.repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return model.ToResponseList(users), total, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUser applies the administrative partial update. Tri-state fields
// distinguish absent from null: absent fields stay untouched, null clears the
// column. Organization links are validated before being attached.
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, request *model.UpdateUserRequest) (*model.UserResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	fields := map[string]interface{}{}

	if request.Email != nil {
		fields["email"] = utils.SanitizeEmail(*request.Email)
	}
	if request.Roles != nil {
		roles, err := model.ParseRoles(*request.Roles)
		if err != nil {
			return nil, err
		}
		fields["roles"] = roles
	}
	if request.IsActive != nil {
		fields["is_active"] = *request.IsActive
	}

	applyOptional(fields, "full_name", request.FullName)
	applyOptional(fields, "mobile_code", request.MobileCode)
	applyOptional(fields, "mobile", request.Mobile)
	applyOptional(fields, "phone_code", request.PhoneCode)
	applyOptional(fields, "phone", request.Phone)
	applyOptional(fields, "address", request.Address)
	applyOptional(fields, "pin_code", request.PinCode)
	applyOptional(fields, "employee_id", request.EmployeeID)
	applyOptional(fields, "department", request.Department)

	if err := s.applyOrganizationLink(ctx, fields, "organization_id", request.OrganizationID); err != nil {
		return nil, err
	}
	if err := s.applyOrganizationLink(ctx, fields, "staff_organization_id", request.StaffOrganizationID); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateUserFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrUserNotFound
	}

	return user.ToResponse(), nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrUserNotFound
	}

	logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_deleted"),
	)

	return user.ToResponse(), nil
}

func (s *UserService) UpdateStatus(ctx context.Context, userID uuid.UUID, isActive bool) (*model.UserResponse, error) {
	user, err := s.repo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"is_active": isActive,
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

// UpdateRoles replaces the user's role set.
func (s *UserService) UpdateRoles(ctx context.Context, userID uuid.UUID, rawRoles []string) (*model.UserResponse, error) {
	roles, err := model.ParseRoles(rawRoles)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"roles": roles,
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

// ForgotPassword issues a reset token. The outcome is identical for known and
// unknown emails so the endpoint cannot be used to enumerate accounts. Issuing
// a new token force-expires any prior unused ones.
func (s *UserService) ForgotPassword(ctx context.Context, request *model.ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.repo.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !user.IsActive {
		logger.Info("Password reset requested for inactive user",
			zap.String("user_id", user.ID.String()),
		)
		return nil
	}

	if err := s.repo.ExpireActiveResetTokens(ctx, user.ID); err != nil {
		return err
	}

	plaintext, err := utils.GenerateSecureToken(s.config.PasswordReset.TokenLengthBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetToken := &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(plaintext),
		ExpiresAt: time.Now().Add(time.Duration(s.config.PasswordReset.TokenExpiryMinutes) * time.Minute),
	}

	if err := s.repo.CreateResetToken(ctx, resetToken); err != nil {
		return err
	}

	name := user.Email
	if user.FullName != nil {
		name = *user.FullName
	}
	if mailErr := s.mailer.SendPasswordResetEmail(user.Email, name, plaintext); mailErr != nil {
		logger.Error("Failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(mailErr),
		)
	}

	return nil
}

// ResetPassword redeems a reset token. The token is single-use: consumption
// and the password rotation happen in one transaction.
func (s *UserService) ResetPassword(ctx context.Context, request *model.ResetPasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(request.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	token, err := s.repo.GetResetTokenByHash(ctx, utils.HashToken(request.Token))
	if err != nil {
		return err
	}
	if token == nil {
		return appErrors.ErrTokenInvalid
	}
	if token.UsedAt != nil {
		return appErrors.ErrResetTokenUsed
	}
	if token.IsExpired() {
		if delErr := s.repo.DeleteResetToken(ctx, token.ID); delErr != nil {
			logger.Warn("Failed to delete expired reset token", zap.Error(delErr))
		}
		return appErrors.ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return appErrors.ErrTokenInvalid
		}
		return err
	}
	if !user.IsActive {
		return appErrors.ErrUserInactive
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.ConsumeResetTokenAndSetPassword(ctx, token.ID, user.ID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset"),
	)

	return nil
}

func (s *UserService) buildAuthResponse(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := utils.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Roles.Strings(),
		user.OrganizationID,
		s.config.JWT.AccessSecret,
		s.config.JWT.AccessExpiryMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(
		user.ID,
		user.Email,
		s.config.JWT.RefreshSecret,
		s.config.JWT.RefreshExpiryDays,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func applyOptional[T any](fields map[string]interface{}, column string, value model.Optional[T]) {
	if !value.Set {
		return
	}
	if value.Value == nil {
		fields[column] = nil
		return
	}
	fields[column] = *value.Value
}

func (s *UserService) applyOrganizationLink(ctx context.Context, fields map[string]interface{}, column string, link model.Optional[uuid.UUID]) error {
	if !link.Set {
		return nil
	}
	if link.Value == nil {
		fields[column] = nil
		return nil
	}

	exists, err := s.repo.OrganizationExists(ctx, *link.Value)
	if err != nil {
		return err
	}
	if !exists {
		return appErrors.ErrRelatedRecordNotFound
	}

	fields[column] = *link.Value
	return nil
}
