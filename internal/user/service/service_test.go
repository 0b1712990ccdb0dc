package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"healthcare-org-admin/internal/config"
	"healthcare-org-admin/internal/email/mocks"
	"healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:        "access-secret",
			RefreshSecret:       "refresh-secret",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   7,
		},
		PasswordReset: config.PasswordResetConfig{
			TokenExpiryMinutes: 30,
			TokenLengthBytes:   32,
		},
	}
}

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	users  map[uuid.UUID]*model.User
	tokens map[uuid.UUID]*model.PasswordResetToken
	orgs   map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  map[uuid.UUID]*model.User{},
		tokens: map[uuid.UUID]*model.PasswordResetToken{},
		orgs:   map[uuid.UUID]bool{},
	}
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return appErrors.ErrUserAlreadyExists
		}
	}
	user.ID = uuid.New()
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, appErrors.ErrUserNotFound
}

func (f *fakeRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepo) ListUsers(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) UpdateUserFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	for column, value := range fields {
		switch column {
		case "email":
			user.Email = value.(string)
		case "is_active":
			user.IsActive = value.(bool)
		case "roles":
			user.Roles = value.(model.RoleList)
		case "full_name":
			if value == nil {
				user.FullName = nil
			} else {
				v := value.(string)
				user.FullName = &v
			}
		case "organization_id":
			if value == nil {
				user.OrganizationID = nil
			} else {
				v := value.(uuid.UUID)
				user.OrganizationID = &v
			}
		case "staff_organization_id":
			if value == nil {
				user.StaffOrganizationID = nil
			} else {
				v := value.(uuid.UUID)
				user.StaffOrganizationID = &v
			}
		}
	}
	return user, nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	delete(f.users, userID)
	return user, nil
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) OrganizationExists(ctx context.Context, orgID uuid.UUID) (bool, error) {
	return f.orgs[orgID], nil
}

func (f *fakeRepo) CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error {
	token.ID = uuid.New()
	f.tokens[token.ID] = token
	return nil
}

func (f *fakeRepo) GetResetTokenByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	for _, token := range f.tokens {
		if token.TokenHash == tokenHash {
			return token, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ExpireActiveResetTokens(ctx context.Context, userID uuid.UUID) error {
	for _, token := range f.tokens {
		if token.UserID == userID && token.UsedAt == nil {
			token.ExpiresAt = time.Now()
		}
	}
	return nil
}

func (f *fakeRepo) ConsumeResetTokenAndSetPassword(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error {
	token, ok := f.tokens[tokenID]
	if !ok || token.UsedAt != nil {
		return appErrors.ErrResetTokenUsed
	}
	now := time.Now()
	token.UsedAt = &now

	user, ok := f.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) DeleteResetToken(ctx context.Context, tokenID uuid.UUID) error {
	delete(f.tokens, tokenID)
	return nil
}

func (f *fakeRepo) DeleteExpiredResetTokens(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	for id, token := range f.tokens {
		if token.ExpiresAt.Before(cutoff) {
			delete(f.tokens, id)
		}
	}
	return nil
}

func newTestService(t *testing.T) (*UserService, *fakeRepo, *mocks.MockSender) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	mailer := mocks.NewMockSender(ctrl)
	return NewService(repo, testConfig(), mailer), repo, mailer
}

func seedUser(t *testing.T, repo *fakeRepo, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Roles:        model.RoleList{model.RolePatient},
		IsActive:     active,
	}
	repo.users[user.ID] = user
	return user
}

func TestRegisterGrantsPatientOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "New.Patient@Example.test",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := repo.GetUserByEmail(context.Background(), "new.patient@example.test")
	if err != nil {
		t.Fatalf("registered user not stored under normalized email: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != model.RolePatient {
		t.Fatalf("self-registration must grant PATIENT only, got %v", user.Roles)
	}
	if user.PasswordHash == "Secret123" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := utils.ValidateAccessToken(resp.AccessToken, "access-secret"); err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if _, err := utils.ValidateRefreshToken(resp.RefreshToken, "refresh-secret"); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "weak@example.test",
		Password: "alllowercase",
	})
	if err == nil {
		t.Fatal("expected weak password to be rejected")
	}
}

func TestLoginMasksAccountProbing(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "known@example.test", "Secret123", true)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "unknown@example.test", Password: "Secret123"})
	if !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "known@example.test", Password: "Wrong123"})
	if !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "inactive@example.test", "Secret123", false)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "inactive@example.test", Password: "Secret123"})
	if !errors.Is(err, appErrors.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestRefreshTokenRechecksUserState(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, "refresh-secret", 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	resp, err := svc.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	claims, err := utils.ValidateAccessToken(resp.AccessToken, "access-secret")
	if err != nil {
		t.Fatalf("minted access token invalid: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}

	user.IsActive = false
	if _, err := svc.RefreshToken(context.Background(), refreshToken); !errors.Is(err, appErrors.ErrUserInactive) {
		t.Fatalf("deactivated user: expected ErrUserInactive, got %v", err)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Roles.Strings(), nil, "access-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.RefreshToken(context.Background(), accessToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, repo, _ := newTestService(t)

	err := svc.ForgotPassword(context.Background(), &model.ForgotPasswordRequest{Email: "ghost@example.test"})
	if err != nil {
		t.Fatalf("ForgotPassword must not reveal unknown emails, got %v", err)
	}
	if len(repo.tokens) != 0 {
		t.Fatal("token issued for unknown email")
	}
}

func TestForgotPasswordIssuesHashedTokenAndSupersedesOld(t *testing.T) {
	svc, repo, mailer := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	old := &model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: utils.HashToken("old-token"),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.tokens[old.ID] = old

	var sentToken string
	mailer.EXPECT().
		SendPasswordResetEmail(user.Email, gomock.Any(), gomock.Any()).
		DoAndReturn(func(to, name, token string) error {
			sentToken = token
			return nil
		})

	if err := svc.ForgotPassword(context.Background(), &model.ForgotPasswordRequest{Email: user.Email}); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	if sentToken == "" {
		t.Fatal("no token delivered")
	}

	stored, err := repo.GetResetTokenByHash(context.Background(), utils.HashToken(sentToken))
	if err != nil || stored == nil {
		t.Fatal("token not stored under its hash")
	}
	if stored.TokenHash == sentToken {
		t.Fatal("plaintext token persisted")
	}
	if !old.ExpiresAt.Before(time.Now().Add(time.Second)) {
		t.Fatal("prior unused token was not superseded")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "OldSecret1", true)

	plaintext := "known-reset-token"
	token := &model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: utils.HashToken(plaintext),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.tokens[token.ID] = token

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{Token: plaintext, NewPassword: "NewSecret1"})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if !utils.CheckPassword(user.PasswordHash, "NewSecret1") {
		t.Fatal("password not rotated")
	}
	if token.UsedAt == nil {
		t.Fatal("token not consumed")
	}

	err = svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{Token: plaintext, NewPassword: "NewSecret2"})
	if !errors.Is(err, appErrors.ErrResetTokenUsed) {
		t.Fatalf("second use: expected ErrResetTokenUsed, got %v", err)
	}
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{Token: "never-issued", NewPassword: "NewSecret1"})
	if !errors.Is(err, appErrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestResetPasswordExpiredTokenDeleted(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "OldSecret1", true)

	plaintext := "expired-token"
	token := &model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: utils.HashToken(plaintext),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	repo.tokens[token.ID] = token

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{Token: plaintext, NewPassword: "NewSecret1"})
	if !errors.Is(err, appErrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, ok := repo.tokens[token.ID]; ok {
		t.Fatal("expired token not deleted")
	}
}

func TestUpdateUserOrganizationLinks(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	missing := uuid.New()
	_, err := svc.UpdateUser(context.Background(), user.ID, &model.UpdateUserRequest{
		OrganizationID: model.Optional[uuid.UUID]{Set: true, Value: &missing},
	})
	if !errors.Is(err, appErrors.ErrRelatedRecordNotFound) {
		t.Fatalf("missing org: expected ErrRelatedRecordNotFound, got %v", err)
	}

	orgID := uuid.New()
	repo.orgs[orgID] = true
	if _, err := svc.UpdateUser(context.Background(), user.ID, &model.UpdateUserRequest{
		StaffOrganizationID: model.Optional[uuid.UUID]{Set: true, Value: &orgID},
	}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.StaffOrganizationID == nil || *user.StaffOrganizationID != orgID {
		t.Fatal("staff organization link not set")
	}

	if _, err := svc.UpdateUser(context.Background(), user.ID, &model.UpdateUserRequest{
		StaffOrganizationID: model.Optional[uuid.UUID]{Set: true, Value: nil},
	}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.StaffOrganizationID != nil {
		t.Fatal("null did not detach the staff organization link")
	}
}

func TestUpdateUserTriStateFullName(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)
	name := "Original Name"
	user.FullName = &name

	// Absent field leaves the value untouched.
	if _, err := svc.UpdateUser(context.Background(), user.ID, &model.UpdateUserRequest{}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.FullName == nil || *user.FullName != "Original Name" {
		t.Fatal("absent field modified the column")
	}

	// Explicit null clears it.
	if _, err := svc.UpdateUser(context.Background(), user.ID, &model.UpdateUserRequest{
		FullName: model.Optional[string]{Set: true, Value: nil},
	}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.FullName != nil {
		t.Fatal("null did not clear the column")
	}
}

func TestUpdateRolesRejectsUnknownRole(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	if _, err := svc.UpdateRoles(context.Background(), user.ID, []string{"DOCTOR", "WIZARD"}); !errors.Is(err, appErrors.ErrInvalidUserRole) {
		t.Fatalf("expected ErrInvalidUserRole, got %v", err)
	}
	if user.Roles.Contains("WIZARD") {
		t.Fatal("unknown role persisted")
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "user@example.test", "Secret123", true)

	err := svc.ChangePassword(context.Background(), user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "Wrong123",
		NewPassword:     "NewSecret1",
	})
	if !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "NewSecret1",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if !utils.CheckPassword(user.PasswordHash, "NewSecret1") {
		t.Fatal("password not rotated")
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.DeleteUser(context.Background(), uuid.New()); !errors.Is(err, appErrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
