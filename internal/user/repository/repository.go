package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"healthcare-org-admin/internal/database"
	orgmodel "healthcare-org-admin/internal/organization/model"
	"healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
)

type UserRepository struct {
	db *database.Database
}

func NewUserRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// isUniqueViolation inspects a storage error for a unique-constraint failure
// on the given column. The unique index is the correctness backstop against
// two concurrent writes with the same value; pre-check reads are advisory.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate key") && strings.Contains(errStr, column)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	if len(user.Roles) == 0 {
		user.Roles = model.RoleList{model.BaselineRole}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err, "email") {
			return appErrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.DB.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	err := r.db.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateUserFields applies a partial update. Returns (nil, nil) when the user
// does not exist; a missing target for an update is not an error here.
func (r *UserRepository) UpdateUserFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.User, error) {
	if len(fields) == 0 {
		user, err := r.GetUserByID(ctx, userID)
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil, nil
		}
		return user, err
	}

	fields["updated_at"] = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "email") {
			return nil, appErrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetUserByID(ctx, userID)
}

// DeleteUser hard-deletes and returns the removed record, or (nil, nil) when
// the user does not exist.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := r.GetUserByID(ctx, userID)
	if errors.Is(err, appErrors.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result := r.db.DB.WithContext(ctx).Delete(&model.User{}, "id = ?", userID)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

// OrganizationExists backs connect-semantics validation for organization links.
func (r *UserRepository) OrganizationExists(ctx context.Context, orgID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&orgmodel.Organization{}).
		Where("id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check organization: %w", err)
	}
	return count > 0, nil
}

// ListStaff returns users staffed to the organization whose role set overlaps
// the allowed roles.
func (r *UserRepository) ListStaff(ctx context.Context, orgID uuid.UUID, roles []model.Role, offset, limit int) ([]model.User, int64, error) {
	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	query := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("staff_organization_id = ? AND roles && ?::text[]", orgID, pq.StringArray(roleStrings))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	var staff []model.User
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&staff).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}

	return staff, total, nil
}

// FindStaff returns (nil, nil) when the user does not exist, belongs to a
// different organization, or holds none of the allowed roles. Callers cannot
// tell those cases apart; that is the tenant-isolation contract.
func (r *UserRepository) FindStaff(ctx context.Context, staffID, orgID uuid.UUID, roles []model.Role) (*model.User, error) {
	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	var staff model.User
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND staff_organization_id = ? AND roles && ?::text[]", staffID, orgID, pq.StringArray(roleStrings)).
		First(&staff).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return &staff, nil
}
