package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthcare-org-admin/internal/database"
	"healthcare-org-admin/internal/organization/model"
	usermodel "healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
)

type OrganizationRepository struct {
	db *database.Database
}

func NewOrganizationRepository(db *database.Database) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate key") && strings.Contains(errStr, column)
}

func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org *model.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	org.ContactPersonEmail = strings.ToLower(org.ContactPersonEmail)
	org.Status = model.StatusPendingVerification
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(org).Error; err != nil {
		if isUniqueViolation(err, "contact_person_email") {
			return appErrors.ErrOrganizationExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, orgID uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.DB.WithContext(ctx).Preload("AdminUser").First(&org, "id = ?", orgID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// GetPendingByID returns (nil, nil) for organizations that are missing or no
// longer pending; callers cannot tell the two apart.
func (r *OrganizationRepository) GetPendingByID(ctx context.Context, orgID uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND status = ?", orgID, model.StatusPendingVerification).
		First(&org).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending organization: %w", err)
	}
	return &org, nil
}

// ListPending returns the review queue oldest-first.
func (r *OrganizationRepository) ListPending(ctx context.Context, offset, limit int) ([]model.Organization, int64, error) {
	query := r.db.DB.WithContext(ctx).Model(&model.Organization{}).
		Where("status = ?", model.StatusPendingVerification)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending organizations: %w", err)
	}

	var orgs []model.Organization
	err := query.
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&orgs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending organizations: %w", err)
	}

	return orgs, total, nil
}

// ApproveWithAdmin creates the organization's admin user and activates the
// organization in one transaction. No intermediate state is observable: a
// duplicate admin email rolls back the activation, and a concurrently
// processed organization rolls back the user.
func (r *OrganizationRepository) ApproveWithAdmin(ctx context.Context, orgID, approverID uuid.UUID, admin *usermodel.User) (*model.Organization, error) {
	var approved model.Organization

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if admin.ID == uuid.Nil {
			admin.ID = uuid.New()
		}
		admin.Email = strings.ToLower(admin.Email)
		admin.CreatedAt = time.Now()
		admin.UpdatedAt = time.Now()

		if err := tx.Create(admin).Error; err != nil {
			if isUniqueViolation(err, "email") {
				return appErrors.ErrAdminEmailTaken
			}
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		result := tx.Model(&model.Organization{}).
			Where("id = ? AND status = ?", orgID, model.StatusPendingVerification).
			Updates(map[string]interface{}{
				"status":      model.StatusActive,
				"approved_by": approverID,
				"approved_at": time.Now(),
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to activate organization: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrOrganizationNotFound
		}

		return tx.Preload("AdminUser").First(&approved, "id = ?", orgID).Error
	})
	if err != nil {
		return nil, err
	}

	return &approved, nil
}

// Reject transitions a pending organization to REJECTED, recording the actor
// and time in the same approved_by/approved_at columns the approval flow uses.
func (r *OrganizationRepository) Reject(ctx context.Context, orgID, approverID uuid.UUID, reason string) (*model.Organization, error) {
	result := r.db.DB.WithContext(ctx).Model(&model.Organization{}).
		Where("id = ? AND status = ?", orgID, model.StatusPendingVerification).
		Updates(map[string]interface{}{
			"status":           model.StatusRejected,
			"rejection_reason": reason,
			"approved_by":      approverID,
			"approved_at":      time.Now(),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to reject organization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var org model.Organization
	if err := r.db.DB.WithContext(ctx).First(&org, "id = ?", orgID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rejected organization: %w", err)
	}
	return &org, nil
}
