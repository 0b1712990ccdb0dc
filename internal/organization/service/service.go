package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/email"
	"healthcare-org-admin/internal/logger"
	"healthcare-org-admin/internal/organization/lifecycle"
	"healthcare-org-admin/internal/organization/model"
	usermodel "healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

// Repository is the storage surface the lifecycle service needs.
type Repository interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetPendingByID(ctx context.Context, orgID uuid.UUID) (*model.Organization, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.Organization, int64, error)
	ApproveWithAdmin(ctx context.Context, orgID, approverID uuid.UUID, admin *usermodel.User) (*model.Organization, error)
	Reject(ctx context.Context, orgID, approverID uuid.UUID, reason string) (*model.Organization, error)
}

type OrganizationService struct {
	repo   Repository
	mailer email.Sender
}

func NewService(repo Repository, mailer email.Sender) *OrganizationService {
	return &OrganizationService{
		repo:   repo,
		mailer: mailer,
	}
}

// Register creates a pending organization. No admin user exists until the
// registration is approved.
func (s *OrganizationService) Register(ctx context.Context, request *model.RegisterOrganizationRequest) (*model.OrganizationResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	org := &model.Organization{
		Name:                utils.SanitizeString(request.Name),
		Type:                model.OrganizationType(request.Type),
		LicenseNumber:       request.LicenseNumber,
		Address:             request.Address,
		ContactPersonName:   utils.SanitizeString(request.ContactPersonName),
		ContactPersonEmail:  utils.SanitizeEmail(request.ContactPersonEmail),
		ContactPersonMobile: request.ContactPersonMobile,
	}

	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}

	logger.Info("Organization registered",
		zap.String("organization_id", org.ID.String()),
		zap.String("type", string(org.Type)),
		zap.String("event", "organization_registered"),
	)

	return org.ToResponse(), nil
}

func (s *OrganizationService) ListPending(ctx context.Context, page, limit int) ([]*model.OrganizationResponse, int64, error) {
	offset := (page - 1) * limit
	orgs, total, err := s.repo.ListPending(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return model.ToResponseList(orgs), total, nil
}

// Approve activates a pending organization and provisions its admin user in
// one transaction. Returns (nil, "", nil) when the organization is missing or
// already processed. The generated temporary password is handed to the mailer
// and returned to the caller exactly once; it is never persisted or logged.
func (s *OrganizationService) Approve(ctx context.Context, orgID, approverID uuid.UUID) (*model.OrganizationResponse, string, error) {
	org, err := s.repo.GetPendingByID(ctx, orgID)
	if err != nil {
		return nil, "", err
	}
	if org == nil {
		logger.Warn("Approve attempted on missing or already processed organization",
			zap.String("organization_id", orgID.String()),
		)
		return nil, "", nil
	}

	if err := lifecycle.ValidateStatusTransition(org.Status, model.StatusActive); err != nil {
		return nil, "", err
	}

	adminRole, err := org.Type.AdminRole()
	if err != nil {
		return nil, "", fmt.Errorf("organization %s has unusable type: %w", orgID, err)
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	passwordHash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	contactName := org.ContactPersonName
	admin := &usermodel.User{
		Email:          org.ContactPersonEmail,
		PasswordHash:   passwordHash,
		FullName:       &contactName,
		Roles:          usermodel.RoleList{adminRole, usermodel.BaselineRole},
		IsActive:       true,
		OrganizationID: &org.ID,
	}

	approved, err := s.repo.ApproveWithAdmin(ctx, orgID, approverID, admin)
	if err != nil {
		return nil, "", err
	}

	if mailErr := s.mailer.SendTemporaryPasswordEmail(admin.Email, contactName, tempPassword); mailErr != nil {
		logger.Error("Failed to deliver admin credentials",
			zap.String("organization_id", orgID.String()),
			zap.Error(mailErr),
		)
	}

	logger.Info("Organization approved",
		zap.String("organization_id", orgID.String()),
		zap.String("admin_user_id", admin.ID.String()),
		zap.String("approved_by", approverID.String()),
		zap.String("event", "organization_approved"),
	)

	return approved.ToResponse(), tempPassword, nil
}

const defaultRejectionReason = "Rejected by system administrator."

// Reject declines a pending organization. Returns (nil, nil) when the
// organization is missing or already processed.
func (s *OrganizationService) Reject(ctx context.Context, orgID, approverID uuid.UUID, reason *string) (*model.OrganizationResponse, error) {
	org, err := s.repo.GetPendingByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		logger.Warn("Reject attempted on missing or already processed organization",
			zap.String("organization_id", orgID.String()),
		)
		return nil, nil
	}

	if err := lifecycle.ValidateStatusTransition(org.Status, model.StatusRejected); err != nil {
		return nil, err
	}

	rejectionReason := defaultRejectionReason
	if reason != nil && *reason != "" {
		rejectionReason = *reason
	}

	rejected, err := s.repo.Reject(ctx, orgID, approverID, rejectionReason)
	if err != nil {
		return nil, err
	}
	if rejected == nil {
		return nil, nil
	}

	logger.Info("Organization rejected",
		zap.String("organization_id", orgID.String()),
		zap.String("rejected_by", approverID.String()),
		zap.String("event", "organization_rejected"),
	)

	return rejected.ToResponse(), nil
}
