package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/email"
	"healthcare-org-admin/internal/logger"
	staffmodel "healthcare-org-admin/internal/staff/model"
	usermodel "healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

// Scope restricts a staff service instance to one organization type. The
// allow-list decides which roles its admins may provision and see; everything
// outside it is invisible, not forbidden.
type Scope struct {
	Name         string
	AllowedRoles []usermodel.Role
}

var (
	HospitalScope = Scope{
		Name:         "hospital",
		AllowedRoles: []usermodel.Role{usermodel.RoleDoctor, usermodel.RoleNurse, usermodel.RoleStaff},
	}
	PharmacyScope = Scope{
		Name:         "pharmacy",
		AllowedRoles: []usermodel.Role{usermodel.RoleStaff},
	}
	LabScope = Scope{
		Name:         "lab",
		AllowedRoles: []usermodel.Role{usermodel.RoleStaff},
	}
)

func (s Scope) allows(role usermodel.Role) bool {
	for _, allowed := range s.AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// Repository is the storage surface the staff service needs.
type Repository interface {
	CreateUser(ctx context.Context, user *usermodel.User) error
	ListStaff(ctx context.Context, orgID uuid.UUID, roles []usermodel.Role, offset, limit int) ([]usermodel.User, int64, error)
	FindStaff(ctx context.Context, staffID, orgID uuid.UUID, roles []usermodel.Role) (*usermodel.User, error)
	UpdateUserFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*usermodel.User, error)
}

// StaffService provisions and manages staff for one organization type. The
// same implementation backs the hospital, pharmacy and lab surfaces; only the
// scope differs.
type StaffService struct {
	repo   Repository
	mailer email.Sender
	scope  Scope
}

func NewService(repo Repository, mailer email.Sender, scope Scope) *StaffService {
	return &StaffService{
		repo:   repo,
		mailer: mailer,
		scope:  scope,
	}
}

// CreateStaff provisions a staff account in the admin's organization. When
// the request carries no password a temporary one is generated, emailed and
// returned once; it is never persisted or logged.
func (s *StaffService) CreateStaff(ctx context.Context, orgID uuid.UUID, request *staffmodel.CreateStaffRequest) (*usermodel.UserResponse, string, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, "", appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	role := usermodel.Role(request.Role)
	if !s.scope.allows(role) {
		return nil, "", appErrors.ErrRoleNotAssignable
	}

	var tempPassword, password string
	if request.Password != nil {
		if err := utils.ValidatePassword(*request.Password); err != nil {
			return nil, "", appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
		}
		password = *request.Password
	} else {
		generated, err := utils.GenerateTempPassword()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		tempPassword = generated
		password = generated
	}
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	fullName := utils.SanitizeString(request.FullName)
	staff := &usermodel.User{
		Email:               utils.SanitizeEmail(request.Email),
		PasswordHash:        passwordHash,
		FullName:            &fullName,
		Roles:               usermodel.RoleList{role, usermodel.BaselineRole},
		IsActive:            true,
		EmployeeID:          request.EmployeeID,
		Department:          request.Department,
		MobileCode:          request.MobileCode,
		Mobile:              request.Mobile,
		StaffOrganizationID: &orgID,
	}

	if err := s.repo.CreateUser(ctx, staff); err != nil {
		return nil, "", err
	}

	if tempPassword != "" {
		if mailErr := s.mailer.SendTemporaryPasswordEmail(staff.Email, fullName, tempPassword); mailErr != nil {
			logger.Error("Failed to deliver staff credentials",
				zap.String("staff_id", staff.ID.String()),
				zap.Error(mailErr),
			)
		}
	}

	logger.Info("Staff member created",
		zap.String("staff_id", staff.ID.String()),
		zap.String("organization_id", orgID.String()),
		zap.String("role", string(role)),
		zap.String("scope", s.scope.Name),
		zap.String("event", "staff_created"),
	)

	return staff.ToResponse(), tempPassword, nil
}

func (s *StaffService) ListStaff(ctx context.Context, orgID uuid.UUID, page, limit int) ([]*usermodel.UserResponse, int64, error) {
	offset := (page - 1) * limit
	staff, total, err := s.repo.ListStaff(ctx, orgID, s.scope.AllowedRoles, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return usermodel.ToResponseList(staff), total, nil
}

// GetStaff returns ErrUserNotFound for staff outside the organization or
// scope as well as for missing users. The caller cannot tell which.
func (s *StaffService) GetStaff(ctx context.Context, staffID, orgID uuid.UUID) (*usermodel.UserResponse, error) {
	staff, err := s.repo.FindStaff(ctx, staffID, orgID, s.scope.AllowedRoles)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, appErrors.ErrUserNotFound
	}
	return staff.ToResponse(), nil
}

func (s *StaffService) UpdateStaffStatus(ctx context.Context, staffID, orgID uuid.UUID, isActive bool) (*usermodel.UserResponse, error) {
	staff, err := s.repo.FindStaff(ctx, staffID, orgID, s.scope.AllowedRoles)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, appErrors.ErrUserNotFound
	}

	updated, err := s.repo.UpdateUserFields(ctx, staff.ID, map[string]interface{}{
		"is_active": isActive,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, appErrors.ErrUserNotFound
	}

	logger.Info("Staff status updated",
		zap.String("staff_id", staffID.String()),
		zap.String("organization_id", orgID.String()),
		zap.Bool("is_active", isActive),
		zap.String("event", "staff_status_updated"),
	)

	return updated.ToResponse(), nil
}
