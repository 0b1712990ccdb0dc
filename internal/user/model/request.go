package model

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,user_role"`
}

// UpdateUserRequest is the admin partial update. Optional fields are tri-state:
// absent leaves the column untouched, null clears it, a value sets it.
// Organization links attach when given an id and detach when given null.
type UpdateUserRequest struct {
	Email               *string              `json:"email" validate:"omitempty,email"`
	FullName            Optional[string]     `json:"full_name"`
	Roles               *[]string            `json:"roles" validate:"omitempty,min=1,dive,user_role"`
	MobileCode          Optional[string]     `json:"mobile_code"`
	Mobile              Optional[int64]      `json:"mobile"`
	PhoneCode           Optional[string]     `json:"phone_code"`
	Phone               Optional[string]     `json:"phone"`
	Address             Optional[string]     `json:"address"`
	PinCode             Optional[string]     `json:"pin_code"`
	IsActive            *bool                `json:"isActive"`
	EmployeeID          Optional[string]     `json:"employee_id"`
	Department          Optional[string]     `json:"department"`
	OrganizationID      Optional[uuid.UUID]  `json:"organizationId"`
	StaffOrganizationID Optional[uuid.UUID]  `json:"staffOrganizationId"`
}
