package model

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/logger"
)

type UserResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	FullName            *string    `json:"full_name"`
	Roles               []string   `json:"roles"`
	IsActive            bool       `json:"is_active"`
	IsEmailVerified     bool       `json:"is_email_verified"`
	EmployeeID          *string    `json:"employee_id,omitempty"`
	Department          *string    `json:"department,omitempty"`
	OrganizationID      *uuid.UUID `json:"organizationId,omitempty"`
	StaffOrganizationID *uuid.UUID `json:"staffOrganizationId,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (u *User) ToResponse() *UserResponse {
	known, unknown := u.Roles.Known()
	if len(unknown) > 0 {
		logger.Warn("Dropping unmapped roles from user response",
			zap.String("user_id", u.ID.String()),
			zap.Strings("roles", unknown),
		)
	}

	return &UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		Roles:               known.Strings(),
		IsActive:            u.IsActive,
		IsEmailVerified:     u.IsEmailVerified,
		EmployeeID:          u.EmployeeID,
		Department:          u.Department,
		OrganizationID:      u.OrganizationID,
		StaffOrganizationID: u.StaffOrganizationID,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func ToResponseList(users []User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out
}
