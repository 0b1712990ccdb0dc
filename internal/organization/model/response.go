package model

import (
	"time"

	"github.com/google/uuid"

	usermodel "healthcare-org-admin/internal/user/model"
)

type OrganizationResponse struct {
	ID                  uuid.UUID               `json:"id"`
	Name                string                  `json:"name"`
	Type                OrganizationType        `json:"type"`
	LicenseNumber       *string                 `json:"license_number"`
	Address             *string                 `json:"address"`
	ContactPersonName   string                  `json:"contact_person_name"`
	ContactPersonEmail  string                  `json:"contact_person_email"`
	ContactPersonMobile *string                 `json:"contact_person_mobile"`
	Status              OrganizationStatus      `json:"status"`
	AdminUserID         *uuid.UUID              `json:"adminUserId"`
	AdminUser           *usermodel.UserResponse `json:"adminUser,omitempty"`
	RejectionReason     *string                 `json:"rejection_reason,omitempty"`
	ApprovedBy          *uuid.UUID              `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time              `json:"approved_at,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

func (o *Organization) ToResponse() *OrganizationResponse {
	resp := &OrganizationResponse{
		ID:                  o.ID,
		Name:                o.Name,
		Type:                o.Type,
		LicenseNumber:       o.LicenseNumber,
		Address:             o.Address,
		ContactPersonName:   o.ContactPersonName,
		ContactPersonEmail:  o.ContactPersonEmail,
		ContactPersonMobile: o.ContactPersonMobile,
		Status:              o.Status,
		RejectionReason:     o.RejectionReason,
		ApprovedBy:          o.ApprovedBy,
		ApprovedAt:          o.ApprovedAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if o.AdminUser != nil {
		resp.AdminUserID = &o.AdminUser.ID
		resp.AdminUser = o.AdminUser.ToResponse()
	}
	return resp
}

// ApprovalResponse carries the one-time credentials for the provisioned
// admin alongside the activated organization.
type ApprovalResponse struct {
	Organization      *OrganizationResponse `json:"organization"`
	TemporaryPassword string                `json:"temporary_password"`
}

func ToResponseList(orgs []Organization) []*OrganizationResponse {
	out := make([]*OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = orgs[i].ToResponse()
	}
	return out
}
