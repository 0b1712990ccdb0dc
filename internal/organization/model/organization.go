package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	usermodel "healthcare-org-admin/internal/user/model"
)

type OrganizationType string

const (
	TypeHospital OrganizationType = "HOSPITAL"
	TypePharmacy OrganizationType = "PHARMACY"
	TypeLab      OrganizationType = "LAB"
)

type OrganizationStatus string

const (
	StatusPendingVerification OrganizationStatus = "PENDING_VERIFICATION"
	StatusActive              OrganizationStatus = "ACTIVE"
	StatusRejected            OrganizationStatus = "REJECTED"
	StatusSuspended           OrganizationStatus = "SUSPENDED"
)

// Organization is a tenant: a hospital, pharmacy or lab that owns staff users.
// AdminUser is the has-one relation through users.organization_id, set when
// the organization is approved.
type Organization struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name                string             `gorm:"type:varchar(255);not null" json:"name"`
	Type                OrganizationType   `gorm:"type:varchar(20);not null" json:"type"`
	LicenseNumber       *string            `gorm:"type:varchar(100)" json:"license_number,omitempty"`
	Address             *string            `gorm:"type:text" json:"address,omitempty"`
	ContactPersonName   string             `gorm:"type:varchar(255);not null" json:"contact_person_name"`
	ContactPersonEmail  string             `gorm:"type:varchar(255);not null;uniqueIndex" json:"contact_person_email"`
	ContactPersonMobile *string            `gorm:"type:varchar(20)" json:"contact_person_mobile,omitempty"`
	Status              OrganizationStatus `gorm:"type:varchar(30);not null;default:'PENDING_VERIFICATION'" json:"status"`
	RejectionReason     *string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedBy          *uuid.UUID         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt          *time.Time         `json:"approved_at,omitempty"`
	AdminUser           *usermodel.User    `gorm:"foreignKey:OrganizationID;references:ID" json:"-"`
	CreatedAt           time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"not null" json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// AdminRole derives the admin role an approved organization's admin user
// receives. An unknown type is a configuration error, not a user error.
func (t OrganizationType) AdminRole() (usermodel.Role, error) {
	switch t {
	case TypeHospital:
		return usermodel.RoleHospitalAdmin, nil
	case TypePharmacy:
		return usermodel.RolePharmaAdmin, nil
	case TypeLab:
		return usermodel.RoleLabAdmin, nil
	default:
		return "", fmt.Errorf("no admin role for organization type %q", string(t))
	}
}
