package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record shared by patients, staff and administrators.
// OrganizationID links a user as the admin of an organization;
// StaffOrganizationID links a user as staff of one. The two links are
// independent foreign keys.
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email               string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName            *string    `gorm:"type:varchar(255)" json:"full_name,omitempty"`
	Roles               RoleList   `gorm:"type:text[];not null" json:"roles"`
	MobileCode          *string    `gorm:"type:varchar(10)" json:"mobile_code,omitempty"`
	Mobile              *int64     `json:"mobile,omitempty"`
	PhoneCode           *string    `gorm:"type:varchar(10)" json:"phone_code,omitempty"`
	Phone               *string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address             *string    `gorm:"type:text" json:"address,omitempty"`
	PinCode             *string    `gorm:"type:varchar(20)" json:"pin_code,omitempty"`
	IsActive            bool       `gorm:"default:true;not null" json:"is_active"`
	IsEmailVerified     bool       `gorm:"default:false;not null" json:"is_email_verified"`
	EmployeeID          *string    `gorm:"type:varchar(100)" json:"employee_id,omitempty"`
	Department          *string    `gorm:"type:varchar(100)" json:"department,omitempty"`
	OrganizationID      *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"organizationId,omitempty"`
	StaffOrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"staffOrganizationId,omitempty"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// PasswordResetToken stores only the SHA-256 hash of an issued reset token.
// UsedAt is null until the token is consumed; a token is single-use.
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenHash string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	UsedAt    *time.Time `gorm:"type:timestamp"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
