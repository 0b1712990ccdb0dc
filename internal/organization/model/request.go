package model

type RegisterOrganizationRequest struct {
	Name                string  `json:"name" validate:"required,min=2,max=255"`
	Type                string  `json:"type" validate:"required,org_type"`
	LicenseNumber       *string `json:"license_number" validate:"omitempty,max=100"`
	Address             *string `json:"address" validate:"omitempty,max=1000"`
	ContactPersonName   string  `json:"contact_person_name" validate:"required,min=2,max=255"`
	ContactPersonEmail  string  `json:"contact_person_email" validate:"required,email"`
	ContactPersonMobile *string `json:"contact_person_mobile" validate:"omitempty,phone"`
}

type RejectOrganizationRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}
