package model

type CreateStaffRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	FullName   string  `json:"full_name" validate:"required,min=2,max=255"`
	Role       string  `json:"role" validate:"required,user_role"`
	Password   *string `json:"password" validate:"omitempty,min=8"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	MobileCode *string `json:"mobile_code" validate:"omitempty,max=10"`
	Mobile     *int64  `json:"mobile"`
}

type UpdateStaffStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
