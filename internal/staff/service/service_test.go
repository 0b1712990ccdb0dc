package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"healthcare-org-admin/internal/email/mocks"
	staffmodel "healthcare-org-admin/internal/staff/model"
	usermodel "healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

// fakeRepo is an in-memory Repository for staff service tests.
type fakeRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uuid.UUID]*usermodel.User{}}
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *usermodel.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return appErrors.ErrUserAlreadyExists
		}
	}
	user.ID = uuid.New()
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) visible(user *usermodel.User, orgID uuid.UUID, roles []usermodel.Role) bool {
	if user.StaffOrganizationID == nil || *user.StaffOrganizationID != orgID {
		return false
	}
	return user.Roles.ContainsAny(roles)
}

func (f *fakeRepo) ListStaff(ctx context.Context, orgID uuid.UUID, roles []usermodel.Role, offset, limit int) ([]usermodel.User, int64, error) {
	var out []usermodel.User
	for _, user := range f.users {
		if f.visible(user, orgID, roles) {
			out = append(out, *user)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) FindStaff(ctx context.Context, staffID, orgID uuid.UUID, roles []usermodel.Role) (*usermodel.User, error) {
	user, ok := f.users[staffID]
	if !ok || !f.visible(user, orgID, roles) {
		return nil, nil
	}
	return user, nil
}

func (f *fakeRepo) UpdateUserFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*usermodel.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	if v, set := fields["is_active"]; set {
		user.IsActive = v.(bool)
	}
	return user, nil
}

func seedStaff(repo *fakeRepo, orgID uuid.UUID, role usermodel.Role) *usermodel.User {
	user := &usermodel.User{
		ID:                  uuid.New(),
		Email:               uuid.New().String() + "@staff.test",
		Roles:               usermodel.RoleList{role, usermodel.RolePatient},
		IsActive:            true,
		StaffOrganizationID: &orgID,
	}
	repo.users[user.ID] = user
	return user
}

func TestCreateStaffWithinScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	mailer := mocks.NewMockSender(ctrl)
	mailer.EXPECT().
		SendTemporaryPasswordEmail("nurse@hospital.test", "Jo Mears", gomock.Any()).
		Return(nil)

	svc := NewService(repo, mailer, HospitalScope)
	orgID := uuid.New()

	resp, tempPassword, err := svc.CreateStaff(context.Background(), orgID, &staffmodel.CreateStaffRequest{
		Email:    "nurse@hospital.test",
		FullName: "Jo Mears",
		Role:     "NURSE",
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	staff := repo.users[resp.ID]
	if staff == nil {
		t.Fatal("staff member not stored")
	}
	if !staff.Roles.Contains(usermodel.RoleNurse) || !staff.Roles.Contains(usermodel.RolePatient) {
		t.Fatalf("staff roles %v should include NURSE and PATIENT", staff.Roles)
	}
	if staff.StaffOrganizationID == nil || *staff.StaffOrganizationID != orgID {
		t.Fatal("staff not linked to the admin's organization")
	}
	if err := utils.ValidatePassword(tempPassword); err != nil {
		t.Fatalf("temporary password fails policy: %v", err)
	}
	if !utils.CheckPassword(staff.PasswordHash, tempPassword) {
		t.Fatal("stored hash does not match the returned temporary password")
	}
}

func TestCreateStaffWithProvidedPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	// No SendTemporaryPasswordEmail expectation: nothing is generated.
	svc := NewService(repo, mocks.NewMockSender(ctrl), PharmacyScope)

	password := "ChosenSecret1"
	resp, tempPassword, err := svc.CreateStaff(context.Background(), uuid.New(), &staffmodel.CreateStaffRequest{
		Email:    "clerk@pharmacy.test",
		FullName: "Kim Soto",
		Role:     "STAFF",
		Password: &password,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if tempPassword != "" {
		t.Fatal("no temporary password should be returned when one is provided")
	}
	if !utils.CheckPassword(repo.users[resp.ID].PasswordHash, password) {
		t.Fatal("provided password not stored")
	}
}

func TestCreateStaffRejectsWeakProvidedPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(newFakeRepo(), mocks.NewMockSender(ctrl), PharmacyScope)

	password := "alllowercase"
	_, _, err := svc.CreateStaff(context.Background(), uuid.New(), &staffmodel.CreateStaffRequest{
		Email:    "clerk@pharmacy.test",
		FullName: "Kim Soto",
		Role:     "STAFF",
		Password: &password,
	})
	if err == nil {
		t.Fatal("expected weak password to be rejected")
	}
}

func TestCreateStaffOutsideScope(t *testing.T) {
	cases := []struct {
		scope Scope
		role  string
	}{
		{PharmacyScope, "DOCTOR"},
		{PharmacyScope, "NURSE"},
		{LabScope, "DOCTOR"},
		{HospitalScope, "SYSTEM_ADMIN"},
		{HospitalScope, "HOSPITAL_ADMIN"},
	}

	for _, tc := range cases {
		ctrl := gomock.NewController(t)
		svc := NewService(newFakeRepo(), mocks.NewMockSender(ctrl), tc.scope)

		_, _, err := svc.CreateStaff(context.Background(), uuid.New(), &staffmodel.CreateStaffRequest{
			Email:    "someone@org.test",
			FullName: "Someone",
			Role:     tc.role,
		})
		if !errors.Is(err, appErrors.ErrRoleNotAssignable) {
			t.Errorf("scope %s role %s: expected ErrRoleNotAssignable, got %v", tc.scope.Name, tc.role, err)
		}
	}
}

func TestListStaffScopedToOrganizationAndRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	svc := NewService(repo, mocks.NewMockSender(ctrl), HospitalScope)

	orgID := uuid.New()
	otherOrg := uuid.New()
	seedStaff(repo, orgID, usermodel.RoleDoctor)
	seedStaff(repo, orgID, usermodel.RoleNurse)
	seedStaff(repo, otherOrg, usermodel.RoleDoctor)

	staff, total, err := svc.ListStaff(context.Background(), orgID, 1, 10)
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	if total != 2 || len(staff) != 2 {
		t.Fatalf("expected 2 staff in org, got total=%d len=%d", total, len(staff))
	}
}

func TestGetStaffInvisibleAcrossTenants(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	svc := NewService(repo, mocks.NewMockSender(ctrl), HospitalScope)

	otherOrg := uuid.New()
	foreign := seedStaff(repo, otherOrg, usermodel.RoleDoctor)

	_, err := svc.GetStaff(context.Background(), foreign.ID, uuid.New())
	if !errors.Is(err, appErrors.ErrUserNotFound) {
		t.Fatalf("cross-tenant staff must be invisible, got %v", err)
	}
}

func TestUpdateStaffStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newFakeRepo()
	svc := NewService(repo, mocks.NewMockSender(ctrl), LabScope)

	orgID := uuid.New()
	staff := seedStaff(repo, orgID, usermodel.RoleStaff)

	resp, err := svc.UpdateStaffStatus(context.Background(), staff.ID, orgID, false)
	if err != nil {
		t.Fatalf("UpdateStaffStatus: %v", err)
	}
	if resp.IsActive {
		t.Fatal("staff member still active")
	}
	if staff.IsActive {
		t.Fatal("deactivation not persisted")
	}
}
