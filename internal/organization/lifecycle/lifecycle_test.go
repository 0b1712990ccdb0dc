package lifecycle

import (
	"testing"

	"healthcare-org-admin/internal/organization/model"
)

func TestValidateStatusTransition(t *testing.T) {
	cases := []struct {
		from    model.OrganizationStatus
		to      model.OrganizationStatus
		allowed bool
	}{
		{model.StatusPendingVerification, model.StatusActive, true},
		{model.StatusPendingVerification, model.StatusRejected, true},
		{model.StatusPendingVerification, model.StatusSuspended, false},
		{model.StatusActive, model.StatusSuspended, true},
		{model.StatusActive, model.StatusRejected, false},
		{model.StatusSuspended, model.StatusActive, true},
		{model.StatusSuspended, model.StatusRejected, false},
		{model.StatusRejected, model.StatusActive, false},
		{model.StatusRejected, model.StatusPendingVerification, false},
	}

	for _, tc := range cases {
		err := ValidateStatusTransition(tc.from, tc.to)
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	if err := ValidateStatusTransition("BOGUS", model.StatusActive); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestGetAllowedTransitions(t *testing.T) {
	if got := GetAllowedTransitions(model.StatusRejected); len(got) != 0 {
		t.Fatalf("rejected should be terminal, got %v", got)
	}
	if got := GetAllowedTransitions(model.StatusPendingVerification); len(got) != 2 {
		t.Fatalf("expected two transitions from pending, got %v", got)
	}
}
