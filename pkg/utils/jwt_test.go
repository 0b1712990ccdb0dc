package utils

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	appErrors "healthcare-org-admin/pkg/errors"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	token, err := GenerateAccessToken(userID, "admin@hospital.test", []string{"HOSPITAL_ADMIN", "PATIENT"}, &orgID, "access-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, "access-secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Email != "admin@hospital.test" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "HOSPITAL_ADMIN" {
		t.Fatalf("roles not preserved: %v", claims.Roles)
	}
	if claims.OrganizationID == nil || *claims.OrganizationID != orgID {
		t.Fatalf("organization id not preserved: %v", claims.OrganizationID)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "user@test", []string{"PATIENT"}, nil, "access-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, appErrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken(uuid.New(), "user@test", "refresh-secret", 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "access-secret"); err == nil {
		t.Fatal("refresh token validated against access secret")
	}

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.Email != "user@test" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
}

func TestExpiredTokenMapsToErrTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "user@test", []string{"PATIENT"}, nil, "access-secret", -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "access-secret"); !errors.Is(err, appErrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
