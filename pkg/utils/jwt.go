package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appErrors "healthcare-org-admin/pkg/errors"
)

// AccessClaims carries the identity attached to every authenticated request.
type AccessClaims struct {
	UserID         uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Roles          []string   `json:"roles"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims deliberately carries a narrower claim set than AccessClaims.
type RefreshClaims struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(userID uuid.UUID, email string, roles []string, organizationID *uuid.UUID, secret string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:         userID,
		Email:          email,
		Roles:          roles,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(userID uuid.UUID, email string, secret string, expiryDays int) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryDays) * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken verifies a token against the access secret only. A token
// signed with the refresh secret never validates here, and vice versa.
func ValidateAccessToken(tokenString, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseToken(tokenString, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func ValidateRefreshToken(tokenString, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseToken(tokenString, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseToken(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return appErrors.ErrTokenExpired
		}
		return appErrors.ErrTokenInvalid
	}
	if !token.Valid {
		return appErrors.ErrTokenInvalid
	}
	return nil
}
