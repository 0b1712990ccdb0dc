package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"

	appErrors "healthcare-org-admin/pkg/errors"
)

type Role string

const (
	RolePatient       Role = "PATIENT"
	RoleHospitalAdmin Role = "HOSPITAL_ADMIN"
	RoleDoctor        Role = "DOCTOR"
	RoleNurse         Role = "NURSE"
	RoleStaff         Role = "STAFF"
	RolePharmaAdmin   Role = "PHARMA_ADMIN"
	RoleLabAdmin      Role = "LAB_ADMIN"
	RoleSystemAdmin   Role = "SYSTEM_ADMIN"
)

// BaselineRole is granted to every created user alongside any assigned role.
const BaselineRole = RolePatient

var allRoles = map[Role]struct{}{
	RolePatient:       {},
	RoleHospitalAdmin: {},
	RoleDoctor:        {},
	RoleNurse:         {},
	RoleStaff:         {},
	RolePharmaAdmin:   {},
	RoleLabAdmin:      {},
	RoleSystemAdmin:   {},
}

func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

// ParseRoles maps raw role values for a write. An unknown value is an error,
// never a silent substitution.
func ParseRoles(raw []string) (RoleList, error) {
	roles := make(RoleList, 0, len(raw))
	for _, v := range raw {
		role := Role(v)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %s", appErrors.ErrInvalidUserRole, v)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// RoleList is stored as a Postgres text[] column.
type RoleList []Role

func (l RoleList) Strings() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = string(r)
	}
	return out
}

func (l RoleList) Contains(role Role) bool {
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

func (l RoleList) ContainsAny(roles []Role) bool {
	for _, r := range roles {
		if l.Contains(r) {
			return true
		}
	}
	return false
}

// Known splits the list into mappable roles and unknown leftovers. Reads keep
// going when storage holds a value the enum no longer knows.
func (l RoleList) Known() (known RoleList, unknown []string) {
	for _, r := range l {
		if r.Valid() {
			known = append(known, r)
		} else {
			unknown = append(unknown, string(r))
		}
	}
	return known, unknown
}

func (l RoleList) Value() (driver.Value, error) {
	return pq.StringArray(l.Strings()).Value()
}

func (l *RoleList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	roles := make(RoleList, len(arr))
	for i, v := range arr {
		roles[i] = Role(v)
	}
	*l = roles
	return nil
}

func (RoleList) GormDataType() string {
	return "text[]"
}
