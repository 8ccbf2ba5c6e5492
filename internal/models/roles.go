package models

import "strings"

// Role identifies the kind of actor a user account represents.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleHospital Role = "hospital"
)

// ParseRole normalises a raw role string, returning false for unknown values.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleHospital:
		return RoleHospital, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }
