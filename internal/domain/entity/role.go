// Package entity contains the core business objects of the project.
package entity

import "strings"

// Role represents the kind of account a person holds.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleTeacher Role = "Teacher"
	RoleStudent Role = "Student"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole maps stored role names, including the legacy Spanish ones, to a Role.
// Unknown values fall back to RoleStudent.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "teacher", "profesor":
		return RoleTeacher
	default:
		return RoleStudent
	}
}
