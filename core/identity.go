package core

import "strings"

// Roles
const (
	RoleAdmin   = "admin:"
	RoleTeacher = "teacher:"
	RoleStudent = "student:"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

// Identity is who is calling, as supplied by the identity source.
// The engine trusts it and performs no authentication itself.
type Identity struct {
	UserID         string   `json:"user_id"`
	OrganizationID string   `json:"organization_id"`
	Roles          []string `json:"roles"`
}

func (id Identity) RoleStartsWith(prefix string) bool {
	for _, role := range id.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool {
	return id.RoleStartsWith(RoleAdmin)
}

// IsStaff is true for teachers and admins.
func (id Identity) IsStaff() bool {
	return id.IsAdmin() || id.RoleStartsWith(RoleTeacher)
}

func (id Identity) IsStudent() bool {
	return id.RoleStartsWith(RoleStudent)
}
