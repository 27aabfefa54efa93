package auth

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleLead     Role = "LEAD"
	RoleEmployee Role = "EMPLOYEE"
)

var allRoles = []Role{RoleAdmin, RoleManager, RoleLead, RoleEmployee}

// Roles returns every known role, most privileged first.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts any casing, e.g. "manager" or "MANAGER".
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func IsAdmin(r Role) bool {
	return r == RoleAdmin
}

func IsManager(r Role) bool {
	return r == RoleManager
}

func IsLead(r Role) bool {
	return r == RoleLead
}

// CanManageUser reports whether the acting user may act on the target user.
// Admins may act on anyone. Managers may act only on users whose manager id
// equals their own id. Every other role is denied.
func CanManageUser(actingRole Role, actingUserID, targetUserID string, targetManagerID *string) bool {
	if IsAdmin(actingRole) {
		return true
	}
	if !IsManager(actingRole) || targetManagerID == nil || actingUserID == "" {
		return false
	}
	return *targetManagerID == actingUserID
}

// DashboardPath is the landing page for a role.
func DashboardPath(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleManager, RoleLead:
		return "/manager"
	default:
		return "/dashboard"
	}
}
