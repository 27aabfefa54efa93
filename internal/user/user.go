package user

import (
	"time"

	"github.com/frahmantamala/project-management/internal/auth"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusOnLeave  Status = "ON_LEAVE"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         auth.Role `json:"role"`
	ManagerID    *string   `json:"manager_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	TeamID       *string   `json:"team_id,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ReportsTo reports whether managerID is u's direct manager.
func (u *User) ReportsTo(managerID string) bool {
	return u.ManagerID != nil && managerID != "" && *u.ManagerID == managerID
}

func (u *User) Actor() auth.Actor {
	return auth.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Team is a manager's two-level reporting tree. All is DirectReports followed
// by ExtendedReports.
type Team struct {
	DirectReports   []*User `json:"direct_reports"`
	ExtendedReports []*User `json:"extended_reports"`
	All             []*User `json:"all"`
}

// IDs returns the ids of users in order.
func IDs(users []*User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

type PermissionsView struct {
	Role          auth.Role         `json:"role"`
	Permissions   []auth.Permission `json:"permissions"`
	DashboardPath string            `json:"dashboard_path"`
}
