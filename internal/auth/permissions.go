package auth

import "fmt"

type Permission string

const (
	PermUserViewAll           Permission = "USER_VIEW_ALL"
	PermUserViewTeam          Permission = "USER_VIEW_TEAM"
	PermUserViewDirectReports Permission = "USER_VIEW_DIRECT_REPORTS"
	PermUserCreate            Permission = "USER_CREATE"
	PermUserUpdate            Permission = "USER_UPDATE"
	PermUserDelete            Permission = "USER_DELETE"

	PermTeamViewAll   Permission = "TEAM_VIEW_ALL"
	PermTeamViewOwn   Permission = "TEAM_VIEW_OWN"
	PermTeamCreate    Permission = "TEAM_CREATE"
	PermTeamUpdate    Permission = "TEAM_UPDATE"
	PermTeamDelete    Permission = "TEAM_DELETE"
	PermTeamManageOwn Permission = "TEAM_MANAGE_OWN"

	PermProjectViewAll       Permission = "PROJECT_VIEW_ALL"
	PermProjectViewTeam      Permission = "PROJECT_VIEW_TEAM"
	PermProjectCreate        Permission = "PROJECT_CREATE"
	PermProjectUpdate        Permission = "PROJECT_UPDATE"
	PermProjectDelete        Permission = "PROJECT_DELETE"
	PermProjectAssignMembers Permission = "PROJECT_ASSIGN_MEMBERS"

	PermAppraisalViewAll       Permission = "APPRAISAL_VIEW_ALL"
	PermAppraisalViewTeam      Permission = "APPRAISAL_VIEW_TEAM"
	PermAppraisalCreate        Permission = "APPRAISAL_CREATE"
	PermAppraisalUpdateOwn     Permission = "APPRAISAL_UPDATE_OWN"
	PermAppraisalReview        Permission = "APPRAISAL_REVIEW"
	PermAppraisalSetGoals      Permission = "APPRAISAL_SET_GOALS"
	PermAppraisalConductReview Permission = "APPRAISAL_CONDUCT_REVIEW"

	PermPTORequest   Permission = "PTO_REQUEST"
	PermPTOApprove   Permission = "PTO_APPROVE"
	PermPTOViewAll   Permission = "PTO_VIEW_ALL"
	PermPTOViewTeam  Permission = "PTO_VIEW_TEAM"
	PermPTOCancelOwn Permission = "PTO_CANCEL_OWN"

	PermTimesheetSubmit            Permission = "TIMESHEET_SUBMIT"
	PermTimesheetApprove           Permission = "TIMESHEET_APPROVE"
	PermTimesheetViewAll           Permission = "TIMESHEET_VIEW_ALL"
	PermTimesheetViewTeam          Permission = "TIMESHEET_VIEW_TEAM"
	PermTimesheetRequestCorrection Permission = "TIMESHEET_REQUEST_CORRECTION"

	PermMetricsViewAll  Permission = "METRICS_VIEW_ALL"
	PermMetricsViewTeam Permission = "METRICS_VIEW_TEAM"
	PermMetricsViewOwn  Permission = "METRICS_VIEW_OWN"

	PermCapacityViewAll  Permission = "CAPACITY_VIEW_ALL"
	PermCapacityViewTeam Permission = "CAPACITY_VIEW_TEAM"
	PermCapacityPlan     Permission = "CAPACITY_PLAN"

	PermOneOnOneSchedule Permission = "ONE_ON_ONE_SCHEDULE"
	PermOneOnOneViewOwn  Permission = "ONE_ON_ONE_VIEW_OWN"

	PermReportsViewAll  Permission = "REPORTS_VIEW_ALL"
	PermReportsViewTeam Permission = "REPORTS_VIEW_TEAM"
	PermReportsExport   Permission = "REPORTS_EXPORT"

	PermSettingsManage Permission = "SETTINGS_MANAGE"
	PermSettingsView   Permission = "SETTINGS_VIEW"

	PermAuditView Permission = "AUDIT_VIEW"
)

type grant struct {
	perm  Permission
	roles []Role
}

var (
	adminOnly       = []Role{RoleAdmin}
	managerOnly     = []Role{RoleManager}
	adminAndManager = []Role{RoleAdmin, RoleManager}
	everyone        = []Role{RoleAdmin, RoleManager, RoleEmployee}
)

// grants is the declaration order of the table. RolePermissionsFor and
// AllPermissions follow it.
var grants = []grant{
	{PermUserViewAll, adminOnly},
	{PermUserViewTeam, adminAndManager},
	{PermUserViewDirectReports, managerOnly},
	{PermUserCreate, adminOnly},
	{PermUserUpdate, adminOnly},
	{PermUserDelete, adminOnly},

	{PermTeamViewAll, adminOnly},
	{PermTeamViewOwn, managerOnly},
	{PermTeamCreate, adminOnly},
	{PermTeamUpdate, adminOnly},
	{PermTeamDelete, adminOnly},
	{PermTeamManageOwn, managerOnly},

	{PermProjectViewAll, adminOnly},
	{PermProjectViewTeam, managerOnly},
	{PermProjectCreate, adminAndManager},
	{PermProjectUpdate, adminAndManager},
	{PermProjectDelete, adminOnly},
	{PermProjectAssignMembers, adminAndManager},

	{PermAppraisalViewAll, adminOnly},
	{PermAppraisalViewTeam, managerOnly},
	{PermAppraisalCreate, adminAndManager},
	{PermAppraisalUpdateOwn, everyone},
	{PermAppraisalReview, adminAndManager},
	{PermAppraisalSetGoals, managerOnly},
	{PermAppraisalConductReview, managerOnly},

	{PermPTORequest, everyone},
	{PermPTOApprove, adminAndManager},
	{PermPTOViewAll, adminOnly},
	{PermPTOViewTeam, managerOnly},
	{PermPTOCancelOwn, everyone},

	{PermTimesheetSubmit, everyone},
	{PermTimesheetApprove, adminAndManager},
	{PermTimesheetViewAll, adminOnly},
	{PermTimesheetViewTeam, managerOnly},
	{PermTimesheetRequestCorrection, managerOnly},

	{PermMetricsViewAll, adminOnly},
	{PermMetricsViewTeam, managerOnly},
	{PermMetricsViewOwn, everyone},

	{PermCapacityViewAll, adminOnly},
	{PermCapacityViewTeam, managerOnly},
	{PermCapacityPlan, adminAndManager},

	{PermOneOnOneSchedule, managerOnly},
	{PermOneOnOneViewOwn, everyone},

	{PermReportsViewAll, adminOnly},
	{PermReportsViewTeam, managerOnly},
	{PermReportsExport, adminAndManager},

	{PermSettingsManage, adminOnly},
	{PermSettingsView, adminAndManager},

	{PermAuditView, adminOnly},
}

// table is built once at init and never written afterwards, so it is safe for
// concurrent readers.
var table map[Permission]map[Role]struct{}

func init() {
	t, err := buildTable(grants)
	if err != nil {
		panic(err)
	}
	table = t
}

func buildTable(gs []grant) (map[Permission]map[Role]struct{}, error) {
	t := make(map[Permission]map[Role]struct{}, len(gs))
	for _, g := range gs {
		if _, dup := t[g.perm]; dup {
			return nil, fmt.Errorf("permission %s declared twice", g.perm)
		}
		if len(g.roles) == 0 {
			return nil, fmt.Errorf("permission %s has no roles", g.perm)
		}
		set := make(map[Role]struct{}, len(g.roles))
		for _, r := range g.roles {
			if !r.Valid() {
				return nil, fmt.Errorf("permission %s grants unknown role %q", g.perm, r)
			}
			if _, dup := set[r]; dup {
				return nil, fmt.Errorf("permission %s lists role %s twice", g.perm, r)
			}
			set[r] = struct{}{}
		}
		t[g.perm] = set
	}
	return t, nil
}

func (p Permission) Valid() bool {
	_, ok := table[p]
	return ok
}

func (p Permission) String() string {
	return string(p)
}

// HasPermission reports whether role holds perm. Unknown permissions are
// denied.
func HasPermission(role Role, perm Permission) bool {
	roles, ok := table[perm]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// HasAny is false for an empty list.
func HasAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAll is true for an empty list.
func HasAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// RolePermissionsFor lists every permission granted to role in declaration
// order. The result is a fresh slice.
func RolePermissionsFor(role Role) []Permission {
	out := make([]Permission, 0)
	for _, g := range grants {
		if HasPermission(role, g.perm) {
			out = append(out, g.perm)
		}
	}
	return out
}

// RolesFor returns the roles holding perm, or nil when perm is unknown.
func RolesFor(perm Permission) []Role {
	for _, g := range grants {
		if g.perm == perm {
			out := make([]Role, len(g.roles))
			copy(out, g.roles)
			return out
		}
	}
	return nil
}

func AllPermissions() []Permission {
	out := make([]Permission, len(grants))
	for i, g := range grants {
		out[i] = g.perm
	}
	return out
}
