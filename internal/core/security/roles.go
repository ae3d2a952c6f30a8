// Package security provides authorization and access control.
package security

// Role is the closed set of roles the platform knows about.
// Role checks go through this enum and the capability table below,
// never through free-form string comparison.
type Role string

const (
	// RoleSystemAdmin is the global administrative role, not bound to a tenant.
	RoleSystemAdmin Role = "system_admin"

	// RoleBusinessAdmin administers a single tenant.
	RoleBusinessAdmin Role = "business_admin"

	// RoleStaff is internal tenant staff (account managers, recruiters).
	RoleStaff Role = "staff"

	// RoleUser is a consultant filing timesheets.
	RoleUser Role = "user"
)

// ParseRole maps a raw claim to a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSystemAdmin, RoleBusinessAdmin, RoleStaff, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Action identifies an operation gated by the capability table.
type Action string

const (
	ActionApproveTimesheet Action = "timesheet.approve"
	ActionFileForOthers    Action = "timesheet.file_for_others"
	ActionManageCatalogs   Action = "catalog.manage"
	ActionManageUsers      Action = "user.manage"
	ActionViewReports      Action = "report.view"
)

// capabilities is the (role, action) table consulted by authorization checks.
var capabilities = map[Role]map[Action]bool{
	RoleSystemAdmin: {
		ActionApproveTimesheet: true,
		ActionFileForOthers:    true,
		ActionManageCatalogs:   true,
		ActionManageUsers:      true,
		ActionViewReports:      true,
	},
	RoleBusinessAdmin: {
		ActionApproveTimesheet: true,
		ActionFileForOthers:    true,
		ActionManageCatalogs:   true,
		ActionManageUsers:      true,
		ActionViewReports:      true,
	},
	RoleStaff: {
		ActionApproveTimesheet: true,
		ActionViewReports:      true,
	},
	RoleUser: {},
}

// Can reports whether the role grants the action.
func (r Role) Can(action Action) bool {
	return capabilities[r][action]
}

// Strings converts roles to raw claims for token encoding.
func Strings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// FromStrings maps raw claims to known roles, dropping unknown values.
func FromStrings(raw []string) []Role {
	var roles []Role
	for _, s := range raw {
		if r, ok := ParseRole(s); ok {
			roles = append(roles, r)
		}
	}
	return roles
}
