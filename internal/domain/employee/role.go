package employee

type Role string

const (
	RoleEmployee   Role = "Employee"
	RoleManager    Role = "Manager"
	RoleHRAdmin    Role = "HR-Admin"
	RoleCEO        Role = "CEO"
	RoleSuperAdmin Role = "Super-Admin"
)

var validRoles = []Role{RoleEmployee, RoleManager, RoleHRAdmin, RoleCEO, RoleSuperAdmin}

func (r Role) IsValid() bool {
	for _, v := range validRoles {
		if v == r {
			return true
		}
	}
	return false
}

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
	},
	RoleHRAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
	},
	RoleCEO: {
		// Read-only across the directory
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionEmployeeViewAll,
		PermissionReportsView,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionEmployeeViewAll,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// DashboardView is the presentation selected for a role.
type DashboardView string

const (
	DashboardViewHRAdmin   DashboardView = "hr_admin"
	DashboardViewExecutive DashboardView = "executive"
	DashboardViewManager   DashboardView = "manager"
	DashboardViewEmployee  DashboardView = "employee"
)

func (r Role) DashboardView() DashboardView {
	switch r {
	case RoleHRAdmin:
		return DashboardViewHRAdmin
	case RoleCEO, RoleSuperAdmin:
		return DashboardViewExecutive
	case RoleManager:
		return DashboardViewManager
	default:
		return DashboardViewEmployee
	}
}
