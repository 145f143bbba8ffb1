package auth

// Permission is a fine-grained capability key.
type Permission string

const (
	PermProfilesRead        Permission = "profiles:read"
	PermProfilesWrite       Permission = "profiles:write"
	PermProfilesArchive     Permission = "profiles:archive"
	PermUsersManage         Permission = "users:manage"
	PermReportsRead         Permission = "reports:read"
	PermReportsWrite        Permission = "reports:write"
	PermAuditRead           Permission = "audit:read"
	PermSettingsManage      Permission = "settings:manage"
	PermCoursesManage       Permission = "courses:manage"
	PermDepartmentsManage   Permission = "departments:manage"
	PermAcademicYearsManage Permission = "academic-years:manage"
)

// rolePermissions is the static role to permission-list table. Initialized
// once, never mutated at runtime; there are no per-user overrides.
var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermProfilesRead,
		PermProfilesWrite,
		PermProfilesArchive,
		PermUsersManage,
		PermReportsRead,
		PermReportsWrite,
		PermAuditRead,
		PermSettingsManage,
		PermCoursesManage,
		PermDepartmentsManage,
		PermAcademicYearsManage,
	},
	RoleDeptAdmin: {
		PermProfilesRead,
		PermProfilesWrite,
		PermReportsRead,
		PermCoursesManage,
		PermDepartmentsManage,
		PermAcademicYearsManage,
	},
	RoleFaculty: {
		PermProfilesRead,
		PermReportsRead,
	},
	RoleStudent: {
		PermProfilesRead,
	},
}

// HasPermission reports whether the role's fixed list contains the
// permission.
func HasPermission(role UserRole, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// GetPermissions returns a copy of the role's permission list.
func GetPermissions(role UserRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
