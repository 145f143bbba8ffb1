package auth

import "testing"

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role UserRole
		perm Permission
		want bool
	}{
		{RoleAdmin, PermUsersManage, true},
		{RoleAdmin, PermAuditRead, true},
		{RoleDeptAdmin, PermCoursesManage, true},
		{RoleDeptAdmin, PermUsersManage, false},
		{RoleDeptAdmin, PermAuditRead, false},
		{RoleFaculty, PermProfilesRead, true},
		{RoleFaculty, PermProfilesWrite, false},
		{RoleStudent, PermProfilesRead, true},
		{RoleStudent, PermUsersManage, false},
		{UserRole("nonexistent"), PermProfilesRead, false},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.perm); got != tc.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestGetPermissionsNonEmptyAndIsolated(t *testing.T) {
	for _, role := range []UserRole{RoleAdmin, RoleDeptAdmin, RoleFaculty, RoleStudent} {
		perms := GetPermissions(role)
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		// Mutating the returned slice must not leak into the table.
		perms[0] = Permission("tampered")
		if HasPermission(role, Permission("tampered")) {
			t.Fatalf("role %s table was mutated through GetPermissions", role)
		}
	}
}

func TestRoleValidation(t *testing.T) {
	for _, role := range []UserRole{RoleAdmin, RoleDeptAdmin, RoleFaculty, RoleStudent} {
		if !role.Valid() {
			t.Fatalf("%s should be valid", role)
		}
	}
	if UserRole("root").Valid() {
		t.Fatal("unexpected valid role")
	}
}
