package models

import "testing"

func TestRolePermissions_Defaults(t *testing.T) {
	tests := []struct {
		role     TeamRole
		expected Permissions
	}{
		{RoleAdmin, Permissions{CreateJobs: true, EditJobs: true, DeleteJobs: true, ReviewApps: true, EditCompany: true, ManageTeam: true}},
		{RoleHR, Permissions{CreateJobs: true, EditJobs: true, ReviewApps: true}},
		{RoleRecruiter, Permissions{CreateJobs: true, EditJobs: true, ReviewApps: true}},
		{RoleViewer, Permissions{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got, ok := RolePermissions(tt.role)
			if !ok {
				t.Fatalf("RolePermissions(%s) unknown role", tt.role)
			}
			if got != tt.expected {
				t.Errorf("RolePermissions(%s) = %+v, expected %+v", tt.role, got, tt.expected)
			}
		})
	}
}

func TestRolePermissions_UnknownRole(t *testing.T) {
	if _, ok := RolePermissions(TeamRole("OWNER")); ok {
		t.Error("unknown role should not resolve")
	}
	if ValidTeamRole("MANAGER") {
		t.Error("MANAGER is not a known role")
	}
}

func TestRolePermissions_EveryRoleMapsEveryFlag(t *testing.T) {
	// The table is total: each of the four roles resolves, and only ADMIN
	// holds the destructive and administrative capabilities.
	for _, role := range []TeamRole{RoleAdmin, RoleHR, RoleRecruiter, RoleViewer} {
		p, ok := RolePermissions(role)
		if !ok {
			t.Fatalf("role %s missing from the table", role)
		}
		if role != RoleAdmin && (p.DeleteJobs || p.EditCompany || p.ManageTeam) {
			t.Errorf("role %s must not hold admin-only capabilities: %+v", role, p)
		}
	}
}

func TestTeamMember_ApplyPermissions_RoundTrip(t *testing.T) {
	var m TeamMember
	defaults, _ := RolePermissions(RoleHR)
	m.ApplyPermissions(defaults)

	if !m.CanCreateJobs || !m.CanEditJobs || !m.CanReviewApps {
		t.Error("HR defaults should grant create, edit and review")
	}
	if m.CanDeleteJobs || m.CanEditCompany || m.CanManageTeam {
		t.Error("HR defaults should not grant admin capabilities")
	}

	if got := m.PermissionSet(); got != defaults {
		t.Errorf("PermissionSet() = %+v, expected %+v", got, defaults)
	}
}
