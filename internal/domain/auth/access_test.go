package auth

import "testing"

func TestCheckAccess(t *testing.T) {
	admin := &Identity{UserID: 1, Email: "a@b.com", Role: "ADMIN"}
	employee := &Identity{UserID: 2, Email: "e@b.com", Role: "EMPLOYEE", EmployeeID: Int64Ptr(42)}
	unlinked := &Identity{UserID: 3, Email: "u@b.com", Role: "employee"}
	odd := &Identity{UserID: 4, Email: "o@b.com", Role: "AUDITOR"}

	tests := []struct {
		name     string
		identity *Identity
		required Role
		want     AccessDecision
	}{
		{"absent identity", nil, RoleAdmin, AccessDecision{RedirectTo: "/login", Reason: ReasonNoToken}},
		{"absent identity, no role required", nil, "", AccessDecision{RedirectTo: "/login", Reason: ReasonNoToken}},
		{"admin on admin page", admin, RoleAdmin, AccessDecision{Allowed: true}},
		{"admin, lower-case requirement", admin, "admin", AccessDecision{Allowed: true}},
		{"employee on employee page", employee, RoleEmployee, AccessDecision{Allowed: true}},
		{
			"employee on admin page", employee, RoleAdmin,
			AccessDecision{RedirectTo: "/employee-dashboard", Reason: ReasonRoleMismatch},
		},
		{
			"admin on employee page", admin, RoleEmployee,
			AccessDecision{RedirectTo: "/admin-dashboard", Reason: ReasonRoleMismatch},
		},
		{
			"employee without linked record", unlinked, RoleEmployee,
			AccessDecision{RedirectTo: "/login", Reason: ReasonRoleMismatch},
		},
		{"unknown role, admin page", odd, RoleAdmin, AccessDecision{RedirectTo: "/login", Reason: ReasonRoleMismatch}},
		{"any role page", odd, "", AccessDecision{Allowed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckAccess(tt.identity, tt.required); got != tt.want {
				t.Fatalf("CheckAccess() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheckAccess_EmployeeRoleAnyCasingWithoutLink(t *testing.T) {
	for _, role := range []Role{"employee", "EMPLOYEE", "Employee", "eMpLoYeE"} {
		got := CheckAccess(&Identity{UserID: 5, Email: "x@y.z", Role: role}, RoleEmployee)
		if got.Allowed || got.Reason != ReasonRoleMismatch {
			t.Fatalf("role %q: expected ROLE_MISMATCH, got %+v", role, got)
		}
	}
}

func TestRoleHomePage(t *testing.T) {
	cases := map[Role]string{
		"admin":    "/admin-dashboard",
		"EMPLOYEE": "/employee-dashboard",
		"":         "/login",
		"manager":  "/login",
	}
	for role, want := range cases {
		if got := RoleHomePage(role); got != want {
			t.Fatalf("RoleHomePage(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestInvalidSession(t *testing.T) {
	d := InvalidSession()
	if d.Allowed || d.RedirectTo != LoginPath || d.Reason != ReasonInvalidSession {
		t.Fatalf("unexpected decision %+v", d)
	}
}
