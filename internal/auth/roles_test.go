package auth

import "testing"

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"admin", "doctor", "patient"} {
		role, ok := ParseRole(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if string(role) != raw {
			t.Fatalf("expected role %q, got %q", raw, role)
		}
	}
	if _, ok := ParseRole("user"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
	if _, ok := ParseRole("Admin"); ok {
		t.Fatalf("role names are lowercase; Admin must be rejected")
	}
}

func TestAdminHasEveryPermission(t *testing.T) {
	for _, perms := range rolePermissions {
		for p := range perms {
			if !RoleAdmin.Can(p) {
				t.Fatalf("admin missing permission %q", p)
			}
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if !RolePatient.Can(PermBookAppointment) {
		t.Fatalf("patient must be able to book appointments")
	}
	if RolePatient.Can(PermWritePrescription) {
		t.Fatalf("patient must not write prescriptions")
	}
	if !RoleDoctor.Can(PermWritePrescription) {
		t.Fatalf("doctor must write prescriptions")
	}
	if RoleDoctor.Can(PermManageUsers) {
		t.Fatalf("doctor must not manage users")
	}
	if !RolePatient.Can(PermListPayments) {
		t.Fatalf("patient must see their payments")
	}
	if RolePatient.Can(PermManagePayments) {
		t.Fatalf("patient must not settle payments")
	}
	if Role("unknown").Can(PermBookAppointment) {
		t.Fatalf("unknown role must have no permissions")
	}
}
