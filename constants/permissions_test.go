package constants

import "testing"

func TestManagerCanEverything(t *testing.T) {
	for _, action := range AllActions {
		if !Can(RoleManager, action) {
			t.Errorf("manager denied %q", action)
		}
	}
}

func TestEmployeeCanNothing(t *testing.T) {
	for _, action := range AllActions {
		if Can(RoleEmployee, action) {
			t.Errorf("employee allowed %q", action)
		}
	}
}

func TestUnknownRoleAndAction(t *testing.T) {
	if Can(RoleEnum("superadmin"), ActionDeleteTask) {
		t.Errorf("unknown role allowed")
	}
	if Can(RoleManager, Action("launch_missiles")) {
		t.Errorf("unknown action allowed")
	}
}

func TestIsValidRole(t *testing.T) {
	if !IsValidRole(string(RoleManager)) || !IsValidRole(string(RoleEmployee)) {
		t.Errorf("known roles rejected")
	}
	if IsValidRole("superadmin") || IsValidRole("") {
		t.Errorf("unknown role accepted")
	}
}
