package constants

// Action is a capability checked before a manager-level operation. Every
// call site goes through Can so the policy lives in one table instead of
// scattered role comparisons.
type Action string

const (
	ActionViewEmployees   Action = "view_employees"
	ActionInviteEmployee  Action = "invite_employee"
	ActionEditEmployee    Action = "edit_employee"
	ActionDeleteEmployee  Action = "delete_employee"
	ActionEditProgram     Action = "edit_program"
	ActionDeleteProgram   Action = "delete_program"
	ActionCreateTask      Action = "create_task"
	ActionEditAnyTask     Action = "edit_any_task"
	ActionDeleteTask      Action = "delete_task"
	ActionImportTasks     Action = "import_tasks"
	ActionViewTeamReports Action = "view_team_reports"
)

// AllActions enumerates every known action, mainly for policy tests.
var AllActions = []Action{
	ActionViewEmployees,
	ActionInviteEmployee,
	ActionEditEmployee,
	ActionDeleteEmployee,
	ActionEditProgram,
	ActionDeleteProgram,
	ActionCreateTask,
	ActionEditAnyTask,
	ActionDeleteTask,
	ActionImportTasks,
	ActionViewTeamReports,
}

var permissions = map[RoleEnum]map[Action]struct{}{
	RoleManager: {
		ActionViewEmployees:   {},
		ActionInviteEmployee:  {},
		ActionEditEmployee:    {},
		ActionDeleteEmployee:  {},
		ActionEditProgram:     {},
		ActionDeleteProgram:   {},
		ActionCreateTask:      {},
		ActionEditAnyTask:     {},
		ActionDeleteTask:      {},
		ActionImportTasks:     {},
		ActionViewTeamReports: {},
	},
	// Employees act only on their own assigned tasks; that scoping is
	// enforced in the task service, not through actions.
	RoleEmployee: {},
}

// Can reports whether the role is allowed to perform the action.
func Can(role RoleEnum, action Action) bool {
	allowed, ok := permissions[role]
	if !ok {
		return false
	}
	_, ok = allowed[action]
	return ok
}
