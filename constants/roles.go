package constants

type RoleEnum string

const (
	RoleManager  RoleEnum = "manager"
	RoleEmployee RoleEnum = "employee"
)

func IsValidRole(r string) bool {
	return r == string(RoleManager) || r == string(RoleEmployee)
}
