package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleSchool  = "school"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleStudent = "student"
)

// Role error message templates
const (
	ErrOnlyStaffCanAccess   = "Only admin, school or teacher accounts may access %s."
	ErrOnlyManagersCanWrite = "Only admin or school accounts may modify %s."
	ErrOnlyAdminsCanAccess  = "Only admins may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanWrite, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleSchool,
		RoleTeacher,
		RoleParent,
		RoleStudent,
	}

	// read access to school back-office data
	StaffRoles = []string{
		RoleAdmin,
		RoleSchool,
		RoleTeacher,
	}

	ManagerRoles = []string{
		RoleAdmin,
		RoleSchool,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
