package constants

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// HasElevatedAccess reports whether the role bypasses hierarchy-based
// permission checks. Time logging is the one place this does not apply.
func HasElevatedAccess(r Role) bool {
	return r == RoleAdmin || r == RoleHR
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}
