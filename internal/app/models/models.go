package models

// Role is the kind of account a session is authenticated as
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// RequiresCourse reports whether the role must pick a course before reaching the workspace
func (r Role) RequiresCourse() bool {
	return r != RoleAdmin
}

// Tab is the active workspace tab
type Tab string

const (
	TabChat     Tab = "chat"
	TabLibrary  Tab = "library"
	TabSettings Tab = "settings"
)

// Valid reports whether t is one of the known tabs
func (t Tab) Valid() bool {
	switch t {
	case TabChat, TabLibrary, TabSettings:
		return true
	}
	return false
}

// ThemeMode is the persisted light/dark preference
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)
