package model

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// User is the currently authenticated actor. At most one session user
// exists per process; the auth service owns that state.
type User struct {
	Username    string `json:"username"`
	Password    string `json:"-"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
