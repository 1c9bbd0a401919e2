package models

// Role is the coarse privilege tag attached to an authenticated session.
// The empty string means the account carries no role (legacy/ungraded).
type Role string

// Role constants
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Session is the client's record of who is currently authenticated and with
// what privileges. The zero value is the anonymous session.
//
// Invariant: Token is present iff Username is present. Role may be empty for
// an authenticated session.
type Session struct {
	Token    string
	Username string
	Role     Role
}

// Authenticated reports whether the session holds a usable credential.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Username != ""
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == RoleAdmin
}
