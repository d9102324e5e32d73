package session

// Package session contains domain-level types for the client session.
// It is pure and free of storage/transport concerns.

// Role represents a clinical application role.
// Keep string form for easy persistence; values match the backend exactly.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleDoctor Role = "Doctor"
	RoleNurse  Role = "Nurse"
)

// Valid reports whether the role is one of the known clinical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse:
		return true
	}
	return false
}

// ParseRole returns the Role for s, or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// User is the identity snapshot returned by the backend at login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TokenPair holds the bearer credentials for a session.
// Access and Refresh are always set or cleared together with the user.
type TokenPair struct {
	Access  string
	Refresh string
}

// Zero reports whether the pair holds no credentials.
func (t TokenPair) Zero() bool { return t.Access == "" && t.Refresh == "" }

// Scope selects which of the two state stores holds a value.
type Scope string

const (
	// ScopePersistent survives application restarts ("remember me").
	ScopePersistent Scope = "persistent"
	// ScopeSession lives only for the process lifetime.
	ScopeSession Scope = "session"
)

// Other returns the opposite scope.
func (s Scope) Other() Scope {
	if s == ScopePersistent {
		return ScopeSession
	}
	return ScopePersistent
}
