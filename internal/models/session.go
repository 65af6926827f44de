package models

// Role is a user's role row. Only staff roles may open the admin panel.
type Role string

const (
	RoleHomeowner Role = "homeowner"
	RolePM        Role = "pm"
	RoleAdmin     Role = "admin"
)

// IsStaff reports whether the role is allowed into the admin view.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RolePM
}

// User is the authenticated identity carried by a Session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the authenticated user for one browser. A nil *Session means signed out.
type Session struct {
	User User `json:"user"`
	Role Role `json:"role,omitempty"` // only the demo variant fills this eagerly
}

// SessionEventKind identifies a session change published by the auth provider.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
)

// SessionEvent is delivered to session-change subscribers.
type SessionEvent struct {
	Kind   SessionEventKind `json:"kind"`
	UserID string           `json:"userId"`
	Email  string           `json:"email"`
}
