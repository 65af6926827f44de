package models

// MemberOutcome says what happened to the homeowner email on an admin action.
type MemberOutcome string

const (
	MemberNone    MemberOutcome = ""        // no email supplied
	MemberGranted MemberOutcome = "granted" // existing user, membership upserted
	MemberInvited MemberOutcome = "invited" // no such user, sign-in link sent
)

// CreateProjectResult is returned by a successful project creation.
type CreateProjectResult struct {
	Project ProjectRow    `json:"project"`
	Outcome MemberOutcome `json:"outcome"`
}

// Homeowner is a row of the demo admin roster. It lives only in process memory.
type Homeowner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Address   string `json:"address,omitempty"`
	ProjectID string `json:"projectId"`
}
