package models

// SignInRequest is the login form.
type SignInRequest struct {
	Email string `form:"email" json:"email"`
}

// SendMessageRequest is the message composer form.
type SendMessageRequest struct {
	Body string `form:"body" json:"body"`
}

// CreateProjectRequest is the staff project-creation form. Only Address is required.
type CreateProjectRequest struct {
	Address        string `form:"address" json:"address"`
	City           string `form:"city" json:"city"`
	State          string `form:"state" json:"state"`
	Zip            string `form:"zip" json:"zip"`
	Status         string `form:"status" json:"status"`
	InstallDate    string `form:"install_date" json:"install_date"`
	ArrivalWindow  string `form:"arrival_window" json:"arrival_window"`
	HomeownerEmail string `form:"homeowner_email" json:"homeowner_email"`
}

// DefaultCreateProjectRequest is the pre-filled state of an empty form.
func DefaultCreateProjectRequest() CreateProjectRequest {
	return CreateProjectRequest{State: "NJ", Status: "Scheduled", ArrivalWindow: "8:00–9:00 AM"}
}

// AddMemberRequest grants a homeowner access to an existing project.
type AddMemberRequest struct {
	Email string `form:"email" json:"email"`
}

// DemoHomeownerRequest is the demo roster form.
type DemoHomeownerRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Address string `form:"address" json:"address"`
}
