package models

import "time"

// The types in this file mirror the stored rows. The view model types in
// project.go are derived from them by the view builder.

// UserRecord is a row of the users collection. The document ID is the auth UID.
type UserRecord struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name,omitempty" firestore:"name,omitempty"`
	Role      Role      `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at"`
}

// PropertyRecord is a row of the properties collection.
type PropertyRecord struct {
	ID        string    `json:"id" firestore:"-" yaml:"id"`
	Address   string    `json:"address" firestore:"address" yaml:"address"`
	City      string    `json:"city,omitempty" firestore:"city" yaml:"city"`
	State     string    `json:"state,omitempty" firestore:"state" yaml:"state"`
	Zip       string    `json:"zip,omitempty" firestore:"zip" yaml:"zip"`
	Type      string    `json:"type,omitempty" firestore:"type,omitempty" yaml:"type"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at" yaml:"created_at"`
}

// MilestoneRecord is one payment milestone stored on a project.
type MilestoneRecord struct {
	Label  string  `json:"label" firestore:"label" yaml:"label"`
	Amount float64 `json:"amount" firestore:"amount" yaml:"amount"`
	Paid   bool    `json:"paid" firestore:"paid" yaml:"paid"`
}

// ProjectRecord is a row of the projects collection.
type ProjectRecord struct {
	ID            string            `json:"id" firestore:"-" yaml:"id"`
	PropertyID    string            `json:"propertyId" firestore:"property_id" yaml:"property_id"`
	Status        string            `json:"status" firestore:"status" yaml:"status"`
	InstallDate   *string           `json:"installDate,omitempty" firestore:"install_date" yaml:"install_date"`
	ArrivalWindow string            `json:"arrivalWindow,omitempty" firestore:"arrival_window" yaml:"arrival_window"`
	EstimateTotal float64           `json:"estimateTotal" firestore:"estimate_total" yaml:"estimate_total"`
	Milestones    []MilestoneRecord `json:"milestones,omitempty" firestore:"milestones,omitempty" yaml:"milestones"`
	CreatedAt     time.Time         `json:"createdAt" firestore:"created_at" yaml:"created_at"`
}

// ProjectRow is a project joined with its property. Property is nil when the
// referenced property row is missing.
type ProjectRow struct {
	ProjectRecord
	Property *PropertyRecord `json:"property,omitempty"`
}

// MemberRecord grants a user access to a project.
type MemberRecord struct {
	ProjectID string `json:"projectId" firestore:"project_id"`
	UserID    string `json:"userId" firestore:"user_id"`
	Role      Role   `json:"role" firestore:"role"`
}

// TimelineEventRecord is a row of the timeline_events collection. Date is YYYY-MM-DD.
type TimelineEventRecord struct {
	ID          string `json:"id" firestore:"-" yaml:"id"`
	ProjectID   string `json:"projectId" firestore:"project_id" yaml:"project_id"`
	Date        string `json:"date" firestore:"date" yaml:"date"`
	Title       string `json:"title" firestore:"title" yaml:"title"`
	Description string `json:"description" firestore:"description" yaml:"description"`
	Done        bool   `json:"done" firestore:"done" yaml:"done"`
}

// PhotoRecord is a row of the photos collection.
type PhotoRecord struct {
	ID        string    `json:"id" firestore:"-" yaml:"id"`
	ProjectID string    `json:"projectId" firestore:"project_id" yaml:"project_id"`
	Label     string    `json:"label" firestore:"label" yaml:"label"`
	FileURL   string    `json:"fileUrl" firestore:"file_url" yaml:"file_url"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at" yaml:"created_at"`
}

// DocumentRecord is a row of the documents collection. FileURL is a "bucket:path" reference.
type DocumentRecord struct {
	ID        string    `json:"id" firestore:"-" yaml:"id"`
	ProjectID string    `json:"projectId" firestore:"project_id" yaml:"project_id"`
	Name      string    `json:"name" firestore:"name" yaml:"name"`
	SizeBytes int64     `json:"sizeBytes" firestore:"size_bytes" yaml:"size_bytes"`
	FileURL   string    `json:"fileUrl" firestore:"file_url" yaml:"file_url"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at" yaml:"created_at"`
}

// MessageRecord is a row of the messages collection.
type MessageRecord struct {
	ID         string    `json:"id" firestore:"-" yaml:"id"`
	ProjectID  string    `json:"projectId" firestore:"project_id" yaml:"project_id"`
	FromUserID string    `json:"fromUserId" firestore:"from_user_id" yaml:"from_user_id"`
	Body       string    `json:"body" firestore:"body" yaml:"body"`
	CreatedAt  time.Time `json:"createdAt" firestore:"created_at" yaml:"created_at"`
}

// MessageRow is a message joined with its author's display name (empty if unknown).
type MessageRow struct {
	MessageRecord `yaml:",inline"`
	AuthorName    string `json:"authorName,omitempty" yaml:"author_name"`
}

// AuditLog represents an audit trail event for staff actions.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string                 `json:"userId" firestore:"userId"`
	Action     string                 `json:"action" firestore:"action"` // e.g. "PROJECT_CREATE", "MEMBER_GRANT", "INVITE_SENT"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
