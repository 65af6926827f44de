package core

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

const (
	defaultPropertyType = "Residential"
	defaultStatus       = "Scheduled"
	unscheduled         = "TBD"
	unknownAuthor       = "User"
	messageTimeLayout   = "2006-01-02 15:04"
	shortIDLen          = 8
)

// ViewBuilder assembles the dashboard view model. Fetch failures never reach
// the caller: they are logged and the affected part of the view stays empty.
type ViewBuilder struct {
	backend    backend.Backend
	contractor models.Contractor
	logger     *zap.Logger
}

var _ ViewService = (*ViewBuilder)(nil)

// NewViewBuilder creates a new ViewBuilder.
func NewViewBuilder(b backend.Backend, contractor models.Contractor, logger *zap.Logger) *ViewBuilder {
	return &ViewBuilder{backend: b, contractor: contractor, logger: logger}
}

// relatedRows are the four row sets fetched once the current project is known.
type relatedRows struct {
	timeline  []models.TimelineEventRecord
	photos    []models.PhotoRecord
	documents []models.DocumentRecord
	messages  []models.MessageRow
}

// Build returns the view model for session. A live backend with no session,
// or a user without memberships, yields a view with a nil Project.
func (v *ViewBuilder) Build(ctx context.Context, session *models.Session) *models.ProjectView {
	mode := v.backend.Mode()
	view := &models.ProjectView{Mode: string(mode), Session: session}

	var userID string
	if session != nil {
		userID = session.User.ID
	}
	if mode == backend.ModeLive && userID == "" {
		return view
	}

	current, ok := v.currentProject(ctx, userID)
	if !ok {
		return view
	}

	rows := v.fetchRelated(ctx, current.ID)
	project := v.normalize(current, rows)

	view.Project = project
	view.Progress = project.Progress()
	if mode == backend.ModeLive {
		view.ProjectRef = current.ID
		view.CanMessage = true
	}
	return view
}

// currentProject picks the most recently created project the user belongs to.
func (v *ViewBuilder) currentProject(ctx context.Context, userID string) (models.ProjectRow, bool) {
	store := v.backend.Store()

	ids, err := store.MemberProjectIDs(ctx, userID)
	if err != nil {
		v.logger.Warn("membership lookup failed", zap.String("uid", userID), zap.Error(err))
		return models.ProjectRow{}, false
	}
	if len(ids) == 0 {
		return models.ProjectRow{}, false
	}

	projects, err := store.ProjectsByIDs(ctx, ids)
	if err != nil {
		v.logger.Warn("project fetch failed", zap.String("uid", userID), zap.Error(err))
		return models.ProjectRow{}, false
	}
	if len(projects) == 0 {
		return models.ProjectRow{}, false
	}
	SortNewestFirst(projects)
	return projects[0], true
}

// fetchRelated loads the four row sets concurrently. A failed fetch leaves its
// set empty; the others are still used.
func (v *ViewBuilder) fetchRelated(ctx context.Context, projectID string) relatedRows {
	store := v.backend.Store()
	var rows relatedRows
	var wg conc.WaitGroup

	wg.Go(func() {
		t, err := store.TimelineEvents(ctx, projectID)
		v.logFetch("timeline", projectID, err)
		rows.timeline = t
	})
	wg.Go(func() {
		p, err := store.Photos(ctx, projectID)
		v.logFetch("photos", projectID, err)
		rows.photos = p
	})
	wg.Go(func() {
		d, err := store.Documents(ctx, projectID)
		v.logFetch("documents", projectID, err)
		rows.documents = d
	})
	wg.Go(func() {
		m, err := store.Messages(ctx, projectID)
		v.logFetch("messages", projectID, err)
		rows.messages = m
	})
	wg.Wait()

	// ordering per entity
	sort.SliceStable(rows.timeline, func(i, j int) bool { return rows.timeline[i].Date < rows.timeline[j].Date })
	sort.SliceStable(rows.photos, func(i, j int) bool { return rows.photos[i].CreatedAt.After(rows.photos[j].CreatedAt) })
	sort.SliceStable(rows.documents, func(i, j int) bool { return rows.documents[i].CreatedAt.After(rows.documents[j].CreatedAt) })
	sort.SliceStable(rows.messages, func(i, j int) bool { return rows.messages[i].CreatedAt.Before(rows.messages[j].CreatedAt) })
	return rows
}

func (v *ViewBuilder) logFetch(what, projectID string, err error) {
	if err != nil {
		v.logger.Warn("related rows fetch failed", zap.String("rows", what), zap.String("project_id", projectID), zap.Error(err))
	}
}

func (v *ViewBuilder) normalize(row models.ProjectRow, rows relatedRows) *models.Project {
	p := &models.Project{
		ID:         shortID(row.ID),
		Property:   models.Property{Type: defaultPropertyType},
		Contractor: v.contractor,
		Status:     orDefault(row.Status, defaultStatus),
		Schedule: models.Schedule{
			InstallDate:   unscheduled,
			ArrivalWindow: orDefault(row.ArrivalWindow, unscheduled),
		},
		Financials: financials(row.EstimateTotal, row.Milestones),
		Timeline:   make([]models.TimelineEvent, 0, len(rows.timeline)),
		Photos:     make([]models.Photo, 0, len(rows.photos)),
		Documents:  make([]models.Document, 0, len(rows.documents)),
		Messages:   make([]models.Message, 0, len(rows.messages)),
	}
	if row.Property != nil {
		p.Property.Address = row.Property.Address
		p.Property.Type = orDefault(row.Property.Type, defaultPropertyType)
	}
	if row.InstallDate != nil && *row.InstallDate != "" {
		p.Schedule.InstallDate = *row.InstallDate
	}

	for _, t := range rows.timeline {
		p.Timeline = append(p.Timeline, models.TimelineEvent{Date: t.Date, Title: t.Title, Desc: t.Description, Done: t.Done})
	}
	for _, ph := range rows.photos {
		p.Photos = append(p.Photos, models.Photo{ID: ph.ID, Label: ph.Label, URL: ph.FileURL})
	}
	for _, d := range rows.documents {
		p.Documents = append(p.Documents, models.Document{ID: d.ID, Name: d.Name, Size: models.FormatSize(d.SizeBytes), FileURL: d.FileURL})
	}
	for _, m := range rows.messages {
		p.Messages = append(p.Messages, models.Message{
			ID:   m.ID,
			From: orDefault(m.AuthorName, unknownAuthor),
			At:   formatMessageTime(m.CreatedAt),
			Text: m.Body,
		})
	}
	return p
}

func financials(total float64, milestones []models.MilestoneRecord) models.Financials {
	f := models.Financials{EstimateTotal: total, Milestones: make([]models.Milestone, 0, len(milestones))}
	for _, m := range milestones {
		f.Milestones = append(f.Milestones, models.Milestone{Label: m.Label, Amount: m.Amount, Paid: m.Paid})
		if m.Paid {
			f.Paid += m.Amount
		}
	}
	f.Outstanding = f.EstimateTotal - f.Paid
	return f
}

// SortNewestFirst orders project rows by creation time, newest first.
func SortNewestFirst(rows []models.ProjectRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func formatMessageTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(messageTimeLayout)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
