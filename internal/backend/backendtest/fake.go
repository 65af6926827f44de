// Package backendtest provides an in-memory backend.Backend for tests.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Fake is a scriptable backend. Zero values behave like an empty live backend.
type Fake struct {
	ModeValue   backend.Mode
	AuthFake    *Auth
	StoreFake   *Store
	StorageFake *Storage
}

// New returns a live-mode fake with empty collaborators.
func New() *Fake {
	return &Fake{
		ModeValue:   backend.ModeLive,
		AuthFake:    NewAuth(),
		StoreFake:   NewStore(),
		StorageFake: &Storage{},
	}
}

func (f *Fake) Mode() backend.Mode       { return f.ModeValue }
func (f *Fake) Auth() backend.Auth       { return f.AuthFake }
func (f *Fake) Store() backend.Store     { return f.StoreFake }
func (f *Fake) Storage() backend.Storage { return f.StorageFake }

// Auth is a fake auth provider keyed by session token.
type Auth struct {
	mu        sync.Mutex
	Sessions  map[string]*models.Session
	Roles     map[string]models.Role
	RoleErr   error
	SignInErr error
	Invites   []string
	LinksSent []string
	SignedOut []string
	hub       *backend.Hub
}

func NewAuth() *Auth {
	return &Auth{
		Sessions: make(map[string]*models.Session),
		Roles:    make(map[string]models.Role),
		hub:      backend.NewHub(),
	}
}

// AddSession registers a token that resolves to a session for userID.
func (a *Auth) AddSession(token, userID, email string) *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := &models.Session{User: models.User{ID: userID, Email: email}}
	a.Sessions[token] = s
	return s
}

func (a *Auth) SignInWithEmail(_ context.Context, email, _ string) (*backend.SignIn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.SignInErr != nil {
		return nil, backend.Wrap("auth.signInWithEmail", a.SignInErr)
	}
	a.LinksSent = append(a.LinksSent, email)
	return &backend.SignIn{}, nil
}

// CompleteEmailLink accepts oobCode "valid" and mints token "tok-<email>".
func (a *Auth) CompleteEmailLink(_ context.Context, email, oobCode string) (*backend.SignIn, error) {
	if oobCode != "valid" {
		return nil, backend.Wrap("auth.emailLinkSignin", fmt.Errorf("INVALID_OOB_CODE"))
	}
	token := "tok-" + email
	s := a.AddSession(token, "uid-"+email, email)
	a.hub.Publish(models.SessionEvent{Kind: models.SessionSignedIn, UserID: s.User.ID, Email: email})
	return &backend.SignIn{Session: s, Token: token}, nil
}

func (a *Auth) SessionFromToken(_ context.Context, token string) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.Sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, backend.ErrNoSession
}

func (a *Auth) SignOut(_ context.Context, s *models.Session) error {
	if s == nil {
		return nil
	}
	a.mu.Lock()
	a.SignedOut = append(a.SignedOut, s.User.ID)
	for tok, sess := range a.Sessions {
		if sess.User.ID == s.User.ID {
			delete(a.Sessions, tok)
		}
	}
	a.mu.Unlock()
	a.hub.Publish(models.SessionEvent{Kind: models.SessionSignedOut, UserID: s.User.ID, Email: s.User.Email})
	return nil
}

func (a *Auth) Role(_ context.Context, userID string) (models.Role, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.RoleErr != nil {
		return "", backend.Wrap("store.userRole", a.RoleErr)
	}
	return a.Roles[userID], nil
}

func (a *Auth) Invite(_ context.Context, email, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Invites = append(a.Invites, email)
	return nil
}

func (a *Auth) Subscribe(fn func(models.SessionEvent)) func() { return a.hub.Subscribe(fn) }

// Subscribers is the number of live subscriptions.
func (a *Auth) Subscribers() int { return a.hub.Len() }

// Publish injects a session event.
func (a *Auth) Publish(ev models.SessionEvent) { a.hub.Publish(ev) }

// Store is an in-memory row store that counts calls per operation.
type Store struct {
	mu sync.Mutex

	Members     map[string][]string // userID -> projectIDs
	Projects    map[string]models.ProjectRecord
	Properties  map[string]models.PropertyRecord
	Users       map[string]models.UserRecord
	Timeline    map[string][]models.TimelineEventRecord
	PhotoRows   map[string][]models.PhotoRecord
	DocRows     map[string][]models.DocumentRecord
	MessageRows map[string][]models.MessageRow

	Inserted struct {
		Messages   []models.MessageRecord
		Properties []models.PropertyRecord
		Projects   []models.ProjectRecord
		Members    []models.MemberRecord
		Audit      []models.AuditLog
	}

	// Errs fails the named operation, e.g. Errs["MemberProjectIDs"].
	Errs  map[string]error
	Calls map[string]int

	seq int
}

func NewStore() *Store {
	return &Store{
		Members:     make(map[string][]string),
		Projects:    make(map[string]models.ProjectRecord),
		Properties:  make(map[string]models.PropertyRecord),
		Users:       make(map[string]models.UserRecord),
		Timeline:    make(map[string][]models.TimelineEventRecord),
		PhotoRows:   make(map[string][]models.PhotoRecord),
		DocRows:     make(map[string][]models.DocumentRecord),
		MessageRows: make(map[string][]models.MessageRow),
		Errs:        make(map[string]error),
		Calls:       make(map[string]int),
	}
}

// CallCount returns how often op ran.
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[op]
}

func (s *Store) enter(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls[op]++
	if err := s.Errs[op]; err != nil {
		return backend.Wrap("store."+op, err)
	}
	return nil
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// AddProject stores a project with an optional property and returns its ID.
func (s *Store) AddProject(p models.ProjectRecord, prop *models.PropertyRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prop != nil {
		if prop.ID == "" {
			prop.ID = s.nextID("prop")
		}
		s.Properties[prop.ID] = *prop
		p.PropertyID = prop.ID
	}
	if p.ID == "" {
		p.ID = s.nextID("proj")
	}
	s.Projects[p.ID] = p
	return p.ID
}

func (s *Store) row(p models.ProjectRecord) models.ProjectRow {
	r := models.ProjectRow{ProjectRecord: p}
	if prop, ok := s.Properties[p.PropertyID]; ok {
		r.Property = &prop
	}
	return r
}

func (s *Store) MemberProjectIDs(_ context.Context, userID string) ([]string, error) {
	if err := s.enter("MemberProjectIDs"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Members[userID]...), nil
}

func (s *Store) ProjectsByIDs(_ context.Context, ids []string) ([]models.ProjectRow, error) {
	if err := s.enter("ProjectsByIDs"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProjectRow
	for _, id := range ids {
		if p, ok := s.Projects[id]; ok {
			out = append(out, s.row(p))
		}
	}
	return out, nil
}

func (s *Store) ListProjects(context.Context) ([]models.ProjectRow, error) {
	if err := s.enter("ListProjects"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProjectRow, 0, len(s.Projects))
	for _, p := range s.Projects {
		out = append(out, s.row(p))
	}
	return out, nil
}

func (s *Store) TimelineEvents(_ context.Context, projectID string) ([]models.TimelineEventRecord, error) {
	if err := s.enter("TimelineEvents"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TimelineEventRecord(nil), s.Timeline[projectID]...), nil
}

func (s *Store) Photos(_ context.Context, projectID string) ([]models.PhotoRecord, error) {
	if err := s.enter("Photos"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PhotoRecord(nil), s.PhotoRows[projectID]...), nil
}

func (s *Store) Documents(_ context.Context, projectID string) ([]models.DocumentRecord, error) {
	if err := s.enter("Documents"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DocumentRecord(nil), s.DocRows[projectID]...), nil
}

func (s *Store) Messages(_ context.Context, projectID string) ([]models.MessageRow, error) {
	if err := s.enter("Messages"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MessageRow(nil), s.MessageRows[projectID]...), nil
}

func (s *Store) InsertMessage(_ context.Context, msg *models.MessageRecord) (string, error) {
	if err := s.enter("InsertMessage"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.nextID("msg")
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.Inserted.Messages = append(s.Inserted.Messages, *msg)
	s.MessageRows[msg.ProjectID] = append(s.MessageRows[msg.ProjectID], models.MessageRow{MessageRecord: *msg})
	return msg.ID, nil
}

func (s *Store) InsertProperty(_ context.Context, prop *models.PropertyRecord) (string, error) {
	if err := s.enter("InsertProperty"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prop.ID = s.nextID("prop")
	s.Properties[prop.ID] = *prop
	s.Inserted.Properties = append(s.Inserted.Properties, *prop)
	return prop.ID, nil
}

func (s *Store) InsertProject(_ context.Context, p *models.ProjectRecord) (string, error) {
	if err := s.enter("InsertProject"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("proj")
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.Projects[p.ID] = *p
	s.Inserted.Projects = append(s.Inserted.Projects, *p)
	return p.ID, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*models.UserRecord, error) {
	if err := s.enter("UserByEmail"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, backend.ErrNotFound
}

func (s *Store) UpsertMember(_ context.Context, m models.MemberRecord) error {
	if err := s.enter("UpsertMember"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inserted.Members = append(s.Inserted.Members, m)
	for _, id := range s.Members[m.UserID] {
		if id == m.ProjectID {
			return nil
		}
	}
	s.Members[m.UserID] = append(s.Members[m.UserID], m.ProjectID)
	return nil
}

func (s *Store) AppendAudit(_ context.Context, e models.AuditLog) error {
	if err := s.enter("AppendAudit"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inserted.Audit = append(s.Inserted.Audit, e)
	return nil
}

// Storage signs everything as "https://signed.example/<fileURL>" unless Err is set.
type Storage struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

func (s *Storage) SignedURL(_ context.Context, fileURL string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, fileURL)
	if s.Err != nil {
		return "", s.Err
	}
	if _, err := models.ParseFileRef(fileURL); err != nil {
		return "", err
	}
	return "https://signed.example/" + fileURL, nil
}
