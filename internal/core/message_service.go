package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrMessagingDisabled = errors.New("messaging needs a live project and a signed-in user")
)

// messageService implements the MessageService interface.
type messageService struct {
	store  backend.Store
	logger *zap.Logger
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(b backend.Backend, logger *zap.Logger) MessageService {
	return &messageService{store: b.Store(), logger: logger}
}

// Send appends draft to the view's project as the view's user. The message is
// not added to view; it shows up on the next Build.
func (s *messageService) Send(ctx context.Context, view *models.ProjectView, draft string) error {
	body := strings.TrimSpace(draft)
	if body == "" {
		return ErrEmptyMessage
	}
	if view == nil || !view.CanMessage || view.ProjectRef == "" || view.Session == nil || view.Session.User.ID == "" {
		return ErrMessagingDisabled
	}

	msg := &models.MessageRecord{
		ProjectID:  view.ProjectRef,
		FromUserID: view.Session.User.ID,
		Body:       body,
	}
	id, err := s.store.InsertMessage(ctx, msg)
	if err != nil {
		return err
	}
	s.logger.Info("message sent", zap.String("project_id", view.ProjectRef), zap.String("message_id", id))
	return nil
}
