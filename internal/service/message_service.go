package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hellomap/internal/domain"
	"hellomap/internal/repository"
)

// MessageService encapsula validación y persistencia de mensajes del mapa.
type MessageService struct {
	logger *zap.Logger
	repo   repository.MessageRepository
	now    func() time.Time
	newID  func() string
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrStoreUnavailable            = errors.New("message store unavailable")
)

func NewMessageService(logger *zap.Logger, repo repository.MessageRepository) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create valida el borrador, asigna id y fecha y lo persiste.
// El id y la fecha nunca vienen del cliente.
func (s *MessageService) Create(ctx context.Context, draft domain.MessageDraft) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}
	if err := domain.ValidateDraft(draft); err != nil {
		return domain.Message{}, err
	}

	// BSON guarda milisegundos; truncamos para que create y list devuelvan la misma fecha.
	msg := domain.NewMessage(s.newID(), draft, s.now().UTC().Truncate(time.Millisecond))
	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("persist message failed", zap.Error(err), zap.String("message_id", msg.ID))
		return domain.Message{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return msg, nil
}

// List devuelve todos los mensajes guardados; nunca nil.
func (s *MessageService) List(ctx context.Context) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	messages, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Ping verifica que el almacenamiento responda.
func (s *MessageService) Ping(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrMessageServiceNotConfigured
	}
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
