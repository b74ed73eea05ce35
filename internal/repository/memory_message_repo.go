package repository

import (
	"context"
	"errors"
	"sync"

	"hellomap/internal/domain"
)

var ErrDuplicateMessageID = errors.New("duplicate message id")

// MemoryMessageRepository mantiene los mensajes en memoria, en orden de inserción.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []domain.Message
	ids      map[string]struct{}
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		ids: make(map[string]struct{}),
	}
}

func (r *MemoryMessageRepository) Create(ctx context.Context, message domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[message.ID]; ok {
		return ErrDuplicateMessageID
	}
	r.ids[message.ID] = struct{}{}
	r.messages = append(r.messages, message)
	return nil
}

func (r *MemoryMessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func (r *MemoryMessageRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
