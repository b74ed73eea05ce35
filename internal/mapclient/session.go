package mapclient

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hellomap/internal/domain"
	"hellomap/internal/geo"
)

var (
	ErrNotReady       = errors.New("message not ready to submit")
	ErrSubmitInFlight = errors.New("submission already in flight")
)

// MessageAPI es el contrato de red que la sesión consume.
type MessageAPI interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	CreateMessage(ctx context.Context, draft domain.MessageDraft) (domain.Message, error)
}

// Session es dueña del estado del cliente y lo avanza con Transition.
type Session struct {
	logger  *zap.Logger
	api     MessageAPI
	locator geo.Locator

	mu    sync.Mutex
	state State
}

func NewSession(logger *zap.Logger, api MessageAPI, locator geo.Locator) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		logger:  logger,
		api:     api,
		locator: locator,
		state:   State{Phase: PhaseIdle},
	}
}

// State devuelve una copia del estado actual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) apply(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Transition(s.state, e)
	return s.state
}

// Load resuelve la ubicación y trae la lista de mensajes en paralelo.
// Un fallo de ubicación no es error de Load: queda reflejado en el estado.
func (s *Session) Load(ctx context.Context) ([]domain.Message, error) {
	var (
		wg       sync.WaitGroup
		messages []domain.Message
		listErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		messages, listErr = s.api.ListMessages(ctx)
	}()

	if s.locator != nil {
		loc, err := s.locator.Locate(ctx)
		if err != nil {
			s.logger.Warn("location unavailable", zap.Error(err))
			s.apply(LocationFailed{Err: err})
		} else {
			s.apply(LocationResolved{Location: loc})
		}
	} else {
		s.apply(LocationFailed{Err: geo.ErrLocationUnavailable})
	}

	wg.Wait()
	if listErr != nil {
		s.logger.Warn("list messages failed", zap.Error(listErr))
		return nil, listErr
	}
	return messages, nil
}

// SetInput actualiza el formulario.
func (s *Session) SetInput(name, message string) State {
	return s.apply(InputChanged{Name: name, Message: message})
}

// Submit envía el mensaje. Solo hay un envío en curso por sesión.
func (s *Session) Submit(ctx context.Context) (domain.Message, error) {
	return s.send(ctx, SubmitRequested{})
}

// Retry reintenta un envío fallido con el mismo formulario.
func (s *Session) Retry(ctx context.Context) (domain.Message, error) {
	return s.send(ctx, RetryRequested{})
}

func (s *Session) send(ctx context.Context, trigger Event) (domain.Message, error) {
	s.mu.Lock()
	if s.state.Phase == PhaseSubmitting {
		s.mu.Unlock()
		return domain.Message{}, ErrSubmitInFlight
	}
	s.state = Transition(s.state, trigger)
	if s.state.Phase != PhaseSubmitting {
		s.mu.Unlock()
		return domain.Message{}, ErrNotReady
	}
	draft := s.state.Draft()
	s.mu.Unlock()

	msg, err := s.api.CreateMessage(ctx, draft)
	if err != nil {
		s.logger.Warn("create message failed", zap.Error(err))
		s.apply(SubmitFailed{Err: err})
		return domain.Message{}, err
	}
	s.apply(SubmitSucceeded{Message: msg})
	return msg, nil
}
