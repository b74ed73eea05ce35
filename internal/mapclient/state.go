package mapclient

import (
	"hellomap/internal/domain"
	"hellomap/internal/geo"
)

// Phase es la fase del envío dentro de la sesión del cliente.
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhaseAwaiting            Phase = "awaiting"
	PhaseSubmitting          Phase = "submitting"
	PhaseConfirmed           Phase = "confirmed"
	PhaseFailed              Phase = "failed"
	PhaseLocationUnavailable Phase = "location_unavailable"
)

// State es la sesión del cliente: ubicación, formulario y fase de envío.
type State struct {
	Phase    Phase
	Location *geo.Location
	Name     string
	Message  string
	Err      error
	Sent     *domain.Message
}

// Event es algo que le ocurre a la sesión.
type Event interface {
	event()
}

type (
	LocationResolved struct{ Location geo.Location }
	LocationFailed   struct{ Err error }
	InputChanged     struct{ Name, Message string }
	SubmitRequested  struct{}
	SubmitSucceeded  struct{ Message domain.Message }
	SubmitFailed     struct{ Err error }
	RetryRequested   struct{}
)

func (LocationResolved) event() {}
func (LocationFailed) event()   {}
func (InputChanged) event()     {}
func (SubmitRequested) event()  {}
func (SubmitSucceeded) event()  {}
func (SubmitFailed) event()     {}
func (RetryRequested) event()   {}

// Draft arma el payload a enviar con la ubicación resuelta.
func (s State) Draft() domain.MessageDraft {
	d := domain.MessageDraft{Name: s.Name, Message: s.Message}
	if s.Location != nil {
		d.Latitude = s.Location.Latitude
		d.Longitude = s.Location.Longitude
	}
	return d
}

// CanSubmit replica la validación del servidor y además exige ubicación conocida.
func CanSubmit(s State) bool {
	return s.Phase == PhaseAwaiting && ready(s)
}

func ready(s State) bool {
	return s.Location != nil && domain.ValidateDraft(s.Draft()) == nil
}

func editable(p Phase) bool {
	return p == PhaseIdle || p == PhaseAwaiting || p == PhaseLocationUnavailable || p == PhaseFailed
}

// Transition calcula el nuevo estado; no modifica s.
func Transition(s State, e Event) State {
	switch ev := e.(type) {
	case LocationResolved:
		if s.Phase == PhaseConfirmed || s.Phase == PhaseSubmitting {
			return s
		}
		loc := ev.Location
		s.Location = &loc
		if s.Phase != PhaseFailed {
			s.Phase = PhaseAwaiting
			s.Err = nil
		}
	case LocationFailed:
		if s.Location == nil && (s.Phase == PhaseIdle || s.Phase == PhaseAwaiting) {
			s.Phase = PhaseLocationUnavailable
			s.Err = ev.Err
		}
	case InputChanged:
		if !editable(s.Phase) {
			return s
		}
		s.Name = ev.Name
		s.Message = ev.Message
		switch s.Phase {
		case PhaseIdle:
			s.Phase = PhaseAwaiting
		case PhaseFailed:
			s.Phase = PhaseAwaiting
			s.Err = nil
		}
	case SubmitRequested:
		if CanSubmit(s) {
			s.Phase = PhaseSubmitting
			s.Err = nil
		}
	case SubmitSucceeded:
		if s.Phase == PhaseSubmitting {
			sent := ev.Message
			s.Phase = PhaseConfirmed
			s.Sent = &sent
			s.Err = nil
		}
	case SubmitFailed:
		if s.Phase == PhaseSubmitting {
			s.Phase = PhaseFailed
			s.Err = ev.Err
		}
	case RetryRequested:
		if s.Phase == PhaseFailed && ready(s) {
			s.Phase = PhaseSubmitting
			s.Err = nil
		}
	}
	return s
}
