package domain

import "time"

// Message es una nota geolocalizada dejada por un visitante en el mapa.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Message   string    `json:"message" bson:"message"`
	Latitude  float64   `json:"latitude" bson:"latitude"`
	Longitude float64   `json:"longitude" bson:"longitude"`
	Date      time.Time `json:"date" bson:"date"`
}

// MessageDraft es el payload candidato antes de pasar por la validacion.
type MessageDraft struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Message   string  `json:"message" validate:"required,min=2,max=500"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// NewMessage construye el registro persistible a partir de un borrador ya validado.
func NewMessage(id string, draft MessageDraft, date time.Time) Message {
	return Message{
		ID:        id,
		Name:      draft.Name,
		Message:   draft.Message,
		Latitude:  draft.Latitude,
		Longitude: draft.Longitude,
		Date:      date,
	}
}
