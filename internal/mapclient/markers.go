package mapclient

import (
	"hellomap/internal/domain"
	"hellomap/internal/geo"
)

type MarkerKind string

const (
	MarkerUser    MarkerKind = "user"
	MarkerMessage MarkerKind = "message"
)

// Marker es un punto a dibujar en el mapa.
type Marker struct {
	Kind     MarkerKind
	ID       string
	Location geo.Location
	Popup    string
}

// Markers devuelve un marcador por mensaje y, si se conoce, el del propio usuario primero.
func Markers(s State, messages []domain.Message) []Marker {
	out := make([]Marker, 0, len(messages)+1)
	if s.Location != nil {
		out = append(out, Marker{Kind: MarkerUser, Location: *s.Location})
	}
	for _, m := range messages {
		out = append(out, Marker{
			Kind:     MarkerMessage,
			ID:       m.ID,
			Location: geo.Location{Latitude: m.Latitude, Longitude: m.Longitude},
			Popup:    m.Name + ": " + m.Message,
		})
	}
	return out
}
