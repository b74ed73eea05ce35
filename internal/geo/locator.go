package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrLocationUnavailable = errors.New("location unavailable")

// Location es una coordenada geográfica en grados decimales.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid indica si la coordenada cae dentro de los rangos geográficos.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Locator resuelve la ubicación del usuario.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// StaticLocator hace de proveedor "dispositivo": coordenadas que entrega el host.
type StaticLocator struct {
	loc *Location
}

// NewStaticLocator devuelve un locator sin coordenadas si lat o lng faltan.
func NewStaticLocator(lat, lng *float64) *StaticLocator {
	if lat == nil || lng == nil {
		return &StaticLocator{}
	}
	return &StaticLocator{loc: &Location{Latitude: *lat, Longitude: *lng}}
}

func (s *StaticLocator) Locate(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	if s == nil || s.loc == nil {
		return Location{}, fmt.Errorf("%w: device location not provided", ErrLocationUnavailable)
	}
	if !s.loc.Valid() {
		return Location{}, fmt.Errorf("%w: device location out of range", ErrLocationUnavailable)
	}
	return *s.loc, nil
}

// Stage es un paso de la cadena con su propio límite de tiempo.
type Stage struct {
	Name    string
	Locator Locator
	Timeout time.Duration
}

// Chain prueba cada etapa en orden y solo avanza cuando la anterior falla.
type Chain struct {
	logger *zap.Logger
	stages []Stage
}

func NewChain(logger *zap.Logger, stages ...Stage) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{logger: logger, stages: stages}
}

func (c *Chain) Locate(ctx context.Context) (Location, error) {
	var errs []error
	for _, st := range c.stages {
		if st.Locator == nil {
			continue
		}
		loc, err := c.runStage(ctx, st)
		if err == nil {
			c.logger.Debug("location resolved", zap.String("stage", st.Name))
			return loc, nil
		}
		c.logger.Info("location stage failed", zap.String("stage", st.Name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", st.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Location{}, ErrLocationUnavailable
	}
	return Location{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, errors.Join(errs...))
}

func (c *Chain) runStage(ctx context.Context, st Stage) (Location, error) {
	if st.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.Timeout)
		defer cancel()
	}
	loc, err := st.Locator.Locate(ctx)
	if err != nil {
		return Location{}, err
	}
	if !loc.Valid() {
		return Location{}, fmt.Errorf("coordinates out of range: %v,%v", loc.Latitude, loc.Longitude)
	}
	return loc, nil
}
