package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hellomap/internal/config"
)

const messagesSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL CHECK (char_length(name) BETWEEN 2 AND 100),
		message   TEXT NOT NULL CHECK (char_length(message) BETWEEN 2 AND 500),
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		date      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS messages_date_idx ON messages (date);
`

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// EnsureSchema crea la tabla de mensajes si todavía no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, messagesSchema)
	return err
}
