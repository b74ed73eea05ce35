package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hellomap/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes del mapa.
// Solo hay inserciones y lectura completa: los mensajes nunca se actualizan ni se borran.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	List(ctx context.Context) ([]domain.Message, error)
	Ping(ctx context.Context) error
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, name, message, latitude, longitude, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.Name,
		message.Message,
		message.Latitude,
		message.Longitude,
		message.Date,
	)
	return err
}

func (r *PgMessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	const query = `
		SELECT id, name, message, latitude, longitude, date
		FROM messages
		ORDER BY date ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		err = rows.Scan(
			&msg.ID,
			&msg.Name,
			&msg.Message,
			&msg.Latitude,
			&msg.Longitude,
			&msg.Date,
		)
		if err != nil {
			return nil, err
		}
		msg.Date = msg.Date.UTC()
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PgMessageRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
