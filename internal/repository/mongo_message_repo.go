package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"hellomap/internal/domain"
)

// MongoMessageRepository guarda cada mensaje como un documento con _id = Message.ID.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository fuerza write concern majority: un insert confirmado es durable.
func NewMongoMessageRepository(coll *mongo.Collection) *MongoMessageRepository {
	durable := coll.Database().Collection(
		coll.Name(),
		options.Collection().SetWriteConcern(writeconcern.Majority()),
	)
	return &MongoMessageRepository{coll: durable}
}

// EnsureIndexes crea el índice por fecha usado al listar.
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("messages_date_idx"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, ix)
	return err
}

func (r *MongoMessageRepository) Create(ctx context.Context, message domain.Message) error {
	_, err := r.coll.InsertOne(ctx, message)
	return err
}

func (r *MongoMessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []domain.Message{}
	for cur.Next(ctx) {
		var msg domain.Message
		if err := cur.Decode(&msg); err != nil {
			return nil, err
		}
		msg.Date = msg.Date.UTC()
		messages = append(messages, msg)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MongoMessageRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
