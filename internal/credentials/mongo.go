package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SessionsCollection = "sessions"

type sessionDocument struct {
	SessionID string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore persists one session's token as a document in the sessions
// collection. Documents expire through the TTL index on updatedAt.
type MongoStore struct {
	coll      *mongo.Collection
	sessionID string
}

func NewMongoStore(db *mongo.Database, sessionID string) *MongoStore {
	return &MongoStore{coll: db.Collection(SessionsCollection), sessionID: sessionID}
}

func MongoProvider(db *mongo.Database) Provider {
	return func(sessionID string) Store {
		return NewMongoStore(db, sessionID)
	}
}

func (s *MongoStore) Token(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc sessionDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}
	return doc.Token, nil
}

func (s *MongoStore) Save(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": s.sessionID},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.sessionID}); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
