package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/credentials"
)

// EnsureSessionIndexes expires stored credentials that have not been
// written for ttl.
func EnsureSessionIndexes(db *mongo.Database, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(credentials.SessionsCollection).Indexes()

	expiryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName("updatedAt_ttl").
			SetExpireAfterSeconds(int32(ttl.Seconds())),
	}

	log.Println("EnsureSessionIndexes: creating updatedAt_ttl index")
	_, err := indexes.CreateOne(ctx, expiryIndex)
	if err != nil {
		log.Println("EnsureSessionIndexes: updatedAt index error:", err)
		return err
	}
	log.Println("EnsureSessionIndexes: updatedAt_ttl index created")
	return nil
}
