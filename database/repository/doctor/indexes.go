package doctorRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sahatak/database"
)

// EnsureIndexes creates the indexes the doctor queries rely on.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.Collection("doctors")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "specialty", Value: 1}, {Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "isVerified", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create doctor indexes: %w", err)
	}
	return nil
}
