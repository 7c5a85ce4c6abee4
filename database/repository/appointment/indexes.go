package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sahatak/database"
)

// EnsureIndexes creates the indexes the appointment queries rely on.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.Collection("appointments")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "appointmentDate", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
