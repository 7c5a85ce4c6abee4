package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sahatak/database"
	"sahatak/models"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates an AppointmentRepository backed by the
// "appointments" collection.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &MongoAppointmentRepo{coll: database.Collection("appointments")}
}

func activeFilter() bson.M {
	return bson.M{"$in": models.ActiveStatuses()}
}

func (r *MongoAppointmentRepo) Create(appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListByPatient(patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) FindActiveAt(doctorID string, at time.Time) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": at,
		"status":          activeFilter(),
	}
	var appt models.Appointment
	err := r.coll.FindOne(ctx, filter).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListActiveBetween(doctorID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": bson.M{"$gte": from, "$lt": to},
		"status":          activeFilter(),
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for doctor %s: %w", doctorID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) Update(appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": appt.ID}, appt)
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", appt.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", appt.ID)
	}
	return nil
}
