package doctorRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sahatak/database"
	"sahatak/models"
)

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo creates a DoctorRepository backed by the "doctors" collection.
func NewMongoDoctorRepo() DoctorRepository {
	return &MongoDoctorRepo{coll: database.Collection("doctors")}
}

func (r *MongoDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var doctor models.Doctor
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&doctor); err != nil {
		return nil, fmt.Errorf("failed to fetch doctor with id %s: %w", id, err)
	}
	return &doctor, nil
}

func (r *MongoDoctorRepo) ListVerified(specialty string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isVerified": true}
	if specialty != "" {
		filter["specialty"] = specialty
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "yearsOfExperience", Value: -1},
	})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("error decoding doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepo) Specialties() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "specialty", bson.M{"isVerified": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	specialties := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			specialties = append(specialties, s)
		}
	}
	return specialties, nil
}

func (r *MongoDoctorRepo) Create(doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepo) Update(doctor *models.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": doctor.ID}, doctor)
	if err != nil {
		return fmt.Errorf("failed to update doctor %s: %w", doctor.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("doctor %s not found", doctor.ID)
	}
	return nil
}
