package patients

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/yoppiari/tumor-registry-sub011/store"
)

const (
	patientsCollectionName = "patients"
)

//go:generate mockgen --build_flags=--mod=mod -source=./patients.go -destination=./test/mock_repository.go -package test MockRepository

func NewRepository(db *mongo.Database, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(patientsCollectionName),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	collection *mongo.Collection
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "idNumber", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetSparse(true).
				SetName("UniqueIdNumber"),
		},
		{
			Keys: bson.D{
				{Key: "centerId", Value: 1},
			},
			Options: options.Index().
				SetName("PatientCenter"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, id string) (*Patient, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid patient id", ErrNotFound)
	}

	patient := &Patient{}
	err = r.collection.FindOne(ctx, bson.M{"_id": objId}).Decode(patient)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return patient, nil
}

func (r *repository) List(ctx context.Context, filter *Filter) ([]*Patient, error) {
	selector := bson.M{}
	if filter != nil {
		if len(filter.Ids) > 0 {
			selector["_id"] = bson.M{"$in": store.ObjectIDSFromStringArray(filter.Ids)}
		}
		if filter.CenterId != nil {
			selector["centerId"] = *filter.CenterId
		}
	}

	cursor, err := r.collection.Find(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}

	var patients []*Patient
	if err = cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("error decoding patients: %w", err)
	}

	return patients, nil
}

func (r *repository) Create(ctx context.Context, patient Patient) (*Patient, error) {
	if patient.Id == nil {
		id := primitive.NewObjectID()
		patient.Id = &id
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	if _, err := r.collection.InsertOne(ctx, patient); err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return &patient, nil
}
