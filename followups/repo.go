package followups

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
	visitsCollectionName = "followUpVisits"
)

//go:generate mockgen --build_flags=--mod=mod -source=./followups.go -destination=./test/mock_repository.go -package test MockRepository

func NewRepository(db *mongo.Database, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(visitsCollectionName),
		client:     db.Client(),
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
	client     *mongo.Client
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "patientId", Value: 1},
				{Key: "visitNumber", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniquePatientVisitNumber"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "scheduledDate", Value: 1},
			},
			Options: options.Index().
				SetName("VisitStatusSchedule"),
		},
	})
	return err
}

// CreateAll inserts the whole schedule in a single transaction so a
// concurrent reader never observes a partial schedule.
func (r *repository) CreateAll(ctx context.Context, visits []*Visit) error {
	docs := make([]interface{}, 0, len(visits))
	for _, visit := range visits {
		if visit.Id == nil {
			id := primitive.NewObjectID()
			visit.Id = &id
		}
		docs = append(docs, visit)
	}

	transaction := func(sessionCtx mongo.SessionContext) (interface{}, error) {
		return r.collection.InsertMany(sessionCtx, docs)
	}

	if _, err := store.WithTransaction(ctx, r.client, transaction); err != nil {
		if store.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: follow-up schedule already exists", ErrInvalidInput)
		}
		return fmt.Errorf("error creating follow-up schedule: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Visit, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid visit id", ErrNotFound)
	}

	visit := &Visit{}
	err = r.collection.FindOne(ctx, bson.M{"_id": objId}).Decode(visit)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return visit, nil
}

func (r *repository) List(ctx context.Context, filter *Filter) ([]*Visit, error) {
	selector := bson.M{}
	if filter != nil {
		if filter.PatientId != nil {
			selector["patientId"] = *filter.PatientId
		}
		if filter.Status != nil {
			selector["status"] = *filter.Status
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "patientId", Value: 1},
		{Key: "visitNumber", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing visits: %w", err)
	}

	var visits []*Visit
	if err = cursor.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("error decoding visits: %w", err)
	}

	return visits, nil
}

func (r *repository) CountByPatient(ctx context.Context, patientId string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"patientId": patientId})
	if err != nil {
		return 0, fmt.Errorf("error counting visits: %w", err)
	}
	return int(count), nil
}

// Transition applies a lifecycle transition with compare-and-swap semantics
// against the scheduled status, so two concurrent transitions on the same
// visit cannot both succeed.
func (r *repository) Transition(ctx context.Context, id string, update TransitionUpdate) (*Visit, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid visit id", ErrNotFound)
	}

	selector := bson.M{
		"_id":    objId,
		"status": VisitStatusScheduled,
	}

	set := bson.M{
		"status":    update.Status,
		"updatedAt": time.Now(),
	}
	if update.ActualDate != nil {
		set["actualDate"] = *update.ActualDate
	}
	if update.ClinicalStatus != nil {
		set["clinicalStatus"] = *update.ClinicalStatus
	}
	if update.LocalRecurrence != nil {
		set["localRecurrence"] = *update.LocalRecurrence
	}
	if update.DistantMetastasis != nil {
		set["distantMetastasis"] = *update.DistantMetastasis
	}
	if update.CancellationReason != nil {
		set["cancellationReason"] = *update.CancellationReason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	visit := &Visit{}
	err = r.collection.FindOneAndUpdate(ctx, selector, bson.M{"$set": set}, opts).Decode(visit)
	if err == mongo.ErrNoDocuments {
		// Either the visit does not exist or it is already terminal.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: visit is not in scheduled state", ErrInvalidTransition)
	} else if err != nil {
		return nil, err
	}

	return visit, nil
}
