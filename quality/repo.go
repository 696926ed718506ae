package quality

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
	metricsCollectionName = "qualityMetrics"
)

//go:generate mockgen --build_flags=--mod=mod -source=./quality.go -destination=./test/mock_repository.go -package test MockRepository

func NewRepository(db *mongo.Database, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(metricsCollectionName),
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
				{Key: "patientId", Value: 1},
				{Key: "createdAt", Value: 1},
			},
			Options: options.Index().
				SetName("PatientMetricSeries"),
		},
		{
			Keys: bson.D{
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().
				SetName("RecentMetrics"),
		},
	})
	return err
}

func (r *repository) Append(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.Id == nil {
		id := primitive.NewObjectID()
		snapshot.Id = &id
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("error appending quality metric: %w", err)
	}
	return nil
}

func (r *repository) FindSince(ctx context.Context, patientId string, since time.Time) ([]*Snapshot, error) {
	selector := bson.M{
		"patientId": patientId,
		"createdAt": bson.M{"$gte": since},
	}

	sort := store.Sort{Attribute: "createdAt", Ascending: true}
	opts := options.Find().SetSort(bson.D{{Key: sort.Attribute, Value: sort.Order()}})
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing quality metrics: %w", err)
	}

	var snapshots []*Snapshot
	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("error decoding quality metrics: %w", err)
	}

	return snapshots, nil
}

func (r *repository) FindRecent(ctx context.Context, page store.Pagination) ([]*Snapshot, error) {
	if page.Limit == 0 {
		page = store.DefaultPagination()
	}

	sort := store.Sort{Attribute: "createdAt", Ascending: false}
	opts := options.Find().
		SetSort(bson.D{{Key: sort.Attribute, Value: sort.Order()}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing recent quality metrics: %w", err)
	}

	var snapshots []*Snapshot
	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("error decoding recent quality metrics: %w", err)
	}

	return snapshots, nil
}
