package quality

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoppiari/tumor-registry-sub011/errors"
	"github.com/yoppiari/tumor-registry-sub011/store"
)

var (
	ErrInvalidInput = fmt.Errorf("quality %w", errors.BadRequest)
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryFair      Category = "fair"
	CategoryPoor      Category = "poor"
)

func CategoryForScore(score int) Category {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryGood
	case score >= 70:
		return CategoryFair
	default:
		return CategoryPoor
	}
}

type Recommendation struct {
	Field    string   `bson:"field"`
	Message  string   `bson:"message"`
	Priority Priority `bson:"priority"`
}

// Report is the result of scoring one patient record against the
// completeness rubric.
type Report struct {
	PatientId            string
	Score                int
	Category             Category
	Completeness         int
	RequiredCompleteness int
	MedicalCompleteness  int
	ImageCount           int
	Recommendations      []Recommendation
}

// Snapshot is an append-only time series entry; one is written on every
// score calculation and none is ever mutated.
type Snapshot struct {
	Id                   *primitive.ObjectID `bson:"_id,omitempty"`
	PatientId            string              `bson:"patientId"`
	Score                int                 `bson:"score"`
	Completeness         int                 `bson:"completeness"`
	RequiredCompleteness int                 `bson:"requiredCompleteness"`
	MedicalCompleteness  int                 `bson:"medicalCompleteness"`
	ImageCount           int                 `bson:"imageCount"`
	RecommendationCount  int                 `bson:"recommendationCount"`
	CreatedAt            time.Time           `bson:"createdAt"`
}

type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

type CenterSummary struct {
	CenterId           string
	PatientCount       int
	AverageScore       float64
	HighQuality        int
	MediumQuality      int
	LowQuality         int
	TopRecommendations []RecommendationFrequency
}

type RecommendationFrequency struct {
	Field      string
	Count      int
	Percentage float64
}

type WeeklyBucket struct {
	Year         int
	Week         int
	AverageScore float64
	PatientCount int
	MinScore     int
	MaxScore     int
}

type NationalOverview struct {
	SnapshotCount int
	AverageScore  float64
	WeeklyTrend   []WeeklyBucket
}

type Repository interface {
	Append(ctx context.Context, snapshot *Snapshot) error
	FindSince(ctx context.Context, patientId string, since time.Time) ([]*Snapshot, error)
	FindRecent(ctx context.Context, page store.Pagination) ([]*Snapshot, error)
}

type Service interface {
	CalculateQualityScore(ctx context.Context, patientId string) (*Report, error)
	ValidatePatientData(ctx context.Context, patientId string) (*ValidationResult, error)
	GetQualityTrends(ctx context.Context, patientId string, days int) ([]*Snapshot, error)
	GetCenterQualitySummary(ctx context.Context, centerId string) (*CenterSummary, error)
	GetNationalQualityOverview(ctx context.Context) (*NationalOverview, error)
}

func (r *Report) NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		PatientId:            r.PatientId,
		Score:                r.Score,
		Completeness:         r.Completeness,
		RequiredCompleteness: r.RequiredCompleteness,
		MedicalCompleteness:  r.MedicalCompleteness,
		ImageCount:           r.ImageCount,
		RecommendationCount:  len(r.Recommendations),
		CreatedAt:            at,
	}
}
