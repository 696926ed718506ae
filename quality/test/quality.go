package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoppiari/tumor-registry-sub011/quality"
	"github.com/yoppiari/tumor-registry-sub011/test"
)

func RandomSnapshot(patientId string, createdAt time.Time) *quality.Snapshot {
	id := primitive.NewObjectID()
	score := test.Faker.IntBetween(0, 100)
	return &quality.Snapshot{
		Id:                   &id,
		PatientId:            patientId,
		Score:                score,
		Completeness:         test.Faker.IntBetween(0, 100),
		RequiredCompleteness: test.Faker.IntBetween(0, 100),
		MedicalCompleteness:  test.Faker.IntBetween(0, 100),
		ImageCount:           test.Faker.IntBetween(0, 5),
		RecommendationCount:  test.Faker.IntBetween(0, 10),
		CreatedAt:            createdAt,
	}
}
