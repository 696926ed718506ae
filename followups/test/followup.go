package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoppiari/tumor-registry-sub011/followups"
	"github.com/yoppiari/tumor-registry-sub011/test"
)

// RandomScheduledVisit returns one visit of a freshly generated schedule
// with a persisted-looking identifier.
func RandomScheduledVisit() *followups.Visit {
	treatmentDate := time.Date(
		test.Faker.IntBetween(2018, 2024),
		time.Month(test.Faker.IntBetween(1, 12)),
		test.Faker.IntBetween(1, 28),
		0, 0, 0, 0, time.UTC,
	)
	schedule := followups.BuildSchedule(test.Faker.UUID().V4(), treatmentDate)
	visit := schedule[test.Rand.Intn(len(schedule))]

	id := primitive.NewObjectID()
	visit.Id = &id
	return visit
}

// RandomRecord wraps a visit with opaque grouping attributes the way the
// compliance report joins them.
func RandomRecord(visit *followups.Visit) followups.VisitRecord {
	return followups.VisitRecord{
		Visit:     *visit,
		TumorType: test.Faker.RandomStringElement([]string{"osteosarcoma", "chondrosarcoma"}),
		Stage:     test.Faker.RandomStringElement([]string{"IA", "IIB", "III"}),
		CenterId:  test.Faker.RandomStringElement([]string{"center-a", "center-b", "center-c"}),
	}
}
