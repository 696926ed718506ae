package test

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoppiari/tumor-registry-sub011/patients"
	"github.com/yoppiari/tumor-registry-sub011/pointer"
	"github.com/yoppiari/tumor-registry-sub011/test"
)

var (
	tumorTypes = []string{"osteosarcoma", "chondrosarcoma", "ewing sarcoma", "giant cell tumor"}
	stages     = []string{"IA", "IB", "IIA", "IIB", "III"}
	genders    = []string{"male", "female"}
)

// RandomPatient returns a fully populated record that scores 100 on the
// completeness rubric. Tests blank out fields to exercise deductions.
func RandomPatient() patients.Patient {
	id := primitive.NewObjectID()
	birthDate := RandomDate(1940, 1990)
	diagnosisDate := birthDate.AddDate(test.Faker.IntBetween(10, 30), 0, 0)
	treatmentStart := diagnosisDate.AddDate(0, 1, 0)

	return patients.Patient{
		Id:                 &id,
		Name:               pointer.FromAny(test.Faker.Person().Name()),
		IdNumber:           pointer.FromAny(RandomIdNumber()),
		BirthDate:          &birthDate,
		Gender:             pointer.FromAny(test.Faker.RandomStringElement(genders)),
		DiagnosisDate:      &diagnosisDate,
		TumorType:          pointer.FromAny(test.Faker.RandomStringElement(tumorTypes)),
		Stage:              pointer.FromAny(test.Faker.RandomStringElement(stages)),
		MedicalHistory:     pointer.FromAny(test.Faker.Lorem().Sentence(8)),
		FamilyHistory:      pointer.FromAny(test.Faker.Lorem().Sentence(6)),
		PreviousTreatments: pointer.FromAny(test.Faker.Lorem().Sentence(5)),
		CenterId:           pointer.FromAny(test.Faker.UUID().V4()),
		Images:             RandomImages(3),
		Treatments: []patients.Treatment{
			{
				Plan:      pointer.FromAny("wide resection with adjuvant chemotherapy"),
				StartDate: &treatmentStart,
			},
		},
	}
}

func RandomImages(count int) []patients.Image {
	images := make([]patients.Image, 0, count)
	for i := 0; i < count; i++ {
		images = append(images, patients.Image{
			Category: patients.ImageCategoryDicom,
			Path:     pointer.FromAny(test.Faker.UUID().V4() + ".dcm"),
		})
	}
	return images
}

func RandomIdNumber() string {
	return fmt.Sprintf("%016d", test.Rand.Int63n(10_000_000_000_000_000))
}

func RandomDate(minYear, maxYear int) time.Time {
	return time.Date(
		test.Faker.IntBetween(minYear, maxYear),
		time.Month(test.Faker.IntBetween(1, 12)),
		test.Faker.IntBetween(1, 28),
		0, 0, 0, 0, time.UTC,
	)
}
