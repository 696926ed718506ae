package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/yoppiari/tumor-registry-sub011/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = fmt.Errorf("patient %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("patient %w", errors.Duplicate)
)

// ImageCategoryDicom marks imaging studies imported from the modality gateway.
const ImageCategoryDicom = "DICOM"

type Repository interface {
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter *Filter) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
}

// Patient is the registry's view of a patient record. The follow-up and
// quality engines only read it; record management is owned by the
// surrounding application.
type Patient struct {
	Id                 *primitive.ObjectID `bson:"_id,omitempty"`
	Name               *string             `bson:"name,omitempty"`
	IdNumber           *string             `bson:"idNumber,omitempty"`
	BirthDate          *time.Time          `bson:"birthDate,omitempty"`
	Gender             *string             `bson:"gender,omitempty"`
	DiagnosisDate      *time.Time          `bson:"diagnosisDate,omitempty"`
	TumorType          *string             `bson:"tumorType,omitempty"`
	Stage              *string             `bson:"stage,omitempty"`
	MedicalHistory     *string             `bson:"medicalHistory,omitempty"`
	FamilyHistory      *string             `bson:"familyHistory,omitempty"`
	PreviousTreatments *string             `bson:"previousTreatments,omitempty"`
	CenterId           *string             `bson:"centerId,omitempty"`
	Images             []Image             `bson:"images,omitempty"`
	Treatments         []Treatment         `bson:"treatments,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt,omitempty"`
	UpdatedAt          time.Time           `bson:"updatedAt,omitempty"`
}

type Image struct {
	Id       *primitive.ObjectID `bson:"_id,omitempty"`
	Category string              `bson:"category"`
	Path     *string             `bson:"path,omitempty"`
}

type Treatment struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty"`
	Plan      *string             `bson:"plan,omitempty"`
	StartDate *time.Time          `bson:"startDate,omitempty"`
}

type Filter struct {
	Ids      []string
	CenterId *string
}

func (p *Patient) HasDicomImage() bool {
	for _, image := range p.Images {
		if image.Category == ImageCategoryDicom {
			return true
		}
	}
	return false
}
