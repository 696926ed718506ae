package followups

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yoppiari/tumor-registry-sub011/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = fmt.Errorf("visit %w", errors.NotFound)
	ErrInvalidInput      = fmt.Errorf("visit %w", errors.BadRequest)
	ErrInvalidTransition = fmt.Errorf("visit transition %w", errors.Conflict)
)

type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "scheduled"
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusMissed    VisitStatus = "missed"
	VisitStatusCancelled VisitStatus = "cancelled"
)

// ClinicalStatus captures the patient's disease status recorded at a
// completed visit.
type ClinicalStatus string

const (
	ClinicalStatusNED ClinicalStatus = "NED" // no evidence of disease
	ClinicalStatusAWD ClinicalStatus = "AWD" // alive with disease
	ClinicalStatusDOD ClinicalStatus = "DOD" // dead of disease
	ClinicalStatusDOC ClinicalStatus = "DOC" // dead of other cause
)

// Visit is a single protocol follow-up appointment. The full schedule of
// fourteen visits is created at once when treatment completion is recorded;
// each visit then moves through its own lifecycle independently.
type Visit struct {
	Id                 *primitive.ObjectID `bson:"_id,omitempty"`
	PatientId          string              `bson:"patientId"`
	VisitNumber        int                 `bson:"visitNumber"`
	VisitType          string              `bson:"visitType"`
	ScheduledDate      time.Time           `bson:"scheduledDate"`
	TreatmentDate      time.Time           `bson:"treatmentDate"`
	ActualDate         *time.Time          `bson:"actualDate,omitempty"`
	Status             VisitStatus         `bson:"status"`
	ClinicalStatus     *ClinicalStatus     `bson:"clinicalStatus,omitempty"`
	LocalRecurrence    *bool               `bson:"localRecurrence,omitempty"`
	DistantMetastasis  *bool               `bson:"distantMetastasis,omitempty"`
	CancellationReason *string             `bson:"cancellationReason,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt,omitempty"`
	UpdatedAt          time.Time           `bson:"updatedAt,omitempty"`
}

func (v *Visit) IsTerminal() bool {
	return v.Status != VisitStatusScheduled
}

// IsOverdue reports whether a still-scheduled visit has slipped past its
// scheduled date. Derived, never stored.
func IsOverdue(visit *Visit, now time.Time) bool {
	return visit.Status == VisitStatusScheduled && visit.ScheduledDate.Before(now)
}

// DaysUntil returns the number of days until the scheduled date, rounded up.
// A negative result means the visit is overdue by that many days.
func DaysUntil(visit *Visit, now time.Time) int {
	return int(math.Ceil(visit.ScheduledDate.Sub(now).Hours() / 24))
}

type Filter struct {
	PatientId *string
	Status    *VisitStatus
}

type CompletionUpdate struct {
	ActualDate        time.Time
	ClinicalStatus    *ClinicalStatus
	LocalRecurrence   *bool
	DistantMetastasis *bool
}

// TransitionUpdate is the patch applied by a state transition. The repository
// applies it only when the visit is still scheduled.
type TransitionUpdate struct {
	Status             VisitStatus
	ActualDate         *time.Time
	ClinicalStatus     *ClinicalStatus
	LocalRecurrence    *bool
	DistantMetastasis  *bool
	CancellationReason *string
}

type Repository interface {
	CreateAll(ctx context.Context, visits []*Visit) error
	Get(ctx context.Context, id string) (*Visit, error)
	List(ctx context.Context, filter *Filter) ([]*Visit, error)
	CountByPatient(ctx context.Context, patientId string) (int, error)
	Transition(ctx context.Context, id string, update TransitionUpdate) (*Visit, error)
}

type Service interface {
	GenerateSchedule(ctx context.Context, patientId string, treatmentDate time.Time) ([]*Visit, error)
	GetPatientVisits(ctx context.Context, patientId string) ([]*Visit, error)
	RecordCompletion(ctx context.Context, visitId string, update CompletionUpdate) (*Visit, error)
	MarkMissed(ctx context.Context, visitId string) (*Visit, error)
	Cancel(ctx context.Context, visitId string, reason string) (*Visit, error)
	ComplianceReport(ctx context.Context, now time.Time) (*ComplianceSummary, error)
}
