package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types recorded by the follow-up and quality engines.
const (
	EventScheduleGenerated = "followup.schedule.generated"
	EventVisitCompleted    = "followup.visit.completed"
	EventVisitMissed       = "followup.visit.missed"
	EventVisitCancelled    = "followup.visit.cancelled"
	EventQualityScored     = "quality.score.calculated"
)

type Event struct {
	Id        string
	Type      string
	PatientId string
	VisitId   string
	Time      time.Time
}

// Recorder is the audit sink. The registry core only emits events; storage
// and alerting belong to the security monitoring subsystem.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

func NewEvent(eventType, patientId, visitId string) Event {
	return Event{
		Id:        uuid.NewString(),
		Type:      eventType,
		PatientId: patientId,
		VisitId:   visitId,
		Time:      time.Now(),
	}
}

func NewLogRecorder(logger *zap.SugaredLogger) Recorder {
	return &logRecorder{logger: logger}
}

type logRecorder struct {
	logger *zap.SugaredLogger
}

func (r *logRecorder) Record(ctx context.Context, event Event) {
	r.logger.Infow("audit event",
		"id", event.Id,
		"type", event.Type,
		"patientId", event.PatientId,
		"visitId", event.VisitId,
		"time", event.Time,
	)
}
