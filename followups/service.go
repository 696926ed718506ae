package followups

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yoppiari/tumor-registry-sub011/audit"
	"github.com/yoppiari/tumor-registry-sub011/notifications"
	"github.com/yoppiari/tumor-registry-sub011/patients"
	"github.com/yoppiari/tumor-registry-sub011/pointer"
)

type service struct {
	repo     Repository
	patients patients.Repository
	auditor  audit.Recorder
	notifier notifications.Notifier
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, patientsRepo patients.Repository, auditor audit.Recorder, notifier notifications.Notifier, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:     repo,
		patients: patientsRepo,
		auditor:  auditor,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *service) GenerateSchedule(ctx context.Context, patientId string, treatmentDate time.Time) ([]*Visit, error) {
	if patientId == "" {
		return nil, fmt.Errorf("%w: patient id is missing", ErrInvalidInput)
	}
	if treatmentDate.IsZero() {
		return nil, fmt.Errorf("%w: treatment completion date is missing", ErrInvalidInput)
	}

	count, err := s.repo.CountByPatient(ctx, patientId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: follow-up schedule already exists for patient %s", ErrInvalidInput, patientId)
	}

	visits := BuildSchedule(patientId, treatmentDate)
	if err := s.repo.CreateAll(ctx, visits); err != nil {
		return nil, err
	}

	s.logger.Infow("generated follow-up schedule", "patientId", patientId, "treatmentDate", treatmentDate)
	s.auditor.Record(ctx, audit.NewEvent(audit.EventScheduleGenerated, patientId, ""))
	return visits, nil
}

func (s *service) GetPatientVisits(ctx context.Context, patientId string) ([]*Visit, error) {
	return s.repo.List(ctx, &Filter{PatientId: &patientId})
}

func (s *service) RecordCompletion(ctx context.Context, visitId string, update CompletionUpdate) (*Visit, error) {
	if update.ActualDate.IsZero() {
		return nil, fmt.Errorf("%w: actual date is missing", ErrInvalidInput)
	}
	if update.ClinicalStatus != nil && !isValidClinicalStatus(*update.ClinicalStatus) {
		return nil, fmt.Errorf("%w: unknown clinical status %q", ErrInvalidInput, *update.ClinicalStatus)
	}

	visit, err := s.repo.Get(ctx, visitId)
	if err != nil {
		return nil, err
	}
	if update.ActualDate.Before(visit.TreatmentDate) {
		return nil, fmt.Errorf("%w: actual date precedes treatment completion", ErrInvalidInput)
	}

	updated, err := s.repo.Transition(ctx, visitId, TransitionUpdate{
		Status:            VisitStatusCompleted,
		ActualDate:        &update.ActualDate,
		ClinicalStatus:    update.ClinicalStatus,
		LocalRecurrence:   update.LocalRecurrence,
		DistantMetastasis: update.DistantMetastasis,
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.NewEvent(audit.EventVisitCompleted, updated.PatientId, visitId))
	return updated, nil
}

func (s *service) MarkMissed(ctx context.Context, visitId string) (*Visit, error) {
	updated, err := s.repo.Transition(ctx, visitId, TransitionUpdate{
		Status: VisitStatusMissed,
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.NewEvent(audit.EventVisitMissed, updated.PatientId, visitId))
	if err := s.notifier.VisitMissed(ctx, updated.PatientId, visitId, updated.VisitType); err != nil {
		s.logger.Warnw("unable to deliver missed visit notification", "visitId", visitId, zap.Error(err))
	}
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, visitId string, reason string) (*Visit, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is missing", ErrInvalidInput)
	}

	updated, err := s.repo.Transition(ctx, visitId, TransitionUpdate{
		Status:             VisitStatusCancelled,
		CancellationReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.NewEvent(audit.EventVisitCancelled, updated.PatientId, visitId))
	return updated, nil
}

// ComplianceReport joins the current visit collection with patient
// attributes and runs the compliance aggregation. The result is recomputed
// on every call; nothing is cached.
func (s *service) ComplianceReport(ctx context.Context, now time.Time) (*ComplianceSummary, error) {
	visits, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	records, err := s.joinPatientAttributes(ctx, visits)
	if err != nil {
		return nil, err
	}

	summary := ComputeCompliance(records, now)
	return &summary, nil
}

func (s *service) joinPatientAttributes(ctx context.Context, visits []*Visit) ([]VisitRecord, error) {
	ids := make([]string, 0, len(visits))
	seen := make(map[string]struct{}, len(visits))
	for _, visit := range visits {
		if _, ok := seen[visit.PatientId]; !ok {
			seen[visit.PatientId] = struct{}{}
			ids = append(ids, visit.PatientId)
		}
	}

	byId := make(map[string]*patients.Patient, len(ids))
	if len(ids) > 0 {
		list, err := s.patients.List(ctx, &patients.Filter{Ids: ids})
		if err != nil {
			return nil, err
		}
		for _, patient := range list {
			if patient.Id != nil {
				byId[patient.Id.Hex()] = patient
			}
		}
	}

	records := make([]VisitRecord, 0, len(visits))
	for _, visit := range visits {
		record := VisitRecord{Visit: *visit}
		if patient, ok := byId[visit.PatientId]; ok {
			record.TumorType = pointer.ToString(patient.TumorType)
			record.Stage = pointer.ToString(patient.Stage)
			record.CenterId = pointer.ToString(patient.CenterId)
		}
		records = append(records, record)
	}
	return records, nil
}

func isValidClinicalStatus(status ClinicalStatus) bool {
	switch status {
	case ClinicalStatusNED, ClinicalStatusAWD, ClinicalStatusDOD, ClinicalStatusDOC:
		return true
	}
	return false
}
