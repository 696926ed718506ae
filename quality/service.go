package quality

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yoppiari/tumor-registry-sub011/audit"
	"github.com/yoppiari/tumor-registry-sub011/patients"
	"github.com/yoppiari/tumor-registry-sub011/store"
)

type service struct {
	patients patients.Repository
	metrics  Repository
	auditor  audit.Recorder
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(patientsRepo patients.Repository, metrics Repository, auditor audit.Recorder, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		patients: patientsRepo,
		metrics:  metrics,
		auditor:  auditor,
		logger:   logger,
	}, nil
}

// CalculateQualityScore scores a patient record and appends a metric
// snapshot. Repeated calls append repeated snapshots; the metric store is
// an append-only time series by design.
func (s *service) CalculateQualityScore(ctx context.Context, patientId string) (*Report, error) {
	patient, err := s.patients.Get(ctx, patientId)
	if err != nil {
		return nil, err
	}

	report := ScorePatient(patient)
	report.PatientId = patientId
	if err := s.metrics.Append(ctx, report.NewSnapshot(time.Now())); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.NewEvent(audit.EventQualityScored, patientId, ""))
	return report, nil
}

func (s *service) ValidatePatientData(ctx context.Context, patientId string) (*ValidationResult, error) {
	patient, err := s.patients.Get(ctx, patientId)
	if err != nil {
		return nil, err
	}

	return ValidatePatient(patient, time.Now()), nil
}

func (s *service) GetQualityTrends(ctx context.Context, patientId string, days int) ([]*Snapshot, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: trend window must be positive", ErrInvalidInput)
	}

	since := time.Now().AddDate(0, 0, -days)
	return s.metrics.FindSince(ctx, patientId, since)
}

// GetCenterQualitySummary rescores every patient of the center. Each
// rescoring appends a snapshot, same as a direct score calculation.
func (s *service) GetCenterQualitySummary(ctx context.Context, centerId string) (*CenterSummary, error) {
	if centerId == "" {
		return nil, fmt.Errorf("%w: center id is missing", ErrInvalidInput)
	}

	list, err := s.patients.List(ctx, &patients.Filter{CenterId: &centerId})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reports := make([]*Report, 0, len(list))
	for _, patient := range list {
		report := ScorePatient(patient)
		if patient.Id != nil {
			report.PatientId = patient.Id.Hex()
		}
		if err := s.metrics.Append(ctx, report.NewSnapshot(now)); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	summary := SummarizeCenter(centerId, reports)
	return &summary, nil
}

// GetNationalQualityOverview aggregates the most recent snapshots globally.
// The sample is bounded, not deduplicated per patient, so recently rescored
// patients weigh more. Kept for continuity with the historic reports.
func (s *service) GetNationalQualityOverview(ctx context.Context) (*NationalOverview, error) {
	snapshots, err := s.metrics.FindRecent(ctx, store.Pagination{Limit: nationalSampleSize})
	if err != nil {
		return nil, err
	}

	overview := SummarizeNational(snapshots)
	return &overview, nil
}
