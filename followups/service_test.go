package followups_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/yoppiari/tumor-registry-sub011/audit"
	"github.com/yoppiari/tumor-registry-sub011/errors"
	"github.com/yoppiari/tumor-registry-sub011/followups"
	followupsTest "github.com/yoppiari/tumor-registry-sub011/followups/test"
	"github.com/yoppiari/tumor-registry-sub011/notifications"
	"github.com/yoppiari/tumor-registry-sub011/patients"
	patientsTest "github.com/yoppiari/tumor-registry-sub011/patients/test"
	"github.com/yoppiari/tumor-registry-sub011/pointer"
)

var _ = Describe("Follow-Up Service", func() {
	var service followups.Service
	var repo *followupsTest.MockRepository
	var patientsRepo *patientsTest.MockRepository
	var repoCtrl *gomock.Controller
	var patientsCtrl *gomock.Controller

	BeforeEach(func() {
		repoCtrl = gomock.NewController(GinkgoT())
		patientsCtrl = gomock.NewController(GinkgoT())

		repo = followupsTest.NewMockRepository(repoCtrl)
		patientsRepo = patientsTest.NewMockRepository(patientsCtrl)

		logger := zap.NewNop().Sugar()
		var err error
		service, err = followups.NewService(
			repo,
			patientsRepo,
			audit.NewLogRecorder(logger),
			notifications.NewLogNotifier(logger),
			logger,
		)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		repoCtrl.Finish()
		patientsCtrl.Finish()
	})

	Describe("GenerateSchedule", func() {
		var patientId string
		var treatmentDate time.Time

		BeforeEach(func() {
			patientId = "64f0a0d5c2a2f40012345678"
			treatmentDate = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		})

		It("persists all fourteen visits at once", func() {
			repo.EXPECT().
				CountByPatient(gomock.Any(), gomock.Eq(patientId)).
				Return(0, nil)
			repo.EXPECT().
				CreateAll(gomock.Any(), gomock.Len(14)).
				Return(nil)

			visits, err := service.GenerateSchedule(context.Background(), patientId, treatmentDate)
			Expect(err).ToNot(HaveOccurred())
			Expect(visits).To(HaveLen(14))
		})

		It("rejects a second schedule for the same patient", func() {
			repo.EXPECT().
				CountByPatient(gomock.Any(), gomock.Eq(patientId)).
				Return(14, nil)

			visits, err := service.GenerateSchedule(context.Background(), patientId, treatmentDate)
			Expect(err).To(MatchError(errors.BadRequest))
			Expect(visits).To(BeNil())
		})

		It("rejects a missing treatment completion date", func() {
			visits, err := service.GenerateSchedule(context.Background(), patientId, time.Time{})
			Expect(err).To(MatchError(errors.BadRequest))
			Expect(visits).To(BeNil())
		})

		It("rejects a missing patient id", func() {
			_, err := service.GenerateSchedule(context.Background(), "", treatmentDate)
			Expect(err).To(MatchError(errors.BadRequest))
		})
	})

	Describe("RecordCompletion", func() {
		var visit *followups.Visit
		var visitId string

		BeforeEach(func() {
			visit = followupsTest.RandomScheduledVisit()
			visitId = visit.Id.Hex()
		})

		It("completes a scheduled visit", func() {
			actualDate := visit.ScheduledDate.AddDate(0, 0, 2)
			status := followups.ClinicalStatusNED

			completed := *visit
			completed.Status = followups.VisitStatusCompleted
			completed.ActualDate = &actualDate
			completed.ClinicalStatus = &status

			repo.EXPECT().
				Get(gomock.Any(), gomock.Eq(visitId)).
				Return(visit, nil)
			repo.EXPECT().
				Transition(gomock.Any(), gomock.Eq(visitId), gomock.Eq(followups.TransitionUpdate{
					Status:            followups.VisitStatusCompleted,
					ActualDate:        &actualDate,
					ClinicalStatus:    &status,
					LocalRecurrence:   pointer.FromAny(false),
					DistantMetastasis: pointer.FromAny(false),
				})).
				Return(&completed, nil)

			result, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{
				ActualDate:        actualDate,
				ClinicalStatus:    &status,
				LocalRecurrence:   pointer.FromAny(false),
				DistantMetastasis: pointer.FromAny(false),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(followups.VisitStatusCompleted))
			Expect(result.ActualDate).ToNot(BeNil())
		})

		It("rejects an actual date before treatment completion", func() {
			repo.EXPECT().
				Get(gomock.Any(), gomock.Eq(visitId)).
				Return(visit, nil)

			_, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{
				ActualDate: visit.TreatmentDate.AddDate(0, 0, -1),
			})
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("rejects a missing actual date", func() {
			_, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{})
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("rejects an unknown clinical status", func() {
			status := followups.ClinicalStatus("UNKNOWN")
			_, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{
				ActualDate:     visit.ScheduledDate,
				ClinicalStatus: &status,
			})
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("surfaces a conflict when the visit is already terminal", func() {
			repo.EXPECT().
				Get(gomock.Any(), gomock.Eq(visitId)).
				Return(visit, nil)
			repo.EXPECT().
				Transition(gomock.Any(), gomock.Eq(visitId), gomock.Any()).
				Return(nil, fmt.Errorf("%w: visit is not in scheduled state", followups.ErrInvalidTransition))

			_, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{
				ActualDate: visit.ScheduledDate,
			})
			Expect(err).To(MatchError(errors.Conflict))
		})

		It("surfaces not found for an unknown visit", func() {
			repo.EXPECT().
				Get(gomock.Any(), gomock.Eq(visitId)).
				Return(nil, followups.ErrNotFound)

			_, err := service.RecordCompletion(context.Background(), visitId, followups.CompletionUpdate{
				ActualDate: visit.ScheduledDate,
			})
			Expect(err).To(MatchError(errors.NotFound))
		})
	})

	Describe("MarkMissed", func() {
		It("transitions a scheduled visit to missed", func() {
			visit := followupsTest.RandomScheduledVisit()
			missed := *visit
			missed.Status = followups.VisitStatusMissed

			repo.EXPECT().
				Transition(gomock.Any(), gomock.Eq(visit.Id.Hex()), gomock.Eq(followups.TransitionUpdate{
					Status: followups.VisitStatusMissed,
				})).
				Return(&missed, nil)

			result, err := service.MarkMissed(context.Background(), visit.Id.Hex())
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(followups.VisitStatusMissed))
		})
	})

	Describe("Cancel", func() {
		It("rejects an empty cancellation reason", func() {
			_, err := service.Cancel(context.Background(), primitive.NewObjectID().Hex(), "")
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("stores the cancellation reason", func() {
			visit := followupsTest.RandomScheduledVisit()
			reason := "patient moved abroad"
			cancelled := *visit
			cancelled.Status = followups.VisitStatusCancelled
			cancelled.CancellationReason = &reason

			repo.EXPECT().
				Transition(gomock.Any(), gomock.Eq(visit.Id.Hex()), gomock.Eq(followups.TransitionUpdate{
					Status:             followups.VisitStatusCancelled,
					CancellationReason: &reason,
				})).
				Return(&cancelled, nil)

			result, err := service.Cancel(context.Background(), visit.Id.Hex(), reason)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(followups.VisitStatusCancelled))
			Expect(*result.CancellationReason).To(Equal(reason))
		})
	})

	Describe("ComplianceReport", func() {
		It("joins patient attributes before aggregating", func() {
			patient := patientsTest.RandomPatient()
			patientId := patient.Id.Hex()

			schedule := followups.BuildSchedule(patientId, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
			for _, visit := range schedule {
				id := primitive.NewObjectID()
				visit.Id = &id
			}
			schedule[0].Status = followups.VisitStatusCompleted
			schedule[0].ActualDate = pointer.FromAny(schedule[0].ScheduledDate)

			repo.EXPECT().
				List(gomock.Any(), gomock.Nil()).
				Return(schedule, nil)
			patientsRepo.EXPECT().
				List(gomock.Any(), gomock.Eq(&patients.Filter{Ids: []string{patientId}})).
				Return([]*patients.Patient{&patient}, nil)

			now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			summary, err := service.ComplianceReport(context.Background(), now)
			Expect(err).ToNot(HaveOccurred())
			Expect(summary.TotalVisits).To(Equal(14))
			Expect(summary.Completed).To(Equal(1))
			Expect(summary.ByTumorType).To(HaveKey(*patient.TumorType))
			Expect(summary.ByCenter).To(HaveKey(*patient.CenterId))
		})
	})

	Describe("Derived visit state", func() {
		It("reports overdue only for scheduled visits past their date", func() {
			visit := followupsTest.RandomScheduledVisit()
			now := visit.ScheduledDate.AddDate(0, 0, 1)
			Expect(followups.IsOverdue(visit, now)).To(BeTrue())

			completed := *visit
			completed.Status = followups.VisitStatusCompleted
			Expect(followups.IsOverdue(&completed, now)).To(BeFalse())

			Expect(followups.IsOverdue(visit, visit.ScheduledDate.AddDate(0, 0, -1))).To(BeFalse())
		})

		It("counts days until the scheduled date, negative when overdue", func() {
			visit := followupsTest.RandomScheduledVisit()
			Expect(followups.DaysUntil(visit, visit.ScheduledDate.AddDate(0, 0, -10))).To(Equal(10))
			Expect(followups.DaysUntil(visit, visit.ScheduledDate.AddDate(0, 0, 10))).To(Equal(-10))
			Expect(followups.DaysUntil(visit, visit.ScheduledDate)).To(Equal(0))
		})
	})
})
