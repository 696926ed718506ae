package followups_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yoppiari/tumor-registry-sub011/followups"
)

var _ = Describe("BuildSchedule", func() {
	var patientId string
	var treatmentDate time.Time
	var schedule []*followups.Visit

	BeforeEach(func() {
		patientId = "patient-1"
		treatmentDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
		schedule = followups.BuildSchedule(patientId, treatmentDate)
	})

	It("produces exactly fourteen visits", func() {
		Expect(schedule).To(HaveLen(14))
	})

	It("numbers the visits one through fourteen", func() {
		for i, visit := range schedule {
			Expect(visit.VisitNumber).To(Equal(i + 1))
		}
	})

	It("schedules quarterly visits for the first two years", func() {
		Expect(schedule[0].ScheduledDate).To(Equal(treatmentDate.AddDate(0, 3, 0)))
		Expect(schedule[7].ScheduledDate).To(Equal(treatmentDate.AddDate(0, 24, 0)))
	})

	It("schedules semi-annual visits after the two year mark", func() {
		Expect(schedule[8].ScheduledDate).To(Equal(treatmentDate.AddDate(0, 30, 0)))
		Expect(schedule[13].ScheduledDate).To(Equal(treatmentDate.AddDate(0, 60, 0)))
	})

	It("produces strictly increasing scheduled dates", func() {
		for i := 1; i < len(schedule); i++ {
			Expect(schedule[i].ScheduledDate.After(schedule[i-1].ScheduledDate)).To(BeTrue())
		}
	})

	It("labels visits by their month offset", func() {
		Expect(schedule[0].VisitType).To(Equal("Month 3"))
		Expect(schedule[7].VisitType).To(Equal("Month 24"))
		Expect(schedule[8].VisitType).To(Equal("Month 30"))
		Expect(schedule[13].VisitType).To(Equal("Month 60"))
	})

	It("creates every visit as scheduled with no actual date", func() {
		for _, visit := range schedule {
			Expect(visit.Status).To(Equal(followups.VisitStatusScheduled))
			Expect(visit.ActualDate).To(BeNil())
			Expect(visit.PatientId).To(Equal(patientId))
			Expect(visit.TreatmentDate).To(Equal(treatmentDate))
		}
	})

	It("is deterministic for a given anchor date", func() {
		again := followups.BuildSchedule(patientId, treatmentDate)
		for i := range schedule {
			Expect(again[i].ScheduledDate).To(Equal(schedule[i].ScheduledDate))
			Expect(again[i].VisitType).To(Equal(schedule[i].VisitType))
		}
	})
})
