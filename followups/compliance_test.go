package followups_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yoppiari/tumor-registry-sub011/followups"
)

var _ = Describe("ComputeCompliance", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	})

	record := func(patientId string, status followups.VisitStatus, scheduled time.Time, visitNumber int, center string) followups.VisitRecord {
		return followups.VisitRecord{
			Visit: followups.Visit{
				PatientId:     patientId,
				VisitNumber:   visitNumber,
				VisitType:     followups.VisitTypeForNumber(visitNumber),
				ScheduledDate: scheduled,
				Status:        status,
			},
			TumorType: "osteosarcoma",
			Stage:     "IIB",
			CenterId:  center,
		}
	}

	It("returns an all-zero summary for an empty collection", func() {
		summary := followups.ComputeCompliance(nil, now)
		Expect(summary.TotalVisits).To(Equal(0))
		Expect(summary.OverallRate).To(Equal(0))
		Expect(summary.AvgDaysLate).To(Equal(0.0))
		Expect(summary.LostToFollowUp).To(Equal(0))
		Expect(summary.ByVisitNumber).To(HaveLen(14))
		Expect(summary.CenterLeaderboard).To(BeEmpty())
		Expect(summary.Warnings).To(BeEmpty())
	})

	It("computes the overall completion rate", func() {
		var records []followups.VisitRecord
		future := now.AddDate(0, 1, 0)
		for i := 0; i < 7; i++ {
			records = append(records, record("p1", followups.VisitStatusCompleted, future, i+1, "center-a"))
		}
		for i := 7; i < 10; i++ {
			records = append(records, record("p1", followups.VisitStatusScheduled, future, i+1, "center-a"))
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.TotalVisits).To(Equal(10))
		Expect(summary.Completed).To(Equal(7))
		Expect(summary.Scheduled).To(Equal(3))
		Expect(summary.OverallRate).To(Equal(70))
		Expect(summary.AvgDaysLate).To(Equal(0.0))
	})

	It("averages lateness over overdue visits only", func() {
		records := []followups.VisitRecord{
			record("p1", followups.VisitStatusScheduled, now.AddDate(0, 0, -10), 1, "center-a"),
			record("p1", followups.VisitStatusScheduled, now.AddDate(0, 0, -20), 2, "center-a"),
			record("p1", followups.VisitStatusScheduled, now.AddDate(0, 0, 30), 3, "center-a"),
			record("p2", followups.VisitStatusCompleted, now.AddDate(0, 0, -40), 1, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.AvgDaysLate).To(Equal(15.0))
	})

	It("rounds fractional lateness up to whole days", func() {
		records := []followups.VisitRecord{
			record("p1", followups.VisitStatusScheduled, now.Add(-36*time.Hour), 1, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.AvgDaysLate).To(Equal(2.0))
	})

	It("counts patients without a recent visit as lost to follow-up", func() {
		records := []followups.VisitRecord{
			// Latest visit seven months ago.
			record("lost", followups.VisitStatusCompleted, now.AddDate(0, -9, 0), 1, "center-a"),
			record("lost", followups.VisitStatusMissed, now.AddDate(0, -7, 0), 2, "center-a"),
			// Visit scheduled one month ago.
			record("active", followups.VisitStatusScheduled, now.AddDate(0, -1, 0), 1, "center-a"),
			// Upcoming visit keeps the patient active.
			record("upcoming", followups.VisitStatusScheduled, now.AddDate(0, 2, 0), 1, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.LostToFollowUp).To(Equal(1))
	})

	It("breaks results down per visit number across all fourteen slots", func() {
		records := []followups.VisitRecord{
			record("p1", followups.VisitStatusCompleted, now, 1, "center-a"),
			record("p2", followups.VisitStatusScheduled, now.AddDate(0, 1, 0), 1, "center-a"),
			record("p1", followups.VisitStatusCompleted, now, 5, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.ByVisitNumber).To(HaveLen(14))
		Expect(summary.ByVisitNumber[0]).To(Equal(followups.VisitNumberStats{
			VisitNumber: 1, Total: 2, Completed: 1, Rate: 50,
		}))
		Expect(summary.ByVisitNumber[4]).To(Equal(followups.VisitNumberStats{
			VisitNumber: 5, Total: 1, Completed: 1, Rate: 100,
		}))
		Expect(summary.ByVisitNumber[13].Total).To(Equal(0))
		Expect(summary.ByVisitNumber[13].Rate).To(Equal(0))
	})

	It("ranks centers by rate, volume, then identifier", func() {
		future := now.AddDate(0, 1, 0)
		records := []followups.VisitRecord{
			// center-b: 2/2 completed.
			record("p1", followups.VisitStatusCompleted, future, 1, "center-b"),
			record("p1", followups.VisitStatusCompleted, future, 2, "center-b"),
			// center-c: 3/3 completed, higher volume wins the tie on rate.
			record("p2", followups.VisitStatusCompleted, future, 1, "center-c"),
			record("p2", followups.VisitStatusCompleted, future, 2, "center-c"),
			record("p2", followups.VisitStatusCompleted, future, 3, "center-c"),
			// center-a: 1/2 completed.
			record("p3", followups.VisitStatusCompleted, future, 1, "center-a"),
			record("p3", followups.VisitStatusScheduled, future, 2, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.CenterLeaderboard).To(HaveLen(3))
		Expect(summary.CenterLeaderboard[0].CenterId).To(Equal("center-c"))
		Expect(summary.CenterLeaderboard[1].CenterId).To(Equal("center-b"))
		Expect(summary.CenterLeaderboard[2].CenterId).To(Equal("center-a"))
		Expect(summary.CenterLeaderboard[2].Rate).To(Equal(50))
	})

	It("is a pure function of its inputs", func() {
		records := []followups.VisitRecord{
			record("p1", followups.VisitStatusCompleted, now.AddDate(0, -2, 0), 1, "center-a"),
			record("p1", followups.VisitStatusScheduled, now.AddDate(0, 0, -3), 2, "center-b"),
			record("p2", followups.VisitStatusMissed, now.AddDate(0, -8, 0), 1, "center-a"),
		}

		first := followups.ComputeCompliance(records, now)
		second := followups.ComputeCompliance(records, now)
		Expect(second).To(Equal(first))
	})

	It("never reports aggregation inconsistencies for a well-formed collection", func() {
		records := []followups.VisitRecord{
			record("p1", followups.VisitStatusCompleted, now, 1, "center-a"),
			record("p1", followups.VisitStatusCancelled, now, 2, "center-a"),
		}

		summary := followups.ComputeCompliance(records, now)
		Expect(summary.Warnings).To(BeEmpty())
	})
})
