package followups

import (
	"fmt"
	"time"
)

// ScheduleLength is the number of visits in the follow-up protocol:
// quarterly checks for the first two years, then semi-annual checks
// through year five.
const ScheduleLength = 14

// MonthsAfterTreatment returns the protocol month offset of a visit.
// Visits 1-8 are three months apart, visits 9-14 six months apart
// continuing from the two year mark.
func MonthsAfterTreatment(visitNumber int) int {
	if visitNumber <= 8 {
		return 3 * visitNumber
	}
	return 24 + 6*(visitNumber-8)
}

// VisitTypeForNumber labels a visit by its month offset, e.g. "Month 3".
func VisitTypeForNumber(visitNumber int) string {
	return fmt.Sprintf("Month %d", MonthsAfterTreatment(visitNumber))
}

// BuildSchedule produces the full fourteen visit schedule anchored at the
// treatment completion date. All visits start out scheduled with no actual
// date. The result is deterministic for a given anchor date.
func BuildSchedule(patientId string, treatmentDate time.Time) []*Visit {
	now := time.Now()
	visits := make([]*Visit, 0, ScheduleLength)
	for n := 1; n <= ScheduleLength; n++ {
		visits = append(visits, &Visit{
			PatientId:     patientId,
			VisitNumber:   n,
			VisitType:     VisitTypeForNumber(n),
			ScheduledDate: treatmentDate.AddDate(0, MonthsAfterTreatment(n), 0),
			TreatmentDate: treatmentDate,
			Status:        VisitStatusScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return visits
}
