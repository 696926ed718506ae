package followups

import (
	"fmt"
	"math"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// VisitRecord is a visit joined with the patient attributes the compliance
// breakdowns group by. The aggregator treats them as opaque keys; resolving
// them is the caller's job.
type VisitRecord struct {
	Visit
	TumorType string
	Stage     string
	CenterId  string
}

type VisitNumberStats struct {
	VisitNumber int
	Total       int
	Completed   int
	Rate        int
}

type GroupStats struct {
	Total     int
	Completed int
	Rate      int
}

type CenterStanding struct {
	CenterId  string
	Total     int
	Completed int
	Rate      int
}

// ComplianceSummary is a derived view over the current visit collection.
// It is recomputed on demand and never cached as a source of truth.
type ComplianceSummary struct {
	TotalVisits       int
	Completed         int
	Scheduled         int
	Missed            int
	Cancelled         int
	OverallRate       int
	AvgDaysLate       float64
	LostToFollowUp    int
	ByVisitNumber     []VisitNumberStats
	ByTumorType       map[string]GroupStats
	ByStage           map[string]GroupStats
	ByCenter          map[string]GroupStats
	CenterLeaderboard []CenterStanding
	Warnings          []string
}

const lostToFollowUpMonths = 6

// ComputeCompliance aggregates compliance analytics over a visit collection.
// Pure function of its inputs; calling it twice on the same collection
// yields identical results. An empty collection produces an all-zero
// summary rather than an error.
func ComputeCompliance(records []VisitRecord, now time.Time) ComplianceSummary {
	summary := ComplianceSummary{
		TotalVisits: len(records),
		ByTumorType: make(map[string]GroupStats),
		ByStage:     make(map[string]GroupStats),
		ByCenter:    make(map[string]GroupStats),
	}

	byVisitNumber := make(map[int]*VisitNumberStats, ScheduleLength)
	for n := 1; n <= ScheduleLength; n++ {
		byVisitNumber[n] = &VisitNumberStats{VisitNumber: n}
	}

	var daysLateTotal, overdueCount int
	latestByPatient := make(map[string]time.Time, len(records))

	for i := range records {
		record := &records[i]
		switch record.Status {
		case VisitStatusCompleted:
			summary.Completed++
		case VisitStatusScheduled:
			summary.Scheduled++
		case VisitStatusMissed:
			summary.Missed++
		case VisitStatusCancelled:
			summary.Cancelled++
		}

		if IsOverdue(&record.Visit, now) {
			daysLateTotal += int(math.Ceil(now.Sub(record.ScheduledDate).Hours() / 24))
			overdueCount++
		}

		if stats, ok := byVisitNumber[record.VisitNumber]; ok {
			stats.Total++
			if record.Status == VisitStatusCompleted {
				stats.Completed++
			}
		}

		accumulate(summary.ByTumorType, record.TumorType, record.Status)
		accumulate(summary.ByStage, record.Stage, record.Status)
		accumulate(summary.ByCenter, record.CenterId, record.Status)

		if latest, ok := latestByPatient[record.PatientId]; !ok || record.ScheduledDate.After(latest) {
			latestByPatient[record.PatientId] = record.ScheduledDate
		}
	}

	summary.OverallRate = rate(summary.Completed, summary.TotalVisits)
	if overdueCount > 0 {
		summary.AvgDaysLate = float64(daysLateTotal) / float64(overdueCount)
	}

	// A patient with no visit scheduled inside the trailing six months is
	// counted as lost to follow-up. This deliberately mirrors the historic
	// heuristic even though it conflates long protocol gaps with true loss.
	lost := mapset.NewThreadUnsafeSet[string]()
	cutoff := now.AddDate(0, -lostToFollowUpMonths, 0)
	for patientId, latest := range latestByPatient {
		if latest.Before(cutoff) {
			lost.Add(patientId)
		}
	}
	summary.LostToFollowUp = lost.Cardinality()

	summary.ByVisitNumber = make([]VisitNumberStats, 0, ScheduleLength)
	for n := 1; n <= ScheduleLength; n++ {
		stats := byVisitNumber[n]
		stats.Rate = rate(stats.Completed, stats.Total)
		summary.ByVisitNumber = append(summary.ByVisitNumber, *stats)
	}

	finalizeRates(summary.ByTumorType)
	finalizeRates(summary.ByStage)
	finalizeRates(summary.ByCenter)

	summary.CenterLeaderboard = rankCenters(summary.ByCenter)
	summary.Warnings = consistencyWarnings(&summary)

	return summary
}

func accumulate(groups map[string]GroupStats, key string, status VisitStatus) {
	stats := groups[key]
	stats.Total++
	if status == VisitStatusCompleted {
		stats.Completed++
	}
	groups[key] = stats
}

func finalizeRates(groups map[string]GroupStats) {
	for key, stats := range groups {
		stats.Rate = rate(stats.Completed, stats.Total)
		groups[key] = stats
	}
}

// rankCenters orders centers by compliance rate, breaking ties by volume
// and then by center identifier so the ordering is deterministic.
func rankCenters(byCenter map[string]GroupStats) []CenterStanding {
	standings := make([]CenterStanding, 0, len(byCenter))
	for centerId, stats := range byCenter {
		standings = append(standings, CenterStanding{
			CenterId:  centerId,
			Total:     stats.Total,
			Completed: stats.Completed,
			Rate:      stats.Rate,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Rate != standings[j].Rate {
			return standings[i].Rate > standings[j].Rate
		}
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].CenterId < standings[j].CenterId
	})
	return standings
}

// consistencyWarnings cross-checks the breakdown tables against the overall
// totals. Findings are soft; they are reported, never raised as errors.
func consistencyWarnings(summary *ComplianceSummary) []string {
	var warnings []string

	var visitNumberTotal int
	for _, stats := range summary.ByVisitNumber {
		visitNumberTotal += stats.Total
	}
	if visitNumberTotal != summary.TotalVisits {
		warnings = append(warnings, fmt.Sprintf(
			"visit number breakdown accounts for %d visits, expected %d", visitNumberTotal, summary.TotalVisits))
	}

	for name, groups := range map[string]map[string]GroupStats{
		"tumor type": summary.ByTumorType,
		"stage":      summary.ByStage,
		"center":     summary.ByCenter,
	} {
		var total int
		for _, stats := range groups {
			total += stats.Total
		}
		if total != summary.TotalVisits {
			warnings = append(warnings, fmt.Sprintf(
				"%s breakdown accounts for %d visits, expected %d", name, total, summary.TotalVisits))
		}
	}

	statusTotal := summary.Completed + summary.Scheduled + summary.Missed + summary.Cancelled
	if statusTotal != summary.TotalVisits {
		warnings = append(warnings, fmt.Sprintf(
			"status counts account for %d visits, expected %d", statusTotal, summary.TotalVisits))
	}

	sort.Strings(warnings)
	return warnings
}

func rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
