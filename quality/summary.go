package quality

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	// nationalSampleSize bounds the national overview to the most recent
	// snapshots instead of rescoring the whole registry.
	nationalSampleSize = 1000

	trailingWeeks          = 12
	topRecommendationCount = 5

	highQualityThreshold   = 90
	mediumQualityThreshold = 70
)

// SummarizeCenter derives the center level rollup from freshly computed
// patient reports.
func SummarizeCenter(centerId string, reports []*Report) CenterSummary {
	summary := CenterSummary{
		CenterId:           centerId,
		PatientCount:       len(reports),
		TopRecommendations: []RecommendationFrequency{},
	}
	if len(reports) == 0 {
		return summary
	}

	var scoreTotal int
	recommendationCounts := make(map[string]int)
	for _, report := range reports {
		scoreTotal += report.Score
		switch {
		case report.Score >= highQualityThreshold:
			summary.HighQuality++
		case report.Score >= mediumQualityThreshold:
			summary.MediumQuality++
		default:
			summary.LowQuality++
		}
		for _, recommendation := range report.Recommendations {
			recommendationCounts[recommendation.Field]++
		}
	}
	summary.AverageScore = float64(scoreTotal) / float64(len(reports))

	frequencies := make([]RecommendationFrequency, 0, len(recommendationCounts))
	for field, count := range recommendationCounts {
		frequencies = append(frequencies, RecommendationFrequency{
			Field:      field,
			Count:      count,
			Percentage: 100 * float64(count) / float64(len(reports)),
		})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].Field < frequencies[j].Field
	})
	if len(frequencies) > topRecommendationCount {
		frequencies = frequencies[:topRecommendationCount]
	}
	summary.TopRecommendations = frequencies

	return summary
}

// SummarizeNational rolls the snapshot sample up into an overall average and
// the trailing twelve weekly buckets.
func SummarizeNational(snapshots []*Snapshot) NationalOverview {
	overview := NationalOverview{
		SnapshotCount: len(snapshots),
		WeeklyTrend:   []WeeklyBucket{},
	}
	if len(snapshots) == 0 {
		return overview
	}

	var scoreTotal int
	type weekKey struct {
		year int
		week int
	}
	type weekAccumulator struct {
		scoreTotal int
		count      int
		min        int
		max        int
		patients   mapset.Set[string]
	}
	buckets := make(map[weekKey]*weekAccumulator)

	for _, snapshot := range snapshots {
		scoreTotal += snapshot.Score

		key := weekKey{
			year: snapshot.CreatedAt.Year(),
			week: WeekNumber(snapshot.CreatedAt),
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &weekAccumulator{
				min:      snapshot.Score,
				max:      snapshot.Score,
				patients: mapset.NewThreadUnsafeSet[string](),
			}
			buckets[key] = bucket
		}
		bucket.scoreTotal += snapshot.Score
		bucket.count++
		if snapshot.Score < bucket.min {
			bucket.min = snapshot.Score
		}
		if snapshot.Score > bucket.max {
			bucket.max = snapshot.Score
		}
		bucket.patients.Add(snapshot.PatientId)
	}
	overview.AverageScore = float64(scoreTotal) / float64(len(snapshots))

	keys := make([]weekKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})
	if len(keys) > trailingWeeks {
		keys = keys[len(keys)-trailingWeeks:]
	}

	for _, key := range keys {
		bucket := buckets[key]
		overview.WeeklyTrend = append(overview.WeeklyTrend, WeeklyBucket{
			Year:         key.year,
			Week:         key.week,
			AverageScore: float64(bucket.scoreTotal) / float64(bucket.count),
			PatientCount: bucket.patients.Cardinality(),
			MinScore:     bucket.min,
			MaxScore:     bucket.max,
		})
	}

	return overview
}

// WeekNumber buckets a date into a week of its year, counting partial first
// weeks: ceil((dayOfYear + weekdayOfJan1) / 7).
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return (t.YearDay() + int(jan1.Weekday()) + 6) / 7
}
