package quality

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/yoppiari/tumor-registry-sub011/patients"
)

// Rubric weights. The subtotals sum to exactly 100.
const (
	requiredFieldPoints   = 8  // x5 fields = 40
	tumorTypePoints       = 10
	stagePoints           = 8
	medicalHistoryPoints  = 7
	familyHistoryPoints   = 5
	previousTreatPoints   = 5
	imagingFullPoints     = 15
	imagingPerImagePoints = 5
	treatmentFullPoints   = 10
	treatmentPartPoints   = 5
)

var idNumberPattern = regexp.MustCompile(`^\d{16}$`)

// ScorePatient evaluates the completeness rubric for a single patient
// record. Pure function; persistence of the resulting snapshot is the
// service's concern.
func ScorePatient(patient *patients.Patient) *Report {
	report := &Report{
		ImageCount: len(patient.Images),
	}
	if patient.Id != nil {
		report.PatientId = patient.Id.Hex()
	}

	var presentTracked int

	requiredFields := []struct {
		name    string
		present bool
	}{
		{"name", presentString(patient.Name)},
		{"idNumber", presentString(patient.IdNumber)},
		{"birthDate", presentTime(patient.BirthDate)},
		{"gender", presentString(patient.Gender)},
		{"diagnosisDate", presentTime(patient.DiagnosisDate)},
	}
	var requiredPresent int
	for _, field := range requiredFields {
		if field.present {
			requiredPresent++
			presentTracked++
			continue
		}
		report.recommend(field.name, fmt.Sprintf("complete the required field %q", field.name), PriorityHigh)
	}
	requiredScore := requiredFieldPoints * requiredPresent

	medicalFields := []struct {
		name    string
		present bool
		points  int
	}{
		{"tumorType", presentString(patient.TumorType), tumorTypePoints},
		{"stage", presentString(patient.Stage), stagePoints},
		{"medicalHistory", presentString(patient.MedicalHistory), medicalHistoryPoints},
	}
	var medicalScore, medicalPresent int
	for _, field := range medicalFields {
		if field.present {
			medicalScore += field.points
			medicalPresent++
			presentTracked++
			continue
		}
		report.recommend(field.name, fmt.Sprintf("document the %s", field.name), PriorityMedium)
	}

	var bonus int
	if presentString(patient.FamilyHistory) {
		bonus += familyHistoryPoints
		presentTracked++
	} else {
		report.recommend("familyHistory", "record the family cancer history", PriorityLow)
	}
	if presentString(patient.PreviousTreatments) {
		bonus += previousTreatPoints
		presentTracked++
	} else {
		report.recommend("previousTreatments", "record treatments received before enrollment", PriorityMedium)
	}

	switch {
	case report.ImageCount >= 3:
		bonus += imagingFullPoints
	case report.ImageCount >= 1:
		bonus += imagingPerImagePoints * report.ImageCount
		report.recommend("images", "add more imaging studies to reach at least three", PriorityMedium)
	default:
		report.recommend("images", "upload imaging studies for this patient", PriorityHigh)
	}

	switch treatmentState(patient) {
	case treatmentComplete:
		bonus += treatmentFullPoints
	case treatmentIncomplete:
		bonus += treatmentPartPoints
		report.recommend("treatments", "complete the treatment plan and start date", PriorityHigh)
	default:
		report.recommend("treatments", "create treatment plan", PriorityHigh)
	}

	// The rubric cannot exceed 100 by construction; the clamp is a safety
	// invariant.
	report.Score = clamp(requiredScore+medicalScore+bonus, 0, 100)
	report.Category = CategoryForScore(report.Score)
	report.RequiredCompleteness = percent(requiredPresent, len(requiredFields))
	report.MedicalCompleteness = percent(medicalPresent, len(medicalFields))
	report.Completeness = percent(presentTracked, len(requiredFields)+len(medicalFields)+2)

	return report
}

// ValidatePatient runs the structural correctness checks. Warnings never
// affect validity; only hard errors do.
func ValidatePatient(patient *patients.Patient, now time.Time) *ValidationResult {
	result := &ValidationResult{}

	requiredFields := []struct {
		name    string
		present bool
	}{
		{"name", presentString(patient.Name)},
		{"idNumber", presentString(patient.IdNumber)},
		{"birthDate", presentTime(patient.BirthDate)},
		{"gender", presentString(patient.Gender)},
		{"diagnosisDate", presentTime(patient.DiagnosisDate)},
	}
	for _, field := range requiredFields {
		if !field.present {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is required", field.name))
		}
	}

	if presentString(patient.IdNumber) && !idNumberPattern.MatchString(*patient.IdNumber) {
		result.Warnings = append(result.Warnings, "id number does not match the 16 digit format")
	}

	if presentTime(patient.BirthDate) {
		if patient.BirthDate.After(now) {
			result.Errors = append(result.Errors, "birth date is in the future")
		}
		if presentTime(patient.DiagnosisDate) && patient.BirthDate.After(*patient.DiagnosisDate) {
			result.Errors = append(result.Errors, "birth date is after the diagnosis date")
		}
	}

	if presentTime(patient.DiagnosisDate) && patient.DiagnosisDate.After(now) {
		result.Warnings = append(result.Warnings, "diagnosis date is in the future")
	}

	if presentTime(patient.BirthDate) && presentTime(patient.DiagnosisDate) {
		age := ageInYears(*patient.BirthDate, *patient.DiagnosisDate)
		if age < 0 || age > 120 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("age at diagnosis (%d) is outside the plausible range", age))
		}
	}

	if presentString(patient.Stage) && !presentString(patient.TumorType) {
		result.Warnings = append(result.Warnings, "stage is recorded without a tumor type")
	}

	if !patient.HasDicomImage() {
		result.Warnings = append(result.Warnings, "no DICOM imaging study is attached")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

type treatmentCompleteness int

const (
	treatmentMissing treatmentCompleteness = iota
	treatmentIncomplete
	treatmentComplete
)

func treatmentState(patient *patients.Patient) treatmentCompleteness {
	if len(patient.Treatments) == 0 {
		return treatmentMissing
	}
	for _, treatment := range patient.Treatments {
		if presentString(treatment.Plan) && presentTime(treatment.StartDate) {
			return treatmentComplete
		}
	}
	return treatmentIncomplete
}

func (r *Report) recommend(field, message string, priority Priority) {
	r.Recommendations = append(r.Recommendations, Recommendation{
		Field:    field,
		Message:  message,
		Priority: priority,
	})
}

func ageInYears(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.YearDay() < birth.YearDay() {
		years--
	}
	return years
}

func presentString(value *string) bool {
	return value != nil && *value != ""
}

func presentTime(value *time.Time) bool {
	return value != nil && !value.IsZero()
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
