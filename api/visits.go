package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yoppiari/tumor-registry-sub011/errors"
	"github.com/yoppiari/tumor-registry-sub011/followups"
)

const dateLayout = "2006-01-02"

type GenerateScheduleRequest struct {
	TreatmentCompletionDate string `json:"treatmentCompletionDate"`
}

type RecordCompletionRequest struct {
	ActualDate        string  `json:"actualDate"`
	ClinicalStatus    *string `json:"clinicalStatus,omitempty"`
	LocalRecurrence   *bool   `json:"localRecurrence,omitempty"`
	DistantMetastasis *bool   `json:"distantMetastasis,omitempty"`
}

type CancelVisitRequest struct {
	Reason string `json:"reason"`
}

type VisitDto struct {
	Id                string     `json:"id"`
	PatientId         string     `json:"patientId"`
	VisitNumber       int        `json:"visitNumber"`
	VisitType         string     `json:"visitType"`
	ScheduledDate     string     `json:"scheduledDate"`
	ActualDate        *string    `json:"actualDate,omitempty"`
	Status            string     `json:"status"`
	ClinicalStatus    *string    `json:"clinicalStatus,omitempty"`
	LocalRecurrence   *bool      `json:"localRecurrence,omitempty"`
	DistantMetastasis *bool      `json:"distantMetastasis,omitempty"`
	Overdue           bool       `json:"overdue"`
	DaysUntil         int        `json:"daysUntil"`
}

// POST /v1/patients/:patientId/visits
func (h *Handler) GenerateSchedule(c echo.Context) error {
	patientId := c.Param("patientId")

	req := GenerateScheduleRequest{}
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", errors.BadRequest)
	}
	treatmentDate, err := parseDate(req.TreatmentCompletionDate)
	if err != nil {
		return fmt.Errorf("%w: invalid treatment completion date", errors.BadRequest)
	}

	visits, err := h.followUps.GenerateSchedule(c.Request().Context(), patientId, treatmentDate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newVisitDtos(visits, time.Now()))
}

// GET /v1/patients/:patientId/visits
func (h *Handler) ListPatientVisits(c echo.Context) error {
	visits, err := h.followUps.GetPatientVisits(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newVisitDtos(visits, time.Now()))
}

// POST /v1/visits/:visitId/completion
func (h *Handler) RecordCompletion(c echo.Context) error {
	req := RecordCompletionRequest{}
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", errors.BadRequest)
	}
	actualDate, err := parseDate(req.ActualDate)
	if err != nil {
		return fmt.Errorf("%w: invalid actual date", errors.BadRequest)
	}

	update := followups.CompletionUpdate{
		ActualDate:        actualDate,
		LocalRecurrence:   req.LocalRecurrence,
		DistantMetastasis: req.DistantMetastasis,
	}
	if req.ClinicalStatus != nil {
		status := followups.ClinicalStatus(*req.ClinicalStatus)
		update.ClinicalStatus = &status
	}

	visit, err := h.followUps.RecordCompletion(c.Request().Context(), c.Param("visitId"), update)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newVisitDto(visit, time.Now()))
}

// POST /v1/visits/:visitId/missed
func (h *Handler) MarkMissed(c echo.Context) error {
	visit, err := h.followUps.MarkMissed(c.Request().Context(), c.Param("visitId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newVisitDto(visit, time.Now()))
}

// POST /v1/visits/:visitId/cancellation
func (h *Handler) CancelVisit(c echo.Context) error {
	req := CancelVisitRequest{}
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", errors.BadRequest)
	}

	visit, err := h.followUps.Cancel(c.Request().Context(), c.Param("visitId"), req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newVisitDto(visit, time.Now()))
}

// GET /v1/visits/compliance
func (h *Handler) ComplianceReport(c echo.Context) error {
	summary, err := h.followUps.ComplianceReport(c.Request().Context(), time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func newVisitDtos(visits []*followups.Visit, now time.Time) []VisitDto {
	dtos := make([]VisitDto, 0, len(visits))
	for _, visit := range visits {
		dtos = append(dtos, newVisitDto(visit, now))
	}
	return dtos
}

func newVisitDto(visit *followups.Visit, now time.Time) VisitDto {
	dto := VisitDto{
		PatientId:         visit.PatientId,
		VisitNumber:       visit.VisitNumber,
		VisitType:         visit.VisitType,
		ScheduledDate:     visit.ScheduledDate.Format(dateLayout),
		Status:            string(visit.Status),
		LocalRecurrence:   visit.LocalRecurrence,
		DistantMetastasis: visit.DistantMetastasis,
		Overdue:           followups.IsOverdue(visit, now),
		DaysUntil:         followups.DaysUntil(visit, now),
	}
	if visit.Id != nil {
		dto.Id = visit.Id.Hex()
	}
	if visit.ActualDate != nil {
		actual := visit.ActualDate.Format(dateLayout)
		dto.ActualDate = &actual
	}
	if visit.ClinicalStatus != nil {
		status := string(*visit.ClinicalStatus)
		dto.ClinicalStatus = &status
	}
	return dto
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}
