package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yoppiari/tumor-registry-sub011/errors"
)

const defaultTrendDays = 90

// GET /v1/patients/:patientId/quality
func (h *Handler) GetQualityScore(c echo.Context) error {
	report, err := h.quality.CalculateQualityScore(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

// GET /v1/patients/:patientId/quality/validation
func (h *Handler) ValidatePatientData(c echo.Context) error {
	result, err := h.quality.ValidatePatientData(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GET /v1/patients/:patientId/quality/trends?days=90
func (h *Handler) GetQualityTrends(c echo.Context) error {
	days := defaultTrendDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid days parameter", errors.BadRequest)
		}
		days = parsed
	}

	snapshots, err := h.quality.GetQualityTrends(c.Request().Context(), c.Param("patientId"), days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snapshots)
}

// GET /v1/centers/:centerId/quality
func (h *Handler) GetCenterQualitySummary(c echo.Context) error {
	summary, err := h.quality.GetCenterQualitySummary(c.Request().Context(), c.Param("centerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// GET /v1/quality/overview
func (h *Handler) GetNationalQualityOverview(c echo.Context) error {
	overview, err := h.quality.GetNationalQualityOverview(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, overview)
}
