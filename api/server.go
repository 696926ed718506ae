package api

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/yoppiari/tumor-registry-sub011/errors"
)

func NewServer(handler *Handler, healthCheck *HealthCheck, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(logger))

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

func RegisterHandlers(e *echo.Echo, handler *Handler) {
	e.POST("/v1/patients/:patientId/visits", handler.GenerateSchedule)
	e.GET("/v1/patients/:patientId/visits", handler.ListPatientVisits)
	e.POST("/v1/visits/:visitId/completion", handler.RecordCompletion)
	e.POST("/v1/visits/:visitId/missed", handler.MarkMissed)
	e.POST("/v1/visits/:visitId/cancellation", handler.CancelVisit)
	e.GET("/v1/visits/compliance", handler.ComplianceReport)

	e.GET("/v1/patients/:patientId/quality", handler.GetQualityScore)
	e.GET("/v1/patients/:patientId/quality/validation", handler.ValidatePatientData)
	e.GET("/v1/patients/:patientId/quality/trends", handler.GetQualityTrends)
	e.GET("/v1/centers/:centerId/quality", handler.GetCenterQualitySummary)
	e.GET("/v1/quality/overview", handler.GetNationalQualityOverview)
}
