package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nauticare/internal/services"
	"nauticare/pkg/api"
)

type ReportController struct {
	service services.ReportServiceInterface
	logger  *zap.Logger
}

func NewReportController(service services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{service: service, logger: logger}
}

// GetBillingReport streams the invoice book as an XLSX download.
func (ctrl *ReportController) GetBillingReport(c echo.Context) error {
	file, err := ctrl.service.BuildBillingReport(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	filename := fmt.Sprintf("billing-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := file.Write(c.Response()); err != nil {
		ctrl.logger.Error("failed to stream billing report", zap.Error(err))
		return err
	}
	return nil
}
