package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nauticare/internal/services"
	"nauticare/pkg/api"
	"nauticare/pkg/utils"
)

type SummaryController struct {
	service services.SummaryServiceInterface
	logger  *zap.Logger
}

func NewSummaryController(service services.SummaryServiceInterface, logger *zap.Logger) *SummaryController {
	return &SummaryController{service: service, logger: logger}
}

func (ctrl *SummaryController) GetSummary(c echo.Context) error {
	filter := utils.ParseRequestFilter(c.QueryParams())

	summary, err := ctrl.service.GetSummary(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusOK, "summary computed", summary)
}
