package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nauticare/internal/dto"
	"nauticare/internal/services"
	"nauticare/pkg/api"
	apperrors "nauticare/pkg/errors"
	"nauticare/pkg/utils"
)

type RequestController struct {
	service services.RequestServiceInterface
	logger  *zap.Logger
}

func NewRequestController(service services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{service: service, logger: logger}
}

func (ctrl *RequestController) GetRequests(c echo.Context) error {
	filter := utils.ParseRequestFilter(c.QueryParams())

	requests, total, err := ctrl.service.GetRequests(c.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessList(c, "requests retrieved", requests, total, int(filter.Page), int(filter.Limit))
}

func (ctrl *RequestController) FindRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, apperrors.ErrNotFound, ctrl.logger)
	}

	request, err := ctrl.service.FindRequest(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusOK, "request retrieved", request)
}

func (ctrl *RequestController) CreateRequest(c echo.Context) error {
	actor, err := utils.ActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateRequestDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("%v", err), ctrl.logger)
	}

	request, err := ctrl.service.CreateRequest(c.Request().Context(), actor, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusCreated, "request created", request)
}

// AttemptTransition is the one endpoint behind every workflow button.
func (ctrl *RequestController) AttemptTransition(c echo.Context) error {
	actor, err := utils.ActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, apperrors.ErrNotFound, ctrl.logger)
	}

	var payload dto.TransitionRequestDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("%v", err), ctrl.logger)
	}

	request, err := ctrl.service.AttemptTransition(c.Request().Context(), actor, id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusOK, "request transitioned", request)
}

func (ctrl *RequestController) SetUrgency(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, apperrors.ErrNotFound, ctrl.logger)
	}

	var payload dto.SetUrgencyDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("%v", err), ctrl.logger)
	}

	request, err := ctrl.service.SetUrgency(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusOK, "urgency updated", request)
}

func (ctrl *RequestController) GetHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, apperrors.ErrNotFound, ctrl.logger)
	}

	history, err := ctrl.service.GetHistory(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, ctrl.logger)
	}

	return api.SuccessOne(c, http.StatusOK, "history retrieved", history)
}
