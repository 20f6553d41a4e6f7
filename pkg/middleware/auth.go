package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nauticare/internal/workflow"
	"nauticare/pkg/api"
	apperrors "nauticare/pkg/errors"
	"nauticare/pkg/service"
	"nauticare/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth validates the bearer token and places the resulting ActorContext into
// the request context. Everything downstream works off that explicit actor.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return api.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return api.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			return api.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			return api.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}

		role, err := workflow.ParseRole(claims.Role)
		if err != nil {
			m.logger.Warn("token carries unknown role", zap.String("role", claims.Role))
			return api.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}
		actorID, err := uuid.Parse(claims.ActorID)
		if err != nil {
			return api.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}

		actor := workflow.ActorContext{Role: role, ID: actorID}
		c.SetRequest(c.Request().WithContext(utils.WithActor(c.Request().Context(), actor)))

		return next(c)
	}
}
